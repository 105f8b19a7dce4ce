package models

// OutcomeStatus classifies the result of handling a single inbound event
type OutcomeStatus string

const (
	// OutcomeApplied means the mechanism claimed the event and changed state
	OutcomeApplied OutcomeStatus = "applied"
	// OutcomeSkipped means the event matched no mechanism or required no change
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomeRejected means the target is in a terminal state ("already finished")
	OutcomeRejected OutcomeStatus = "rejected"
)

// Outcome is the structured result of dispatching an event, so callers and
// tests can assert on what happened instead of parsing log output. Store
// failures are reported through the error return alongside the Outcome.
type Outcome struct {
	Status OutcomeStatus
	Detail string
}

// Applied constructs an applied outcome
func Applied(detail string) Outcome {
	return Outcome{Status: OutcomeApplied, Detail: detail}
}

// Skipped constructs a skipped outcome
func Skipped(detail string) Outcome {
	return Outcome{Status: OutcomeSkipped, Detail: detail}
}

// Rejected constructs a rejected outcome
func Rejected(detail string) Outcome {
	return Outcome{Status: OutcomeRejected, Detail: detail}
}
