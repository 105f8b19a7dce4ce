package models

import (
	"time"
)

// SuggestionStatus represents the lifecycle state of a suggestion
type SuggestionStatus string

const (
	SuggestionStatusPending  SuggestionStatus = "pending"
	SuggestionStatusApproved SuggestionStatus = "approved"
	SuggestionStatusDenied   SuggestionStatus = "denied"
	SuggestionStatusExpired  SuggestionStatus = "expired"
)

// SystemReviewer is recorded as the reviewer when a suggestion is resolved
// automatically (threshold crossing or expiry sweep) rather than by a person.
const SystemReviewer = "system"

// Suggestion represents a community suggestion voted on through reactions.
// Upvotes and Downvotes are snapshots recomputed from the live reaction
// aggregates minus the bot's own seed reactions.
type Suggestion struct {
	ID         int64            `db:"id"`
	GuildID    int64            `db:"guild_id"`
	ChannelID  int64            `db:"channel_id"`
	MessageID  int64            `db:"message_id"`
	AuthorID   int64            `db:"author_id"`
	Content    string           `db:"content"`
	Status     SuggestionStatus `db:"status"`
	Upvotes    int              `db:"upvotes"`
	Downvotes  int              `db:"downvotes"`
	ExpiresAt  time.Time        `db:"expires_at"`
	ReviewedAt *time.Time       `db:"reviewed_at"`
	ReviewedBy *string          `db:"reviewed_by"`
	CreatedAt  time.Time        `db:"created_at"`
}

// IsPending reports whether the suggestion can still be resolved
func (s *Suggestion) IsPending() bool {
	return s.Status == SuggestionStatusPending
}

// IsTerminal reports whether the suggestion has reached a final state
func (s *Suggestion) IsTerminal() bool {
	return s.Status != SuggestionStatusPending
}

// IsExpiredAt reports whether the suggestion's expiry deadline has passed
func (s *Suggestion) IsExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// DecidingVotes returns the vote count that decided the terminal state
func (s *Suggestion) DecidingVotes() int {
	switch s.Status {
	case SuggestionStatusDenied:
		return s.Downvotes
	default:
		return s.Upvotes
	}
}
