package service

import (
	"context"
	"errors"
	"testing"

	"curator/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMechanism records invocations and answers with a fixed claim decision
type stubMechanism struct {
	calls   int
	claimed bool
	outcome models.Outcome
	err     error
}

func (s *stubMechanism) onReaction(_ context.Context, _ ReactionEvent) (models.Outcome, bool, error) {
	s.calls++
	return s.outcome, s.claimed, s.err
}

func (s *stubMechanism) onButton(_ context.Context, _ ComponentEvent) (models.Outcome, bool, error) {
	s.calls++
	return s.outcome, s.claimed, s.err
}

func newStubDispatcher(bindings, polls, suggestions *stubMechanism) *Dispatcher {
	return &Dispatcher{
		reactionMechanisms: []reactionMechanism{
			{name: "reaction_role", handler: bindings.onReaction},
			{name: "poll", handler: polls.onReaction},
			{name: "suggestion", handler: suggestions.onReaction},
		},
	}
}

func TestDispatcher_FirstClaimStopsProbing(t *testing.T) {
	ctx := context.Background()
	bindings := &stubMechanism{claimed: true, outcome: models.Applied("role granted")}
	polls := &stubMechanism{}
	suggestions := &stubMechanism{}
	dispatcher := newStubDispatcher(bindings, polls, suggestions)

	outcome, err := dispatcher.DispatchReaction(ctx, ReactionEvent{MessageID: 30, Emoji: "🔵", Kind: EventKindAdd})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApplied, outcome.Status)
	assert.Equal(t, 1, bindings.calls)
	assert.Zero(t, polls.calls)
	assert.Zero(t, suggestions.calls)
}

func TestDispatcher_ProbesInPriorityOrder(t *testing.T) {
	ctx := context.Background()
	bindings := &stubMechanism{outcome: models.Skipped("no binding for message")}
	polls := &stubMechanism{outcome: models.Skipped("no poll for message")}
	suggestions := &stubMechanism{claimed: true, outcome: models.Applied("vote counts updated")}
	dispatcher := newStubDispatcher(bindings, polls, suggestions)

	outcome, err := dispatcher.DispatchReaction(ctx, ReactionEvent{MessageID: 30, Emoji: "👍", Kind: EventKindAdd})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApplied, outcome.Status)
	assert.Equal(t, 1, bindings.calls)
	assert.Equal(t, 1, polls.calls)
	assert.Equal(t, 1, suggestions.calls)
}

func TestDispatcher_UnclaimedReactionIsNoOp(t *testing.T) {
	ctx := context.Background()
	bindings := &stubMechanism{}
	polls := &stubMechanism{}
	suggestions := &stubMechanism{}
	dispatcher := newStubDispatcher(bindings, polls, suggestions)

	outcome, err := dispatcher.DispatchReaction(ctx, ReactionEvent{MessageID: 99, Emoji: "👍", Kind: EventKindAdd})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
	assert.Equal(t, 1, suggestions.calls)
}

func TestDispatcher_MechanismErrorStopsChain(t *testing.T) {
	ctx := context.Background()
	bindings := &stubMechanism{err: errors.New("database down")}
	polls := &stubMechanism{}
	suggestions := &stubMechanism{}
	dispatcher := newStubDispatcher(bindings, polls, suggestions)

	_, err := dispatcher.DispatchReaction(ctx, ReactionEvent{MessageID: 30, Emoji: "🔵", Kind: EventKindAdd})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reaction_role mechanism failed")
	assert.Zero(t, polls.calls)
}

func TestDispatcher_ComponentRoutesByNamespace(t *testing.T) {
	ctx := context.Background()
	giveaways := &stubMechanism{claimed: true, outcome: models.Applied("entry added")}
	dispatcher := &Dispatcher{
		buttonRoutes: map[string]buttonHandler{
			GiveawayButtonNamespace: giveaways.onButton,
		},
	}

	outcome, err := dispatcher.DispatchComponent(ctx, ComponentEvent{
		MessageID: 30, ActorID: 7,
		CustomID: BuildCustomID(GiveawayButtonNamespace, "enter"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApplied, outcome.Status)
	assert.Equal(t, 1, giveaways.calls)
}

func TestDispatcher_ComponentUnknownNamespaceIsNoOp(t *testing.T) {
	ctx := context.Background()
	giveaways := &stubMechanism{claimed: true, outcome: models.Applied("entry added")}
	dispatcher := &Dispatcher{
		buttonRoutes: map[string]buttonHandler{
			GiveawayButtonNamespace: giveaways.onButton,
		},
	}

	outcome, err := dispatcher.DispatchComponent(ctx, ComponentEvent{
		MessageID: 30, ActorID: 7,
		CustomID: "ticket:open",
	})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
	assert.Zero(t, giveaways.calls)
}

func TestBuildCustomID(t *testing.T) {
	assert.Equal(t, "giveaway:enter:5", BuildCustomID(GiveawayButtonNamespace, "enter", "5"))
	assert.Equal(t, "giveaway", BuildCustomID(GiveawayButtonNamespace))
}
