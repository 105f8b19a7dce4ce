package events

import (
	"context"
	"sync"

	"curator/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePollTallyChanged       EventType = "poll_tally_changed"
	EventTypeSuggestionVotesChanged EventType = "suggestion_votes_changed"
	EventTypeSuggestionResolved     EventType = "suggestion_resolved"
	EventTypeGiveawayEntriesChanged EventType = "giveaway_entries_changed"
	EventTypeGiveawayEnded          EventType = "giveaway_ended"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PollTallyChangedEvent is emitted after a poll's vote snapshots have been
// reconciled against the platform reaction aggregates
type PollTallyChangedEvent struct {
	PollID    int64
	GuildID   int64
	ChannelID int64
	MessageID int64
}

func (e PollTallyChangedEvent) Type() EventType {
	return EventTypePollTallyChanged
}

// SuggestionVotesChangedEvent is emitted after a suggestion's vote counts
// have been recomputed without crossing a resolution threshold
type SuggestionVotesChangedEvent struct {
	SuggestionID int64
	GuildID      int64
	ChannelID    int64
	MessageID    int64
	Upvotes      int
	Downvotes    int
}

func (e SuggestionVotesChangedEvent) Type() EventType {
	return EventTypeSuggestionVotesChanged
}

// SuggestionResolvedEvent is emitted exactly once per suggestion, when the
// guarded status write lands
type SuggestionResolvedEvent struct {
	SuggestionID  int64
	GuildID       int64
	ChannelID     int64
	MessageID     int64
	Status        models.SuggestionStatus
	DecidingVotes int
}

func (e SuggestionResolvedEvent) Type() EventType {
	return EventTypeSuggestionResolved
}

// GiveawayEntriesChangedEvent is emitted after an entry toggle, carrying a
// fresh participant count
type GiveawayEntriesChangedEvent struct {
	GiveawayID int64
	GuildID    int64
	ChannelID  int64
	MessageID  int64
	Entries    int
}

func (e GiveawayEntriesChangedEvent) Type() EventType {
	return EventTypeGiveawayEntriesChanged
}

// GiveawayEndedEvent is emitted when a giveaway is ended and winners drawn.
// Entries is the final participant count at the moment of the draw.
type GiveawayEndedEvent struct {
	GiveawayID int64
	GuildID    int64
	ChannelID  int64
	MessageID  int64
	Entries    int
	WinnerIDs  []int64
}

func (e GiveawayEndedEvent) Type() EventType {
	return EventTypeGiveawayEnded
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the emitter
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after a successful commit.
// Events run on a background context, independent of the transaction's.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
