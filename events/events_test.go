package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionalBusFlushDeliversToSubscribers(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	received := make(chan PollTallyChangedEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	mainBus.Subscribe(EventTypePollTallyChanged, func(ctx context.Context, event Event) {
		defer wg.Done()
		if tallyEvent, ok := event.(PollTallyChangedEvent); ok {
			select {
			case received <- tallyEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected PollTallyChangedEvent, got %T", event)
		}
	})

	testEvent := PollTallyChangedEvent{
		PollID:    1,
		GuildID:   10,
		ChannelID: 20,
		MessageID: 30,
	}

	transactionalBus.Publish(testEvent)

	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	wg.Wait()

	delivered := <-received
	assert.Equal(t, testEvent, delivered)
}

func TestTransactionalBusDiscardDropsEvents(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	delivered := make(chan Event, 1)
	mainBus.Subscribe(EventTypeGiveawayEnded, func(ctx context.Context, event Event) {
		delivered <- event
	})

	transactionalBus.Publish(GiveawayEndedEvent{GiveawayID: 1})
	transactionalBus.Discard()

	// Flushing after a discard must deliver nothing
	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	select {
	case event := <-delivered:
		t.Errorf("Expected no delivery after discard, got %T", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusSubscriberPanicDoesNotPoisonDelivery(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(EventTypeSuggestionResolved, func(ctx context.Context, event Event) {
		panic("subscriber bug")
	})
	bus.Subscribe(EventTypeSuggestionResolved, func(ctx context.Context, event Event) {
		wg.Done()
	})

	bus.Emit(context.Background(), SuggestionResolvedEvent{SuggestionID: 1})

	// The healthy subscriber still runs despite the panicking one
	wg.Wait()
}
