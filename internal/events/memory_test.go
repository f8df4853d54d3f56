package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryBroker_PublishReachesSubscriber(t *testing.T) {
	broker := NewMemoryBroker()
	userID := uuid.New()

	ch, cancel, err := broker.Subscribe(context.Background(), userID)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer cancel()

	ev := Event{Collection: CollectionHighlights, Action: ActionCreated, DocumentID: uuid.New(), EntityID: uuid.New()}
	if err := broker.Publish(context.Background(), userID, ev); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.Collection != CollectionHighlights || got.Action != ActionCreated {
			t.Errorf("Expected highlight created event, got %s/%s", got.Collection, got.Action)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestMemoryBroker_IsolatesUsers(t *testing.T) {
	broker := NewMemoryBroker()
	alice, bob := uuid.New(), uuid.New()

	aliceCh, cancelAlice, _ := broker.Subscribe(context.Background(), alice)
	defer cancelAlice()
	bobCh, cancelBob, _ := broker.Subscribe(context.Background(), bob)
	defer cancelBob()

	broker.Publish(context.Background(), alice, Event{Collection: CollectionDocuments, Action: ActionUpdated})

	select {
	case <-aliceCh:
	case <-time.After(time.Second):
		t.Fatal("Alice missed her event")
	}

	select {
	case ev := <-bobCh:
		t.Errorf("Bob received Alice's event: %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBroker_CancelClosesChannel(t *testing.T) {
	broker := NewMemoryBroker()
	userID := uuid.New()

	ch, cancel, _ := broker.Subscribe(context.Background(), userID)
	cancel()
	cancel() // idempotent

	if _, open := <-ch; open {
		t.Error("Expected closed channel after cancel")
	}

	// Publishing to a user with no subscribers is a no-op
	if err := broker.Publish(context.Background(), userID, Event{}); err != nil {
		t.Errorf("Publish after cancel failed: %v", err)
	}
}

func TestMemoryBroker_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	broker := NewMemoryBroker()
	userID := uuid.New()

	_, cancel, _ := broker.Subscribe(context.Background(), userID)
	defer cancel()

	// Nobody drains the channel; publishes past the buffer must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			broker.Publish(context.Background(), userID, Event{Action: ActionUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
