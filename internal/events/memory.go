package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryBroker is the in-process equivalent of RedisBroker, used for guest
// traffic and tests. Slow subscribers drop events rather than block writers.
type MemoryBroker struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[int]chan Event
	next int
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[uuid.UUID]map[int]chan Event)}
}

func (b *MemoryBroker) Publish(ctx context.Context, userID uuid.UUID, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 16)
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[int]chan Event)
	}
	b.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], id)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}
