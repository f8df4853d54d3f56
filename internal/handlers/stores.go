package handlers

import (
	"context"

	"pagemark-backend/internal/events"
	"pagemark-backend/internal/middleware"
	"pagemark-backend/internal/store"
)

// Stores bundles one backend's persistence. Handlers hold two sets: the
// Postgres-backed one for signed-in users and the in-memory one for guests,
// so guest writes never leave the process.
type Stores struct {
	Documents  store.DocumentStore
	Highlights store.HighlightStore
	Flashcards store.FlashcardStore
}

func selectStores(ctx context.Context, db, guest Stores) Stores {
	if middleware.IsGuest(ctx) {
		return guest
	}
	return db
}

// Guest change events stay in-process too; nothing about a guest session
// should touch Redis.
func selectBroker(ctx context.Context, db, guest events.Broker) events.Broker {
	if middleware.IsGuest(ctx) {
		return guest
	}
	return db
}
