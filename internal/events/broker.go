// Package events carries per-user change notifications for the live
// collections (documents, highlights, flashcards). Every successful mutation
// publishes one event; subscribers get a snapshot stream they must cancel
// when done. Delivery is at-least-once and may lag the write.
package events

import (
	"context"

	"github.com/google/uuid"
)

const (
	CollectionDocuments  = "documents"
	CollectionHighlights = "highlights"
	CollectionFlashcards = "flashcards"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type Event struct {
	Collection string          `json:"collection"`
	Action     string          `json:"action"`
	DocumentID uuid.UUID       `json:"document_id"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Payload    interface{}     `json:"payload,omitempty"`
}

type Broker interface {
	Publish(ctx context.Context, userID uuid.UUID, ev Event) error

	// Subscribe opens a live feed of the user's events. The returned cancel
	// func releases the underlying listener and must always be called.
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan Event, func(), error)
}
