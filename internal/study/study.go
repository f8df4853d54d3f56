// Package study implements the reading-study engine: highlight lifecycle,
// flashcard lifecycle with per-card accuracy stats, chapter resolution, and
// the quiz session state machine. Persistence and change fan-out are injected
// through the store and events packages, so the same logic serves both
// signed-in users (Postgres) and guests (in-memory).
package study

import "github.com/google/uuid"

// Scope pins a manager to one (user, document) pair. Managers never consult
// ambient state; everything they touch is keyed by their scope.
type Scope struct {
	UserID     uuid.UUID
	DocumentID uuid.UUID
}
