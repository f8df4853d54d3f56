package study

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionRegistry holds live quiz sessions between HTTP requests. Sessions
// are never persisted; abandoned ones age out in the background sweep.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*QuizSession
	ttl      time.Duration
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	r := &SessionRegistry{
		sessions: make(map[uuid.UUID]*QuizSession),
		ttl:      ttl,
	}

	// Cleanup goroutine
	go func() {
		for {
			time.Sleep(ttl)
			r.mu.Lock()
			for id, s := range r.sessions {
				if time.Since(s.idleSince()) > ttl {
					delete(r.sessions, id)
				}
			}
			r.mu.Unlock()
		}
	}()

	return r
}

func (r *SessionRegistry) Put(s *QuizSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get returns the session only to its owner.
func (r *SessionRegistry) Get(id, userID uuid.UUID) (*QuizSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, false
	}
	return s, true
}

func (r *SessionRegistry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
