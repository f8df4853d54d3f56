package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pagemark-backend/internal/events"
	"pagemark-backend/internal/middleware"
	"pagemark-backend/internal/models"
	"pagemark-backend/internal/study"
)

type QuizHandler struct {
	db          Stores
	guest       Stores
	broker      events.Broker
	guestBroker events.Broker
	registry    *study.SessionRegistry
}

func NewQuizHandler(db, guest Stores, broker, guestBroker events.Broker, registry *study.SessionRegistry) *QuizHandler {
	return &QuizHandler{db: db, guest: guest, broker: broker, guestBroker: guestBroker, registry: registry}
}

func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.DocumentID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "document_id is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)

	if _, err := stores.Documents.GetByID(r.Context(), req.DocumentID, userID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	pool, err := stores.Flashcards.ListByDocument(r.Context(), req.DocumentID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	sel := study.Selector{Mode: req.Mode, Chapter: req.Chapter, Page: req.Page}
	session, err := study.StartQuiz(userID, pool, sel)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	session.DocumentID = req.DocumentID

	h.registry.Put(session)

	writeJSON(w, http.StatusCreated, session)
}

// Get returns the session with the question it is waiting on. The question is
// null when the current card was deleted mid-run; the client answers it
// incorrect or aborts.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz session not found", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)

	pool, err := stores.Flashcards.ListByDocument(r.Context(), session.DocumentID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":  session,
		"question": session.CurrentQuestion(pool),
	})
}

func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz session not found", r))
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)
	broker := selectBroker(r.Context(), h.broker, h.guestBroker)
	recorder := study.NewFlashcardManager(
		study.Scope{UserID: userID, DocumentID: session.DocumentID},
		stores.Flashcards, broker,
	)

	stats, err := session.SubmitAnswer(r.Context(), recorder, req.Correct)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
		"stats":   stats,
	})
}

func (h *QuizHandler) Summary(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz session not found", r))
		return
	}

	summary, err := session.Summary()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *QuizHandler) session(r *http.Request) (*study.QuizSession, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, false
	}
	return h.registry.Get(id, middleware.GetUserID(r.Context()))
}
