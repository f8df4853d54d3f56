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

type HighlightHandler struct {
	db          Stores
	guest       Stores
	broker      events.Broker
	guestBroker events.Broker
}

func NewHighlightHandler(db, guest Stores, broker, guestBroker events.Broker) *HighlightHandler {
	return &HighlightHandler{db: db, guest: guest, broker: broker, guestBroker: guestBroker}
}

// scoped resolves the document from the URL and builds a manager bound to it.
// Every highlight route runs through here, so a document the caller doesn't
// own 404s before anything else happens.
func (h *HighlightHandler) scoped(r *http.Request) (*study.HighlightManager, *models.Document, error) {
	documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		return nil, nil, &study.ValidationError{Fields: map[string]string{"document_id": "Invalid document ID"}}
	}

	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)

	doc, err := stores.Documents.GetByID(r.Context(), documentID, userID)
	if err != nil {
		return nil, nil, err
	}

	scope := study.Scope{UserID: userID, DocumentID: documentID}
	broker := selectBroker(r.Context(), h.broker, h.guestBroker)
	return study.NewHighlightManager(scope, stores.Highlights, broker), doc, nil
}

func (h *HighlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	mgr, doc, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req models.CreateHighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	highlight, err := mgr.Create(r.Context(), doc, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, highlight)
}

func (h *HighlightHandler) List(w http.ResponseWriter, r *http.Request) {
	mgr, _, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	highlights, err := mgr.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"highlights": highlights})
}

func (h *HighlightHandler) SetNote(w http.ResponseWriter, r *http.Request) {
	mgr, _, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid highlight ID", r))
		return
	}

	var req models.SetNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := mgr.SetNote(r.Context(), id, req.Note); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Note updated"})
}

func (h *HighlightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mgr, _, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid highlight ID", r))
		return
	}

	if err := mgr.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Highlight deleted"})
}

// DeriveFlashcard turns a highlight into a saved flashcard in one step.
func (h *HighlightHandler) DeriveFlashcard(w http.ResponseWriter, r *http.Request) {
	mgr, doc, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid highlight ID", r))
		return
	}

	highlight, err := mgr.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	draft := study.DeriveFlashcard(highlight, doc)

	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)
	broker := selectBroker(r.Context(), h.broker, h.guestBroker)
	cards := study.NewFlashcardManager(study.Scope{UserID: userID, DocumentID: doc.ID}, stores.Flashcards, broker)

	card, err := cards.Create(r.Context(), doc, draft)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}
