package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pagemark-backend/internal/events"
	"pagemark-backend/internal/middleware"
	"pagemark-backend/internal/models"
	"pagemark-backend/internal/study"
)

type FlashcardHandler struct {
	db          Stores
	guest       Stores
	broker      events.Broker
	guestBroker events.Broker
}

func NewFlashcardHandler(db, guest Stores, broker, guestBroker events.Broker) *FlashcardHandler {
	return &FlashcardHandler{db: db, guest: guest, broker: broker, guestBroker: guestBroker}
}

func (h *FlashcardHandler) scoped(r *http.Request) (*study.FlashcardManager, *models.Document, error) {
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
	return study.NewFlashcardManager(scope, stores.Flashcards, broker), doc, nil
}

func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	mgr, doc, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var draft models.FlashcardDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	// Manual cards never claim a highlight origin
	draft.SourceHighlightID = nil

	card, err := mgr.Create(r.Context(), doc, draft)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// List returns the document's cards, optionally narrowed by ?page= or
// ?chapter=. Page wins when both are sent.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	mgr, _, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	cards, err := mgr.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "page must be a positive integer", r))
			return
		}
		cards = study.FilterByPage(cards, page)
	} else if chapter := r.URL.Query().Get("chapter"); chapter != "" {
		cards = study.FilterByChapter(cards, chapter)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"flashcards": cards})
}

func (h *FlashcardHandler) Update(w http.ResponseWriter, r *http.Request) {
	mgr, _, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	var upd models.FlashcardUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := mgr.Update(r.Context(), id, upd); err != nil {
		handleServiceError(w, r, err)
		return
	}

	card, err := mgr.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mgr, _, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	if err := mgr.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard deleted"})
}

// Review records a standalone outcome outside any quiz session.
func (h *FlashcardHandler) Review(w http.ResponseWriter, r *http.Request) {
	mgr, _, err := h.scoped(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	stats, err := mgr.RecordOutcome(r.Context(), id, req.Correct)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
