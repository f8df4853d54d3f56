package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pagemark-backend/internal/events"
	"pagemark-backend/internal/middleware"
	"pagemark-backend/internal/models"
	"pagemark-backend/internal/services"
)

const maxUploadSize = 50 << 20 // 50 MB

type DocumentHandler struct {
	db          Stores
	guest       Stores
	redis       *redis.Client
	broker      events.Broker
	guestBroker events.Broker
	pdfInfo     *services.PDFInfoService
	storagePath string
}

func NewDocumentHandler(db, guest Stores, redisClient *redis.Client, broker, guestBroker events.Broker, pdfInfo *services.PDFInfoService, storagePath string) *DocumentHandler {
	return &DocumentHandler{
		db:          db,
		guest:       guest,
		redis:       redisClient,
		broker:      broker,
		guestBroker: guestBroker,
		pdfInfo:     pdfInfo,
		storagePath: storagePath,
	}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid upload or file too large (max 50MB)", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "file is required", r))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Only PDF files are supported", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	// Persist the file under a fresh name; the original name is kept as metadata
	destPath := filepath.Join(h.storagePath, uuid.New().String()+".pdf")
	dest, err := os.Create(destPath)
	if err != nil {
		log.Printf("documents: failed to create file: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	if _, err := io.Copy(dest, file); err != nil {
		dest.Close()
		os.Remove(destPath)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	dest.Close()

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	doc := &models.Document{
		UserID:   userID,
		Title:    title,
		FileName: header.Filename,
		FilePath: destPath,
		Status:   "processing",
	}

	stores := selectStores(r.Context(), h.db, h.guest)

	// Guests have no worker behind them; count pages inline
	if middleware.IsGuest(r.Context()) {
		pages, err := h.pdfInfo.PageCount(destPath)
		if err != nil {
			os.Remove(destPath)
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "File is not a readable PDF", r))
			return
		}
		doc.TotalPages = pages
		doc.Status = "ready"
	}

	if err := stores.Documents.Create(r.Context(), doc); err != nil {
		os.Remove(destPath)
		handleServiceError(w, r, err)
		return
	}

	if !middleware.IsGuest(r.Context()) {
		task := models.ProcessTask{DocumentID: doc.ID, UserID: userID, FilePath: destPath}
		taskBytes, _ := json.Marshal(task)
		h.redis.LPush(r.Context(), "queue:document-processing", string(taskBytes))
	}

	h.publish(r, events.ActionCreated, doc.ID, doc)

	writeJSON(w, http.StatusAccepted, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)

	docs, err := stores.Documents.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)

	doc, err := stores.Documents.GetByID(r.Context(), id, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) SetChapters(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return
	}

	var req models.SetChaptersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)

	doc, err := stores.Documents.GetByID(r.Context(), id, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// Each range must be well formed on its own. Overlapping ranges are
	// accepted; lookups resolve to the first listed match.
	fields := make(map[string]string)
	for i, ch := range req.Chapters {
		key := fmt.Sprintf("chapters[%d]", i)
		if strings.TrimSpace(ch.Title) == "" {
			fields[key] = "Title is required"
			continue
		}
		if ch.StartPage < 1 {
			fields[key] = "start_page must be at least 1"
			continue
		}
		if ch.EndPage < ch.StartPage {
			fields[key] = "end_page must not be before start_page"
			continue
		}
		if doc.TotalPages > 0 && ch.EndPage > doc.TotalPages {
			fields[key] = fmt.Sprintf("end_page must not exceed %d", doc.TotalPages)
		}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	if err := stores.Documents.SetChapters(r.Context(), id, userID, req.Chapters); err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.publish(r, events.ActionUpdated, id, map[string]interface{}{"chapters": req.Chapters})

	writeJSON(w, http.StatusOK, map[string]interface{}{"chapters": req.Chapters})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stores := selectStores(r.Context(), h.db, h.guest)

	doc, err := stores.Documents.GetByID(r.Context(), id, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := stores.Documents.Delete(r.Context(), id, userID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("documents: failed to remove file %s: %v", doc.FilePath, err)
		}
	}

	h.publish(r, events.ActionDeleted, id, nil)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

func (h *DocumentHandler) publish(r *http.Request, action string, id uuid.UUID, payload interface{}) {
	broker := selectBroker(r.Context(), h.broker, h.guestBroker)
	ev := events.Event{
		Collection: events.CollectionDocuments,
		Action:     action,
		DocumentID: id,
		EntityID:   id,
		Payload:    payload,
	}
	if err := broker.Publish(r.Context(), middleware.GetUserID(r.Context()), ev); err != nil {
		log.Printf("documents: failed to publish %s event: %v", action, err)
	}
}
