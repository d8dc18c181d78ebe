package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sekadau-online/ai-core/internal/memory"
	"github.com/sekadau-online/ai-core/internal/records"
)

// RecordHandler serves the API learning surface: executing outbound HTTP
// calls and managing the records they leave behind.
type RecordHandler struct {
	store    *memory.Store
	records  *records.Store
	executor *records.Executor
	logger   *slog.Logger
}

func NewRecordHandler(store *memory.Store, recStore *records.Store, executor *records.Executor, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		store:    store,
		records:  recStore,
		executor: executor,
		logger:   logger,
	}
}

type executeRequest struct {
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	Body         string            `json:"body,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	SaveToMemory *bool             `json:"save_to_memory,omitempty"`
}

type executeResponse struct {
	Success          bool   `json:"success"`
	Status           int    `json:"status"`
	Body             string `json:"body"`
	LearningRecordID string `json:"learning_record_id,omitempty"`
}

// Execute handles POST /api-learning/execute: runs the outbound call and,
// unless opted out, persists a learning record and mirrors it into the
// experience store.
func (h *RecordHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.executor.Execute(r.Context(), req.Method, req.URL, req.Body, req.Headers)
	if err != nil {
		writeOK(w, http.StatusOK, executeResponse{
			Success: false,
			Status:  http.StatusInternalServerError,
			Body:    err.Error(),
		}, "HTTP request failed")
		return
	}

	var recordID string
	if req.SaveToMemory == nil || *req.SaveToMemory {
		rec := records.New(req.Method, req.URL, req.Body, resp.Body, resp.Status)
		if err := h.records.Insert(rec); err != nil {
			h.logger.Error("failed to persist learning record", "error", err)
		} else {
			recordID = rec.ID
			h.store.Append(
				fmt.Sprintf("API Call: %s %s - Status %d", req.Method, req.URL, resp.Status),
				"api_learning",
				"record_id:"+rec.ID,
			)
		}
	}

	writeOK(w, http.StatusOK, executeResponse{
		Success:          resp.Success,
		Status:           resp.Status,
		Body:             resp.Body,
		LearningRecordID: recordID,
	}, "HTTP request executed")
}

// List handles GET /api-learning/records
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.records.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []records.Record{}
	}
	writeOK(w, http.StatusOK, recs, fmt.Sprintf("Retrieved %d learning records", len(recs)))
}

// Get handles GET /api-learning/records/{id}
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.records.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "learning record not found")
		return
	}
	writeOK(w, http.StatusOK, rec, "Learning record found")
}

type updateRecordRequest struct {
	Tags    *[]string `json:"tags,omitempty"`
	Summary *string   `json:"summary,omitempty"`
}

// Update handles POST /api-learning/records/{id}
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.records.Update(id, req.Tags, req.Summary)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "learning record not found")
		return
	}
	writeOK(w, http.StatusOK, rec, "Learning record updated")
}

// Delete handles DELETE /api-learning/records/{id}
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.records.Delete(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "learning record not found")
		return
	}
	writeOK(w, http.StatusOK, "Learning record deleted", fmt.Sprintf("Record %s has been deleted", id))
}

// Search handles GET /api-learning/search?q=
func (h *RecordHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	recs, err := h.records.Search(q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []records.Record{}
	}
	writeOK(w, http.StatusOK, recs, fmt.Sprintf("Found %d matching records", len(recs)))
}

// Clear handles DELETE /api-learning/clear
func (h *RecordHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.records.Clear()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeOK(w, http.StatusOK, fmt.Sprintf("Cleared %d learning records", n), "All learning records deleted")
}
