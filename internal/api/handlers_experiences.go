package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sekadau-online/ai-core/internal/experience"
	"github.com/sekadau-online/ai-core/internal/memory"
)

// ExperienceHandler serves the experience store CRUD surface.
type ExperienceHandler struct {
	store *memory.Store
}

func NewExperienceHandler(store *memory.Store) *ExperienceHandler {
	return &ExperienceHandler{store: store}
}

type createExperienceRequest struct {
	Content  string `json:"content"`
	Source   string `json:"source"`
	Metadata string `json:"metadata,omitempty"`
}

// List handles GET /experiences
func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	exps := h.store.List()
	if len(exps) == 0 {
		writeOK(w, http.StatusOK, []experience.Experience{}, "No experiences found. Memory is empty.")
		return
	}
	writeOK(w, http.StatusOK, exps, fmt.Sprintf("Retrieved %d experiences", len(exps)))
}

// Get handles GET /experiences/{id}
func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exp, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "experience not found")
		return
	}
	writeOK(w, http.StatusOK, exp, "Experience found")
}

// Create handles POST /experiences
func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	exp := h.store.Append(req.Content, req.Source, req.Metadata)
	writeOK(w, http.StatusCreated, exp, "Experience created successfully")
}

// Search handles GET /experiences/search?q=
func (h *ExperienceHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	results := h.store.Search(q)
	if results == nil {
		results = []experience.Experience{}
	}
	writeOK(w, http.StatusOK, results, fmt.Sprintf("Found %d matching experiences", len(results)))
}

// Clear handles DELETE /memory/clear
func (h *ExperienceHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	writeOK(w, http.StatusOK, "Memory cleared", "All experiences have been deleted")
}
