package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sekadau-online/ai-core/internal/chat"
	"github.com/sekadau-online/ai-core/internal/memory"
)

// ChatHandler serves the conversational surface: sending messages,
// transcripts, document upload, and export.
type ChatHandler struct {
	store     *memory.Store
	sessions  *chat.SessionTable
	processor *chat.Processor
	documents *chat.DocumentProcessor
	exporter  *chat.Exporter
}

func NewChatHandler(store *memory.Store, sessions *chat.SessionTable, processor *chat.Processor) *ChatHandler {
	return &ChatHandler{
		store:     store,
		sessions:  sessions,
		processor: processor,
		documents: chat.NewDocumentProcessor(),
		exporter:  chat.NewExporter(),
	}
}

type chatMessageRequest struct {
	Content   string `json:"content"`
	SessionID string `json:"session_id,omitempty"`
}

type chatMessageResponse struct {
	SessionID    string       `json:"session_id"`
	Message      chat.Message `json:"message"`
	ContextCount int          `json:"context_count"`
}

// Send handles POST /chat/send: records the user turn, runs the
// retrieval-augmented responder, and records the assistant turn. No store
// lock is held while the generation backend is in flight.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	h.sessions.Append(sessionID, chat.UserMessage(req.Content))

	reply := h.processor.ProcessMessage(r.Context(), req.Content, h.store)
	h.sessions.Append(sessionID, reply)

	writeOK(w, http.StatusOK, chatMessageResponse{
		SessionID:    sessionID,
		Message:      reply,
		ContextCount: len(reply.ContextUsed),
	}, "Message processed")
}

// History handles GET /chat/history/{sessionID}
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, ok := h.sessions.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "chat session not found")
		return
	}
	writeOK(w, http.StatusOK, session, fmt.Sprintf("Retrieved %d messages", len(session.Messages)))
}

// ListSessions handles GET /chat/sessions
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids := h.sessions.IDs()
	writeOK(w, http.StatusOK, ids, fmt.Sprintf("Found %d active chat sessions", len(ids)))
}

// DeleteSession handles DELETE /chat/sessions/{sessionID}
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if !h.sessions.Delete(sessionID) {
		writeError(w, http.StatusNotFound, "chat session not found")
		return
	}
	writeOK(w, http.StatusOK, "Session cleared", fmt.Sprintf("Chat session %s has been deleted", sessionID))
}

type documentUploadRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Filetype string `json:"filetype"`
}

type documentUploadResponse struct {
	Processed     bool   `json:"processed"`
	Text          string `json:"text"`
	AddedToMemory bool   `json:"added_to_memory"`
}

// Upload handles POST /chat/upload: extracts text from the document and
// appends it to the experience store.
func (h *ChatHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req documentUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	text, err := h.documents.Process(req.Content, req.Filetype)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to process document: "+err.Error())
		return
	}

	h.store.Append(text, "document:"+req.Filename, "")

	writeOK(w, http.StatusOK, documentUploadResponse{
		Processed:     true,
		Text:          text,
		AddedToMemory: true,
	}, fmt.Sprintf("Document '%s' processed and added to memory", req.Filename))
}

// Export handles GET /chat/export?session_id=&format=
func (h *ChatHandler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	format := r.URL.Query().Get("format")

	session, ok := h.sessions.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "chat session not found")
		return
	}

	var exported string
	var err error
	switch format {
	case "json":
		exported, err = h.exporter.ExportJSON(session)
	case "txt":
		exported = h.exporter.ExportTxt(session)
	case "markdown", "md":
		exported = h.exporter.ExportMarkdown(session)
	case "html":
		exported = h.exporter.ExportHTML(session)
	default:
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported format: %s. Use json, txt, markdown, or html", format))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed: "+err.Error())
		return
	}

	writeOK(w, http.StatusOK, exported, fmt.Sprintf("Chat session exported as %s", format))
}
