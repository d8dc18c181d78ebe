package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sekadau-online/ai-core/internal/chat"
	"github.com/sekadau-online/ai-core/internal/memory"
	"github.com/sekadau-online/ai-core/internal/records"
)

const testToken = "test-token"

func setupRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()

	recStore, err := records.Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("failed to open records db: %v", err)
	}
	t.Cleanup(func() { recStore.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	router := NewRouter(
		store,
		chat.NewSessionTable(),
		chat.NewProcessor(nil, logger),
		recStore,
		records.NewExecutor(),
		testToken,
		logger,
	)
	return router, store
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v\n%s", err, rr.Body.String())
	}
	return env
}

func TestAuth(t *testing.T) {
	router, _ := setupRouter(t)

	t.Run("health is open", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/health", "", false)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("protected route rejects missing token", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/experiences", "", false)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("protected route rejects wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/experiences", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})
}

func TestExperienceFlow(t *testing.T) {
	router, store := setupRouter(t)

	t.Run("create", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/experiences",
			`{"content":"Hello World","source":"test"}`, true)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
		if store.Count() != 1 {
			t.Fatalf("expected 1 stored experience, got %d", store.Count())
		}
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/experiences/search?q=hello", "", true)
		env := decodeEnvelope(t, rr)
		if !env.Success {
			t.Fatalf("expected success, got %s", rr.Body.String())
		}
		hits, ok := env.Data.([]any)
		if !ok || len(hits) != 1 {
			t.Fatalf("expected 1 hit, got %v", env.Data)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		exp := store.List()[0]
		rr := doRequest(t, router, http.MethodGet, "/experiences/"+exp.ID, "", true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("get unknown id", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/experiences/nope", "", true)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})

	t.Run("clear", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodDelete, "/memory/clear", "", true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if store.Count() != 0 {
			t.Fatal("expected cleared store")
		}
	})
}

func TestDecisionEndpoints(t *testing.T) {
	router, store := setupRouter(t)

	t.Run("decision on empty store", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/decision", "", true)
		env := decodeEnvelope(t, rr)
		data := env.Data.(map[string]any)
		if data["action"] != "default" {
			t.Fatalf("expected default action, got %v", data["action"])
		}
		if data["confidence"].(float64) != 0.5 {
			t.Fatalf("expected confidence 0.5, got %v", data["confidence"])
		}
	})

	t.Run("decision for unmatched query", func(t *testing.T) {
		store.Append("something else", "test", "")
		rr := doRequest(t, router, http.MethodGet, "/decision/query?q=zebra", "", true)
		env := decodeEnvelope(t, rr)
		data := env.Data.(map[string]any)
		if data["action"] != "ask_for_clarification" {
			t.Fatalf("expected clarification action, got %v", data["action"])
		}
		if data["confidence"].(float64) != 0.3 {
			t.Fatalf("expected confidence 0.3, got %v", data["confidence"])
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	router, store := setupRouter(t)
	store.Append("cat cat dog", "test", "")

	rr := doRequest(t, router, http.MethodGet, "/stats", "", true)
	env := decodeEnvelope(t, rr)
	data := env.Data.(map[string]any)

	if data["total_experiences"].(float64) != 1 {
		t.Fatalf("expected 1 experience, got %v", data["total_experiences"])
	}
	if data["total_patterns"].(float64) != 2 {
		t.Fatalf("expected 2 patterns, got %v", data["total_patterns"])
	}

	top := data["top_patterns"].([]any)
	first := top[0].(map[string]any)
	if first["keyword"] != "cat" || first["frequency"].(float64) != 2 {
		t.Fatalf("expected cat with frequency 2 first, got %v", first)
	}
}

func TestChatEndpoints(t *testing.T) {
	router, store := setupRouter(t)

	t.Run("send falls back on empty store", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/chat/send", `{"content":"hello"}`, true)
		env := decodeEnvelope(t, rr)
		data := env.Data.(map[string]any)
		msg := data["message"].(map[string]any)
		if !strings.Contains(msg["content"].(string), "Halo!") {
			t.Fatalf("expected canned greeting, got %v", msg["content"])
		}
		if data["session_id"] == "" {
			t.Fatal("expected generated session id")
		}
	})

	t.Run("send with context and history", func(t *testing.T) {
		store.Append("postgres connection pooling", "docs", "")

		rr := doRequest(t, router, http.MethodPost, "/chat/send",
			`{"content":"postgres pooling","session_id":"s1"}`, true)
		env := decodeEnvelope(t, rr)
		data := env.Data.(map[string]any)
		if data["context_count"].(float64) != 1 {
			t.Fatalf("expected 1 context experience, got %v", data["context_count"])
		}

		rr = doRequest(t, router, http.MethodGet, "/chat/history/s1", "", true)
		env = decodeEnvelope(t, rr)
		session := env.Data.(map[string]any)
		msgs := session["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("expected user+assistant messages, got %d", len(msgs))
		}
	})

	t.Run("upload adds document to memory", func(t *testing.T) {
		before := store.Count()
		rr := doRequest(t, router, http.MethodPost, "/chat/upload",
			`{"filename":"notes.txt","content":"incident runbook","filetype":"txt"}`, true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if store.Count() != before+1 {
			t.Fatal("expected document appended to memory")
		}

		results := store.Search("incident runbook")
		if len(results) != 1 || results[0].Source != "document:notes.txt" {
			t.Fatalf("expected document source tag, got %+v", results)
		}
	})

	t.Run("export transcripts", func(t *testing.T) {
		for _, format := range []string{"json", "txt", "markdown", "html"} {
			rr := doRequest(t, router, http.MethodGet,
				fmt.Sprintf("/chat/export?session_id=s1&format=%s", format), "", true)
			if rr.Code != http.StatusOK {
				t.Fatalf("format %s: expected 200, got %d", format, rr.Code)
			}
		}

		rr := doRequest(t, router, http.MethodGet, "/chat/export?session_id=s1&format=docx", "", true)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unsupported format, got %d", rr.Code)
		}

		rr = doRequest(t, router, http.MethodGet, "/chat/export?session_id=absent&format=txt", "", true)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown session, got %d", rr.Code)
		}
	})

	t.Run("delete session", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodDelete, "/chat/sessions/s1", "", true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		rr = doRequest(t, router, http.MethodGet, "/chat/history/s1", "", true)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", rr.Code)
		}
	})
}

func TestLearningRecordEndpoints(t *testing.T) {
	router, store := setupRouter(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	var recordID string

	t.Run("execute saves a record and an experience", func(t *testing.T) {
		body := fmt.Sprintf(`{"method":"GET","url":"%s"}`, upstream.URL)
		rr := doRequest(t, router, http.MethodPost, "/api-learning/execute", body, true)
		env := decodeEnvelope(t, rr)
		data := env.Data.(map[string]any)
		if data["success"] != true {
			t.Fatalf("expected success, got %s", rr.Body.String())
		}
		recordID = data["learning_record_id"].(string)
		if recordID == "" {
			t.Fatal("expected learning record id")
		}
		if store.Count() != 1 {
			t.Fatal("expected mirrored experience in memory")
		}
	})

	t.Run("get and list", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/api-learning/records/"+recordID, "", true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}

		rr = doRequest(t, router, http.MethodGet, "/api-learning/records", "", true)
		env := decodeEnvelope(t, rr)
		if recs := env.Data.([]any); len(recs) != 1 {
			t.Fatalf("expected 1 record, got %d", len(recs))
		}
	})

	t.Run("update", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/api-learning/records/"+recordID,
			`{"summary":"probe"}`, true)
		env := decodeEnvelope(t, rr)
		data := env.Data.(map[string]any)
		if data["summary"] != "probe" {
			t.Fatalf("expected updated summary, got %v", data["summary"])
		}
	})

	t.Run("delete and clear", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodDelete, "/api-learning/records/"+recordID, "", true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}

		rr = doRequest(t, router, http.MethodDelete, "/api-learning/clear", "", true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})
}
