package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/sekadau-online/ai-core/internal/chat"
	"github.com/sekadau-online/ai-core/internal/memory"
	"github.com/sekadau-online/ai-core/internal/records"
)

// NewRouter creates the chi router with all routes and middleware. The
// health and banner routes stay open; everything else sits behind the
// bearer-token gate.
func NewRouter(
	store *memory.Store,
	sessions *chat.SessionTable,
	processor *chat.Processor,
	recStore *records.Store,
	executor *records.Executor,
	bearerToken string,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(Recovery(logger))

	experienceH := NewExperienceHandler(store)
	insightH := NewInsightHandler(store, logger)
	chatH := NewChatHandler(store, sessions, processor)
	recordH := NewRecordHandler(store, recStore, executor, logger)

	// Unauthenticated routes
	r.Get("/", Banner)
	r.Get("/health", Health)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(bearerToken, logger))

		r.Route("/experiences", func(r chi.Router) {
			r.Get("/", experienceH.List)
			r.Post("/", experienceH.Create)
			r.Get("/search", experienceH.Search)
			r.Get("/{id}", experienceH.Get)
		})
		r.Delete("/memory/clear", experienceH.Clear)

		r.Get("/stats", insightH.Stats)
		r.Get("/patterns/{keyword}", insightH.PatternDetail)
		r.Post("/patterns/clear", insightH.RebuildPatterns)
		r.Get("/decision", insightH.Decide)
		r.Get("/decision/query", insightH.DecideForQuery)
		r.Get("/interact", insightH.Interact)
		r.Get("/reflect", insightH.Reflect)
		r.Post("/personality", insightH.Personality)

		r.Route("/chat", func(r chi.Router) {
			r.Post("/send", chatH.Send)
			r.Get("/history/{sessionID}", chatH.History)
			r.Get("/sessions", chatH.ListSessions)
			r.Delete("/sessions/{sessionID}", chatH.DeleteSession)
			r.Post("/upload", chatH.Upload)
			r.Get("/export", chatH.Export)
		})

		r.Route("/api-learning", func(r chi.Router) {
			r.Post("/execute", recordH.Execute)
			r.Get("/records", recordH.List)
			r.Get("/records/{id}", recordH.Get)
			r.Post("/records/{id}", recordH.Update)
			r.Delete("/records/{id}", recordH.Delete)
			r.Get("/search", recordH.Search)
			r.Delete("/clear", recordH.Clear)
		})
	})

	return r
}
