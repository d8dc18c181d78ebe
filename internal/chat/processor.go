package chat

import (
	"context"
	"log/slog"

	"github.com/sekadau-online/ai-core/internal/experience"
	"github.com/sekadau-online/ai-core/internal/memory"
	"github.com/sekadau-online/ai-core/internal/pattern"
)

// Generator is the capability surface of the optional external generation
// backend. The processor works correctly whether the backend is absent,
// disabled, or erroring.
type Generator interface {
	Enabled() bool
	GenerateWithContext(ctx context.Context, userInput string, contextLines []string) (string, error)
}

// strategy is one way of producing a reply. Strategies are tried in order;
// each may decline by returning ok=false, handing over to the next.
type strategy interface {
	reply(ctx context.Context, input string, hits []experience.Experience) (text string, ok bool)
}

// Processor turns free-text input into an assistant message: it retrieves
// relevant experiences from the store, then walks an ordered strategy list
// (generation backend, context-aware template, canned default) until one
// produces a reply.
type Processor struct {
	strategies []strategy
}

// NewProcessor builds a processor. backend may be nil when no generation
// backend is configured.
func NewProcessor(backend Generator, logger *slog.Logger) *Processor {
	return &Processor{
		strategies: []strategy{
			&backendStrategy{gen: backend, logger: logger},
			&contextStrategy{},
			&cannedStrategy{},
		},
	}
}

// ProcessMessage runs one full retrieval-and-reply pass. The store's read
// lock is only held inside Search; nothing is held while the backend call is
// in flight.
func (p *Processor) ProcessMessage(ctx context.Context, input string, store *memory.Store) Message {
	hits := retrieve(input, store)

	contextIDs := make([]string, 0, len(hits))
	for _, exp := range hits {
		contextIDs = append(contextIDs, exp.ID)
	}

	for _, s := range p.strategies {
		if text, ok := s.reply(ctx, input, hits); ok {
			return AssistantMessage(text, contextIDs)
		}
	}

	// Unreachable: the canned strategy never declines.
	return AssistantMessage("", contextIDs)
}

// retrieve extracts keywords from the input, searches the store per keyword,
// and unions the hits deduplicated by id in first-seen order.
func retrieve(input string, store *memory.Store) []experience.Experience {
	seen := make(map[string]struct{})
	var hits []experience.Experience

	for _, keyword := range pattern.Keywords(input) {
		for _, exp := range store.Search(keyword) {
			if _, dup := seen[exp.ID]; dup {
				continue
			}
			seen[exp.ID] = struct{}{}
			hits = append(hits, exp)
		}
	}
	return hits
}
