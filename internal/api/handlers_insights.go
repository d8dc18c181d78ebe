package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sekadau-online/ai-core/internal/decision"
	"github.com/sekadau-online/ai-core/internal/memory"
	"github.com/sekadau-online/ai-core/internal/pattern"
	"github.com/sekadau-online/ai-core/internal/personality"
)

// InsightHandler serves the analysis surface: pattern statistics, decisions,
// reflection, and personality. Every request builds its own private
// recognizer over a snapshot copied out of the store, so no index state is
// ever shared between requests.
type InsightHandler struct {
	store  *memory.Store
	logger *slog.Logger
}

func NewInsightHandler(store *memory.Store, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{store: store, logger: logger}
}

// analyzeAll snapshots the store and feeds every experience to a fresh
// recognizer.
func (h *InsightHandler) analyzeAll() (*pattern.Recognizer, int) {
	exps := h.store.List()
	rec := pattern.NewRecognizer()
	for _, exp := range exps {
		rec.Analyze(exp)
	}
	return rec, len(exps)
}

type patternInfo struct {
	Keyword         string `json:"keyword"`
	Frequency       int    `json:"frequency"`
	ExperienceCount int    `json:"experience_count"`
}

type statsResponse struct {
	TotalExperiences int           `json:"total_experiences"`
	TotalPatterns    int           `json:"total_patterns"`
	TopPatterns      []patternInfo `json:"top_patterns"`
}

// Stats handles GET /stats
func (h *InsightHandler) Stats(w http.ResponseWriter, r *http.Request) {
	rec, count := h.analyzeAll()

	top := make([]patternInfo, 0, 10)
	for _, p := range rec.Top(10) {
		top = append(top, patternInfo{
			Keyword:         p.Keyword,
			Frequency:       p.Frequency,
			ExperienceCount: len(p.ExperienceIDs),
		})
	}

	writeOK(w, http.StatusOK, statsResponse{
		TotalExperiences: count,
		TotalPatterns:    rec.Len(),
		TopPatterns:      top,
	}, "Statistics retrieved")
}

type patternDetailResponse struct {
	Keyword            string   `json:"keyword"`
	Frequency          int      `json:"frequency"`
	ExperienceIDs      []string `json:"experience_ids"`
	RelatedExperiences []string `json:"related_experiences"`
}

// PatternDetail handles GET /patterns/{keyword}
func (h *InsightHandler) PatternDetail(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")

	rec, _ := h.analyzeAll()
	p, ok := rec.Get(keyword)
	if !ok {
		writeError(w, http.StatusNotFound, "pattern not found")
		return
	}

	related := make([]string, 0, len(p.ExperienceIDs))
	for _, id := range p.ExperienceIDs {
		if exp, found := h.store.Get(id); found {
			related = append(related, exp.Content)
		}
	}

	writeOK(w, http.StatusOK, patternDetailResponse{
		Keyword:            p.Keyword,
		Frequency:          p.Frequency,
		ExperienceIDs:      p.ExperienceIDs,
		RelatedExperiences: related,
	}, fmt.Sprintf("Found pattern for keyword: %s", keyword))
}

// RebuildPatterns handles POST /patterns/clear: the index has no persistent
// state, so clearing is a rebuild report.
func (h *InsightHandler) RebuildPatterns(w http.ResponseWriter, r *http.Request) {
	rec, _ := h.analyzeAll()
	writeOK(w, http.StatusOK,
		fmt.Sprintf("Patterns rebuilt. Found %d unique patterns", rec.Len()),
		"Pattern cache cleared and rebuilt")
}

// Decide handles GET /decision
func (h *InsightHandler) Decide(w http.ResponseWriter, r *http.Request) {
	rec, count := h.analyzeAll()
	d := decision.Decide(count, rec)
	writeOK(w, http.StatusOK, d, "Decision made")
}

// DecideForQuery handles GET /decision/query?q=
func (h *InsightHandler) DecideForQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	d := decision.ForQuery(h.store, q)
	writeOK(w, http.StatusOK, d, fmt.Sprintf("Decision made for query: '%s'", q))
}

type interactResponse struct {
	Analysis        string   `json:"analysis"`
	ExperienceCount int      `json:"experience_count"`
	PatternSummary  []string `json:"pattern_summary"`
}

// Interact handles GET /interact: a logged analysis pass over the whole
// store.
func (h *InsightHandler) Interact(w http.ResponseWriter, r *http.Request) {
	rec, count := h.analyzeAll()

	h.logger.Info("interaction summary", "total_experiences", count, "distinct_patterns", rec.Len())
	for _, p := range rec.Top(10) {
		h.logger.Debug("pattern",
			"keyword", p.Keyword,
			"occurrences", p.Frequency,
			"experiences", len(p.ExperienceIDs),
		)
	}

	summary := make([]string, 0, 5)
	for _, p := range rec.Top(5) {
		summary = append(summary, fmt.Sprintf("%s: %d occurrences", p.Keyword, p.Frequency))
	}

	writeOK(w, http.StatusOK, interactResponse{
		Analysis:        fmt.Sprintf("Analyzed %d experiences", count),
		ExperienceCount: count,
		PatternSummary:  summary,
	}, "Interaction completed")
}

type reflectionItem struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Content   string `json:"content"`
}

type reflectionResponse struct {
	TotalExperiences int              `json:"total_experiences"`
	Experiences      []reflectionItem `json:"experiences"`
}

// Reflect handles GET /reflect
func (h *InsightHandler) Reflect(w http.ResponseWriter, r *http.Request) {
	exps := h.store.List()

	items := make([]reflectionItem, 0, len(exps))
	for _, exp := range exps {
		items = append(items, reflectionItem{
			ID:        exp.ID,
			Timestamp: exp.Timestamp.Format("2006-01-02 15:04:05"),
			Source:    exp.Source,
			Content:   exp.Content,
		})
	}

	writeOK(w, http.StatusOK, reflectionResponse{
		TotalExperiences: len(exps),
		Experiences:      items,
	}, fmt.Sprintf("Reflected on %d experiences", len(exps)))
}

type personalityRequest struct {
	Input    string `json:"input"`
	Response string `json:"response"`
}

type personalityResponse struct {
	Curiosity          float64 `json:"curiosity"`
	Happiness          float64 `json:"happiness"`
	Caution            float64 `json:"caution"`
	DominantTrait      string  `json:"dominant_trait"`
	InfluencedResponse string  `json:"influenced_response"`
}

// Personality handles POST /personality: trait arithmetic over the given
// input, applied to the given response text.
func (h *InsightHandler) Personality(w http.ResponseWriter, r *http.Request) {
	var req personalityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	traits := personality.New()
	traits.Update(req.Input)

	writeOK(w, http.StatusOK, personalityResponse{
		Curiosity:          traits.Curiosity,
		Happiness:          traits.Happiness,
		Caution:            traits.Caution,
		DominantTrait:      traits.DominantTrait(),
		InfluencedResponse: traits.InfluenceResponse(req.Response),
	}, "Personality updated")
}
