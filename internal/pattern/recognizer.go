package pattern

import (
	"sort"
	"strings"

	"github.com/sekadau-online/ai-core/internal/experience"
)

// Pattern is a derived keyword statistic: how often the keyword occurred
// and which experiences contained it. Patterns are never persisted; they
// are rebuilt from scratch each analysis pass.
type Pattern struct {
	Keyword       string   `json:"keyword"`
	Frequency     int      `json:"frequency"`
	ExperienceIDs []string `json:"experience_ids"`
}

// Recognizer builds an inverted keyword index over a chosen set of
// experiences. Each instance is private to one analysis pass (typically one
// request), so it needs no locking. Analyzing the same experience twice
// double-counts frequency; callers rebuilding from a full set must Reset
// first. Rebuilding fresh per pass instead of maintaining an incremental
// index is the central trade-off of this service: O(total content) per pass
// in exchange for zero invalidation complexity, acceptable while the store
// stays small and in-memory.
type Recognizer struct {
	patterns map[string]*Pattern
	order    []string // keywords in first-seen order, the Top tie-break
}

func NewRecognizer() *Recognizer {
	return &Recognizer{patterns: make(map[string]*Pattern)}
}

// Analyze tokenizes the experience content and folds each surviving keyword
// into the index: frequency counts every occurrence, the id list records
// each experience once.
func (r *Recognizer) Analyze(exp experience.Experience) {
	for _, word := range Keywords(exp.Content) {
		p, ok := r.patterns[word]
		if !ok {
			r.patterns[word] = &Pattern{
				Keyword:       word,
				Frequency:     1,
				ExperienceIDs: []string{exp.ID},
			}
			r.order = append(r.order, word)
			continue
		}

		p.Frequency++
		if !containsID(p.ExperienceIDs, exp.ID) {
			p.ExperienceIDs = append(p.ExperienceIDs, exp.ID)
		}
	}
}

// Get returns the pattern for a keyword, lowercasing it first.
func (r *Recognizer) Get(keyword string) (Pattern, bool) {
	p, ok := r.patterns[strings.ToLower(keyword)]
	if !ok {
		return Pattern{}, false
	}
	return *p, true
}

// Top returns up to n patterns sorted by frequency descending. Ties keep
// first-seen keyword order, which makes the ordering deterministic for a
// given analysis sequence.
func (r *Recognizer) Top(n int) []Pattern {
	ranked := make([]Pattern, 0, len(r.order))
	for _, word := range r.order {
		ranked = append(ranked, *r.patterns[word])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// All returns the full keyword → pattern mapping as copies.
func (r *Recognizer) All() map[string]Pattern {
	out := make(map[string]Pattern, len(r.patterns))
	for k, p := range r.patterns {
		out[k] = *p
	}
	return out
}

// Len returns the number of distinct keywords indexed.
func (r *Recognizer) Len() int {
	return len(r.patterns)
}

// Reset discards all indexed state.
func (r *Recognizer) Reset() {
	r.patterns = make(map[string]*Pattern)
	r.order = nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
