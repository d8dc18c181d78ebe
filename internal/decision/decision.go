// Package decision implements the heuristic recommendation engine. Both
// entry points are pure: they read the store and an index but mutate
// nothing, and the numeric breakpoints are policy constants that the API
// contract depends on.
package decision

import (
	"fmt"

	"github.com/sekadau-online/ai-core/internal/memory"
	"github.com/sekadau-online/ai-core/internal/pattern"
)

// Decision is a recommendation with a confidence score and a human-readable
// justification. Computed on demand, never stored.
type Decision struct {
	Action             string  `json:"action"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`
	BasedOnExperiences int     `json:"based_on_experiences"`
}

const (
	ActionDefault          = "default"
	ActionContinueLearning = "continue_learning"
	ActionClarify          = "ask_for_clarification"
	ActionRespond          = "provide_response"
)

// Decide scores the overall state of accumulated knowledge. The recognizer
// must already have been fed the same experiences the count refers to.
func Decide(experienceCount int, rec *pattern.Recognizer) Decision {
	if experienceCount == 0 {
		return Decision{
			Action:     ActionDefault,
			Confidence: 0.5,
			Reasoning:  "No previous experiences available. Using default behavior.",
		}
	}

	totalPatterns := rec.Len()

	var confidence float64
	switch {
	case experienceCount > 10 && totalPatterns > 20:
		confidence = 0.9
	case experienceCount > 5:
		confidence = 0.7
	default:
		confidence = 0.6
	}

	reasoning := fmt.Sprintf("Based on %d experiences with limited pattern recognition", experienceCount)
	if top := rec.Top(1); len(top) > 0 {
		reasoning = fmt.Sprintf("Based on %d experiences and %d recognized patterns. Top pattern: '%s'",
			experienceCount, totalPatterns, top[0].Keyword)
	}

	return Decision{
		Action:             ActionContinueLearning,
		Confidence:         confidence,
		Reasoning:          reasoning,
		BasedOnExperiences: experienceCount,
	}
}

// ForQuery scores how well the store can answer a specific query.
// Confidence grows with the hit count and caps at 0.95.
func ForQuery(store *memory.Store, query string) Decision {
	hits := store.Search(query)
	count := len(hits)

	if count == 0 {
		return Decision{
			Action:     ActionClarify,
			Confidence: 0.3,
			Reasoning:  fmt.Sprintf("No relevant experiences found for query: '%s'", query),
		}
	}

	confidence := float64(count) / 10.0
	if confidence > 0.95 {
		confidence = 0.95
	}

	return Decision{
		Action:             ActionRespond,
		Confidence:         confidence,
		Reasoning:          fmt.Sprintf("Found %d relevant experiences for query: '%s'", count, query),
		BasedOnExperiences: count,
	}
}
