// Package personality tracks three mood-like traits that drift with the
// vocabulary of incoming messages and tint outgoing replies.
package personality

import "strings"

// Traits hold the current personality state, each value in [0, 1].
type Traits struct {
	Curiosity float64 `json:"curiosity"`
	Happiness float64 `json:"happiness"`
	Caution   float64 `json:"caution"`
}

// New returns a balanced personality.
func New() *Traits {
	return &Traits{Curiosity: 0.5, Happiness: 0.5, Caution: 0.5}
}

// Update nudges traits based on keyword classes in the input: greetings and
// thanks raise happiness, question words raise curiosity, danger words raise
// caution. Values clamp to [0, 1].
func (t *Traits) Update(input string) {
	in := strings.ToLower(input)

	if containsAny(in, "halo", "hello", "terima kasih") {
		t.Happiness += 0.1
	}
	if containsAny(in, "apa", "mengapa", "bagaimana") {
		t.Curiosity += 0.1
	}
	if containsAny(in, "bahaya", "error", "warning") {
		t.Caution += 0.2
	}

	t.Happiness = clamp(t.Happiness)
	t.Curiosity = clamp(t.Curiosity)
	t.Caution = clamp(t.Caution)
}

// InfluenceResponse prefixes the reply with a marker for whichever trait is
// currently elevated, happiness taking precedence over curiosity over
// caution.
func (t *Traits) InfluenceResponse(reply string) string {
	switch {
	case t.Happiness > 0.7:
		return "😊 " + reply
	case t.Curiosity > 0.7:
		return "🤔 " + reply
	case t.Caution > 0.7:
		return "⚠️ " + reply
	default:
		return reply
	}
}

// DominantTrait names the highest trait, ties resolving in the order
// happy, curious, cautious.
func (t *Traits) DominantTrait() string {
	switch {
	case t.Happiness >= t.Curiosity && t.Happiness >= t.Caution:
		return "happy"
	case t.Curiosity >= t.Caution:
		return "curious"
	default:
		return "cautious"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
