package personality

import "testing"

func TestUpdate(t *testing.T) {
	t.Run("greeting raises happiness", func(t *testing.T) {
		p := New()
		p.Update("hello there")
		if p.Happiness != 0.6 {
			t.Fatalf("expected happiness 0.6, got %v", p.Happiness)
		}
	})

	t.Run("question raises curiosity", func(t *testing.T) {
		p := New()
		p.Update("apa itu goroutine")
		if p.Curiosity != 0.6 {
			t.Fatalf("expected curiosity 0.6, got %v", p.Curiosity)
		}
	})

	t.Run("danger words raise caution", func(t *testing.T) {
		p := New()
		p.Update("error in production")
		if p.Caution != 0.7 {
			t.Fatalf("expected caution 0.7, got %v", p.Caution)
		}
	})

	t.Run("values clamp at one", func(t *testing.T) {
		p := New()
		for i := 0; i < 10; i++ {
			p.Update("bahaya error warning")
		}
		if p.Caution != 1.0 {
			t.Fatalf("expected caution clamped to 1.0, got %v", p.Caution)
		}
	})
}

func TestInfluenceResponse(t *testing.T) {
	t.Run("neutral passes through", func(t *testing.T) {
		p := New()
		if got := p.InfluenceResponse("plain"); got != "plain" {
			t.Fatalf("expected unchanged reply, got %q", got)
		}
	})

	t.Run("elevated happiness prefixes", func(t *testing.T) {
		p := &Traits{Happiness: 0.9, Curiosity: 0.5, Caution: 0.5}
		if got := p.InfluenceResponse("hi"); got != "😊 hi" {
			t.Fatalf("unexpected reply %q", got)
		}
	})

	t.Run("happiness wins over curiosity", func(t *testing.T) {
		p := &Traits{Happiness: 0.9, Curiosity: 0.9, Caution: 0.5}
		if got := p.InfluenceResponse("x"); got != "😊 x" {
			t.Fatalf("unexpected reply %q", got)
		}
	})
}

func TestDominantTrait(t *testing.T) {
	cases := []struct {
		name   string
		traits Traits
		want   string
	}{
		{"balanced defaults to happy", Traits{0.5, 0.5, 0.5}, "happy"},
		{"curiosity leads", Traits{Curiosity: 0.8, Happiness: 0.4, Caution: 0.3}, "curious"},
		{"caution leads", Traits{Curiosity: 0.2, Happiness: 0.1, Caution: 0.9}, "cautious"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.traits.DominantTrait(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
