package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sekadau-online/ai-core/internal/experience"
	"github.com/sekadau-online/ai-core/internal/pattern"
)

// backendStrategy delegates to the external generation backend with the
// retrieved experiences rendered as context lines. It declines when the
// backend is missing, disabled, or fails, so a dead Ollama only costs a
// warning, never a failed request.
type backendStrategy struct {
	gen    Generator
	logger *slog.Logger
}

func (s *backendStrategy) reply(ctx context.Context, input string, hits []experience.Experience) (string, bool) {
	if s.gen == nil || !s.gen.Enabled() {
		return "", false
	}

	contextLines := make([]string, 0, len(hits))
	for _, exp := range hits {
		contextLines = append(contextLines, fmt.Sprintf("- %s (from %s)", exp.Content, exp.Source))
	}

	text, err := s.gen.GenerateWithContext(ctx, input, contextLines)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("generation backend failed, using fallback", "error", err)
		}
		return "", false
	}
	return text, true
}

// contextStrategy builds a templated reply from the retrieved experiences:
// a hit-count header, the first three hits, and the top keywords detected by
// a fresh pattern pass over exactly those hits. Declines when nothing was
// retrieved.
type contextStrategy struct{}

func (s *contextStrategy) reply(_ context.Context, _ string, hits []experience.Experience) (string, bool) {
	if len(hits) == 0 {
		return "", false
	}

	rec := pattern.NewRecognizer()
	for _, exp := range hits {
		rec.Analyze(exp)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Berdasarkan %d pengalaman relevan yang saya temukan:\n\n", len(hits))

	shown := len(hits)
	if shown > 3 {
		shown = 3
	}
	for i := 0; i < shown; i++ {
		fmt.Fprintf(&b, "%d. %s (dari %s)\n", i+1, hits[i].Content, hits[i].Source)
	}

	if top := rec.Top(3); len(top) > 0 {
		keywords := make([]string, 0, len(top))
		for _, p := range top {
			keywords = append(keywords, p.Keyword)
		}
		b.WriteString("\n🔍 Pola yang terdeteksi: ")
		b.WriteString(strings.Join(keywords, ", "))
	}

	b.WriteString("\n\nApakah ini menjawab pertanyaan Anda?")
	return b.String(), true
}

// cannedStrategy is the terminal fallback: a small set of fixed replies
// selected by substring checks on the input. It never declines.
type cannedStrategy struct{}

func (s *cannedStrategy) reply(_ context.Context, input string, _ []experience.Experience) (string, bool) {
	in := strings.ToLower(input)

	switch {
	case strings.Contains(in, "halo"), strings.Contains(in, "hello"), strings.Contains(in, "hi"):
		return "Halo! Ada yang bisa saya bantu? Saya memiliki akses ke memori dan pengalaman yang tersimpan.", true
	case strings.Contains(in, "apa"), strings.Contains(in, "what"):
		return "Saya adalah AI Core yang dapat membantu Anda mengakses dan menganalisis informasi dari memori. Silakan tanyakan sesuatu yang lebih spesifik.", true
	case strings.Contains(in, "bagaimana"), strings.Contains(in, "how"):
		return "Saya menggunakan pattern recognition dan memory analysis untuk memberikan jawaban. Coba berikan lebih banyak konteks atau kata kunci.", true
	case strings.Contains(in, "terima kasih"), strings.Contains(in, "thanks"):
		return "Sama-sama! Senang bisa membantu. Ada yang lain yang ingin ditanyakan?", true
	default:
		return fmt.Sprintf(
			"Saya memahami pertanyaan Anda tentang '%s'. Namun, saat ini saya tidak menemukan informasi relevan dalam memori. "+
				"Silakan tambahkan lebih banyak pengalaman atau berikan konteks yang lebih spesifik.",
			input,
		), true
	}
}
