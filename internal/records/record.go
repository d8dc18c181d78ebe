// Package records captures outbound API calls as learning material: each
// executed request becomes a persistent record that can be tagged,
// summarized, and searched later.
package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one learned API interaction.
type Record struct {
	ID           string    `json:"id"`
	Method       string    `json:"method"`
	URL          string    `json:"url"`
	RequestBody  string    `json:"request_body,omitempty"`
	ResponseBody string    `json:"response_body"`
	StatusCode   int       `json:"status_code"`
	LearnedAt    time.Time `json:"learned_at"`
	Tags         []string  `json:"tags"`
	Summary      string    `json:"summary"`
}

// New builds a record for an executed call, deriving tags from the URL and
// a one-line summary from the outcome.
func New(method, url, requestBody, responseBody string, statusCode int) Record {
	return Record{
		ID:           "api_" + uuid.New().String(),
		Method:       method,
		URL:          url,
		RequestBody:  requestBody,
		ResponseBody: responseBody,
		StatusCode:   statusCode,
		LearnedAt:    time.Now().UTC(),
		Tags:         extractTags(url),
		Summary:      summarize(url, statusCode),
	}
}

// extractTags derives tags from the URL: the host plus the first two path
// segments.
func extractTags(url string) []string {
	var tags []string

	parts := strings.Split(url, "/")
	if len(parts) > 2 && parts[2] != "" {
		tags = append(tags, parts[2])
	}

	count := 0
	for _, part := range parts[min(3, len(parts)):] {
		if count == 2 {
			break
		}
		if part != "" && !strings.Contains(part, "?") {
			tags = append(tags, part)
			count++
		}
	}

	return tags
}

func summarize(url string, statusCode int) string {
	var statusText string
	switch {
	case statusCode >= 200 && statusCode < 300:
		statusText = "Success"
	case statusCode >= 400 && statusCode < 500:
		statusText = "Client Error"
	case statusCode >= 500:
		statusText = "Server Error"
	default:
		statusText = "Unknown"
	}
	return fmt.Sprintf("%s - %s (%d)", statusText, url, statusCode)
}
