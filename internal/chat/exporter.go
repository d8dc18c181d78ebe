package chat

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// Exporter renders a chat session into shareable formats.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportJSON renders the session as pretty-printed JSON.
func (e *Exporter) ExportJSON(s Session) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	return string(data), nil
}

// ExportTxt renders the session as a plain-text transcript.
func (e *Exporter) ExportTxt(s Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chat Session: %s\n", s.ID)
	fmt.Fprintf(&b, "Created: %s\n\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")

	for _, msg := range s.Messages {
		fmt.Fprintf(&b, "\n[%s] %s\n%s\n",
			msg.Timestamp.Format("15:04:05"),
			strings.ToUpper(msg.Role),
			msg.Content,
		)
		b.WriteString(strings.Repeat("-", 50))
		b.WriteString("\n")
	}

	return b.String()
}

// ExportMarkdown renders the session as a Markdown document.
func (e *Exporter) ExportMarkdown(s Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Chat Session: %s\n\n", s.ID)
	fmt.Fprintf(&b, "**Created:** %s\n\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("---\n\n")

	for _, msg := range s.Messages {
		marker := "🤖"
		if msg.Role == RoleUser {
			marker = "👤"
		}
		fmt.Fprintf(&b, "## %s %s (%s)\n\n%s\n\n",
			marker,
			strings.ToUpper(msg.Role),
			msg.Timestamp.Format("15:04:05"),
			msg.Content,
		)
	}

	return b.String()
}

// ExportHTML renders the session as a standalone HTML page. Message content
// is escaped.
func (e *Exporter) ExportHTML(s Session) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Chat Export</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
        .message { margin: 20px 0; padding: 15px; border-radius: 8px; }
        .user { background-color: #e3f2fd; text-align: right; }
        .assistant { background-color: #f5f5f5; }
        .role { font-weight: bold; margin-bottom: 5px; }
        .time { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
`)

	fmt.Fprintf(&b, "<h1>Chat Session: %s</h1>\n", html.EscapeString(s.ID))
	fmt.Fprintf(&b, "<p>Created: %s</p>\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("<hr>\n")

	for _, msg := range s.Messages {
		fmt.Fprintf(&b, `<div class="message %s">
    <div class="role">%s</div>
    <div class="time">%s</div>
    <p>%s</p>
</div>
`,
			html.EscapeString(msg.Role),
			strings.ToUpper(html.EscapeString(msg.Role)),
			msg.Timestamp.Format("15:04:05"),
			html.EscapeString(msg.Content),
		)
	}

	b.WriteString("</body>\n</html>")
	return b.String()
}
