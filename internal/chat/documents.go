package chat

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"gopkg.in/yaml.v3"
)

// DocumentProcessor extracts indexable plain text from uploaded documents.
// Unknown file types pass through as plain text.
type DocumentProcessor struct{}

func NewDocumentProcessor() *DocumentProcessor {
	return &DocumentProcessor{}
}

// Process converts the raw upload content into plain text according to its
// declared file type. PDF payloads arrive base64-encoded.
func (p *DocumentProcessor) Process(content, filetype string) (string, error) {
	switch filetype {
	case "txt", "text/plain":
		return content, nil
	case "json", "application/json":
		var v any
		if err := json.Unmarshal([]byte(content), &v); err != nil {
			return "", fmt.Errorf("invalid JSON: %w", err)
		}
		return extractValues(v), nil
	case "yaml", "yml", "application/yaml":
		var v any
		if err := yaml.Unmarshal([]byte(content), &v); err != nil {
			return "", fmt.Errorf("invalid YAML: %w", err)
		}
		return extractValues(v), nil
	case "csv", "text/csv":
		return extractCSV(content), nil
	case "pdf", "application/pdf":
		return extractPDF(content)
	default:
		return content, nil
	}
}

// extractValues walks a decoded JSON/YAML value and collects its scalar
// leaves as lines, prefixing map entries with their key.
func extractValues(v any) string {
	var b strings.Builder
	walkValue(&b, v)
	return b.String()
}

func walkValue(b *strings.Builder, v any) {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) != "" {
			b.WriteString(val)
			b.WriteString("\n")
		}
	case []any:
		for _, item := range val {
			walkValue(b, item)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			b.WriteString(key)
			b.WriteString(": ")
			walkValue(b, val[key])
		}
	case bool:
		fmt.Fprintf(b, "%t\n", val)
	case float64:
		b.WriteString(strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), "."))
		b.WriteString("\n")
	case int:
		fmt.Fprintf(b, "%d\n", val)
	case json.Number:
		b.WriteString(val.String())
		b.WriteString("\n")
	}
}

func extractCSV(content string) string {
	var b strings.Builder
	for i, line := range strings.Split(content, "\n") {
		if i == 0 {
			fmt.Fprintf(&b, "CSV Headers: %s\n", line)
		} else if strings.TrimSpace(line) != "" {
			fmt.Fprintf(&b, "Row %d: %s\n", i, line)
		}
	}
	return b.String()
}

// extractPDF decodes a base64 PDF payload and concatenates the plain text
// of every readable page. Unreadable pages are skipped with a note rather
// than failing the whole document.
func extractPDF(content string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", fmt.Errorf("invalid base64 PDF payload: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("parse PDF: %w", err)
	}

	var b strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			fmt.Fprintf(&b, "[Error reading page %d: %v]\n", pageIndex, err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}
