package experience

import (
	"time"

	"github.com/google/uuid"
)

// Experience is one immutable stored text record with provenance metadata.
// Instances are created by the memory store; callers only ever see copies.
type Experience struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	Metadata  string    `json:"metadata,omitempty"`
}

// New builds an experience with a fresh unique id and a UTC timestamp.
func New(content, source string) Experience {
	return Experience{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		Content:   content,
	}
}

// WithMetadata builds an experience carrying an optional metadata string.
func WithMetadata(content, source, metadata string) Experience {
	exp := New(content, source)
	exp.Metadata = metadata
	return exp
}
