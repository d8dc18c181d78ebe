package memory

import (
	"strings"
	"sync"

	"github.com/sekadau-online/ai-core/internal/experience"
)

// Store is the append-only collection of experiences. It is the only piece
// of mutable shared state in the service, guarded by a single reader/writer
// lock. Read methods copy data out under the read lock and release it before
// returning, so no lock is ever held across a slow operation.
type Store struct {
	mu          sync.RWMutex
	experiences []experience.Experience
}

func NewStore() *Store {
	return &Store{}
}

// Append creates an experience from the given content, assigns its id and
// timestamp, and inserts it at the end of the collection. Pass an empty
// metadata string when there is none. Append never fails.
func (s *Store) Append(content, source, metadata string) experience.Experience {
	exp := experience.New(content, source)
	if metadata != "" {
		exp.Metadata = metadata
	}

	s.mu.Lock()
	s.experiences = append(s.experiences, exp)
	s.mu.Unlock()

	return exp
}

// Get returns the experience with the given id, or false when absent.
func (s *Store) Get(id string) (experience.Experience, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, exp := range s.experiences {
		if exp.ID == id {
			return exp, true
		}
	}
	return experience.Experience{}, false
}

// Search returns copies of all experiences whose content contains the query,
// case-insensitively, in insertion order. An empty query matches every
// experience (substring semantics, kept deliberately).
func (s *Store) Search(query string) []experience.Experience {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []experience.Experience
	for _, exp := range s.experiences {
		if strings.Contains(strings.ToLower(exp.Content), q) {
			results = append(results, exp)
		}
	}
	return results
}

// List returns a snapshot copy of all experiences in insertion order.
func (s *Store) List() []experience.Experience {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]experience.Experience, len(s.experiences))
	copy(out, s.experiences)
	return out
}

// Count returns the number of stored experiences.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.experiences)
}

// IsEmpty reports whether the store holds no experiences.
func (s *Store) IsEmpty() bool {
	return s.Count() == 0
}

// Clear removes every experience. Irreversible.
func (s *Store) Clear() {
	s.mu.Lock()
	s.experiences = nil
	s.mu.Unlock()
}

// replace swaps the whole collection in one step. Used by restore so a
// successfully parsed snapshot lands atomically.
func (s *Store) replace(exps []experience.Experience) {
	s.mu.Lock()
	s.experiences = exps
	s.mu.Unlock()
}
