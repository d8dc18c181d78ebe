package memory

import (
	"fmt"
	"sync"
	"testing"
)

func TestStoreAppend(t *testing.T) {
	s := NewStore()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		exp := s.Append("learned about goroutines", "test", "")
		if exp.ID == "" {
			t.Fatal("expected non-empty id")
		}
		if exp.Timestamp.IsZero() {
			t.Fatal("expected non-zero timestamp")
		}
		if exp.Content != "learned about goroutines" {
			t.Fatalf("content mismatch: %q", exp.Content)
		}
	})

	t.Run("retrievable by id immediately", func(t *testing.T) {
		exp := s.Append("second entry", "test", "")
		got, ok := s.Get(exp.ID)
		if !ok {
			t.Fatal("expected to find appended experience")
		}
		if got.ID != exp.ID || got.Content != exp.Content {
			t.Fatalf("got %+v, want %+v", got, exp)
		}
	})

	t.Run("count tracks appends", func(t *testing.T) {
		if s.Count() != 2 {
			t.Fatalf("expected count 2, got %d", s.Count())
		}
	})

	t.Run("metadata is kept", func(t *testing.T) {
		exp := s.Append("entry with metadata", "test", "origin:unit")
		got, _ := s.Get(exp.ID)
		if got.Metadata != "origin:unit" {
			t.Fatalf("expected metadata kept, got %q", got.Metadata)
		}
	})
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("no-such-id"); ok {
		t.Fatal("expected not-found for unknown id")
	}
}

func TestStoreSearch(t *testing.T) {
	s := NewStore()
	hello := s.Append("Hello World", "test", "")
	s.Append("unrelated entry", "test", "")

	t.Run("case-insensitive", func(t *testing.T) {
		for _, q := range []string{"hello", "WORLD", "Hello World"} {
			results := s.Search(q)
			if len(results) != 1 {
				t.Fatalf("query %q: expected 1 result, got %d", q, len(results))
			}
			if results[0].ID != hello.ID {
				t.Fatalf("query %q: wrong experience returned", q)
			}
		}
	})

	t.Run("no match", func(t *testing.T) {
		if results := s.Search("absent"); len(results) != 0 {
			t.Fatalf("expected no results, got %d", len(results))
		}
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		if results := s.Search(""); len(results) != s.Count() {
			t.Fatalf("expected %d results, got %d", s.Count(), len(results))
		}
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		s2 := NewStore()
		first := s2.Append("shared token one", "test", "")
		second := s2.Append("shared token two", "test", "")
		results := s2.Search("shared token")
		if len(results) != 2 || results[0].ID != first.ID || results[1].ID != second.ID {
			t.Fatal("expected results in insertion order")
		}
	})
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Append("something", "test", "")
	s.Clear()

	if !s.IsEmpty() {
		t.Fatal("expected empty store after clear")
	}
	if s.Count() != 0 {
		t.Fatalf("expected count 0 after clear, got %d", s.Count())
	}
}

func TestStoreConcurrentAppends(t *testing.T) {
	s := NewStore()
	const n = 100

	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			exp := s.Append(fmt.Sprintf("entry %d", i), "concurrent", "")
			ids <- exp.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}

	if s.Count() != n {
		t.Fatalf("expected %d experiences, got %d", n, s.Count())
	}
	for _, exp := range s.List() {
		if exp.ID == "" || exp.Content == "" || exp.Timestamp.IsZero() {
			t.Fatalf("observed partially populated record: %+v", exp)
		}
	}
}

func TestStoreConcurrentReadsDuringWrites(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			s.Append(fmt.Sprintf("write %d", i), "writer", "")
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					for _, exp := range s.List() {
						if exp.ID == "" || exp.Content == "" {
							t.Error("observed partially appended record")
							return
						}
					}
					s.Search("write")
				}
			}
		}()
	}

	wg.Wait()
}
