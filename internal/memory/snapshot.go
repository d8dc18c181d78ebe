package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sekadau-online/ai-core/internal/experience"
)

// snapshot is the on-disk shape of the store: a single JSON document with
// an experiences array. Timestamps serialize as RFC 3339.
type snapshot struct {
	Experiences []experience.Experience `json:"experiences"`
}

// SnapshotTo serializes the full store contents to w.
func (s *Store) SnapshotTo(w io.Writer) error {
	snap := snapshot{Experiences: s.List()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// RestoreFrom replaces the in-memory collection with the contents of a
// snapshot read from r. The document is parsed into a temporary value first;
// malformed input leaves the prior state untouched.
func (s *Store) RestoreFrom(r io.Reader) error {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	s.replace(snap.Experiences)
	return nil
}

// SaveFile writes the snapshot to path, creating parent directories as
// needed. The document is written to a temporary file and renamed into
// place so a crash mid-write never corrupts the previous snapshot.
func (s *Store) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	if err := s.SnapshotTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// LoadFile restores the store from the snapshot at path. A missing file
// means "start empty" and is not an error.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	return s.RestoreFrom(f)
}
