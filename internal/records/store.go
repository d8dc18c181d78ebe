package records

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists learning records in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the records database at the given path, runs schema
// initialization, and configures WAL mode.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS learning_records (
			id TEXT PRIMARY KEY,
			method TEXT NOT NULL,
			url TEXT NOT NULL,
			request_body TEXT,
			response_body TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			learned_at INTEGER NOT NULL,
			tags TEXT NOT NULL,
			summary TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_learning_records_learned_at ON learning_records(learned_at);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a new record.
func (s *Store) Insert(r Record) error {
	tagsJSON, _ := json.Marshal(r.Tags)

	_, err := s.db.Exec(`
		INSERT INTO learning_records (id, method, url, request_body, response_body, status_code, learned_at, tags, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Method, r.URL, r.RequestBody, r.ResponseBody, r.StatusCode, r.LearnedAt.UnixMilli(), string(tagsJSON), r.Summary)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// GetByID returns the record with the given id, or nil when absent.
func (s *Store) GetByID(id string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, method, url, request_body, response_body, status_code, learned_at, tags, summary
		FROM learning_records WHERE id = ?
	`, id)

	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return r, nil
}

// List returns all records, newest first.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, method, url, request_body, response_body, status_code, learned_at, tags, summary
		FROM learning_records ORDER BY learned_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// Search returns records whose url, tags, or summary contain the query,
// case-insensitively, newest first.
func (s *Store) Search(query string) ([]Record, error) {
	like := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, method, url, request_body, response_body, status_code, learned_at, tags, summary
		FROM learning_records
		WHERE url LIKE ? COLLATE NOCASE
		   OR tags LIKE ? COLLATE NOCASE
		   OR summary LIKE ? COLLATE NOCASE
		ORDER BY learned_at DESC
	`, like, like, like)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// Update replaces the tags and/or summary of a record. Nil pointers leave
// the existing value in place. Returns the updated record, or nil when the
// id does not exist.
func (s *Store) Update(id string, tags *[]string, summary *string) (*Record, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if tags != nil {
		existing.Tags = *tags
	}
	if summary != nil {
		existing.Summary = *summary
	}

	tagsJSON, _ := json.Marshal(existing.Tags)
	if _, err := s.db.Exec(`
		UPDATE learning_records SET tags = ?, summary = ? WHERE id = ?
	`, string(tagsJSON), existing.Summary, id); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}

	return existing, nil
}

// Delete removes a record, reporting whether it existed.
func (s *Store) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM learning_records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Clear removes all records, returning how many were deleted.
func (s *Store) Clear() (int, error) {
	res, err := s.db.Exec(`DELETE FROM learning_records`)
	if err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var r Record
	var learnedAt int64
	var tagsJSON string

	if err := row.Scan(&r.ID, &r.Method, &r.URL, &r.RequestBody, &r.ResponseBody,
		&r.StatusCode, &learnedAt, &tagsJSON, &r.Summary); err != nil {
		return nil, err
	}

	r.LearnedAt = time.UnixMilli(learnedAt).UTC()
	if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
		r.Tags = nil
	}
	return &r, nil
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
