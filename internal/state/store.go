// Package state persists per-document navigation state so a restarted
// preview resumes where the author left off.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Navigation is the last recorded display state for one document.
type Navigation struct {
	DocKey    string
	URL       string
	Generator string
	UpdatedAt time.Time
}

// Store is a SQLite-backed navigation state store.
// Use ":memory:" for an ephemeral store, or a file path for persistence.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (and if needed initializes) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS navigation (
		doc_key   TEXT PRIMARY KEY,
		url       TEXT NOT NULL,
		generator TEXT NOT NULL,
		updated   INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveNavigation records the displayed URL and generator for a document,
// replacing any previous record.
func (s *Store) SaveNavigation(ctx context.Context, docKey, url, generator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO navigation (doc_key, url, generator, updated) VALUES (?, ?, ?, ?)
		 ON CONFLICT(doc_key) DO UPDATE SET url=excluded.url, generator=excluded.generator, updated=excluded.updated`,
		docKey, url, generator, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save navigation: %w", err)
	}
	return nil
}

// Navigation returns the recorded state for a document, if any.
func (s *Store) Navigation(ctx context.Context, docKey string) (Navigation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRowContext(ctx,
		"SELECT doc_key, url, generator, updated FROM navigation WHERE doc_key = ?", docKey)
	var nav Navigation
	var updated int64
	if err := row.Scan(&nav.DocKey, &nav.URL, &nav.Generator, &updated); err != nil {
		if err == sql.ErrNoRows {
			return Navigation{}, false, nil
		}
		return Navigation{}, false, fmt.Errorf("query navigation: %w", err)
	}
	nav.UpdatedAt = time.Unix(updated, 0)
	return nav, true, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
