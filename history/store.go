// Package history records accepted submissions in a local SQLite
// database so past ideas survive restarts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Submission is one accepted idea as the backend acknowledged it.
type Submission struct {
	ID          string
	Title       string
	Summary     string
	Language    string
	SubmittedAt time.Time
}

// Store persists submissions in a SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "voxidea", "history.sqlite")
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			summary     TEXT NOT NULL,
			language    TEXT NOT NULL DEFAULT '',
			submittedAt INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create submissions table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records an accepted submission.
func (s *Store) Add(sub Submission) error {
	at := sub.SubmittedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO submissions (id, title, summary, language, submittedAt)
		VALUES (?, ?, ?, ?, ?)
	`, sub.ID, sub.Title, sub.Summary, sub.Language, at.Unix())
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// Recent returns the newest submissions first, at most limit of them.
func (s *Store) Recent(limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, title, summary, language, submittedAt
		FROM submissions
		ORDER BY submittedAt DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		var at int64
		if err := rows.Scan(&sub.ID, &sub.Title, &sub.Summary, &sub.Language, &at); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.SubmittedAt = time.Unix(at, 0)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
