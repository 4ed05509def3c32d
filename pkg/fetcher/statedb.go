// Package fetcher downloads the published article-index export and keeps
// the local copy fresh: conditional GETs against the stored ETag and
// Last-Modified avoid re-downloading an unchanged sheet, and fetch state
// is persisted in a small SQLite database next to the dataset.
package fetcher

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Source is one tracked download source.
type Source struct {
	ID           string
	URL          string
	ETag         *string
	LastModified *string
	LastCheck    *int64
	LastStatus   *int
	LastError    *string
	UpdatedAt    int64
}

// StateDB manages the fetch_sources SQLite table.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite database at path and ensures
// the fetch_sources table exists.
func OpenStateDB(path string) (*StateDB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS fetch_sources (
		source_id     TEXT PRIMARY KEY,
		url           TEXT NOT NULL,
		etag          TEXT,
		last_modified TEXT,
		last_check    INTEGER,
		last_status   INTEGER,
		last_error    TEXT,
		updated_at    INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create fetch_sources table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Close closes the SQLite connection.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// Seed inserts a source row if it does not exist yet. Existing rows are
// left untouched so a manually overridden URL survives restarts.
func (s *StateDB) Seed(id, url string) error {
	const q = `INSERT OR IGNORE INTO fetch_sources (source_id, url, updated_at) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(q, id, url, time.Now().Unix()); err != nil {
		return fmt.Errorf("seed source %s: %w", id, err)
	}
	return nil
}

// Get returns one tracked source.
func (s *StateDB) Get(id string) (*Source, error) {
	row := s.db.QueryRow(`SELECT source_id, url, etag, last_modified, last_check,
		last_status, last_error, updated_at
		FROM fetch_sources WHERE source_id = ?`, id)

	var src Source
	err := row.Scan(&src.ID, &src.URL, &src.ETag, &src.LastModified,
		&src.LastCheck, &src.LastStatus, &src.LastError, &src.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("source %s not tracked", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get source %s: %w", id, err)
	}
	return &src, nil
}

// SetURL updates the source URL and records the change timestamp.
func (s *StateDB) SetURL(id, url string) error {
	res, err := s.db.Exec(
		`UPDATE fetch_sources SET url = ?, updated_at = ? WHERE source_id = ?`,
		url, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("set url for %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("source %s not tracked", id)
	}
	return nil
}

// SetValidators persists the ETag and Last-Modified returned by a
// successful download, so the next fetch can be conditional.
func (s *StateDB) SetValidators(id, etag, lastModified string) error {
	var etagPtr, lmPtr *string
	if etag != "" {
		etagPtr = &etag
	}
	if lastModified != "" {
		lmPtr = &lastModified
	}
	_, err := s.db.Exec(
		`UPDATE fetch_sources SET etag = ?, last_modified = ?, updated_at = ? WHERE source_id = ?`,
		etagPtr, lmPtr, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("set validators for %s: %w", id, err)
	}
	return nil
}

// UpdateCheck persists the result of an availability or fetch attempt.
func (s *StateDB) UpdateCheck(id string, status int, checkErr string) error {
	var errPtr *string
	if checkErr != "" {
		errPtr = &checkErr
	}
	_, err := s.db.Exec(
		`UPDATE fetch_sources SET last_check = ?, last_status = ?, last_error = ? WHERE source_id = ?`,
		time.Now().Unix(), status, errPtr, id,
	)
	if err != nil {
		return fmt.Errorf("update check for %s: %w", id, err)
	}
	return nil
}
