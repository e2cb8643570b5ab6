package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// FeedState is the remembered fetch state for one feed URL.
type FeedState struct {
	URL             string
	ETag            string
	LastModified    string
	LastFetchedAt   *time.Time
	FetchErrorCount int
	LastError       string
}

// StateStore records per-feed fetch state in SQLite: HTTP validators for
// conditional requests plus error bookkeeping for the sources listing.
type StateStore struct {
	db *sql.DB
}

// NewStateStore opens (or creates) the state database at the given path.
func NewStateStore(path string) (*StateStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	s := &StateStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}
	return s, nil
}

func (s *StateStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feed_state (
		url TEXT PRIMARY KEY,
		etag TEXT NOT NULL DEFAULT '',
		last_modified TEXT NOT NULL DEFAULT '',
		last_fetched_at TIMESTAMP,
		fetch_error_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *StateStore) Close() error {
	return s.db.Close()
}

// Get returns the state for a URL. An unseen URL yields a zero state, not
// an error.
func (s *StateStore) Get(url string) (FeedState, error) {
	st := FeedState{URL: url}
	query := `SELECT etag, last_modified, last_fetched_at, fetch_error_count, last_error
	          FROM feed_state WHERE url = ?`

	var fetchedAt sql.NullTime
	err := s.db.QueryRow(query, url).Scan(&st.ETag, &st.LastModified, &fetchedAt, &st.FetchErrorCount, &st.LastError)
	if err == sql.ErrNoRows {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to query feed state: %w", err)
	}
	if fetchedAt.Valid {
		t := fetchedAt.Time
		st.LastFetchedAt = &t
	}
	return st, nil
}

// RecordSuccess stores fresh validators and clears the error counters.
func (s *StateStore) RecordSuccess(url, etag, lastModified string, at time.Time) error {
	query := `INSERT INTO feed_state (url, etag, last_modified, last_fetched_at, fetch_error_count, last_error)
	          VALUES (?, ?, ?, ?, 0, '')
	          ON CONFLICT(url) DO UPDATE SET
	            etag = excluded.etag,
	            last_modified = excluded.last_modified,
	            last_fetched_at = excluded.last_fetched_at,
	            fetch_error_count = 0,
	            last_error = ''`
	if _, err := s.db.Exec(query, url, etag, lastModified, at.UTC()); err != nil {
		return fmt.Errorf("failed to record fetch success: %w", err)
	}
	return nil
}

// RecordFailure bumps the error counter and remembers the message.
func (s *StateStore) RecordFailure(url string, at time.Time, fetchErr error) error {
	msg := ""
	if fetchErr != nil {
		msg = fetchErr.Error()
	}
	query := `INSERT INTO feed_state (url, last_fetched_at, fetch_error_count, last_error)
	          VALUES (?, ?, 1, ?)
	          ON CONFLICT(url) DO UPDATE SET
	            last_fetched_at = excluded.last_fetched_at,
	            fetch_error_count = feed_state.fetch_error_count + 1,
	            last_error = excluded.last_error`
	if _, err := s.db.Exec(query, url, at.UTC(), msg); err != nil {
		return fmt.Errorf("failed to record fetch failure: %w", err)
	}
	return nil
}

// All returns every known feed state ordered by URL.
func (s *StateStore) All() ([]FeedState, error) {
	query := `SELECT url, etag, last_modified, last_fetched_at, fetch_error_count, last_error
	          FROM feed_state ORDER BY url`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed state: %w", err)
	}
	defer rows.Close()

	var out []FeedState
	for rows.Next() {
		var st FeedState
		var fetchedAt sql.NullTime
		if err := rows.Scan(&st.URL, &st.ETag, &st.LastModified, &fetchedAt, &st.FetchErrorCount, &st.LastError); err != nil {
			return nil, fmt.Errorf("failed to scan feed state: %w", err)
		}
		if fetchedAt.Valid {
			t := fetchedAt.Time
			st.LastFetchedAt = &t
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
