// Package sqlite persists sessions in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/session"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes
// the schema.
func Open(ctx context.Context, path string) (session.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	ruleset TEXT NOT NULL,
	assertions TEXT NOT NULL DEFAULT '{}',
	solved INTEGER NOT NULL DEFAULT 0,
	solution TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_ruleset ON sessions(ruleset);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Create mints a new session for the named ruleset.
func (s *sqliteStore) Create(ctx context.Context, ruleset string) (session.Session, error) {
	now := time.Now().UTC()
	sess := session.Session{
		ID:         session.NewID(),
		Ruleset:    ruleset,
		Assertions: make(map[string]bool),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, ruleset, assertions, solved, solution, created_at, updated_at)
VALUES (?, ?, '{}', 0, '', ?, ?);
`, sess.ID, sess.Ruleset, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// Get returns a session by ID.
func (s *sqliteStore) Get(ctx context.Context, id string) (session.Session, error) {
	var (
		sess             session.Session
		assertionsJSON   string
		solved           int
		created, updated string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, ruleset, assertions, solved, solution, created_at, updated_at
FROM sessions
WHERE id = ?;
`, id).Scan(&sess.ID, &sess.Ruleset, &assertionsJSON, &solved, &sess.Solution, &created, &updated)
	if err == sql.ErrNoRows {
		return session.Session{}, fmt.Errorf("session %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return session.Session{}, err
	}

	if err := json.Unmarshal([]byte(assertionsJSON), &sess.Assertions); err != nil {
		return session.Session{}, fmt.Errorf("session %s: decode assertions: %w", id, err)
	}
	sess.Solved = solved != 0
	if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return session.Session{}, err
	}
	if sess.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// Put replaces a stored session.
func (s *sqliteStore) Put(ctx context.Context, sess session.Session) error {
	assertionsJSON, err := json.Marshal(sess.Assertions)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE sessions
SET ruleset = ?, assertions = ?, solved = ?, solution = ?, updated_at = ?
WHERE id = ?;
`, sess.Ruleset, string(assertionsJSON), boolToInt(sess.Solved), sess.Solution,
		time.Now().UTC().Format(time.RFC3339Nano), sess.ID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", sess.ID, internalerr.ErrNotFound)
	}
	return nil
}

// List returns up to limit sessions, newest first.
func (s *sqliteStore) List(ctx context.Context, limit int) ([]session.Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id FROM sessions ORDER BY id DESC LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]session.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// Delete removes a session.
func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?;`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", id, internalerr.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
