// Package session defines the persisted state of a guessing game and
// the Store interface its backends implement.
package session

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session is one play-through of a ruleset: the answers given so far
// and, once the game ends, the verdict.
type Session struct {
	ID         string
	Ruleset    string
	Assertions map[string]bool
	Solved     bool
	Solution   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store persists sessions.
type Store interface {
	Close() error

	// Create mints a session for the named ruleset.
	Create(ctx context.Context, ruleset string) (Session, error)
	// Get returns a session by ID, or internalerr.ErrNotFound.
	Get(ctx context.Context, id string) (Session, error)
	// Put replaces a stored session and stamps UpdatedAt.
	Put(ctx context.Context, s Session) error
	// List returns up to limit sessions, newest first.
	List(ctx context.Context, limit int) ([]Session, error)
	// Delete removes a session, or internalerr.ErrNotFound.
	Delete(ctx context.Context, id string) error
}

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh session ID. IDs are ULIDs: URL-safe and
// lexicographically ordered by creation time, so sorting by ID sorts
// by age.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Now(), idEntropy).String()
}

// Copy returns a deep copy of the session.
func (s Session) Copy() Session {
	out := s
	out.Assertions = make(map[string]bool, len(s.Assertions))
	for fact, yes := range s.Assertions {
		out.Assertions[fact] = yes
	}
	return out
}
