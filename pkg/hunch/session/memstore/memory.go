// Package memstore provides an in-memory session.Store for tests and
// single-process servers.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/session"
)

// Store is an in-memory implementation of session.Store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{sessions: make(map[string]session.Session)}
}

// Close implements session.Store.
func (s *Store) Close() error { return nil }

// Create mints a new session for the named ruleset.
func (s *Store) Create(ctx context.Context, ruleset string) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	sess := session.Session{
		ID:         session.NewID(),
		Ruleset:    ruleset,
		Assertions: make(map[string]bool),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.sessions[sess.ID] = sess.Copy()
	return sess, nil
}

// Get returns a session by ID.
func (s *Store) Get(ctx context.Context, id string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return session.Session{}, fmt.Errorf("session %s: %w", id, internalerr.ErrNotFound)
	}
	return sess.Copy(), nil
}

// Put replaces a stored session.
func (s *Store) Put(ctx context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; !ok {
		return fmt.Errorf("session %s: %w", sess.ID, internalerr.ErrNotFound)
	}
	sess.UpdatedAt = time.Now().UTC()
	s.sessions[sess.ID] = sess.Copy()
	return nil
}

// List returns up to limit sessions, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	out := make([]session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Copy())
	}
	// ULIDs sort by creation time.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, internalerr.ErrNotFound)
	}
	delete(s.sessions, id)
	return nil
}
