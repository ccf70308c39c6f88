// Package memsession provides an in-process session implementation for
// tests and examples. Values live in a plain map; Regenerate swaps the id
// and keeps the values, which is all the guard requires.
package memsession

import (
	"github.com/google/uuid"
)

// Session is an in-memory guardkit.Session. It is request-scoped and not
// safe for concurrent use.
type Session struct {
	id       string
	values   map[string]string
	staleIDs []string
}

// New returns an empty session with a fresh id.
func New() *Session {
	return NewWithID(uuid.NewString())
}

// NewWithID returns an empty session with the given id, letting tests pin a
// known pre-login identifier.
func NewWithID(id string) *Session {
	return &Session{id: id, values: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Put stores a value under key.
func (s *Session) Put(key, value string) {
	s.values[key] = value
}

// Forget removes the value stored under key.
func (s *Session) Forget(key string) {
	delete(s.values, key)
}

// Regenerate cycles the session id, preserving stored values. Prior ids are
// recorded and observable via PreviousIDs.
func (s *Session) Regenerate() error {
	s.staleIDs = append(s.staleIDs, s.id)
	s.id = uuid.NewString()
	return nil
}

// SessionID returns the current session id.
func (s *Session) SessionID() string {
	return s.id
}

// All returns a copy of the stored values.
func (s *Session) All() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// PreviousIDs returns the ids retired by Regenerate, oldest first.
func (s *Session) PreviousIDs() []string {
	out := make([]string, len(s.staleIDs))
	copy(out, s.staleIDs)
	return out
}
