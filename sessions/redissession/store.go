package redissession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every Redis transport failure surfaced by this
// package.
var ErrRedisUnavailable = errors.New("redissession: redis unavailable")

const defaultPrefix = "gss:"

// Store loads and persists sessions in Redis.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session store on the given client. An empty prefix
// selects the default "gss:".
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Load fetches the session with the given id into memory. An unknown id
// yields an empty session under that id; an empty id yields a brand new
// session.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return &Session{store: s, id: uuid.NewString(), values: make(map[string]string)}, nil
	}

	fields, err := s.redis.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if fields == nil {
		fields = make(map[string]string)
	}

	return &Session{store: s, id: id, values: fields}, nil
}

// Session is a loaded Redis session. Mutations are local until Save.
// A Session is request-scoped and not safe for concurrent use.
type Session struct {
	store    *Store
	id       string
	values   map[string]string
	staleIDs []string
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

// Regenerate cycles the session id, preserving stored values. The retired
// id is deleted from Redis on the next Save.
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

// Save persists the session with the given TTL and removes any ids retired
// by Regenerate, in a single transaction. A session with no values is
// deleted rather than stored empty.
func (s *Session) Save(ctx context.Context, ttl time.Duration) error {
	key := s.store.key(s.id)

	_, err := s.store.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, stale := range s.staleIDs {
			pipe.Del(ctx, s.store.key(stale))
		}
		pipe.Del(ctx, key)
		if len(s.values) > 0 {
			flat := make([]any, 0, len(s.values)*2)
			for k, v := range s.values {
				flat = append(flat, k, v)
			}
			pipe.HSet(ctx, key, flat...)
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	s.staleIDs = nil
	return nil
}
