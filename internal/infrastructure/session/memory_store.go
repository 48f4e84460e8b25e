package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type memorySession struct {
	mu        sync.Mutex
	vars      map[string][]byte
	challenge string
}

// MemoryStore is an in-process Store for development and tests.
// Sessions expire after ttl of inactivity.
type MemoryStore struct {
	mu    sync.Mutex // guards get-or-create in sessions
	store *gocache.Cache
	ttl   time.Duration
}

func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (s *MemoryStore) session(sessionID string, create bool) *memorySession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.store.Get(sessionID); ok {
		sess := v.(*memorySession)
		s.store.Set(sessionID, sess, s.ttl)
		return sess
	}
	if !create {
		return nil
	}

	sess := &memorySession{vars: make(map[string][]byte)}
	s.store.Set(sessionID, sess, s.ttl)
	return sess
}

func (s *MemoryStore) Get(_ context.Context, sessionID, key string, dest interface{}) (bool, error) {
	if sessionID == "" {
		return false, ErrEmptySessionID
	}

	sess := s.session(sessionID, false)
	if sess == nil {
		return false, nil
	}

	sess.mu.Lock()
	raw, ok := sess.vars[key]
	sess.mu.Unlock()
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("session decode %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID, key string, value interface{}) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session encode %s: %w", key, err)
	}

	sess := s.session(sessionID, true)
	sess.mu.Lock()
	sess.vars[key] = raw
	sess.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string, keys ...string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	sess := s.session(sessionID, false)
	if sess == nil {
		return nil
	}

	sess.mu.Lock()
	for _, k := range keys {
		delete(sess.vars, k)
	}
	sess.mu.Unlock()
	return nil
}

func (s *MemoryStore) IssueChallenge(_ context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}

	token := uuid.NewString()
	sess := s.session(sessionID, true)
	sess.mu.Lock()
	sess.challenge = token
	sess.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) ConsumeChallenge(_ context.Context, sessionID, presented string) (bool, error) {
	if sessionID == "" {
		return false, ErrEmptySessionID
	}

	sess := s.session(sessionID, false)
	if sess == nil {
		return false, nil
	}

	sess.mu.Lock()
	stored := sess.challenge
	sess.challenge = ""
	sess.mu.Unlock()

	return tokensEqual(stored, presented), nil
}
