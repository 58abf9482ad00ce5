package auth

import (
	"context"
	"sync"
	"time"
)

type memoryCode struct {
	hash      string
	expiresAt time.Time
}

// MemoryCodeStore is the CodeStore used when no Redis is configured. Codes do
// not survive a restart.
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[int64]memoryCode
	now   func() time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: make(map[int64]memoryCode), now: time.Now}
}

func (s *MemoryCodeStore) Save(_ context.Context, userID int64, hash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[userID] = memoryCode{hash: hash, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryCodeStore) Get(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[userID]
	if !ok {
		return "", ErrCodeNotFound
	}
	if !s.now().Before(c.expiresAt) {
		delete(s.codes, userID)
		return "", ErrCodeNotFound
	}
	return c.hash, nil
}

func (s *MemoryCodeStore) Delete(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.codes[userID]
	delete(s.codes, userID)
	return ok, nil
}
