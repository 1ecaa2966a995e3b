package services

import (
	"context"
	"sync"
)

// TokenStore persists one bearer token per Telegram user — the only durable
// client-side state. Get returns "" (no error) when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context, userID int64) (string, error)
	Set(ctx context.Context, userID int64, token string) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryTokenStore keeps tokens in a map. Used in tests and as a fallback
// when no database is configured (tokens then live only for the process).
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[int64]string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[int64]string)}
}

func (m *MemoryTokenStore) Get(ctx context.Context, userID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[userID], nil
}

func (m *MemoryTokenStore) Set(ctx context.Context, userID int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[userID] = token
	return nil
}

func (m *MemoryTokenStore) Delete(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, userID)
	return nil
}
