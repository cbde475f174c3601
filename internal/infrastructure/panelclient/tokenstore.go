package panelclient

import (
	"context"
	"sync"
	"time"
)

// TokenStore keeps panel session tokens so that every worker process reuses
// one login per panel.
type TokenStore interface {
	Get(ctx context.Context, panelID uint) (string, error)
	Set(ctx context.Context, panelID uint, token string, ttl time.Duration) error
	Delete(ctx context.Context, panelID uint) error
}

type memoryToken struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenStore is the process-local TokenStore used when Redis is disabled.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[uint]memoryToken
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[uint]memoryToken),
		now:    time.Now,
	}
}

// Get returns an empty string when no live token is stored.
func (s *MemoryTokenStore) Get(_ context.Context, panelID uint) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tok, ok := s.tokens[panelID]
	if !ok || (!tok.expiresAt.IsZero() && !s.now().Before(tok.expiresAt)) {
		return "", nil
	}
	return tok.value, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, panelID uint, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok := memoryToken{value: token}
	if ttl > 0 {
		tok.expiresAt = s.now().Add(ttl)
	}
	s.tokens[panelID] = tok
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, panelID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, panelID)
	return nil
}
