package session

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
)

var _ auth.SessionStore = (*MemoryStore)(nil)

// MemoryStore revocaciones en memoria del proceso (una sola instancia, sin Redis).
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore crea el almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: map[string]time.Time{}, now: time.Now}
}

// Revoke marca la sesión como cerrada durante ttl.
func (s *MemoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = s.now().Add(ttl)
	s.purgeLocked()
	return nil
}

// IsRevoked true si la sesión fue cerrada y la revocación no venció.
func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	return ok && s.now().Before(until), nil
}

func (s *MemoryStore) purgeLocked() {
	now := s.now()
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}
}
