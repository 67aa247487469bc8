package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RevocaHastaExpirar(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = s.IsRevoked(ctx, "otro")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = s.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "la revocación vence junto con el token")

	require.NoError(t, s.Revoke(ctx, "jti-2", time.Minute))
	assert.NotContains(t, s.revoked, "jti-1", "las revocaciones vencidas se purgan")
}
