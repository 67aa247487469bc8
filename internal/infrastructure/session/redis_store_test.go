package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_RevocaHastaExpirar(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists("revoked_session:jti-1"))
	assert.Equal(t, time.Minute, mr.TTL("revoked_session:jti-1"))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "otro")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "la revocación vence junto con el token")
}

func TestRedisStore_ErrorDeConexion(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	_, err := s.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err, "un Redis caído no se interpreta como sesión vigente")
	assert.Error(t, s.Revoke(context.Background(), "jti-1", time.Minute))
}

func TestNewRedisStore_URLInvalida(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "http://no-es-redis")
	assert.Error(t, err)
}
