package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
)

var _ auth.SessionStore = (*RedisStore)(nil)

// RedisStore sesiones revocadas en Redis; cada clave expira junto con el token.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore conecta usando una URL redis://.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Close libera la conexión.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("revoked_session:%s", tokenID)
}

// Revoke marca la sesión como cerrada durante ttl.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	return nil
}

// IsRevoked true si la sesión fue cerrada.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := s.client.Get(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consultar sesión: %w", err)
	}
	return true, nil
}
