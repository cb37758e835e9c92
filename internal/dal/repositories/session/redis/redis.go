package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisdal "github.com/feastly/api/internal/dal/redis"
	"github.com/feastly/api/internal/service/models/session"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisSessionRepository stores login sessions in Redis under their token,
// expiring them through the key TTL.
type RedisSessionRepository struct {
	client *redisdal.Client
}

func NewRedisSessionRepository(client *redisdal.Client) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
	}
}

// Save stores the session for ttl.
func (r *RedisSessionRepository) Save(ctx context.Context, s session.Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.DB().Set(ctx, keyPrefix+s.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a session by token. A missing or expired session yields (nil, nil).
func (r *RedisSessionRepository) Get(ctx context.Context, token string) (*session.Session, error) {
	payload, err := r.client.DB().Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

// Delete removes a session, logging the user out everywhere this token is used.
func (r *RedisSessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.DB().Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
