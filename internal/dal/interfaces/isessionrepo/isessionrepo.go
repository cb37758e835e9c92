package isessionrepo

import (
	"context"
	"time"

	"github.com/feastly/api/internal/service/models/session"
)

// ISessionRepository is an interface for the Redis session store.
type ISessionRepository interface {
	Save(ctx context.Context, s session.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*session.Session, error)
	Delete(ctx context.Context, token string) error
}
