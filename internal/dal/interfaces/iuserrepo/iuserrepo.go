package iuserrepo

import (
	"context"

	"github.com/feastly/api/internal/service/models/user"
)

// IUserRepository is an interface for the user postgres repository.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
