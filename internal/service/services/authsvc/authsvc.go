package authsvc

import (
	"context"
	"errors"
	"time"

	"github.com/feastly/api/internal/dal/interfaces/isessionrepo"
	"github.com/feastly/api/internal/dal/interfaces/iuserrepo"
	"github.com/feastly/api/internal/service/models/identity"
	"github.com/feastly/api/internal/service/models/session"
	"github.com/feastly/api/internal/service/models/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken means an account already exists under the email.
	ErrEmailTaken = errors.New("email already registered")
)

const bcryptCost = 12

// AuthService owns registration, login sessions and identity resolution.
type AuthService struct {
	userRepo    iuserrepo.IUserRepository
	sessionRepo isessionrepo.ISessionRepository
	sessionTTL  time.Duration
	now         func() time.Time
}

// option is a function that configures the AuthService.
type option func(*AuthService)

// MustNewAuthService creates a new AuthService.
func MustNewAuthService(opts ...option) *AuthService {
	s := &AuthService{
		sessionTTL: 24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.userRepo == nil || s.sessionRepo == nil {
		panic("authsvc: user and session repositories are required")
	}

	return s
}

// WithUserRepository sets the user repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(repo iuserrepo.IUserRepository) option {
	return func(s *AuthService) {
		s.userRepo = repo
	}
}

// WithSessionRepository sets the session repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSessionRepository(repo isessionrepo.ISessionRepository) option {
	return func(s *AuthService) {
		s.sessionRepo = repo
	}
}

// WithSessionTTL sets how long a login session stays valid.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSessionTTL(ttl time.Duration) option {
	return func(s *AuthService) {
		s.sessionTTL = ttl
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (user.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if existing != nil {
		return user.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return user.User{}, err
	}

	now := s.now()

	return s.userRepo.Insert(ctx, user.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login verifies the credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (session.Session, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return session.Session{}, err
	}
	if u == nil {
		return session.Session{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return session.Session{}, ErrInvalidCredentials
	}

	sess := session.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: s.now(),
	}

	if err := s.sessionRepo.Save(ctx, sess, s.sessionTTL); err != nil {
		return session.Session{}, err
	}

	return sess, nil
}

// Logout closes the session. Unknown tokens are treated as already logged out.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// Resolve maps a session token to the caller identity. An unknown or expired
// token resolves to nil without error.
func (s *AuthService) Resolve(ctx context.Context, token string) (*identity.Identity, error) {
	if token == "" {
		return nil, nil
	}

	sess, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	return &identity.Identity{
		UserID: sess.UserID,
		Email:  sess.Email,
		Name:   sess.Name,
	}, nil
}

// SessionTTL exposes the configured session lifetime for cookie max-age.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
