package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/feastly/api/internal/dal/postgres"
	"github.com/feastly/api/internal/service/models/user"
	"github.com/jackc/pgx/v5"
)

// UserDal represents the user data access layer model.
type UserDal struct {
	Id           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToModel converts UserDal to the service layer User model.
func (u *UserDal) ToModel() *user.User {
	return &user.User{
		ID:           u.Id,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

var userColumns = []string{
	"id",
	"email",
	"name",
	"password_hash",
	"created_at",
	"updated_at",
}

type PostgresUserRepository struct {
	conn postgres.Querier
}

func NewPostgresUserRepository(conn postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
	}
}

// Insert stores a new user account.
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User) (user.User, error) {
	query, args, err := sq.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// GetByEmail retrieves a user by email. A missing user yields (nil, nil).
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query, args, err := sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	dal := UserDal{}
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.Email,
		&dal.Name,
		&dal.PasswordHash,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return dal.ToModel(), nil
}
