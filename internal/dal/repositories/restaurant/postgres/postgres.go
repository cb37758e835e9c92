package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/feastly/api/internal/dal/postgres"
	"github.com/feastly/api/internal/service/models/menuitem"
	"github.com/feastly/api/internal/service/models/restaurant"
	"github.com/jackc/pgx/v5"
)

// RestaurantDal represents the restaurant data access layer model.
type RestaurantDal struct {
	Id          string    `db:"id"`
	OwnerId     string    `db:"owner_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Address     string    `db:"address"`
	Phone       string    `db:"phone"`
	Email       string    `db:"email"`
	ImageUrl    string    `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToModel converts RestaurantDal to the service layer Restaurant model.
func (r *RestaurantDal) ToModel() *restaurant.Restaurant {
	return &restaurant.Restaurant{
		ID:          r.Id,
		OwnerID:     r.OwnerId,
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Phone:       r.Phone,
		Email:       r.Email,
		ImageURL:    r.ImageUrl,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		MenuItems:   []menuitem.MenuItem{}, // Will be populated separately
	}
}

var restaurantColumns = []string{
	"r.id",
	"r.owner_id",
	"r.name",
	"r.description",
	"r.address",
	"r.phone",
	"r.email",
	"r.image_url",
	"r.created_at",
	"r.updated_at",
}

type PostgresRestaurantRepository struct {
	conn postgres.Querier
}

func NewPostgresRestaurantRepository(conn postgres.Querier) *PostgresRestaurantRepository {
	return &PostgresRestaurantRepository{
		conn: conn,
	}
}

// Query retrieves restaurants matching the filter. The category filter keeps
// restaurants with at least one menu item in that category; the search filter
// matches name or description case-insensitively.
func (r *PostgresRestaurantRepository) Query(ctx context.Context, filter *restaurant.QueryRestaurantsModel) ([]restaurant.Restaurant, error) {
	builder := sq.Select(restaurantColumns...).
		Distinct().
		From("restaurants r").
		OrderBy("r.name ASC").
		PlaceholderFormat(sq.Dollar)

	if filter.Category != "" {
		builder = builder.
			Join("menu_items m ON m.restaurant_id = r.id").
			Where(sq.Eq{"m.category": filter.Category})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"r.name": pattern},
			sq.ILike{"r.description": pattern},
		})
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var result []restaurant.Restaurant
	for rows.Next() {
		dal := RestaurantDal{}
		if err := scanRestaurant(rows, &dal); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetByID retrieves a single restaurant. A missing restaurant yields (nil, nil).
func (r *PostgresRestaurantRepository) GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	query, args, err := sq.Select(restaurantColumns...).
		From("restaurants r").
		Where(sq.Eq{"r.id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	dal := RestaurantDal{}
	if err := scanRestaurant(r.conn.QueryRow(ctx, query, args...), &dal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return dal.ToModel(), nil
}

// QueryMenuItems retrieves the menu items of the given restaurants.
func (r *PostgresRestaurantRepository) QueryMenuItems(ctx context.Context, restaurantIDs []string) ([]menuitem.MenuItem, error) {
	if len(restaurantIDs) == 0 {
		return []menuitem.MenuItem{}, nil
	}

	query, args, err := sq.Select(
		"id",
		"restaurant_id",
		"name",
		"description",
		"price_cents",
		"category",
		"image_url",
		"created_at",
		"updated_at",
	).
		From("menu_items").
		Where(sq.Eq{"restaurant_id": restaurantIDs}).
		OrderBy("category ASC", "name ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var result []menuitem.MenuItem
	for rows.Next() {
		var item menuitem.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.Name,
			&item.Description,
			&item.PriceCents,
			&item.Category,
			&item.ImageURL,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func scanRestaurant(row pgx.Row, dal *RestaurantDal) error {
	return row.Scan(
		&dal.Id,
		&dal.OwnerId,
		&dal.Name,
		&dal.Description,
		&dal.Address,
		&dal.Phone,
		&dal.Email,
		&dal.ImageUrl,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
}
