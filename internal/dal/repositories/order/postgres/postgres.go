package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/feastly/api/internal/dal/postgres"
	"github.com/feastly/api/internal/service/models/order"
	"github.com/feastly/api/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id           string    `db:"id"`
	UserId       string    `db:"user_id"`
	RestaurantId string    `db:"restaurant_id"`
	TotalCents   int64     `db:"total_cents"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:           o.Id,
		UserID:       o.UserId,
		RestaurantID: o.RestaurantId,
		TotalCents:   o.TotalCents,
		Status:       status,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Items:        []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

var orderColumns = []string{
	"id",
	"user_id",
	"restaurant_id",
	"total_cents",
	"status",
	"created_at",
	"updated_at",
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert stores a new order and returns it as persisted.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns(orderColumns...).
		Values(o.ID, o.UserID, o.RestaurantID, o.TotalCents, o.Status.String(), o.CreatedAt, o.UpdatedAt).
		Suffix("RETURNING " + columnList()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	model, err := scanOrder(row)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	model.Items = append(model.Items, o.Items...)

	return *model, nil
}

// GetByID retrieves a single order. A missing order yields (nil, nil).
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	model, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return model, nil
}

// QueryByUser retrieves all orders of one user, newest first.
func (r *PostgresOrderRepository) QueryByUser(ctx context.Context, userID string) ([]order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus performs the single-field reconciliation write. Updating an
// order that no longer exists is a no-op, not an error.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	query, args, err := sq.Update("orders").
		Set("status", status.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

// Delete removes the order row. Its items must already be gone.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}

func columnList() string {
	return strings.Join(orderColumns, ", ")
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	dal := OrderDal{}
	err := row.Scan(
		&dal.Id,
		&dal.UserId,
		&dal.RestaurantId,
		&dal.TotalCents,
		&dal.Status,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}
