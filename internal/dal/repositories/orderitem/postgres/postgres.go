package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/feastly/api/internal/dal/postgres"
	"github.com/feastly/api/internal/service/models/orderitem"
)

// OrderItemDal represents the order item data access layer model.
type OrderItemDal struct {
	Id         string    `db:"id"`
	OrderId    string    `db:"order_id"`
	MenuItemId string    `db:"menu_item_id"`
	Quantity   int       `db:"quantity"`
	PriceCents int64     `db:"price_cents"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ToModel converts OrderItemDal to the service layer OrderItem model.
func (i *OrderItemDal) ToModel() *orderitem.OrderItem {
	return &orderitem.OrderItem{
		ID:         i.Id,
		OrderID:    i.OrderId,
		MenuItemID: i.MenuItemId,
		Quantity:   i.Quantity,
		PriceCents: i.PriceCents,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

var orderItemColumns = []string{
	"id",
	"order_id",
	"menu_item_id",
	"quantity",
	"price_cents",
	"created_at",
	"updated_at",
}

type PostgresOrderItemRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderItemRepository(conn postgres.Querier) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
	}
}

// BulkInsert inserts the line items of a freshly placed order.
func (r *PostgresOrderItemRepository) BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	if len(items) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	builder := sq.Insert("order_items").
		Columns(orderItemColumns...).
		PlaceholderFormat(sq.Dollar)

	for _, item := range items {
		builder = builder.Values(
			item.ID,
			item.OrderID,
			item.MenuItemID,
			item.Quantity,
			item.PriceCents,
			item.CreatedAt,
			item.UpdatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}

	return items, nil
}

// QueryByOrders retrieves the items of the given orders.
func (r *PostgresOrderItemRepository) QueryByOrders(ctx context.Context, orderIDs []string) ([]orderitem.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query, args, err := sq.Select(orderItemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("created_at ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		dal := OrderItemDal{}
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.MenuItemId,
			&dal.Quantity,
			&dal.PriceCents,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// DeleteByOrder removes all items of an order. Runs before the parent order
// delete to satisfy the foreign key. Deleting zero items is a no-op.
func (r *PostgresOrderItemRepository) DeleteByOrder(ctx context.Context, orderID string) error {
	query, args, err := sq.Delete("order_items").
		Where(sq.Eq{"order_id": orderID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	return nil
}
