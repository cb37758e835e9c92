package iorderitemrepo

import (
	"context"

	"github.com/feastly/api/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item postgres repository.
type IOrderItemRepository interface {
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	QueryByOrders(ctx context.Context, orderIDs []string) ([]orderitem.OrderItem, error)
	DeleteByOrder(ctx context.Context, orderID string) error
}
