package iorderrepo

import (
	"context"

	"github.com/feastly/api/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, id string) (*order.Order, error)
	QueryByUser(ctx context.Context, userID string) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status) error
	Delete(ctx context.Context, id string) error
}
