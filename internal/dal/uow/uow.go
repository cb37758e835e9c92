package uow

import (
	"context"

	"github.com/feastly/api/internal/dal/interfaces/iorderitemrepo"
	"github.com/feastly/api/internal/dal/interfaces/iorderrepo"
	"github.com/feastly/api/internal/dal/interfaces/ioutboxrepo"
	"github.com/feastly/api/internal/dal/postgres"
	orderrepo "github.com/feastly/api/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/feastly/api/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/feastly/api/internal/dal/repositories/outbox/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// unitOfWork groups the order-side repositories over one connection. After
// Begin all repositories run on the same transaction until Commit or Rollback.
type unitOfWork struct {
	pool          *pgxpool.Pool
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:          client.Pool(),
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
		outboxRepo:    outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}
