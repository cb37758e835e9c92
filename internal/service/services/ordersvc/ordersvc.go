package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/feastly/api/internal/dal/interfaces/iorderitemrepo"
	"github.com/feastly/api/internal/dal/interfaces/iorderrepo"
	"github.com/feastly/api/internal/dal/interfaces/ioutboxrepo"
	"github.com/feastly/api/internal/dal/postgres"
	"github.com/feastly/api/internal/dal/uow"
	"github.com/feastly/api/internal/service/access"
	"github.com/feastly/api/internal/service/models/identity"
	"github.com/feastly/api/internal/service/models/order"
	"github.com/feastly/api/internal/service/models/outbox"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrOrderNotFound means no order exists under the requested id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotCancellable means the order already reached a terminal status.
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

const (
	eventQueue = "feastly.order.events"

	eventOrderCreated       = "orders.created"
	eventOrderStatusChanged = "orders.status_changed"
	eventOrderCancelled     = "orders.cancelled"
	eventOrderDeleted       = "orders.deleted"

	eventMaxRetries = 5

	// reconcileWriters bounds concurrent reconciliation writes when a whole
	// order listing is refreshed at once.
	reconcileWriters = 3
)

// OrderService owns order placement, reconciled reads, cancellation and
// deletion. Every operation takes the caller identity explicitly; there is no
// ambient session state below the transport layer.
type OrderService struct {
	pgClient *postgres.Client
	schedule order.Schedule
	now      func() time.Time
	newUOWFn func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

func (s *OrderService) newUOW() unitOfWork {
	return s.newUOWFn()
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		schedule: order.DefaultSchedule(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOWFn == nil {
		if s.pgClient == nil {
			panic("ordersvc: postgres client is required")
		}
		s.newUOWFn = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithSchedule sets the status progression schedule.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSchedule(schedule order.Schedule) option {
	return func(s *OrderService) {
		s.schedule = schedule
	}
}

// PlaceOrder creates a PENDING order with its line items in one transaction
// and enqueues an orders.created event alongside it.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	ident *identity.Identity,
	o order.Order,
) (order.Order, error) {
	if ident == nil {
		return order.Order{}, access.ErrUnauthenticated
	}

	now := s.now()

	o.ID = uuid.NewString()
	o.UserID = ident.UserID
	o.Status = order.StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now
	for i := range o.Items {
		o.Items[i].ID = uuid.NewString()
		o.Items[i].OrderID = o.ID
		o.Items[i].CreatedAt = now
		o.Items[i].UpdatedAt = now
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	if _, err := work.OrderItemRepository().BulkInsert(ctx, o.Items); err != nil {
		return order.Order{}, err
	}

	if err := work.OutboxRepository().Insert(ctx, s.newEvent(eventOrderCreated, inserted, now)); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	return inserted, nil
}

// GetOrder returns a single order with its status reconciled as of call time.
// A stale stored status is never surfaced: the computed status is returned
// even when persisting it fails, in which case storage stays stale until the
// next read.
func (s *OrderService) GetOrder(
	ctx context.Context,
	ident *identity.Identity,
	id string,
) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if err := access.Authorize(ident, o.UserID); err != nil {
		return nil, err
	}

	s.reconcile(ctx, work, o)

	items, err := work.OrderItemRepository().QueryByOrders(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

// ListUserOrders returns the caller's orders, newest first, each reconciled
// through the status clock. Reconciliation writes for the listing are issued
// with bounded concurrency and are best-effort.
func (s *OrderService) ListUserOrders(
	ctx context.Context,
	ident *identity.Identity,
) ([]order.Order, error) {
	if ident == nil {
		return nil, access.ErrUnauthenticated
	}

	work := s.newUOW()

	orders, err := work.OrderRepository().QueryByUser(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileWriters)

	orderIDs := make([]string, 0, len(orders))
	for i := range orders {
		orderIDs = append(orderIDs, orders[i].ID)

		computed := s.schedule.StatusAt(orders[i].CreatedAt, s.now(), orders[i].Status)
		if computed == orders[i].Status {
			continue
		}

		id, status := orders[i].ID, computed
		orders[i].Status = computed
		g.Go(func() error {
			return work.OrderRepository().UpdateStatus(gctx, id, status)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Warn("Failed to persist reconciled order status", "error", err)
	}

	items, err := work.OrderItemRepository().QueryByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = nil
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].Items = append(orders[i].Items, item)
			}
		}
	}

	return orders, nil
}

// CancelOrder moves an owned, non-terminal order to CANCELLED. The status
// clock runs first, so an order whose delivery window already elapsed cannot
// be cancelled anymore.
func (s *OrderService) CancelOrder(
	ctx context.Context,
	ident *identity.Identity,
	id string,
) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if err := access.Authorize(ident, o.UserID); err != nil {
		return nil, err
	}

	now := s.now()
	if s.schedule.StatusAt(o.CreatedAt, now, o.Status).Terminal() {
		return nil, ErrOrderNotCancellable
	}

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	if err := work.OrderRepository().UpdateStatus(ctx, o.ID, order.StatusCancelled); err != nil {
		return nil, err
	}

	o.Status = order.StatusCancelled
	o.UpdatedAt = now

	if err := work.OutboxRepository().Insert(ctx, s.newEvent(eventOrderCancelled, *o, now)); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// DeleteOrder removes an owned order and its line items atomically, items
// before the parent row.
func (s *OrderService) DeleteOrder(
	ctx context.Context,
	ident *identity.Identity,
	id string,
) error {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return ErrOrderNotFound
	}

	if err := access.Authorize(ident, o.UserID); err != nil {
		return err
	}

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	if err := work.OrderItemRepository().DeleteByOrder(ctx, o.ID); err != nil {
		return err
	}

	if err := work.OrderRepository().Delete(ctx, o.ID); err != nil {
		return err
	}

	if err := work.OutboxRepository().Insert(ctx, s.newEvent(eventOrderDeleted, *o, s.now())); err != nil {
		return err
	}

	return work.Commit(ctx)
}

// ClearUserOrders deletes the caller's entire order history and returns how
// many orders were removed.
func (s *OrderService) ClearUserOrders(
	ctx context.Context,
	ident *identity.Identity,
) (int, error) {
	if ident == nil {
		return 0, access.ErrUnauthenticated
	}

	work := s.newUOW()

	orders, err := work.OrderRepository().QueryByUser(ctx, ident.UserID)
	if err != nil {
		return 0, err
	}

	if len(orders) == 0 {
		return 0, nil
	}

	if err := work.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	now := s.now()
	for _, o := range orders {
		if err := work.OrderItemRepository().DeleteByOrder(ctx, o.ID); err != nil {
			return 0, err
		}
		if err := work.OrderRepository().Delete(ctx, o.ID); err != nil {
			return 0, err
		}
		if err := work.OutboxRepository().Insert(ctx, s.newEvent(eventOrderDeleted, o, now)); err != nil {
			return 0, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return 0, err
	}

	return len(orders), nil
}

// reconcile runs the status clock against the loaded order and persists the
// result when it changed. The write is best-effort: on failure the computed
// status is still returned for this request.
func (s *OrderService) reconcile(ctx context.Context, work unitOfWork, o *order.Order) {
	computed := s.schedule.StatusAt(o.CreatedAt, s.now(), o.Status)
	if computed == o.Status {
		return
	}

	o.Status = computed

	if err := work.OrderRepository().UpdateStatus(ctx, o.ID, computed); err != nil {
		slog.Warn("Failed to persist reconciled order status", "order_id", o.ID, "error", err)

		return
	}

	if err := work.OutboxRepository().Insert(ctx, s.newEvent(eventOrderStatusChanged, *o, s.now())); err != nil {
		slog.Warn("Failed to enqueue status change event", "order_id", o.ID, "error", err)
	}
}

// orderEvent is the payload published for every order lifecycle change.
type orderEvent struct {
	Type         string       `json:"type"`
	OrderID      string       `json:"orderId"`
	UserID       string       `json:"userId"`
	RestaurantID string       `json:"restaurantId"`
	Status       order.Status `json:"status"`
	TotalCents   int64        `json:"totalCents"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

func (s *OrderService) newEvent(eventType string, o order.Order, now time.Time) outbox.Message {
	payload, _ := json.Marshal(orderEvent{
		Type:         eventType,
		OrderID:      o.ID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		Status:       o.Status,
		TotalCents:   o.TotalCents,
		OccurredAt:   now,
	})

	return outbox.Message{
		QueueName:   eventQueue,
		RoutingKey:  eventQueue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  eventMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
}
