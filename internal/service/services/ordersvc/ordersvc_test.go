package ordersvc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/feastly/api/internal/dal/interfaces/iorderitemrepo"
	"github.com/feastly/api/internal/dal/interfaces/iorderrepo"
	"github.com/feastly/api/internal/dal/interfaces/ioutboxrepo"
	"github.com/feastly/api/internal/service/access"
	"github.com/feastly/api/internal/service/models/identity"
	"github.com/feastly/api/internal/service/models/order"
	"github.com/feastly/api/internal/service/models/orderitem"
	"github.com/feastly/api/internal/service/models/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUnitOfWork struct {
	orderRepo  *fakeOrderRepo
	itemRepo   *fakeOrderItemRepo
	outboxRepo *fakeOutboxRepo

	committed  bool
	rolledBack bool
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	ops := &[]string{}

	return &fakeUnitOfWork{
		orderRepo:  &fakeOrderRepo{orders: map[string]order.Order{}, ops: ops},
		itemRepo:   &fakeOrderItemRepo{items: map[string][]orderitem.OrderItem{}, ops: ops},
		outboxRepo: &fakeOutboxRepo{},
	}
}

func (f *fakeUnitOfWork) Begin(_ context.Context) error { return nil }

func (f *fakeUnitOfWork) Commit(_ context.Context) error {
	f.committed = true

	return nil
}

func (f *fakeUnitOfWork) Rollback(_ context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}

	return nil
}

func (f *fakeUnitOfWork) OrderRepository() iorderrepo.IOrderRepository { return f.orderRepo }

func (f *fakeUnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return f.itemRepo
}

func (f *fakeUnitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository { return f.outboxRepo }

// ops is shared between the repos so tests can assert relative ordering of
// writes inside a transaction.
type fakeOrderRepo struct {
	mu           sync.Mutex
	orders       map[string]order.Order
	ops          *[]string
	statusWrites int
	updateErr    error
}

func (f *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	f.orders[o.ID] = o

	return o, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}

	return &o, nil
}

func (f *fakeOrderRepo) QueryByUser(_ context.Context, userID string) ([]order.Order, error) {
	var orders []order.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}

	return orders, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status order.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}

	f.statusWrites++

	o, ok := f.orders[id]
	if !ok {
		return nil
	}
	o.Status = status
	f.orders[id] = o

	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id string) error {
	*f.ops = append(*f.ops, "delete_order:"+id)
	delete(f.orders, id)

	return nil
}

type fakeOrderItemRepo struct {
	items map[string][]orderitem.OrderItem
	ops   *[]string
}

func (f *fakeOrderItemRepo) BulkInsert(
	_ context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	for _, item := range items {
		f.items[item.OrderID] = append(f.items[item.OrderID], item)
	}

	return items, nil
}

func (f *fakeOrderItemRepo) QueryByOrders(
	_ context.Context,
	orderIDs []string,
) ([]orderitem.OrderItem, error) {
	var items []orderitem.OrderItem
	for _, id := range orderIDs {
		items = append(items, f.items[id]...)
	}

	return items, nil
}

func (f *fakeOrderItemRepo) DeleteByOrder(_ context.Context, orderID string) error {
	*f.ops = append(*f.ops, "delete_items:"+orderID)
	delete(f.items, orderID)

	return nil
}

type fakeOutboxRepo struct {
	messages []outbox.Message
}

func (f *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	f.messages = append(f.messages, msg)

	return nil
}

func (f *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (f *fakeOutboxRepo) UpdateRetry(
	_ context.Context,
	_ int64,
	_ int,
	_ string,
	_ time.Time,
) error {
	return nil
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(work *fakeUnitOfWork) *OrderService {
	return &OrderService{
		schedule: order.DefaultSchedule(),
		now:      func() time.Time { return testNow },
		newUOWFn: func() unitOfWork { return work },
	}
}

func seedOrder(work *fakeUnitOfWork, id, userID string, age time.Duration, status order.Status) {
	createdAt := testNow.Add(-age)
	work.orderRepo.orders[id] = order.Order{
		ID:           id,
		UserID:       userID,
		RestaurantID: "delicious-bites",
		TotalCents:   2198,
		Status:       status,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	work.itemRepo.items[id] = []orderitem.OrderItem{
		{ID: id + "-item", OrderID: id, MenuItemID: "margherita-pizza", Quantity: 2, PriceCents: 1099},
	}
}

func TestPlaceOrder(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)

	placed, err := svc.PlaceOrder(context.Background(), &identity.Identity{UserID: "user-1"}, order.Order{
		RestaurantID: "delicious-bites",
		TotalCents:   2198,
		Items: []orderitem.OrderItem{
			{MenuItemID: "margherita-pizza", Quantity: 2, PriceCents: 1099},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, placed.ID)
	assert.Equal(t, "user-1", placed.UserID)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, testNow, placed.CreatedAt)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, placed.ID, placed.Items[0].OrderID)
	assert.NotEmpty(t, placed.Items[0].ID)

	assert.True(t, work.committed)
	require.Len(t, work.outboxRepo.messages, 1)
	assert.Contains(t, string(work.outboxRepo.messages[0].Payload), eventOrderCreated)
}

func TestPlaceOrder_Unauthenticated(t *testing.T) {
	svc := newTestService(newFakeUnitOfWork())

	_, err := svc.PlaceOrder(context.Background(), nil, order.Order{})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestGetOrder_ReconcilesStatus(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", 25*time.Minute, order.StatusPending)

	ident := &identity.Identity{UserID: "user-1"}

	o, err := svc.GetOrder(context.Background(), ident, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusOutForDelivery, o.Status)
	assert.Len(t, o.Items, 1)
	assert.Equal(t, 1, work.orderRepo.statusWrites)
	require.Len(t, work.outboxRepo.messages, 1)
	assert.Contains(t, string(work.outboxRepo.messages[0].Payload), eventOrderStatusChanged)

	// A second read at the same instant finds storage up to date and writes
	// nothing further.
	o, err = svc.GetOrder(context.Background(), ident, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusOutForDelivery, o.Status)
	assert.Equal(t, 1, work.orderRepo.statusWrites)
}

func TestGetOrder_WriteFailureStillReturnsComputed(t *testing.T) {
	work := newFakeUnitOfWork()
	work.orderRepo.updateErr = assert.AnError
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", 45*time.Minute, order.StatusPending)

	o, err := svc.GetOrder(context.Background(), &identity.Identity{UserID: "user-1"}, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status)
	assert.Equal(t, order.StatusPending, work.orderRepo.orders["order-1"].Status)
	assert.Empty(t, work.outboxRepo.messages)
}

func TestGetOrder_CancelledStaysCancelled(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", 2*time.Hour, order.StatusCancelled)

	o, err := svc.GetOrder(context.Background(), &identity.Identity{UserID: "user-1"}, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
	assert.Equal(t, 0, work.orderRepo.statusWrites)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := newTestService(newFakeUnitOfWork())

	_, err := svc.GetOrder(context.Background(), &identity.Identity{UserID: "user-1"}, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrder_AccessDenied(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", time.Minute, order.StatusPending)

	_, err := svc.GetOrder(context.Background(), nil, "order-1")
	assert.ErrorIs(t, err, access.ErrUnauthenticated)

	_, err = svc.GetOrder(context.Background(), &identity.Identity{UserID: "user-2"}, "order-1")
	assert.ErrorIs(t, err, access.ErrForbidden)

	assert.Equal(t, 0, work.orderRepo.statusWrites)
}

func TestListUserOrders(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", 7*time.Minute, order.StatusPending)
	seedOrder(work, "order-2", "user-1", 45*time.Minute, order.StatusPending)
	seedOrder(work, "order-3", "user-2", time.Minute, order.StatusPending)

	orders, err := svc.ListUserOrders(context.Background(), &identity.Identity{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byID := map[string]order.Order{}
	for _, o := range orders {
		byID[o.ID] = o
	}
	assert.Equal(t, order.StatusConfirmed, byID["order-1"].Status)
	assert.Equal(t, order.StatusDelivered, byID["order-2"].Status)
	assert.Len(t, byID["order-1"].Items, 1)
	assert.Len(t, byID["order-2"].Items, 1)
	assert.Equal(t, 2, work.orderRepo.statusWrites)
}

func TestListUserOrders_Empty(t *testing.T) {
	svc := newTestService(newFakeUnitOfWork())

	orders, err := svc.ListUserOrders(context.Background(), &identity.Identity{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCancelOrder(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", time.Minute, order.StatusPending)

	o, err := svc.CancelOrder(context.Background(), &identity.Identity{UserID: "user-1"}, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
	assert.Equal(t, order.StatusCancelled, work.orderRepo.orders["order-1"].Status)
	assert.True(t, work.committed)
	require.Len(t, work.outboxRepo.messages, 1)
	assert.Contains(t, string(work.outboxRepo.messages[0].Payload), eventOrderCancelled)
}

func TestCancelOrder_WindowElapsed(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	// Stored status is stale but the clock already puts the order at
	// DELIVERED, so cancellation must be refused.
	seedOrder(work, "order-1", "user-1", 45*time.Minute, order.StatusPending)

	_, err := svc.CancelOrder(context.Background(), &identity.Identity{UserID: "user-1"}, "order-1")
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}

func TestCancelOrder_AccessDenied(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", time.Minute, order.StatusPending)

	_, err := svc.CancelOrder(context.Background(), &identity.Identity{UserID: "user-2"}, "order-1")
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestDeleteOrder(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", time.Minute, order.StatusPending)

	err := svc.DeleteOrder(context.Background(), &identity.Identity{UserID: "user-1"}, "order-1")
	require.NoError(t, err)

	assert.Empty(t, work.orderRepo.orders)
	assert.Empty(t, work.itemRepo.items)
	assert.True(t, work.committed)
	assert.Equal(t, []string{"delete_items:order-1", "delete_order:order-1"}, *work.orderRepo.ops)
	require.Len(t, work.outboxRepo.messages, 1)
	assert.Contains(t, string(work.outboxRepo.messages[0].Payload), eventOrderDeleted)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	svc := newTestService(newFakeUnitOfWork())

	err := svc.DeleteOrder(context.Background(), &identity.Identity{UserID: "user-1"}, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrder_AccessDenied(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", time.Minute, order.StatusPending)

	err := svc.DeleteOrder(context.Background(), &identity.Identity{UserID: "user-2"}, "order-1")
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.Len(t, work.orderRepo.orders, 1)
}

func TestClearUserOrders(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work)
	seedOrder(work, "order-1", "user-1", time.Minute, order.StatusPending)
	seedOrder(work, "order-2", "user-1", 10*time.Minute, order.StatusPending)
	seedOrder(work, "order-3", "user-2", time.Minute, order.StatusPending)

	count, err := svc.ClearUserOrders(context.Background(), &identity.Identity{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Len(t, work.orderRepo.orders, 1)
	assert.Contains(t, work.orderRepo.orders, "order-3")
	assert.True(t, work.committed)
	assert.Len(t, work.outboxRepo.messages, 2)

	// Line items go before their parent order, per order.
	ops := *work.orderRepo.ops
	require.Len(t, ops, 4)
	for i := 0; i < len(ops); i += 2 {
		assert.Contains(t, ops[i], "delete_items:")
		assert.Contains(t, ops[i+1], "delete_order:")
		assert.Equal(t, ops[i][len("delete_items:"):], ops[i+1][len("delete_order:"):])
	}
}

func TestClearUserOrders_Empty(t *testing.T) {
	svc := newTestService(newFakeUnitOfWork())

	count, err := svc.ClearUserOrders(context.Background(), &identity.Identity{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
