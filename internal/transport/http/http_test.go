package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/feastly/api/internal/service/access"
	"github.com/feastly/api/internal/service/models/identity"
	"github.com/feastly/api/internal/service/models/order"
	"github.com/feastly/api/internal/service/models/restaurant"
	"github.com/feastly/api/internal/service/models/session"
	"github.com/feastly/api/internal/service/models/user"
	"github.com/feastly/api/internal/service/services/authsvc"
	"github.com/feastly/api/internal/service/services/ordersvc"
	"github.com/feastly/api/internal/service/services/restaurantsvc"
	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken  = "valid-token"
	testUserID = "user-1"
)

type stubOrderService struct {
	orders map[string]order.Order
}

func (s *stubOrderService) PlaceOrder(
	_ context.Context,
	ident *identity.Identity,
	o order.Order,
) (order.Order, error) {
	if ident == nil {
		return order.Order{}, access.ErrUnauthenticated
	}

	o.ID = "order-new"
	o.UserID = ident.UserID
	o.Status = order.StatusPending

	return o, nil
}

func (s *stubOrderService) GetOrder(
	_ context.Context,
	ident *identity.Identity,
	id string,
) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ordersvc.ErrOrderNotFound
	}

	if err := access.Authorize(ident, o.UserID); err != nil {
		return nil, err
	}

	return &o, nil
}

func (s *stubOrderService) ListUserOrders(
	_ context.Context,
	ident *identity.Identity,
) ([]order.Order, error) {
	if ident == nil {
		return nil, access.ErrUnauthenticated
	}

	var orders []order.Order
	for _, o := range s.orders {
		if o.UserID == ident.UserID {
			orders = append(orders, o)
		}
	}

	return orders, nil
}

func (s *stubOrderService) CancelOrder(
	_ context.Context,
	ident *identity.Identity,
	id string,
) (*order.Order, error) {
	o, err := s.GetOrder(context.Background(), ident, id)
	if err != nil {
		return nil, err
	}

	if o.Status.Terminal() {
		return nil, ordersvc.ErrOrderNotCancellable
	}

	o.Status = order.StatusCancelled

	return o, nil
}

func (s *stubOrderService) DeleteOrder(
	_ context.Context,
	ident *identity.Identity,
	id string,
) error {
	o, err := s.GetOrder(context.Background(), ident, id)
	if err != nil {
		return err
	}

	delete(s.orders, o.ID)

	return nil
}

func (s *stubOrderService) ClearUserOrders(
	_ context.Context,
	ident *identity.Identity,
) (int, error) {
	orders, err := s.ListUserOrders(context.Background(), ident)
	if err != nil {
		return 0, err
	}

	for _, o := range orders {
		delete(s.orders, o.ID)
	}

	return len(orders), nil
}

type stubRestaurantService struct {
	restaurants map[string]restaurant.Restaurant
}

func (s *stubRestaurantService) ListRestaurants(
	_ context.Context,
	_ *restaurant.QueryRestaurantsModel,
) ([]restaurant.Restaurant, error) {
	restaurants := []restaurant.Restaurant{}
	for _, r := range s.restaurants {
		restaurants = append(restaurants, r)
	}

	return restaurants, nil
}

func (s *stubRestaurantService) GetRestaurant(
	_ context.Context,
	id string,
) (*restaurant.Restaurant, error) {
	r, ok := s.restaurants[id]
	if !ok {
		return nil, restaurantsvc.ErrRestaurantNotFound
	}

	return &r, nil
}

type stubAuthService struct {
	registered map[string]bool
}

func (s *stubAuthService) Register(
	_ context.Context,
	email, name, _ string,
) (user.User, error) {
	if s.registered[email] {
		return user.User{}, authsvc.ErrEmailTaken
	}
	s.registered[email] = true

	return user.User{ID: "user-new", Email: email, Name: name}, nil
}

func (s *stubAuthService) Login(
	_ context.Context,
	email, password string,
) (session.Session, error) {
	if email != "alice@example.com" || password != "sup3rsecret" {
		return session.Session{}, authsvc.ErrInvalidCredentials
	}

	return session.Session{
		Token:  testToken,
		UserID: testUserID,
		Email:  email,
		Name:   "Alice",
	}, nil
}

func (s *stubAuthService) Logout(_ context.Context, _ string) error { return nil }

func (s *stubAuthService) Resolve(_ context.Context, token string) (*identity.Identity, error) {
	if token != testToken {
		return nil, nil
	}

	return &identity.Identity{UserID: testUserID, Email: "alice@example.com", Name: "Alice"}, nil
}

func (s *stubAuthService) SessionTTL() time.Duration { return time.Hour }

func newTestTransport() (*HTTPTransport, *stubOrderService) {
	orderSvc := &stubOrderService{orders: map[string]order.Order{
		"order-1": {
			ID:           "order-1",
			UserID:       testUserID,
			RestaurantID: "delicious-bites",
			TotalCents:   2198,
			Status:       order.StatusPreparing,
		},
		"order-2": {
			ID:         "order-2",
			UserID:     "user-2",
			Status:     order.StatusPending,
			TotalCents: 999,
		},
	}}

	restaurantSvc := &stubRestaurantService{restaurants: map[string]restaurant.Restaurant{
		"delicious-bites": {ID: "delicious-bites", Name: "Delicious Bites"},
	}}

	h := NewHTTPTransport(orderSvc, restaurantSvc, &stubAuthService{registered: map[string]bool{}})
	h.RegisterRoutes()

	return h, orderSvc
}

func doRequest(h *HTTPTransport, method, target, body string, withSession bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if withSession {
		req.AddCookie(&http.Cookie{Name: identitymw.CookieName, Value: testToken})
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	return rec
}

func TestGetOrder(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodGet, "/api/orders/order-1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, "order-1", o.ID)
	assert.Equal(t, order.StatusPreparing, o.Status)
}

func TestGetOrder_Unauthenticated(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodGet, "/api/orders/order-1", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestGetOrder_Forbidden(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodGet, "/api/orders/order-2", "", true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodGet, "/api/orders/missing", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder(t *testing.T) {
	h, _ := newTestTransport()

	body := `{
		"restaurantId": "delicious-bites",
		"totalCents": 2198,
		"items": [{"menuItemId": "margherita-pizza", "quantity": 2, "priceCents": 1099}]
	}`

	rec := doRequest(h, http.MethodPost, "/api/orders/", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, testUserID, o.UserID)
	assert.Equal(t, order.StatusPending, o.Status)
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodPost, "/api/orders/", `{"totalCents": 0, "items": []}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrder(t *testing.T) {
	h, orderSvc := newTestTransport()

	rec := doRequest(h, http.MethodDelete, "/api/orders/order-1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
	assert.NotContains(t, orderSvc.orders, "order-1")
}

func TestCancelOrder(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodPost, "/api/orders/order-1/cancel", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, order.StatusCancelled, o.Status)
}

func TestListUserOrders(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodGet, "/api/orders/user", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "order-1", orders[0].ID)
}

func TestClearUserOrders(t *testing.T) {
	h, orderSvc := newTestTransport()

	rec := doRequest(h, http.MethodDelete, "/api/orders/user", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, orderSvc.orders, "order-1")
	assert.Contains(t, orderSvc.orders, "order-2")
}

func TestListRestaurants(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodGet, "/api/restaurants/?category=pizza", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var restaurants []restaurant.Restaurant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &restaurants))
	assert.Len(t, restaurants, 1)
}

func TestGetRestaurant_NotFound(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodGet, "/api/restaurants/missing", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodPost, "/api/auth/login",
		`{"email": "alice@example.com", "password": "sup3rsecret"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, testUserID, body["userId"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, identitymw.CookieName, cookies[0].Name)
	assert.Equal(t, testToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodPost, "/api/auth/login",
		`{"email": "alice@example.com", "password": "wrong"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister(t *testing.T) {
	h, _ := newTestTransport()

	body := `{"email": "bob@example.com", "name": "Bob", "password": "longenough"}`

	rec := doRequest(h, http.MethodPost, "/api/auth/register", body, false)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(h, http.MethodPost, "/api/auth/register", body, false)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodPost, "/api/auth/register",
		`{"email": "bob@example.com", "name": "Bob", "password": "short"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	h, _ := newTestTransport()

	rec := doRequest(h, http.MethodPost, "/api/auth/logout", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, identitymw.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
