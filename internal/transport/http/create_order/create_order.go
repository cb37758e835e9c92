package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/feastly/api/internal/transport/http/respond"

	"github.com/feastly/api/internal/service/models/identity"
	"github.com/feastly/api/internal/service/models/order"
	"github.com/feastly/api/internal/service/models/orderitem"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, ident *identity.Identity, o order.Order) (order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Quantity   int    `json:"quantity"   validate:"gt=0"`
	PriceCents int64  `json:"priceCents" validate:"gt=0"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	RestaurantID string                     `json:"restaurantId" validate:"required"`
	TotalCents   int64                      `json:"totalCents"   validate:"gt=0"`
	Items        []itemInCreateOrderRequest `json:"items"        validate:"required,min=1,dive"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *createOrderRequest) toModel() order.Order {
	items := make([]orderitem.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = orderitem.OrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		}
	}

	return order.Order{
		RestaurantID: r.RestaurantID,
		TotalCents:   r.TotalCents,
		Items:        items,
	}
}

// CreateOrder handles order placement.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	placed, err := service.PlaceOrder(r.Context(), identitymw.FromContext(r.Context()), orderReq.toModel())
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error placing order", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, placed)
}
