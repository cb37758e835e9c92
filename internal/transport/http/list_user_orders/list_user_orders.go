package listuserorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/models/identity"
	"github.com/feastly/api/internal/service/models/order"
	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/feastly/api/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	ListUserOrders(ctx context.Context, ident *identity.Identity) ([]order.Order, error)
}

// ListUserOrders serves the caller's order history, newest first.
func ListUserOrders(w http.ResponseWriter, r *http.Request, service service) {
	orders, err := service.ListUserOrders(r.Context(), identitymw.FromContext(r.Context()))
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error listing user orders", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}
