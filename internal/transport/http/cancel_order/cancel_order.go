package cancelorder

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/models/identity"
	"github.com/feastly/api/internal/service/models/order"
	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/feastly/api/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	CancelOrder(ctx context.Context, ident *identity.Identity, id string) (*order.Order, error)
}

// CancelOrder moves a non-terminal order to CANCELLED.
func CancelOrder(w http.ResponseWriter, r *http.Request, service service) {
	o, err := service.CancelOrder(r.Context(), identitymw.FromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error cancelling order", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}
