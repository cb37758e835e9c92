package deleteorder

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/models/identity"
	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/feastly/api/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	DeleteOrder(ctx context.Context, ident *identity.Identity, id string) error
}

type deleteOrderResponse struct {
	Success bool `json:"success"`
}

// DeleteOrder removes an order and its line items.
func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	err := service.DeleteOrder(r.Context(), identitymw.FromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error deleting order", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, deleteOrderResponse{Success: true})
}
