package clearuserorders

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/models/identity"
	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/feastly/api/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	ClearUserOrders(ctx context.Context, ident *identity.Identity) (int, error)
}

type clearUserOrdersResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ClearUserOrders deletes the caller's entire order history.
func ClearUserOrders(w http.ResponseWriter, r *http.Request, service service) {
	deleted, err := service.ClearUserOrders(r.Context(), identitymw.FromContext(r.Context()))
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error clearing user orders", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, clearUserOrdersResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted %d orders", deleted),
	})
}
