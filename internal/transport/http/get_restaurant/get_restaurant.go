package getrestaurant

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/models/restaurant"
	"github.com/feastly/api/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error)
}

// GetRestaurant serves a single restaurant with its menu.
func GetRestaurant(w http.ResponseWriter, r *http.Request, service service) {
	rest, err := service.GetRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error getting restaurant", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, rest)
}
