package listrestaurants

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/models/restaurant"
	"github.com/feastly/api/internal/transport/http/respond"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	ListRestaurants(ctx context.Context, filter *restaurant.QueryRestaurantsModel) ([]restaurant.Restaurant, error)
}

type queryRestaurantsRequest struct {
	Category string `schema:"category,omitempty"`
	Search   string `schema:"search,omitempty"`
	Limit    int    `schema:"limit,omitempty"`
	Offset   int    `schema:"offset,omitempty"`
}

func (q *queryRestaurantsRequest) ToModel() *restaurant.QueryRestaurantsModel {
	return &restaurant.QueryRestaurantsModel{
		Category: q.Category,
		Search:   q.Search,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
}

// ListRestaurants serves the restaurant catalog with optional category and
// search filters.
func ListRestaurants(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryRestaurantsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request", "error", err)

		return
	}

	restaurants, err := service.ListRestaurants(r.Context(), query.ToModel())
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error listing restaurants", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, restaurants)
}
