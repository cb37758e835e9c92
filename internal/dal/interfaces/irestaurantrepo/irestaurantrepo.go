package irestaurantrepo

import (
	"context"

	"github.com/feastly/api/internal/service/models/menuitem"
	"github.com/feastly/api/internal/service/models/restaurant"
)

// IRestaurantRepository is an interface for the restaurant postgres repository.
type IRestaurantRepository interface {
	Query(ctx context.Context, filter *restaurant.QueryRestaurantsModel) ([]restaurant.Restaurant, error)
	GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error)
	QueryMenuItems(ctx context.Context, restaurantIDs []string) ([]menuitem.MenuItem, error)
}
