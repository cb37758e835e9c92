package restaurantsvc

import (
	"context"
	"errors"

	"github.com/feastly/api/internal/dal/interfaces/irestaurantrepo"
	"github.com/feastly/api/internal/service/models/restaurant"
)

// ErrRestaurantNotFound means no restaurant exists under the requested id.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantService serves the public restaurant catalog.
type RestaurantService struct {
	restaurantRepo irestaurantrepo.IRestaurantRepository
}

// option is a function that configures the RestaurantService.
type option func(*RestaurantService)

// MustNewRestaurantService creates a new RestaurantService.
func MustNewRestaurantService(opts ...option) *RestaurantService {
	s := &RestaurantService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.restaurantRepo == nil {
		panic("restaurantsvc: restaurant repository is required")
	}

	return s
}

// WithRestaurantRepository sets the restaurant repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRestaurantRepository(repo irestaurantrepo.IRestaurantRepository) option {
	return func(s *RestaurantService) {
		s.restaurantRepo = repo
	}
}

// ListRestaurants retrieves restaurants matching the filter, menus included.
func (s *RestaurantService) ListRestaurants(
	ctx context.Context,
	filter *restaurant.QueryRestaurantsModel,
) ([]restaurant.Restaurant, error) {
	restaurants, err := s.restaurantRepo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(restaurants) == 0 {
		return []restaurant.Restaurant{}, nil
	}

	ids := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		ids = append(ids, r.ID)
	}

	items, err := s.restaurantRepo.QueryMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range restaurants {
		for _, item := range items {
			if item.RestaurantID == restaurants[i].ID {
				restaurants[i].MenuItems = append(restaurants[i].MenuItems, item)
			}
		}
	}

	return restaurants, nil
}

// GetRestaurant retrieves one restaurant with its menu.
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	r, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRestaurantNotFound
	}

	items, err := s.restaurantRepo.QueryMenuItems(ctx, []string{r.ID})
	if err != nil {
		return nil, err
	}
	r.MenuItems = items

	return r, nil
}
