package menuitem

import (
	"time"
)

// MenuItem represents a dish on a restaurant's menu.
type MenuItem struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"priceCents"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
