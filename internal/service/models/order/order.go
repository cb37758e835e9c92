package order

import (
	"time"

	"github.com/feastly/api/internal/service/models/orderitem"
)

// Order represents a customer's placed purchase against one restaurant.
type Order struct {
	ID           string                `json:"id"`
	UserID       string                `json:"userId"`
	RestaurantID string                `json:"restaurantId"`
	TotalCents   int64                 `json:"totalCents"`
	Status       Status                `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	Items        []orderitem.OrderItem `json:"items"`
}
