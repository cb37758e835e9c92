package orderitem

import (
	"time"
)

// OrderItem represents a line item within an order. The price is captured at
// order time and never follows later menu price changes.
type OrderItem struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	MenuItemID string    `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
