package restaurant

import (
	"time"

	"github.com/feastly/api/internal/service/models/menuitem"
)

// Restaurant represents a restaurant customers can order from.
type Restaurant struct {
	ID          string              `json:"id"`
	OwnerID     string              `json:"ownerId"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Address     string              `json:"address"`
	Phone       string              `json:"phone"`
	Email       string              `json:"email"`
	ImageURL    string              `json:"imageUrl"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	MenuItems   []menuitem.MenuItem `json:"menuItems"`
}

// QueryRestaurantsModel represents filter parameters for querying restaurants.
type QueryRestaurantsModel struct {
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
