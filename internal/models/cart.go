package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a cart. The merge key is
// (identity, product_id, size, color): adding the same key again increments
// quantity instead of creating a second row.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	Identity  string    `json:"-"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Read-only product snapshot joined in for display. These are the
	// product's current values, not the price an eventual order will carry.
	ProductName string   `json:"product_name,omitempty"`
	ProductSlug string   `json:"product_slug,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	UnitPrice   float64  `json:"unit_price"`
	SalePrice   *float64 `json:"sale_price,omitempty"`
	Stock       int64    `json:"-"`
	CategoryID  int64    `json:"-"`
}

// LinePrice is the current effective unit price of the joined product.
func (i *CartItem) LinePrice() float64 {
	if i.SalePrice != nil && *i.SalePrice > 0 && *i.SalePrice <= i.UnitPrice {
		return *i.SalePrice
	}

	return i.UnitPrice
}

type AddItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items                    []CartItem `json:"items"`
	Subtotal                 float64    `json:"subtotal"`
	FreeShippingEligible     bool       `json:"free_shipping_eligible"`
	RemainingForFreeShipping float64    `json:"remaining_for_free_shipping"`
}
