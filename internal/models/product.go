package models

import (
	"slices"
	"time"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

type Product struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	Stock       int64     `json:"stock"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	ImageURL    string    `json:"image_url"`
	Rating      float64   `json:"rating"`
	ReviewCount int64     `json:"review_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Category    *Category `json:"category,omitempty"`
}

// EffectivePrice is the price a customer actually pays right now.
// Order line items snapshot this value at placement time.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice <= p.Price {
		return *p.SalePrice
	}

	return p.Price
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// HasSize reports whether size is a declared size for this product. An empty
// declared list means the product is not sized.
func (p *Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

func (p *Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

type ProductFilter struct {
	CategoryID int64
	MinPrice   float64
	MaxPrice   float64
	Page       int
	PageSize   int
}
