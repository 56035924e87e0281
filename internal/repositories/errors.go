package repository

import (
	"errors"
	"fmt"
)

// Sentinel failures surfaced from inside the order placement transaction.
// The service layer maps them onto the HTTP error taxonomy.
var (
	ErrCouponExhausted        = errors.New("coupon usage limit reached")
	ErrCouponUserLimitReached = errors.New("coupon per-user limit reached")
)

// InsufficientStockError identifies the product whose conditional stock
// decrement affected zero rows.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}
