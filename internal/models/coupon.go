package models

import (
	"time"

	"github.com/google/uuid"
)

type CouponType string

const (
	CouponTypePercentage   CouponType = "percentage"
	CouponTypeFixed        CouponType = "fixed"
	CouponTypeFreeShipping CouponType = "free_shipping"
)

// Machine-readable rejection reasons returned by coupon validation.
const (
	CouponReasonNotFound         = "NOT_FOUND"
	CouponReasonExpired          = "EXPIRED"
	CouponReasonBelowMinimum     = "BELOW_MINIMUM"
	CouponReasonExhausted        = "EXHAUSTED"
	CouponReasonUserLimitReached = "USER_LIMIT_REACHED"
	CouponReasonNotApplicable    = "NOT_APPLICABLE"
)

type Coupon struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	Type            CouponType `json:"type"`
	Value           float64    `json:"value"`
	MinimumAmount   *float64   `json:"minimum_amount,omitempty"`
	MaximumDiscount *float64   `json:"maximum_discount,omitempty"`
	UsageLimit      *int       `json:"usage_limit,omitempty"`
	UsageCount      int        `json:"usage_count"`
	UserLimit       int        `json:"user_limit"`
	StartsAt        time.Time  `json:"starts_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	IsActive        bool       `json:"is_active"`
	ProductIDs      []int64    `json:"product_ids,omitempty"`
	CategoryIDs     []int64    `json:"category_ids,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CouponUsage rows are the source of truth for per-identity redemption
// counts. One row exists per successful order placement with the coupon.
type CouponUsage struct {
	ID       uuid.UUID `json:"id"`
	CouponID int64     `json:"coupon_id"`
	Identity string    `json:"identity"`
	OrderID  uuid.UUID `json:"order_id"`
	UsedAt   time.Time `json:"used_at"`
}

type ValidateCouponRequest struct {
	Code         string  `json:"code"         validate:"required,min=1,max=50"`
	OrderAmount  float64 `json:"order_amount" validate:"required,gt=0"`
	ShippingCost float64 `json:"shipping_cost,omitempty" validate:"omitempty,gte=0"`
}

type CouponValidation struct {
	Valid          bool       `json:"valid"`
	Reason         string     `json:"reason,omitempty"`
	Code           string     `json:"code"`
	Type           CouponType `json:"type,omitempty"`
	DiscountAmount float64    `json:"discount_amount"`
}
