package service

import (
	"context"
	"database/sql"
	"math"
	"slices"
	"time"

	"github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	repository "github.com/littlefern/storefront-api/internal/repositories"
)

type CouponService interface {
	// Validate answers "would this code apply right now" without touching
	// usage counters. Redemption is recorded only by order placement.
	Validate(ctx context.Context, identity string, req *models.ValidateCouponRequest) (*models.CouponValidation, error)
	// ValidateForOrder additionally checks the coupon's product/category
	// allow-lists against the cart lines and hands back the coupon row for
	// the placement transaction's in-transaction re-check.
	ValidateForOrder(ctx context.Context, code, identity string, orderAmount, shippingCost float64, items []models.CartItem) (*models.Coupon, *models.CouponValidation, error)
}

type couponService struct {
	repo repository.CouponRepository
	now  func() time.Time
}

func NewCouponService(repo repository.CouponRepository) CouponService {
	return &couponService{repo: repo, now: time.Now}
}

func (s *couponService) Validate(ctx context.Context, identity string, req *models.ValidateCouponRequest) (*models.CouponValidation, error) {

	_, validation, err := s.ValidateForOrder(ctx, req.Code, identity, req.OrderAmount, req.ShippingCost, nil)

	return validation, err
}

func invalid(code, reason string) *models.CouponValidation {
	return &models.CouponValidation{Valid: false, Code: code, Reason: reason}
}

// Checks run in a fixed order and the first failure wins.
func (s *couponService) ValidateForOrder(ctx context.Context, code, identity string, orderAmount, shippingCost float64, items []models.CartItem) (*models.Coupon, *models.CouponValidation, error) {

	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invalid(code, models.CouponReasonNotFound), nil
		}

		return nil, nil, errors.DatabaseError("Failed to look up coupon").WithError(err)
	}

	if !coupon.IsActive {
		return nil, invalid(code, models.CouponReasonNotFound), nil
	}

	now := s.now()
	if now.Before(coupon.StartsAt) || now.After(coupon.ExpiresAt) {
		return nil, invalid(code, models.CouponReasonExpired), nil
	}

	if coupon.MinimumAmount != nil && orderAmount < *coupon.MinimumAmount {
		return nil, invalid(code, models.CouponReasonBelowMinimum), nil
	}

	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return nil, invalid(code, models.CouponReasonExhausted), nil
	}

	if coupon.UserLimit > 0 {

		used, err := s.repo.CountUsageByIdentity(ctx, coupon.ID, identity)
		if err != nil {
			return nil, nil, errors.DatabaseError("Failed to check coupon usage").WithError(err)
		}

		if used >= coupon.UserLimit {
			return nil, invalid(code, models.CouponReasonUserLimitReached), nil
		}
	}

	if len(items) > 0 && !couponApplies(coupon, items) {
		return nil, invalid(code, models.CouponReasonNotApplicable), nil
	}

	validation := &models.CouponValidation{
		Valid:          true,
		Code:           coupon.Code,
		Type:           coupon.Type,
		DiscountAmount: computeDiscount(coupon, orderAmount, shippingCost),
	}

	return coupon, validation, nil
}

// Empty allow-lists mean the coupon applies to everything; otherwise at
// least one cart line has to match.
func couponApplies(coupon *models.Coupon, items []models.CartItem) bool {

	if len(coupon.ProductIDs) == 0 && len(coupon.CategoryIDs) == 0 {
		return true
	}

	for i := range items {

		if slices.Contains(coupon.ProductIDs, items[i].ProductID) {
			return true
		}

		if slices.Contains(coupon.CategoryIDs, items[i].CategoryID) {
			return true
		}
	}

	return false
}

func computeDiscount(coupon *models.Coupon, orderAmount, shippingCost float64) float64 {

	switch coupon.Type {
	case models.CouponTypePercentage:

		discount := orderAmount * coupon.Value / 100

		if coupon.MaximumDiscount != nil && discount > *coupon.MaximumDiscount {
			discount = *coupon.MaximumDiscount
		}

		return round2(discount)

	case models.CouponTypeFixed:
		return round2(math.Min(coupon.Value, orderAmount))

	case models.CouponTypeFreeShipping:
		// The validator doesn't know shipping; the caller supplies it.
		return round2(shippingCost)
	}

	return 0
}
