package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/littlefern/storefront-api/internal/models"
	"github.com/littlefern/storefront-api/internal/utils"
)

type CouponRepository interface {
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	CountUsageByIdentity(ctx context.Context, couponID int64, identity string) (int, error)
}

type couponRepository struct {
	DB *sql.DB
}

func NewCouponRepo(db *sql.DB) CouponRepository {
	return &couponRepository{DB: db}
}

func (r *couponRepository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, code, type, value, minimum_amount, maximum_discount,
		       usage_limit, usage_count, user_limit, starts_at, expires_at,
		       is_active, product_ids, category_ids, created_at, updated_at
		FROM coupons
		WHERE code = $1
	`

	coupon := &models.Coupon{}

	var minimumAmount, maximumDiscount sql.NullFloat64

	var usageLimit sql.NullInt64

	var productIDs, categoryIDs pq.Int64Array

	err := r.DB.QueryRowContext(dbCtx, query, code).Scan(
		&coupon.ID, &coupon.Code, &coupon.Type, &coupon.Value,
		&minimumAmount, &maximumDiscount, &usageLimit, &coupon.UsageCount,
		&coupon.UserLimit, &coupon.StartsAt, &coupon.ExpiresAt, &coupon.IsActive,
		&productIDs, &categoryIDs, &coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if minimumAmount.Valid {
		coupon.MinimumAmount = &minimumAmount.Float64
	}

	if maximumDiscount.Valid {
		coupon.MaximumDiscount = &maximumDiscount.Float64
	}

	if usageLimit.Valid {
		limit := int(usageLimit.Int64)
		coupon.UsageLimit = &limit
	}

	coupon.ProductIDs = productIDs
	coupon.CategoryIDs = categoryIDs

	return coupon, nil
}

// CountUsageByIdentity derives the per-identity redemption count from usage
// rows rather than a counter, so it cannot drift.
func (r *couponRepository) CountUsageByIdentity(ctx context.Context, couponID int64, identity string) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND identity = $2`

	var count int

	if err := r.DB.QueryRowContext(dbCtx, query, couponID, identity).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count coupon usage: %w", err)
	}

	return count, nil
}
