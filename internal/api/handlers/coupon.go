package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/littlefern/storefront-api/internal/api/middleware"
	"github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/metrics"
	"github.com/littlefern/storefront-api/internal/models"
	redisrepo "github.com/littlefern/storefront-api/internal/repositories/redis"
	service "github.com/littlefern/storefront-api/internal/services"
	"github.com/littlefern/storefront-api/internal/utils"
	"github.com/littlefern/storefront-api/internal/utils/response"
)

type CouponHandler struct {
	couponService service.CouponService
	rateLimiter   *redisrepo.RateLimiter
	validator     *validator.Validate
}

func NewCouponHandler(couponService service.CouponService, rateLimiter *redisrepo.RateLimiter) *CouponHandler {
	return &CouponHandler{couponService: couponService, rateLimiter: rateLimiter, validator: validator.New()}
}

// Validate godoc
//	@Summary		Check whether a coupon code applies
//	@Description	Returns applicability and the discount amount for the given order amount. Never consumes a redemption; that only happens at order placement. Rate limited per identity.
//	@Tags			Coupons
//	@Accept			json
//	@Produce		json
//	@Param			coupon	body		models.ValidateCouponRequest	true	"Code and order amount"
//	@Success		200		{object}	models.CouponValidation
//	@Failure		429		{object}	response.ErrorResponse	"Too many validation attempts"
//	@Router			/coupons/validate [post]
func (h *CouponHandler) Validate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication or session token required"))
			return
		}

		if h.rateLimiter != nil {

			allowed, _, _, err := h.rateLimiter.Allow(r.Context(), identity)
			if err != nil {
				// The limiter is protective, not load-bearing.
				logger.Warn("Coupon rate limiter unavailable", slog.String("error", err.Error()))
			} else if !allowed {
				logger.Warn("Coupon validation rate limited", slog.String("identity", identity))
				response.Error(w, errors.TooManyRequestsError("Too many coupon attempts, try again later"))
				return
			}
		}

		var req models.ValidateCouponRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid coupon validation input")
			return
		}

		validation, err := h.couponService.Validate(r.Context(), identity, &req)
		if err != nil {
			logger.Error("Failed to validate coupon", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if !validation.Valid {
			metrics.CouponRejected(validation.Reason)
		}

		response.Success(w, http.StatusOK, validation)
	}
}
