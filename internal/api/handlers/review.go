package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/littlefern/storefront-api/internal/api/middleware"
	"github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	service "github.com/littlefern/storefront-api/internal/services"
	"github.com/littlefern/storefront-api/internal/utils"
	"github.com/littlefern/storefront-api/internal/utils/response"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, validator: validator.New()}
}

// SubmitReview godoc
//	@Summary		Submit a product review
//	@Description	Creates a review and synchronously refreshes the product's average rating and review count.
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			productId	path		int							true	"Product ID"
//	@Param			review		body		models.CreateReviewRequest	true	"Review"
//	@Success		201			{object}	models.Review
//	@Security		BearerAuth
//	@Router			/products/{productId}/reviews [post]
func (h *ReviewHandler) SubmitReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := utils.ParseInt64(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.CreateReviewRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid review input")
			return
		}

		review, err := h.reviewService.SubmitReview(r.Context(), claims.UserID, productID, &req)
		if err != nil {
			logger.Error("Failed to submit review", slog.Int64("productId", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Review submitted", slog.String("reviewId", review.ID.String()), slog.Int64("productId", productID))
		response.Success(w, http.StatusCreated, review)
	}
}

// ListReviews godoc
//	@Summary		List a product's reviews
//	@Tags			Reviews
//	@Produce		json
//	@Param			productId	path		int	true	"Product ID"
//	@Param			page		query		int	false	"Page number (default 1)"
//	@Param			pageSize	query		int	false	"Items per page (default 10)"
//	@Success		200			{object}	models.PaginatedResponse
//	@Router			/products/{productId}/reviews [get]
func (h *ReviewHandler) ListReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		productID, err := utils.ParseInt64(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		page, pageSize := utils.Pagination(r)

		reviews, total, err := h.reviewService.ListReviews(r.Context(), productID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list reviews", slog.Int64("productId", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     reviews,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}
