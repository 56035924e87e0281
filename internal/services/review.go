package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/cache"
	"github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	repository "github.com/littlefern/storefront-api/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, customerID uuid.UUID, productID int64, req *models.CreateReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context, productID int64, page, size int) ([]models.Review, int, error)
}

type reviewService struct {
	repo         repository.ReviewRepository
	productRepo  repository.ProductRepository
	productCache cache.Cache
	sanitizer    *bluemonday.Policy
}

func NewReviewService(repo repository.ReviewRepository, productRepo repository.ProductRepository, productCache cache.Cache) ReviewService {
	return &reviewService{
		repo:         repo,
		productRepo:  productRepo,
		productCache: productCache,
		// Review text is rendered on product pages; strip all markup.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// SubmitReview persists the review and synchronously refreshes the product's
// denormalized rating and review count. Those two fields are written only
// here; the catalog never recomputes them.
func (s *reviewService) SubmitReview(ctx context.Context, customerID uuid.UUID, productID int64, req *models.CreateReviewRequest) (*models.Review, error) {

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	review := &models.Review{
		ID:         uuid.New(),
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(s.sanitizer.Sanitize(req.Title)),
		Comment:    strings.TrimSpace(s.sanitizer.Sanitize(req.Comment)),
		CreatedAt:  time.Now(),
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, errors.DatabaseError("Failed to submit review").WithError(err)
	}

	// The cached product now carries a stale aggregate.
	if err := s.productCache.Delete(ctx, cache.ProductKey(productID)); err != nil {
		slog.Warn("Failed to invalidate product cache",
			slog.Int64("productId", productID), slog.String("error", err.Error()))
	}

	if err := s.productCache.Delete(ctx, cache.ProductSlugKey(product.Slug)); err != nil {
		slog.Warn("Failed to invalidate product cache",
			slog.String("slug", product.Slug), slog.String("error", err.Error()))
	}

	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, productID int64, page, size int) ([]models.Review, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	reviews, total, err := s.repo.ListReviewsByProduct(ctx, productID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch reviews").WithError(err)
	}

	return reviews, total, nil
}
