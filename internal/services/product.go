package service

import (
	"context"
	"log/slog"

	"github.com/littlefern/storefront-api/internal/cache"
	"github.com/littlefern/storefront-api/internal/config"
	"github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	repository "github.com/littlefern/storefront-api/internal/repositories"
)

// ProductService is the read-only catalog surface. Everything else in the
// storefront consumes products through it.
type ProductService interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error)
}

type productService struct {
	repo     repository.ProductRepository
	cache    cache.Cache
	cacheCfg *config.CacheConfig
}

func NewProductService(repo repository.ProductRepository, c cache.Cache, cacheCfg *config.CacheConfig) ProductService {
	return &productService{repo: repo, cache: c, cacheCfg: cacheCfg}
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	key := cache.ProductKey(id)

	var cached models.Product

	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		slog.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, s.cacheCfg.ProductTTL); err != nil {
		slog.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return product, nil
}

func (s *productService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {

	key := cache.ProductSlugKey(slug)

	var cached models.Product

	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		slog.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, s.cacheCfg.ProductTTL); err != nil {
		slog.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {

	if filter.Page < 1 {
		filter.Page = 1
	}

	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}
