package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/littlefern/storefront-api/internal/config"
	appErrors "github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	service "github.com/littlefern/storefront-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testCacheCfg = &config.CacheConfig{DefaultTTL: 5 * time.Minute, ProductTTL: 10 * time.Minute}

func setupProductServiceTest() (service.ProductService, *mockProductRepository, *mockCache) {
	mockRepo := &mockProductRepository{}
	cache := &mockCache{}
	productService := service.NewProductService(mockRepo, cache, testCacheCfg)

	return productService, mockRepo, cache
}

func TestGetProductByID(t *testing.T) {
	ctx := context.Background()
	product := &models.Product{ID: 42, Name: "Dinosaur Raincoat", Slug: "dinosaur-raincoat"}

	t.Run("Success - Cache Miss Falls Through To Repository", func(t *testing.T) {
		productService, mockRepo, cache := setupProductServiceTest()

		cache.On("Get", ctx, "product:42", mock.Anything).Return(false, nil).Once()
		mockRepo.On("GetProductByID", ctx, int64(42)).Return(product, nil).Once()
		cache.On("Set", ctx, "product:42", product, testCacheCfg.ProductTTL).Return(nil).Once()

		got, err := productService.GetProductByID(ctx, 42)

		assert.NoError(t, err)
		assert.Equal(t, product.Name, got.Name)
		mockRepo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Success - Cache Hit Skips Repository", func(t *testing.T) {
		productService, mockRepo, cache := setupProductServiceTest()

		cache.On("Get", ctx, "product:42", mock.Anything).Run(func(args mock.Arguments) {
			*(args.Get(2).(*models.Product)) = *product
		}).Return(true, nil).Once()

		got, err := productService.GetProductByID(ctx, 42)

		assert.NoError(t, err)
		assert.Equal(t, "Dinosaur Raincoat", got.Name)
		mockRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
	})

	t.Run("Success - Cache Error Is Tolerated", func(t *testing.T) {
		productService, mockRepo, cache := setupProductServiceTest()

		cache.On("Get", ctx, "product:42", mock.Anything).Return(false, errors.New("redis down")).Once()
		mockRepo.On("GetProductByID", ctx, int64(42)).Return(product, nil).Once()
		cache.On("Set", ctx, "product:42", product, testCacheCfg.ProductTTL).Return(errors.New("redis down")).Once()

		got, err := productService.GetProductByID(ctx, 42)

		assert.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		productService, mockRepo, cache := setupProductServiceTest()

		cache.On("Get", ctx, "product:42", mock.Anything).Return(false, nil).Once()
		mockRepo.On("GetProductByID", ctx, int64(42)).Return(nil, sql.ErrNoRows).Once()

		got, err := productService.GetProductByID(ctx, 42)

		assert.Error(t, err)
		assert.Nil(t, got)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestGetProductBySlug(t *testing.T) {
	ctx := context.Background()
	product := &models.Product{ID: 42, Name: "Dinosaur Raincoat", Slug: "dinosaur-raincoat"}

	t.Run("Success", func(t *testing.T) {
		productService, mockRepo, cache := setupProductServiceTest()

		cache.On("Get", ctx, "product:slug:dinosaur-raincoat", mock.Anything).Return(false, nil).Once()
		mockRepo.On("GetProductBySlug", ctx, "dinosaur-raincoat").Return(product, nil).Once()
		cache.On("Set", ctx, "product:slug:dinosaur-raincoat", product, testCacheCfg.ProductTTL).Return(nil).Once()

		got, err := productService.GetProductBySlug(ctx, "dinosaur-raincoat")

		assert.NoError(t, err)
		assert.Equal(t, int64(42), got.ID)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Clamps Pagination", func(t *testing.T) {
		productService, mockRepo, _ := setupProductServiceTest()

		mockRepo.On("ListProducts", ctx, mock.MatchedBy(func(filter *models.ProductFilter) bool {
			return filter.Page == 1 && filter.PageSize == 20
		})).Return([]*models.Product{}, 0, nil).Once()

		_, _, err := productService.ListProducts(ctx, &models.ProductFilter{Page: -5, PageSize: 0})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Passes Filter Through", func(t *testing.T) {
		productService, mockRepo, _ := setupProductServiceTest()

		expected := []*models.Product{{ID: 1}, {ID: 2}}
		mockRepo.On("ListProducts", ctx, mock.MatchedBy(func(filter *models.ProductFilter) bool {
			return filter.CategoryID == 3 && filter.MinPrice == 100 && filter.MaxPrice == 900
		})).Return(expected, 2, nil).Once()

		products, total, err := productService.ListProducts(ctx, &models.ProductFilter{
			CategoryID: 3, MinPrice: 100, MaxPrice: 900, Page: 1, PageSize: 20,
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, products, 2)
	})
}
