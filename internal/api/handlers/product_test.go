package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/littlefern/storefront-api/internal/api/handlers"
	appErrors "github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	"github.com/littlefern/storefront-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupProductHandlerTest() (*mockProductService, *handlers.ProductHandler) {
	mockService := new(mockProductService)
	productHandler := handlers.NewProductHandler(mockService)

	return mockService, productHandler
}

func TestGetProductHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService, productHandler := setupProductHandlerTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/42", nil, map[string]string{"id": "42"})
		recorder := httptest.NewRecorder()

		product := &models.Product{ID: 42, Name: "Dinosaur Raincoat", Slug: "dinosaur-raincoat"}
		mockService.On("GetProductByID", mock.Anything, int64(42)).Return(product, nil).Once()

		// Act
		productHandler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockService, productHandler := setupProductHandlerTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/42", nil, map[string]string{"id": "42"})
		recorder := httptest.NewRecorder()

		mockService.On("GetProductByID", mock.Anything, int64(42)).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		// Act
		productHandler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Failure - Bad ID", func(t *testing.T) {
		// Arrange
		mockService, productHandler := setupProductHandlerTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/abc", nil, map[string]string{"id": "abc"})
		recorder := httptest.NewRecorder()

		// Act
		productHandler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
	})
}

func TestGetProductBySlugHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService, productHandler := setupProductHandlerTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/slug/dinosaur-raincoat", nil, map[string]string{"slug": "dinosaur-raincoat"})
		recorder := httptest.NewRecorder()

		product := &models.Product{ID: 42, Slug: "dinosaur-raincoat"}
		mockService.On("GetProductBySlug", mock.Anything, "dinosaur-raincoat").Return(product, nil).Once()

		// Act
		productHandler.GetProductBySlug()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})
}

func TestListProductsHandler(t *testing.T) {
	t.Run("Success - Filters Forwarded", func(t *testing.T) {
		// Arrange
		mockService, productHandler := setupProductHandlerTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products?category=3&minPrice=100&maxPrice=900&page=2&pageSize=5", nil, nil)
		recorder := httptest.NewRecorder()

		products := []*models.Product{{ID: 1}, {ID: 2}}
		mockService.On("ListProducts", mock.Anything, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return f.CategoryID == 3 && f.MinPrice == 100 && f.MaxPrice == 900 && f.Page == 2 && f.PageSize == 5
		})).Return(products, 2, nil).Once()

		// Act
		productHandler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Success - No Filters", func(t *testing.T) {
		// Arrange
		mockService, productHandler := setupProductHandlerTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products", nil, nil)
		recorder := httptest.NewRecorder()

		mockService.On("ListProducts", mock.Anything, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return f.CategoryID == 0 && f.Page == 1 && f.PageSize == 10
		})).Return([]*models.Product{}, 0, nil).Once()

		// Act
		productHandler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})
}
