package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/api/handlers"
	appErrors "github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	"github.com/littlefern/storefront-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupReviewHandlerTest() (*mockReviewService, *handlers.ReviewHandler) {
	mockService := new(mockReviewService)
	reviewHandler := handlers.NewReviewHandler(mockService)

	return mockService, reviewHandler
}

func TestSubmitReviewHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Review Created", func(t *testing.T) {
		// Arrange
		mockService, reviewHandler := setupReviewHandlerTest()

		body, _ := json.Marshal(models.CreateReviewRequest{Rating: 5, Title: "Perfect fit", Comment: "Great coat"})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/products/42/reviews", bytes.NewBuffer(body), userID, map[string]string{"productId": "42"})
		recorder := httptest.NewRecorder()

		review := &models.Review{ID: uuid.New(), ProductID: 42, CustomerID: userID, Rating: 5}
		mockService.On("SubmitReview", mock.Anything, userID, int64(42), mock.MatchedBy(func(r *models.CreateReviewRequest) bool {
			return r.Rating == 5 && r.Title == "Perfect fit"
		})).Return(review, nil).Once()

		// Act
		reviewHandler.SubmitReview()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - No Claims", func(t *testing.T) {
		// Arrange
		_, reviewHandler := setupReviewHandlerTest()

		body, _ := json.Marshal(models.CreateReviewRequest{Rating: 5})
		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/products/42/reviews", bytes.NewBuffer(body), map[string]string{"productId": "42"})
		recorder := httptest.NewRecorder()

		// Act
		reviewHandler.SubmitReview()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Failure - Rating Out Of Range", func(t *testing.T) {
		// Arrange
		mockService, reviewHandler := setupReviewHandlerTest()

		body, _ := json.Marshal(models.CreateReviewRequest{Rating: 6})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/products/42/reviews", bytes.NewBuffer(body), userID, map[string]string{"productId": "42"})
		recorder := httptest.NewRecorder()

		// Act
		reviewHandler.SubmitReview()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockService, reviewHandler := setupReviewHandlerTest()

		body, _ := json.Marshal(models.CreateReviewRequest{Rating: 4})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/products/42/reviews", bytes.NewBuffer(body), userID, map[string]string{"productId": "42"})
		recorder := httptest.NewRecorder()

		mockService.On("SubmitReview", mock.Anything, userID, int64(42), mock.Anything).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		// Act
		reviewHandler.SubmitReview()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestListReviewsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService, reviewHandler := setupReviewHandlerTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/42/reviews?page=1&pageSize=10", nil, map[string]string{"productId": "42"})
		recorder := httptest.NewRecorder()

		reviews := []models.Review{{ID: uuid.New(), ProductID: 42, Rating: 5}}
		mockService.On("ListReviews", mock.Anything, int64(42), 1, 10).Return(reviews, 1, nil).Once()

		// Act
		reviewHandler.ListReviews()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Bad Product ID", func(t *testing.T) {
		// Arrange
		mockService, reviewHandler := setupReviewHandlerTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/products/abc/reviews", nil, map[string]string{"productId": "abc"})
		recorder := httptest.NewRecorder()

		// Act
		reviewHandler.ListReviews()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "ListReviews", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
