package handlers_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockCartService struct {
	mock.Mock
}

func (m *mockCartService) AddItem(ctx context.Context, identity string, req *models.AddItemRequest) (*models.CartItem, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *mockCartService) GetCart(ctx context.Context, identity string) (*models.CartResponse, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartResponse), args.Error(1)
}

func (m *mockCartService) UpdateQuantity(ctx context.Context, identity string, itemID uuid.UUID, quantity int) (*models.CartItem, bool, error) {
	args := m.Called(ctx, identity, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}

	return args.Get(0).(*models.CartItem), args.Bool(1), args.Error(2)
}

func (m *mockCartService) RemoveItem(ctx context.Context, identity string, itemID uuid.UUID) error {
	args := m.Called(ctx, identity, itemID)

	return args.Error(0)
}

func (m *mockCartService) ClearCart(ctx context.Context, identity string) error {
	args := m.Called(ctx, identity)

	return args.Error(0)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, email string, req *models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, customerID, email, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderService) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, customerID, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderService) ListOrders(ctx context.Context, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

type mockCouponService struct {
	mock.Mock
}

func (m *mockCouponService) Validate(ctx context.Context, identity string, req *models.ValidateCouponRequest) (*models.CouponValidation, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CouponValidation), args.Error(1)
}

func (m *mockCouponService) ValidateForOrder(ctx context.Context, code, identity string, orderAmount, shippingCost float64, items []models.CartItem) (*models.Coupon, *models.CouponValidation, error) {
	args := m.Called(ctx, code, identity, orderAmount, shippingCost, items)

	var coupon *models.Coupon
	if args.Get(0) != nil {
		coupon = args.Get(0).(*models.Coupon)
	}

	var validation *models.CouponValidation
	if args.Get(1) != nil {
		validation = args.Get(1).(*models.CouponValidation)
	}

	return coupon, validation, args.Error(2)
}

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) SubmitReview(ctx context.Context, customerID uuid.UUID, productID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, customerID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewService) ListReviews(ctx context.Context, productID int64, page, size int) ([]models.Review, int, error) {
	args := m.Called(ctx, productID, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Review), args.Int(1), args.Error(2)
}

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}
