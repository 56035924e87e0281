package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/cache"
	"github.com/littlefern/storefront-api/internal/config"
	apperrors "github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	repository "github.com/littlefern/storefront-api/internal/repositories"
	"github.com/littlefern/storefront-api/pkg/sendgrid"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, customerID uuid.UUID, email string, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]models.Order, int, error)
	ListOrders(ctx context.Context, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	couponSvc    CouponService
	productCache cache.Cache
	emailer      sendgrid.EmailService
	shipping     *config.Shipping
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository,
	couponSvc CouponService, productCache cache.Cache, emailer sendgrid.EmailService,
	shipping *config.Shipping) OrderService {

	return &orderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		couponSvc:    couponSvc,
		productCache: productCache,
		emailer:      emailer,
		shipping:     shipping,
	}
}

// PlaceOrder converts the caller's cart into an order. All persisted effects
// (the order and its lines, stock decrements, coupon usage, the cart clear)
// commit in one repository transaction; a failure anywhere leaves nothing
// behind. Line prices are snapshotted server-side from the product's current
// effective price, never taken from the client.
func (s *orderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, email string, req *models.CreateOrderRequest) (*models.Order, error) {

	identity := customerID.String()

	items, err := s.cartRepo.GetItems(ctx, identity)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if len(items) == 0 {
		return nil, apperrors.BadRequestError("Cannot place an order with an empty cart")
	}

	// Fail fast on stock from the snapshot; the transaction below re-checks
	// authoritatively with a conditional decrement.
	for i := range items {
		if items[i].Stock < int64(items[i].Quantity) {
			return nil, apperrors.InsufficientStockError(
				fmt.Sprintf("Insufficient stock for product: %s", items[i].ProductName))
		}
	}

	subtotal := ComputeSubtotal(items)

	shippingCost := s.shipping.FlatRate
	if FreeShippingEligible(subtotal, s.shipping.FreeShippingThreshold) {
		shippingCost = 0
	}

	var coupon *models.Coupon

	var discount float64

	var couponCode *string

	if req.CouponCode != "" {

		validated, validation, err := s.couponSvc.ValidateForOrder(ctx, req.CouponCode, identity, subtotal, shippingCost, items)
		if err != nil {
			return nil, err
		}

		if !validation.Valid {
			return nil, apperrors.InvalidCouponError("Coupon cannot be applied", validation.Reason)
		}

		coupon = validated
		couponCode = &coupon.Code

		if coupon.Type == models.CouponTypeFreeShipping {
			shippingCost = 0
		} else {
			discount = validation.DiscountAmount
		}
	}

	// A degenerate discount never drives the total negative.
	discounted := subtotal - discount
	if discounted < 0 {
		discounted = 0
	}

	total := round2(discounted + shippingCost)

	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Status:          models.OrderStatusPending,
		Subtotal:        subtotal,
		DiscountAmount:  round2(discount),
		ShippingCost:    shippingCost,
		TotalAmount:     total,
		CouponCode:      couponCode,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: &req.ShippingAddress,
		Notes:           req.Notes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	for i := range items {
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: items[i].ProductID,
			Quantity:  items[i].Quantity,
			Size:      items[i].Size,
			Color:     items[i].Color,
			// Permanent price snapshot; later catalog edits never touch it.
			UnitPrice: items[i].LinePrice(),
			CreatedAt: time.Now(),
		})
	}

	if err := s.orderRepo.PlaceOrder(ctx, identity, order, coupon); err != nil {

		var stockErr *repository.InsufficientStockError

		switch {
		case errors.As(err, &stockErr):
			return nil, apperrors.InsufficientStockError(
				fmt.Sprintf("Insufficient stock for product: %d", stockErr.ProductID)).WithError(err)
		case errors.Is(err, repository.ErrCouponExhausted):
			return nil, apperrors.InvalidCouponError("Coupon cannot be applied", models.CouponReasonExhausted).WithError(err)
		case errors.Is(err, repository.ErrCouponUserLimitReached):
			return nil, apperrors.InvalidCouponError("Coupon cannot be applied", models.CouponReasonUserLimitReached).WithError(err)
		default:
			return nil, apperrors.DatabaseError("Failed to place order").WithError(err)
		}
	}

	// Side effects past this point are non-critical: the order is committed.
	logger := slog.Default()

	for i := range items {
		if err := s.productCache.Delete(ctx, cache.ProductKey(items[i].ProductID)); err != nil {
			logger.Warn("Failed to invalidate product cache",
				slog.Int64("productId", items[i].ProductID), slog.String("error", err.Error()))
		}

		if items[i].ProductSlug != "" {
			if err := s.productCache.Delete(ctx, cache.ProductSlugKey(items[i].ProductSlug)); err != nil {
				logger.Warn("Failed to invalidate product cache",
					slog.String("slug", items[i].ProductSlug), slog.String("error", err.Error()))
			}
		}
	}

	if email != "" && s.emailer != nil {
		if err := s.emailer.SendOrderConfirmation(ctx, email, order); err != nil {
			logger.Warn("Failed to send order confirmation",
				slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
		}
	}

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Order not found").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]models.Order, int, error) {

	orders, total, err := s.orderRepo.ListOrdersByCustomer(ctx, customerID, page, size)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, size int) ([]models.Order, int, error) {

	orders, total, err := s.orderRepo.ListOrders(ctx, page, size)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateOrderStatus enforces the delivery state machine before writing, and
// writes with a compare-and-swap so concurrent admin updates cannot race
// past each other.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Order not found").WithError(err)
	}

	if !models.CanTransition(order.Status, status) {
		return nil, apperrors.InvalidTransitionError(
			fmt.Sprintf("Cannot transition order from %s to %s", order.Status, status))
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, order.Status, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.InvalidTransitionError("Order status changed concurrently").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to update order status").WithError(err)
	}

	order.Status = status

	return order, nil
}
