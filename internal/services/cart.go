package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/config"
	"github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	repository "github.com/littlefern/storefront-api/internal/repositories"
)

type CartService interface {
	AddItem(ctx context.Context, identity string, req *models.AddItemRequest) (*models.CartItem, error)
	GetCart(ctx context.Context, identity string) (*models.CartResponse, error)
	// UpdateQuantity returns (nil, true, nil) when the quantity drop removed
	// the line. Removal of an already-absent line is not an error.
	UpdateQuantity(ctx context.Context, identity string, itemID uuid.UUID, quantity int) (*models.CartItem, bool, error)
	RemoveItem(ctx context.Context, identity string, itemID uuid.UUID) error
	ClearCart(ctx context.Context, identity string) error
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	shipping    *config.Shipping
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, shipping *config.Shipping) CartService {
	return &cartService{repo: repo, productRepo: productRepo, shipping: shipping}
}

// ComputeSubtotal sums effective price * quantity across lines, rounded to
// two decimals. Pure, no side effects.
func ComputeSubtotal(items []models.CartItem) float64 {

	var subtotal float64

	for i := range items {
		subtotal += items[i].LinePrice() * float64(items[i].Quantity)
	}

	return round2(subtotal)
}

func FreeShippingEligible(subtotal, threshold float64) bool {
	return subtotal >= threshold
}

// RemainingForFreeShipping is zero once the cart qualifies.
func RemainingForFreeShipping(subtotal, threshold float64) float64 {
	if subtotal >= threshold {
		return 0
	}

	return round2(threshold - subtotal)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *cartService) AddItem(ctx context.Context, identity string, req *models.AddItemRequest) (*models.CartItem, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if !product.IsActive() {
		return nil, errors.NotFoundError("Product is no longer available")
	}

	if req.Size != "" && !product.HasSize(req.Size) {
		return nil, errors.ValidationError("Size is not available for this product")
	}

	if req.Color != "" && !product.HasColor(req.Color) {
		return nil, errors.ValidationError("Color is not available for this product")
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		Identity:  identity,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	item.ProductName = product.Name
	item.ProductSlug = product.Slug
	item.ImageURL = product.ImageURL
	item.UnitPrice = product.Price
	item.SalePrice = product.SalePrice

	return item, nil
}

func (s *cartService) GetCart(ctx context.Context, identity string) (*models.CartResponse, error) {

	items, err := s.repo.GetItems(ctx, identity)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if items == nil {
		items = []models.CartItem{}
	}

	subtotal := ComputeSubtotal(items)

	return &models.CartResponse{
		Items:                    items,
		Subtotal:                 subtotal,
		FreeShippingEligible:     FreeShippingEligible(subtotal, s.shipping.FreeShippingThreshold),
		RemainingForFreeShipping: RemainingForFreeShipping(subtotal, s.shipping.FreeShippingThreshold),
	}, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, identity string, itemID uuid.UUID, quantity int) (*models.CartItem, bool, error) {

	if quantity <= 0 {

		if err := s.RemoveItem(ctx, identity, itemID); err != nil {
			return nil, false, err
		}

		return nil, true, nil
	}

	item, err := s.repo.UpdateQuantity(ctx, identity, itemID, quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, errors.NotFoundError("Cart item not found").WithError(err)
		}

		return nil, false, errors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return item, false, nil
}

func (s *cartService) RemoveItem(ctx context.Context, identity string, itemID uuid.UUID) error {

	if err := s.repo.DeleteItem(ctx, identity, itemID); err != nil {
		return errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return nil
}

func (s *cartService) ClearCart(ctx context.Context, identity string) error {

	if err := s.repo.Clear(ctx, identity); err != nil {
		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}
