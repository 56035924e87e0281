package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/models"
	"github.com/littlefern/storefront-api/internal/utils"
)

type CartRepository interface {
	UpsertItem(ctx context.Context, item *models.CartItem) error
	GetItems(ctx context.Context, identity string) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, identity string, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	DeleteItem(ctx context.Context, identity string, itemID uuid.UUID) error
	Clear(ctx context.Context, identity string) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// UpsertItem inserts a line or, when the merge key (identity, product_id,
// size, color) already exists, atomically increments its quantity. The unique
// index makes concurrent adds of the same key converge on one row.
func (r *cartRepository) UpsertItem(ctx context.Context, item *models.CartItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (id, identity, product_id, quantity, size, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (identity, product_id, size, color)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, item.ID, item.Identity, item.ProductID, item.Quantity, item.Size, item.Color).
		Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) GetItems(ctx context.Context, identity string) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.product_id, ci.quantity, ci.size, ci.color, ci.created_at, ci.updated_at,
		       p.name, p.slug, p.image_url, p.price, p.sale_price, p.stock, p.category_id
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.identity = $1
		ORDER BY ci.created_at
	`

	rows, err := r.DB.QueryContext(dbCtx, query, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}

	defer rows.Close()

	var items []models.CartItem

	for rows.Next() {

		var item models.CartItem

		var salePrice sql.NullFloat64

		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Size, &item.Color,
			&item.CreatedAt, &item.UpdatedAt,
			&item.ProductName, &item.ProductSlug, &item.ImageURL,
			&item.UnitPrice, &salePrice, &item.Stock, &item.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		if salePrice.Valid {
			item.SalePrice = &salePrice.Float64
		}

		item.Identity = identity

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, identity string, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND identity = $3
		RETURNING product_id, quantity, size, color, created_at, updated_at
	`

	item := &models.CartItem{ID: itemID, Identity: identity}

	err := r.DB.QueryRowContext(dbCtx, query, quantity, itemID, identity).
		Scan(&item.ProductID, &item.Quantity, &item.Size, &item.Color, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	return item, nil
}

// DeleteItem is idempotent: deleting an absent line is not an error.
func (r *cartRepository) DeleteItem(ctx context.Context, identity string, itemID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE id = $1 AND identity = $2`

	if _, err := r.DB.ExecContext(dbCtx, query, itemID, identity); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, identity string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE identity = $1`

	if _, err := r.DB.ExecContext(dbCtx, query, identity); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
