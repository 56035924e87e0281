package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/littlefern/storefront-api/internal/models"
	"github.com/littlefern/storefront-api/internal/utils"
)

type ProductRepository interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `p.id, p.category_id, p.name, p.slug, p.description, p.price,
	       p.sale_price, p.stock, p.sizes, p.colors, p.image_url,
	       p.rating, p.review_count, p.status, p.created_at, p.updated_at,
	       c.id, c.name, c.slug, c.description`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {

	product := &models.Product{}
	category := &models.Category{}

	var salePrice sql.NullFloat64

	err := row.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Slug,
		&product.Description, &product.Price, &salePrice, &product.Stock,
		pq.Array(&product.Sizes), pq.Array(&product.Colors), &product.ImageURL,
		&product.Rating, &product.ReviewCount, &product.Status,
		&product.CreatedAt, &product.UpdatedAt,
		&category.ID, &category.Name, &category.Slug, &category.Description)
	if err != nil {
		return nil, err
	}

	if salePrice.Valid {
		product.SalePrice = &salePrice.Float64
	}

	product.Category = category

	return product, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.slug = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// The filter clause is shared by the count and the page query.
	where := ` WHERE p.status = 'active'
		AND ($1 = 0 OR p.category_id = $1)
		AND ($2 = 0 OR COALESCE(p.sale_price, p.price) >= $2)
		AND ($3 = 0 OR COALESCE(p.sale_price, p.price) <= $3)`

	var total int

	countQuery := `SELECT COUNT(*) FROM products p` + where

	err := r.DB.QueryRowContext(dbCtx, countQuery, filter.CategoryID, filter.MinPrice, filter.MaxPrice).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id` + where + `
		ORDER BY p.id
		LIMIT $4 OFFSET $5`

	rows, err := r.DB.QueryContext(dbCtx, query, filter.CategoryID, filter.MinPrice, filter.MaxPrice, filter.PageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
