package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/littlefern/storefront-api/internal/models"
	"github.com/littlefern/storefront-api/internal/utils"
)

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ListReviewsByProduct(ctx context.Context, productID int64, page, size int) ([]models.Review, int, error)
}

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepo(db *sql.DB) ReviewRepository {
	return &reviewRepository{DB: db}
}

// CreateReview inserts the review and recomputes the product's denormalized
// rating and review_count in the same transaction. The aggregate is derived
// from the review rows by the database itself, so two concurrent submissions
// cannot overwrite each other with stale averages.
func (r *reviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	insertQuery := `
		INSERT INTO reviews (id, product_id, customer_id, rating, title, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	err = tx.QueryRowContext(dbCtx, insertQuery, review.ID, review.ProductID, review.CustomerID,
		review.Rating, review.Title, review.Comment).Scan(&review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	aggregateQuery := `
		UPDATE products
		SET rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE product_id = $1), 0),
		    review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
		    updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.ExecContext(dbCtx, aggregateQuery, review.ProductID); err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}

	return nil
}

func (r *reviewRepository) ListReviewsByProduct(ctx context.Context, productID int64, page, size int) ([]models.Review, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM reviews WHERE product_id = $1`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, productID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, customer_id, rating, title, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, productID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	defer rows.Close()

	var reviews []models.Review

	for rows.Next() {

		var review models.Review

		err := rows.Scan(&review.ID, &review.CustomerID, &review.Rating, &review.Title, &review.Comment, &review.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}

		review.ProductID = productID

		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
