package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/models"
	repository "github.com/littlefern/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReviewRepoTest(t *testing.T) (repository.ReviewRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewReviewRepo(db)
	require.NotNil(t, repo)

	return repo, mock
}

func TestReviewRepositoryCreateReview(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	review := &models.Review{
		ID:         uuid.New(),
		ProductID:  42,
		CustomerID: uuid.New(),
		Rating:     5,
		Title:      "Perfect fit",
		Comment:    "Survived a whole muddy autumn.",
	}

	t.Run("Success - Insert And Aggregate Commit Together", func(t *testing.T) {
		repo, mock := setupReviewRepoTest(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO reviews`).
			WithArgs(review.ID, review.ProductID, review.CustomerID, review.Rating, review.Title, review.Comment).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectExec(`UPDATE products`).
			WithArgs(review.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateReview(ctx, review)

		require.NoError(t, err)
		assert.WithinDuration(t, now, review.CreatedAt, time.Second)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Aggregate Update Rolls Back The Insert", func(t *testing.T) {
		repo, mock := setupReviewRepoTest(t)

		dbError := errors.New("deadlock detected")

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO reviews`).
			WithArgs(review.ID, review.ProductID, review.CustomerID, review.Rating, review.Title, review.Comment).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectExec(`UPDATE products`).
			WithArgs(review.ProductID).
			WillReturnError(dbError)
		mock.ExpectRollback()

		err := repo.CreateReview(ctx, review)

		require.Error(t, err)
		require.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewRepositoryListReviewsByProduct(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupReviewRepoTest(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reviews`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		rows := sqlmock.NewRows([]string{"id", "customer_id", "rating", "title", "comment", "created_at"}).
			AddRow(uuid.New(), uuid.New(), 5, "Perfect fit", "Great coat", now).
			AddRow(uuid.New(), uuid.New(), 3, "", "Runs small", now)

		mock.ExpectQuery(`SELECT (.+) FROM reviews`).
			WithArgs(int64(42), 10, 0).
			WillReturnRows(rows)

		reviews, total, err := repo.ListReviewsByProduct(ctx, 42, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, 12, total)
		require.Len(t, reviews, 2)
		assert.Equal(t, int64(42), reviews[0].ProductID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Offset Applied For Later Pages", func(t *testing.T) {
		repo, mock := setupReviewRepoTest(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reviews`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		mock.ExpectQuery(`SELECT (.+) FROM reviews`).
			WithArgs(int64(42), 10, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "rating", "title", "comment", "created_at"}))

		reviews, total, err := repo.ListReviewsByProduct(ctx, 42, 2, 10)

		require.NoError(t, err)
		assert.Equal(t, 12, total)
		assert.Empty(t, reviews)
	})
}
