package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/trippy/app/db"
	"github.com/FACorreiaa/trippy/internal/types"
)

var _ Repository = (*PostgresReviewRepository)(nil)

type Repository interface {
	ListingExists(ctx context.Context, listingID uuid.UUID) (bool, error)
	Create(ctx context.Context, r *types.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*types.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresReviewRepository struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewReviewRepository(pgpool database.Pool, logger *slog.Logger) *PostgresReviewRepository {
	return &PostgresReviewRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresReviewRepository) ListingExists(ctx context.Context, listingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)`, listingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check listing: %w", err)
	}
	return exists, nil
}

func (r *PostgresReviewRepository) Create(ctx context.Context, rv *types.Review) error {
	query := `
        INSERT INTO reviews (listing_id, author_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.pgpool.QueryRow(ctx, query, rv.ListingID, rv.AuthorID, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the review does not exist.
func (r *PostgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*types.Review, error) {
	query := `
        SELECT id, listing_id, author_id, rating, comment, created_at
        FROM reviews
        WHERE id = $1
    `
	var rv types.Review
	err := r.pgpool.QueryRow(ctx, query, id).
		Scan(&rv.ID, &rv.ListingID, &rv.AuthorID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &rv, nil
}

func (r *PostgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pgpool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
