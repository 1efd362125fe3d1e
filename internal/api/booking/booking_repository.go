package booking

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

var _ Repository = (*PostgresBookingRepository)(nil)

type Repository interface {
	// ListingPrice returns the nightly price, or ErrNotFound when the listing is gone.
	ListingPrice(ctx context.Context, listingID uuid.UUID) (float64, error)
	Create(ctx context.Context, b *types.Booking) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]types.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

type PostgresBookingRepository struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewBookingRepository(pgpool database.Pool, logger *slog.Logger) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresBookingRepository) ListingPrice(ctx context.Context, listingID uuid.UUID) (float64, error) {
	var price float64
	err := r.pgpool.QueryRow(ctx, `SELECT price FROM listings WHERE id = $1`, listingID).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("listing %s: %w", listingID, types.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to read listing price: %w", err)
	}
	return price, nil
}

func (r *PostgresBookingRepository) Create(ctx context.Context, b *types.Booking) error {
	query := `
        INSERT INTO bookings (listing_id, user_id, check_in, check_out, guests, total_price, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `
	err := r.pgpool.QueryRow(ctx, query,
		b.ListingID, b.UserID, b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice, string(b.Status),
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	r.logger.InfoContext(ctx, "Booking created", slog.String("booking_id", b.ID.String()))
	return nil
}

// ListByUser returns the user's bookings newest first with the listing title.
func (r *PostgresBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	query := `
        SELECT b.id, b.listing_id, l.title, b.user_id, b.check_in, b.check_out,
               b.guests, b.total_price, b.status, b.created_at
        FROM bookings b
        JOIN listings l ON l.id = b.listing_id
        WHERE b.user_id = $1
        ORDER BY b.created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []types.Booking{}
	for rows.Next() {
		var (
			b      types.Booking
			status string
		)
		if err := rows.Scan(&b.ID, &b.ListingID, &b.ListingTitle, &b.UserID, &b.CheckIn, &b.CheckOut,
			&b.Guests, &b.TotalPrice, &status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Status = types.BookingStatus(status)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

// GetByID returns (nil, nil) when the booking does not exist.
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*types.Booking, error) {
	query := `
        SELECT id, listing_id, user_id, check_in, check_out, guests, total_price, status, created_at
        FROM bookings
        WHERE id = $1
    `
	var (
		b      types.Booking
		status string
	)
	err := r.pgpool.QueryRow(ctx, query, id).Scan(&b.ID, &b.ListingID, &b.UserID, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.TotalPrice, &status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	b.Status = types.BookingStatus(status)
	return &b, nil
}

// Cancel flips a booked booking to cancelled. It reports false when the
// booking was not in the booked state.
func (r *PostgresBookingRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE bookings SET status = $2 WHERE id = $1 AND status = $3`,
		id, string(types.BookingStatusCancelled), string(types.BookingStatusBooked))
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
