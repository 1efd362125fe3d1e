package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/trippy/app/db"
	"github.com/FACorreiaa/trippy/internal/types"
)

var _ Repository = (*PostgresListingRepository)(nil)

type Repository interface {
	List(ctx context.Context) ([]types.Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Listing, error)
	Search(ctx context.Context, filter types.ListingSearch) ([]types.Listing, error)
	ListReviews(ctx context.Context, listingID uuid.UUID) ([]types.Review, error)
	Create(ctx context.Context, l *types.Listing) error
	Update(ctx context.Context, l *types.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresListingRepository struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewListingRepository(pgpool database.Pool, logger *slog.Logger) *PostgresListingRepository {
	return &PostgresListingRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

const selectListings = `
        SELECT l.id, l.title, l.description, l.image, l.gallery, l.price, l.location, l.country,
               l.geometry, l.overview, l.itinerary, l.inclusions, l.exclusions,
               l.owner_id, u.username, l.created_at, l.updated_at,
               COALESCE((SELECT AVG(rv.rating) FROM reviews rv WHERE rv.listing_id = l.id), 0)::float8 AS avg_rating
        FROM listings l
        JOIN users u ON u.id = l.owner_id`

func scanListing(row pgx.Row) (*types.Listing, error) {
	var (
		l                                             types.Listing
		ownerName                                     string
		image, gallery, geometry, overview, itinerary []byte
	)
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &image, &gallery, &l.Price, &l.Location, &l.Country,
		&geometry, &overview, &itinerary, &l.Inclusions, &l.Exclusions,
		&l.OwnerID, &ownerName, &l.CreatedAt, &l.UpdatedAt, &l.AvgRating,
	)
	if err != nil {
		return nil, err
	}

	if len(image) > 0 && string(image) != "null" {
		l.Image = &types.Image{}
		if err := json.Unmarshal(image, l.Image); err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
	}
	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{gallery, &l.Gallery},
		{geometry, &l.Geometry},
		{overview, &l.Overview},
		{itinerary, &l.Itinerary},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("decode listing column: %w", err)
		}
	}
	l.Owner = &types.UserAuth{ID: l.OwnerID, Username: ownerName}
	return &l, nil
}

func (r *PostgresListingRepository) collect(rows pgx.Rows) ([]types.Listing, error) {
	defer rows.Close()

	listings := []types.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return listings, nil
}

func (r *PostgresListingRepository) List(ctx context.Context) ([]types.Listing, error) {
	rows, err := r.pgpool.Query(ctx, selectListings+` ORDER BY l.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	return r.collect(rows)
}

// GetByID returns (nil, nil) when the listing does not exist.
func (r *PostgresListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*types.Listing, error) {
	l, err := scanListing(r.pgpool.QueryRow(ctx, selectListings+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// likePattern escapes LIKE metacharacters so the input matches literally.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// Search matches country exactly when set and location as a case-insensitive
// substring when non-blank. An empty filter returns everything.
func (r *PostgresListingRepository) Search(ctx context.Context, filter types.ListingSearch) ([]types.Listing, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Country != "" {
		args = append(args, filter.Country)
		conds = append(conds, fmt.Sprintf("l.country = $%d", len(args)))
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		args = append(args, likePattern(loc))
		conds = append(conds, fmt.Sprintf("l.location ILIKE $%d", len(args)))
	}

	query := selectListings
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY l.created_at DESC"

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return r.collect(rows)
}

func (r *PostgresListingRepository) ListReviews(ctx context.Context, listingID uuid.UUID) ([]types.Review, error) {
	query := `
        SELECT rv.id, rv.listing_id, rv.author_id, u.username, rv.rating, rv.comment, rv.created_at
        FROM reviews rv
        JOIN users u ON u.id = rv.author_id
        WHERE rv.listing_id = $1
        ORDER BY rv.created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []types.Review{}
	for rows.Next() {
		var rv types.Review
		if err := rows.Scan(&rv.ID, &rv.ListingID, &rv.AuthorID, &rv.AuthorUsername, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

type encodedListing struct {
	image, gallery, geometry, overview, itinerary []byte
}

func encode(l *types.Listing) (encodedListing, error) {
	var (
		enc encodedListing
		err error
	)
	if l.Image != nil {
		if enc.image, err = json.Marshal(l.Image); err != nil {
			return enc, err
		}
	}
	gallery := l.Gallery
	if gallery == nil {
		gallery = []types.Image{}
	}
	if enc.gallery, err = json.Marshal(gallery); err != nil {
		return enc, err
	}
	if enc.geometry, err = json.Marshal(l.Geometry); err != nil {
		return enc, err
	}
	if enc.overview, err = json.Marshal(l.Overview); err != nil {
		return enc, err
	}
	itinerary := l.Itinerary
	if itinerary == nil {
		itinerary = []types.ListingDay{}
	}
	enc.itinerary, err = json.Marshal(itinerary)
	return enc, err
}

// Create inserts l and fills in its generated id and timestamps.
func (r *PostgresListingRepository) Create(ctx context.Context, l *types.Listing) error {
	enc, err := encode(l)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	query := `
        INSERT INTO listings (title, description, image, gallery, price, location, country,
                              geometry, overview, itinerary, inclusions, exclusions, owner_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at, updated_at
    `
	err = r.pgpool.QueryRow(ctx, query,
		l.Title, l.Description, enc.image, enc.gallery, l.Price, l.Location, l.Country,
		enc.geometry, enc.overview, enc.itinerary, l.Inclusions, l.Exclusions, l.OwnerID,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	r.logger.InfoContext(ctx, "Listing created", slog.String("listing_id", l.ID.String()))
	return nil
}

// Update rewrites every editable column. Geometry and owner are left alone.
func (r *PostgresListingRepository) Update(ctx context.Context, l *types.Listing) error {
	enc, err := encode(l)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	query := `
        UPDATE listings
        SET title = $2, description = $3, image = $4, gallery = $5, price = $6, location = $7,
            country = $8, overview = $9, itinerary = $10, inclusions = $11, exclusions = $12,
            updated_at = now()
        WHERE id = $1
        RETURNING updated_at
    `
	err = r.pgpool.QueryRow(ctx, query,
		l.ID, l.Title, l.Description, enc.image, enc.gallery, l.Price, l.Location,
		l.Country, enc.overview, enc.itinerary, l.Inclusions, l.Exclusions,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("listing %s: %w", l.ID, types.ErrNotFound)
		}
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

// Delete removes the listing. Reviews and bookings go with it via ON DELETE CASCADE.
func (r *PostgresListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing %s: %w", id, types.ErrNotFound)
	}
	return nil
}
