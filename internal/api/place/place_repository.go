package place

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/trippy/app/db"
	"github.com/FACorreiaa/trippy/internal/types"
)

var _ Repository = (*PostgresPlaceRepository)(nil)

type Repository interface {
	FindByName(ctx context.Context, name string) (*types.Place, error)
	List(ctx context.Context) ([]types.Place, error)
}

type PostgresPlaceRepository struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPlaceRepository(pgpool database.Pool, logger *slog.Logger) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

// FindByName matches the whole name case-insensitively. A missing place is
// (nil, nil).
func (r *PostgresPlaceRepository) FindByName(ctx context.Context, name string) (*types.Place, error) {
	query := `
        SELECT id, name, country
        FROM places
        WHERE lower(name) = lower($1)
        LIMIT 1
    `
	var p types.Place
	if err := r.pgpool.QueryRow(ctx, query, name).Scan(&p.ID, &p.Name, &p.Country); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find place: %w", err)
	}
	return &p, nil
}

func (r *PostgresPlaceRepository) List(ctx context.Context) ([]types.Place, error) {
	query := `SELECT id, name, country FROM places ORDER BY name`
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	places := []types.Place{}
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Country); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}
	return places, nil
}
