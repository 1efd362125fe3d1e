package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/FACorreiaa/trippy/app/db"
	"github.com/FACorreiaa/trippy/internal/types"
)

const uniqueViolation = "23505"

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*types.UserAuth, error)
	GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*types.UserAuth, error)
	FindOrCreateProviderUser(ctx context.Context, provider, providerID, email, username string) (*types.UserAuth, error)
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresAuthRepo(pgpool database.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, username, email, coalesce(password_hash, ''), coalesce(provider, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*types.UserAuth, error) {
	var u types.UserAuth
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Provider, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a local account. Duplicate usernames or emails are ErrConflict.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (*types.UserAuth, error) {
	query := `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns
	u, err := scanUser(r.pgpool.QueryRow(ctx, query, username, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, types.NewUserError(types.ErrConflict, "A user with the given username or email is already registered.", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.pgpool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*types.UserAuth, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// FindOrCreateProviderUser links an OAuth identity to a user row, creating
// the row on first sign-in.
func (r *PostgresAuthRepo) FindOrCreateProviderUser(ctx context.Context, provider, providerID, email, username string) (*types.UserAuth, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND provider_id = $2`
	u, err := scanUser(tx.QueryRow(ctx, query, provider, providerID))
	switch {
	case err == nil:
		return u, tx.Commit(ctx)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to look up provider user: %w", err)
	}

	insert := `
        INSERT INTO users (username, email, provider, provider_id)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + userColumns
	u, err = scanUser(tx.QueryRow(ctx, insert, username, email, provider, providerID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, types.NewUserError(types.ErrConflict, "An account with this email already exists.", err)
		}
		return nil, fmt.Errorf("failed to create provider user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	r.logger.InfoContext(ctx, "Created user from provider", slog.String("provider", provider), slog.String("user_id", u.ID.String()))
	return u, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ValidateRefreshToken returns the owner of a live token. Unknown, expired
// and invalidated tokens are ErrUnauthorized.
func (r *PostgresAuthRepo) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	var invalidatedAt *time.Time
	err := r.pgpool.QueryRow(ctx,
		"SELECT user_id, expires_at, invalidated_at FROM refresh_tokens WHERE token = $1",
		token).Scan(&userID, &expiresAt, &invalidatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("refresh token: %w", types.ErrUnauthorized)
		}
		return uuid.Nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if invalidatedAt != nil || time.Now().After(expiresAt) {
		return uuid.Nil, fmt.Errorf("refresh token expired or invalidated: %w", types.ErrUnauthorized)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, token string) error {
	_, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET invalidated_at = now() WHERE token = $1 AND invalidated_at IS NULL",
		token)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	return nil
}
