package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/FACorreiaa/trippy/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	pingAttempts = 5
	pingBackoff  = 200 * time.Millisecond
)

// Pool is the subset of *pgxpool.Pool the repositories use. pgxmock pools
// satisfy it too.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ Pool = (*pgxpool.Pool)(nil)

type DatabaseConfig struct {
	ConnectionURL  string
	ConnectTimeout time.Duration
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitForDB pings with a linearly growing backoff and reports whether the
// database answered before the attempts ran out or ctx ended.
func WaitForDB(ctx context.Context, db Pinger, logger *slog.Logger) bool {
	for attempt := 1; ; attempt++ {
		err := db.Ping(ctx)
		if err == nil {
			logger.InfoContext(ctx, "Database is reachable", slog.Int("attempt", attempt))
			return true
		}
		if attempt == pingAttempts {
			logger.ErrorContext(ctx, "Database unreachable, giving up",
				slog.Int("attempts", attempt), slog.Any("error", err))
			return false
		}

		wait := time.Duration(attempt) * pingBackoff
		logger.WarnContext(ctx, "Database ping failed",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}

// RunMigrations brings the schema up to the newest embedded migration,
// including the places seed. A dirty schema is an error.
func RunMigrations(databaseURL string, logger *slog.Logger) error {
	u, err := url.Parse(databaseURL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return errors.New("migrations need a postgres:// or postgresql:// database URL")
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("Closing migrate failed", slog.Any("source_error", srcErr), slog.Any("db_error", dbErr))
		}
	}()

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil {
		logger.Warn("Migration version unknown", slog.Any("error", err))
		return nil
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d", version)
	}
	logger.Info("Schema up to date",
		slog.Uint64("version", uint64(version)),
		slog.Bool("changed", upErr == nil))
	return nil
}

// NewDatabaseConfig builds the postgres connection URL from config. SSL is
// off unless configured and sessions run in UTC.
func NewDatabaseConfig(cfg *config.Config, logger *slog.Logger) (*DatabaseConfig, error) {
	if cfg == nil || cfg.Repositories.Postgres.Host == "" {
		return nil, errors.New("postgres host is not configured")
	}
	pg := cfg.Repositories.Postgres

	sslMode := pg.SSLMODE
	if sslMode == "" {
		sslMode = "disable"
	}
	conn := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(pg.Username, pg.Password),
		Host:     fmt.Sprintf("%s:%s", pg.Host, pg.Port),
		Path:     pg.DB,
		RawQuery: url.Values{"sslmode": {sslMode}, "timezone": {"utc"}}.Encode(),
	}

	logger.Info("Database target", slog.String("host", conn.Host), slog.String("database", pg.DB))
	return &DatabaseConfig{
		ConnectionURL:  conn.String(),
		ConnectTimeout: time.Duration(pg.MAXCONWAITINGTIME) * time.Second,
	}, nil
}

// Init opens the pool and registers the google/uuid codec on every connection.
func Init(dbCfg *DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbCfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if dbCfg.ConnectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = dbCfg.ConnectTimeout
	}
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	logger.Info("Database pool ready", slog.Int("max_conns", int(cfg.MaxConns)))
	return pool, nil
}
