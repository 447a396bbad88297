package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lookup is one served reverse-geocoding request, recorded for offline
// review of provider quality and fallback frequency.
type Lookup struct {
	ID         int64     // ID is the unique identifier of the log entry.
	Latitude   float64   // Latitude of the requested point.
	Longitude  float64   // Longitude of the requested point.
	Address    string    // Address is the formatted address served to the caller.
	District   string    // District resolved for the point.
	City       string    // City resolved for the point.
	Provider   string    // Provider is the source of the primary result ("Fallback" when synthesized).
	Confidence float64   // Confidence of the served result.
	Success    bool      // Success is false for synthesized fallback results.
	DurationMS int64     // DurationMS is the wall time of the provider fan-out.
	CreatedAt  time.Time // CreatedAt is when the lookup was served.
}

// Repository persists served lookups to PostgreSQL.
type Repository struct {
	db  Database
	log *slog.Logger
}

// Database is the subset of pgxpool.Pool used by the repository, extracted
// for mocking with pgxmock.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Interface defines the lookup-log operations used by the service layer.
type Interface interface {
	SaveLookup(ctx context.Context, lookup Lookup) error
	RecentLookups(ctx context.Context, limit int) ([]Lookup, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// NewDatabase creates a pgx connection pool for the given PostgreSQL
// instance and verifies connectivity with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
