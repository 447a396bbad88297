package repository

import (
	"context"
	"fmt"
)

// EnsureSchema creates the lookup-log table when it does not exist yet.
// Called once during startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS geocode_lookups (
			id BIGSERIAL PRIMARY KEY,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			address TEXT NOT NULL,
			district TEXT NOT NULL,
			city TEXT NOT NULL,
			provider TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			success BOOLEAN NOT NULL,
			duration_ms BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create lookup table: %w", err)
	}

	return nil
}

// SaveLookup appends one served lookup to the log.
func (r *Repository) SaveLookup(ctx context.Context, lookup Lookup) error {
	query := `
		INSERT INTO geocode_lookups
			(latitude, longitude, address, district, city, provider, confidence, success, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := r.db.Exec(ctx, query,
		lookup.Latitude, lookup.Longitude, lookup.Address, lookup.District, lookup.City,
		lookup.Provider, lookup.Confidence, lookup.Success, lookup.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}

	r.log.DebugContext(ctx, "Recorded geocode lookup",
		"provider", lookup.Provider, "district", lookup.District, "success", lookup.Success)

	return nil
}

// RecentLookups returns the most recently served lookups, newest first,
// limited to the specified count.
func (r *Repository) RecentLookups(ctx context.Context, limit int) ([]Lookup, error) {
	var lookups []Lookup
	query := `
		SELECT id, latitude, longitude, address, district, city, provider, confidence, success, duration_ms, created_at
		FROM geocode_lookups
		ORDER BY created_at DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent lookups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lookup Lookup
		if errScan := rows.Scan(
			&lookup.ID, &lookup.Latitude, &lookup.Longitude, &lookup.Address, &lookup.District,
			&lookup.City, &lookup.Provider, &lookup.Confidence, &lookup.Success,
			&lookup.DurationMS, &lookup.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", errScan)
		}
		lookups = append(lookups, lookup)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return lookups, nil
}
