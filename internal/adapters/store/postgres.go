package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/ports"
)

// Postgres-backed implementation of the DestinationStore port. Holds the
// last resolved destination per owner; the navigation engine only reads it
// through the API layer at session start.
type PostgresDestinationStore struct{ Pool *pgxpool.Pool }

func NewPostgresDestinationStore(pool *pgxpool.Pool) *PostgresDestinationStore {
	return &PostgresDestinationStore{Pool: pool}
}

// InitSchema creates the saved_destinations table if missing.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS saved_destinations (
		owner      TEXT PRIMARY KEY,
		lat        DOUBLE PRECISION NOT NULL,
		lng        DOUBLE PRECISION NOT NULL,
		label      TEXT NOT NULL,
		source     INT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("init schema: create saved_destinations: %w", err)
	}
	return nil
}

func (s *PostgresDestinationStore) LoadLast(ctx context.Context, owner string) (domain.Location, bool, error) {
	if s.Pool == nil {
		return domain.Location{}, false, errors.New("destination store: pool is nil")
	}

	const q = `
	SELECT lat, lng, label, source, updated_at
	FROM saved_destinations
	WHERE owner = $1;
	`
	var (
		lat, lng  float64
		label     string
		source    int
		updatedAt time.Time
	)
	err := s.Pool.QueryRow(ctx, q, owner).Scan(&lat, &lng, &label, &source, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Location{}, false, nil
	}
	if err != nil {
		return domain.Location{}, false, fmt.Errorf("load last destination: query: %w", err)
	}

	coord, err := domain.NewCoordinate(lat, lng)
	if err != nil {
		return domain.Location{}, false, fmt.Errorf("load last destination: %w", err)
	}

	return domain.Location{
		Coordinate: coord,
		Label:      label,
		Timestamp:  updatedAt,
		Source:     domain.LocationSource(source),
	}, true, nil
}

func (s *PostgresDestinationStore) SaveLast(ctx context.Context, owner string, loc domain.Location) error {
	if s.Pool == nil {
		return errors.New("destination store: pool is nil")
	}

	const q = `
	INSERT INTO saved_destinations (owner, lat, lng, label, source, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (owner) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		label = EXCLUDED.label,
		source = EXCLUDED.source,
		updated_at = EXCLUDED.updated_at;
	`
	_, err := s.Pool.Exec(ctx, q, owner, loc.Coordinate.Lat, loc.Coordinate.Lng, loc.Label, int(loc.Source), loc.Timestamp)
	if err != nil {
		return fmt.Errorf("save last destination: exec: %w", err)
	}
	return nil
}

var _ ports.DestinationStore = (*PostgresDestinationStore)(nil)
