package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carscout/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, vehicleSchema(pgColumnType))
	return err
}

// =============================================================================
// Listings
// =============================================================================

// AddListing appends one stub observation. Listings are never updated in
// place: every sighting of an ad is a new historical row, which keeps a run's
// own observations distinguishable from earlier runs.
func (s *PostgresStore) AddListing(ctx context.Context, stub *models.ListingStub) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO listings (listing_id, url, title, price, observed_at, run_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		stub.ID, stub.URL, stub.Title, stub.RawPrice, stub.ObservedAt, stub.RunID)
	return err
}

func (s *PostgresStore) FindListingsWithoutVehicle(ctx context.Context, runID string) ([]models.ListingStub, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (l.listing_id)
			l.listing_id, l.url, l.title, l.price, l.observed_at, l.run_id
		FROM listings l
		LEFT JOIN vehicles v ON v.listing_id = l.listing_id
		WHERE l.run_id = $1 AND v.listing_id IS NULL
		ORDER BY l.listing_id, l.observed_at DESC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stubs []models.ListingStub
	for rows.Next() {
		var stub models.ListingStub
		if err := rows.Scan(&stub.ID, &stub.URL, &stub.Title, &stub.RawPrice, &stub.ObservedAt, &stub.RunID); err != nil {
			return nil, err
		}
		stubs = append(stubs, stub)
	}
	return stubs, rows.Err()
}

// =============================================================================
// Vehicles
// =============================================================================

func (s *PostgresStore) AddOrUpdateVehicle(ctx context.Context, v *models.VehicleDetail) error {
	query := vehicleUpsert(func(n int) string { return fmt.Sprintf("$%d", n) })
	_, err := s.pool.Exec(ctx, query, vehicleValues(v)...)
	return err
}

func (s *PostgresStore) GetVehiclesPendingImage(ctx context.Context, limit int) ([]models.VehicleDetail, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT listing_id, image_url
		FROM vehicles
		WHERE image_url IS NOT NULL AND image_s3_key IS NULL
		ORDER BY scraped_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.VehicleDetail
	for rows.Next() {
		var v models.VehicleDetail
		if err := rows.Scan(&v.ListingID, &v.ImageURL); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (s *PostgresStore) SetVehicleImageKey(ctx context.Context, listingID, s3Key string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE vehicles SET image_s3_key = $2 WHERE listing_id = $1`, listingID, s3Key)
	return err
}

// =============================================================================
// Runs
// =============================================================================

func (s *PostgresStore) CreateRun(ctx context.Context, run *models.Run) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO runs (id, started_at, completed_at, status, listings_scraped, vehicles_scraped, errors_count, last_error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.StartedAt, run.CompletedAt, run.Status,
		run.ListingsScraped, run.VehiclesScraped, run.ErrorsCount, run.LastErrorMessage)
	return err
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := s.pool.QueryRow(ctx, `
		SELECT id, started_at, completed_at, status, listings_scraped, vehicles_scraped, errors_count, last_error_message
		FROM runs WHERE id = $1`, id).Scan(
		&run.ID, &run.StartedAt, &run.CompletedAt, &run.Status,
		&run.ListingsScraped, &run.VehiclesScraped, &run.ErrorsCount, &run.LastErrorMessage)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *PostgresStore) UpdateRun(ctx context.Context, run *models.Run) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE runs SET completed_at = $2, status = $3, listings_scraped = $4,
			vehicles_scraped = $5, errors_count = $6, last_error_message = $7
		WHERE id = $1`,
		run.ID, run.CompletedAt, run.Status,
		run.ListingsScraped, run.VehiclesScraped, run.ErrorsCount, run.LastErrorMessage)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}
