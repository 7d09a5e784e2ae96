package storage

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"carscout/models"
)

// SQLiteStore is the single-file fallback store for running without a
// Postgres instance. It implements the same contracts as PostgresStore.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(vehicleSchema(sqliteColumnType))
	return err
}

func (s *SQLiteStore) AddListing(ctx context.Context, stub *models.ListingStub) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (listing_id, url, title, price, observed_at, run_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		stub.ID, stub.URL, stub.Title, stub.RawPrice, stub.ObservedAt, stub.RunID)
	return err
}

func (s *SQLiteStore) FindListingsWithoutVehicle(ctx context.Context, runID string) ([]models.ListingStub, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.listing_id, l.url, l.title, l.price, l.observed_at, l.run_id
		FROM listings l
		LEFT JOIN vehicles v ON v.listing_id = l.listing_id
		WHERE l.run_id = ? AND v.listing_id IS NULL
		ORDER BY l.listing_id, l.observed_at DESC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// The same ad can be observed on several pages within a run; keep the
	// newest observation per listing id.
	seen := make(map[string]bool)
	var stubs []models.ListingStub
	for rows.Next() {
		var stub models.ListingStub
		if err := rows.Scan(&stub.ID, &stub.URL, &stub.Title, &stub.RawPrice, &stub.ObservedAt, &stub.RunID); err != nil {
			return nil, err
		}
		if seen[stub.ID] {
			continue
		}
		seen[stub.ID] = true
		stubs = append(stubs, stub)
	}
	return stubs, rows.Err()
}

func (s *SQLiteStore) AddOrUpdateVehicle(ctx context.Context, v *models.VehicleDetail) error {
	query := vehicleUpsert(func(int) string { return "?" })
	_, err := s.db.ExecContext(ctx, query, vehicleValues(v)...)
	return err
}

func (s *SQLiteStore) GetVehiclesPendingImage(ctx context.Context, limit int) ([]models.VehicleDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT listing_id, image_url
		FROM vehicles
		WHERE image_url IS NOT NULL AND image_s3_key IS NULL
		ORDER BY scraped_at
		LIMIT ?`, limit)
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

func (s *SQLiteStore) SetVehicleImageKey(ctx context.Context, listingID, s3Key string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE vehicles SET image_s3_key = ? WHERE listing_id = ?`, s3Key, listingID)
	return err
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run *models.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, completed_at, status, listings_scraped, vehicles_scraped, errors_count, last_error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.CompletedAt, run.Status,
		run.ListingsScraped, run.VehiclesScraped, run.ErrorsCount, run.LastErrorMessage)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, completed_at, status, listings_scraped, vehicles_scraped, errors_count, last_error_message
		FROM runs WHERE id = ?`, id)

	var run models.Run
	err := row.Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.Status,
		&run.ListingsScraped, &run.VehiclesScraped, &run.ErrorsCount, &run.LastErrorMessage)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *SQLiteStore) UpdateRun(ctx context.Context, run *models.Run) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET completed_at = ?, status = ?, listings_scraped = ?,
			vehicles_scraped = ?, errors_count = ?, last_error_message = ?
		WHERE id = ?`,
		run.CompletedAt, run.Status, run.ListingsScraped,
		run.VehiclesScraped, run.ErrorsCount, run.LastErrorMessage, run.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRunNotFound
	}
	return nil
}
