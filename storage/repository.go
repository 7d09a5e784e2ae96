package storage

import (
	"context"
	"errors"

	"carscout/models"
)

// ErrRunNotFound signals a metric update or completion for a run that was
// never started; a programming error upstream, not a transient fault.
var ErrRunNotFound = errors.New("run not found")

// Repository is the persistence contract the crawl core depends on. Stubs
// are append-only (each observation is a new historical row); vehicle
// details upsert by listing id; runs are plain create/read/update records.
// Writes are independently atomic per record, no cross-record transactions.
type Repository interface {
	AddListing(ctx context.Context, stub *models.ListingStub) error
	AddOrUpdateVehicle(ctx context.Context, v *models.VehicleDetail) error
	// FindListingsWithoutVehicle returns the stubs observed under runID that
	// have no vehicle record yet: the unfinished work of the run.
	FindListingsWithoutVehicle(ctx context.Context, runID string) ([]models.ListingStub, error)

	CreateRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	UpdateRun(ctx context.Context, run *models.Run) error
}

// ImageArchive is the slice of the store the media worker needs: vehicles
// whose image is not yet archived, and the key write-back once it is.
type ImageArchive interface {
	GetVehiclesPendingImage(ctx context.Context, limit int) ([]models.VehicleDetail, error)
	SetVehicleImageKey(ctx context.Context, listingID, s3Key string) error
}
