package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"carscout/models"
	"carscout/storage"
)

// RunTracker owns the lifecycle of crawl runs: starting them idempotently,
// accumulating their metrics, and finding the unfinished work a crashed run
// left behind.
type RunTracker struct {
	repo storage.Repository
	log  *logrus.Entry
}

func NewRunTracker(repo storage.Repository, log *logrus.Entry) *RunTracker {
	return &RunTracker{repo: repo, log: log}
}

// Start returns the run with the given id, creating it in the running state
// on first use. Restarting a crashed run with the same id resumes its record
// instead of opening a second one.
func (t *RunTracker) Start(ctx context.Context, runID string) (*models.Run, error) {
	existing, err := t.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if existing != nil {
		t.log.WithField("run_id", runID).Info("Resuming existing run")
		return existing, nil
	}

	run := &models.Run{
		ID:        runID,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	if err := t.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	t.log.WithField("run_id", runID).Info("Started new run")
	return run, nil
}

// UpdateMetrics adds the stage deltas to the run's counters. The run must
// already exist; a missing run is storage.ErrRunNotFound.
func (t *RunTracker) UpdateMetrics(ctx context.Context, runID string, listings, vehicles, errs int) (*models.Run, error) {
	run, err := t.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return nil, storage.ErrRunNotFound
	}

	run.ListingsScraped += listings
	run.VehiclesScraped += vehicles
	run.ErrorsCount += errs
	if err := t.repo.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}
	return run, nil
}

// Fail marks the run failed with the given message. Unlike Complete it
// tolerates a missing record, creating one so the failure is never lost even
// when the run died before its first write.
func (t *RunTracker) Fail(ctx context.Context, runID, message string) (*models.Run, error) {
	run, err := t.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	if run == nil {
		run = &models.Run{
			ID:        runID,
			StartedAt: time.Now(),
			Status:    models.RunStatusRunning,
		}
		run.Fail(message)
		if err := t.repo.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("create failed run: %w", err)
		}
		return run, nil
	}

	run.Fail(message)
	if err := t.repo.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}
	return run, nil
}

// Complete marks the run successful. The run must exist.
func (t *RunTracker) Complete(ctx context.Context, runID string) (*models.Run, error) {
	run, err := t.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return nil, storage.ErrRunNotFound
	}

	run.Succeed()
	if err := t.repo.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}
	t.log.WithFields(logrus.Fields{
		"run_id":   runID,
		"listings": run.ListingsScraped,
		"vehicles": run.VehiclesScraped,
		"errors":   run.ErrorsCount,
	}).Info("Run completed")
	return run, nil
}

// FindResumable returns the stubs observed under runID that still lack a
// vehicle record: the exact remaining work after a crash or partial run.
func (t *RunTracker) FindResumable(ctx context.Context, runID string) ([]models.ListingStub, error) {
	return t.repo.FindListingsWithoutVehicle(ctx, runID)
}
