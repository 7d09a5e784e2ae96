package scraper

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"carscout/models"
	"carscout/services"
	"carscout/storage"
)

// Orchestrator runs the two-stage pipeline for one run id: walk every brand's
// discovery pages persisting stubs, then fetch details for whatever stubs the
// run still owes. Stage two always starts from the store, so rerunning a
// crashed run id picks up exactly the unfinished remainder.
type Orchestrator struct {
	repo    storage.Repository
	tracker *services.RunTracker
	walker  *Walker
	fetcher *Fetcher
	log     *logrus.Entry
}

func NewOrchestrator(repo storage.Repository, tracker *services.RunTracker, walker *Walker, fetcher *Fetcher, log *logrus.Entry) *Orchestrator {
	return &Orchestrator{
		repo:    repo,
		tracker: tracker,
		walker:  walker,
		fetcher: fetcher,
		log:     log,
	}
}

// Summary aggregates what one crawl accomplished.
type Summary struct {
	Listings int
	Vehicles int
	Errors   int
}

// RunCrawl executes both stages for runID across brands. An aborted brand
// walk or a lost session stops its stage but not the crawl; the abort is
// recorded on the run and the remaining work proceeds. The run ends failed
// if any stage-level abort occurred, successful otherwise.
func (o *Orchestrator) RunCrawl(ctx context.Context, runID string, brands []models.Brand) (*Summary, error) {
	if _, err := o.tracker.Start(ctx, runID); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	summary := &Summary{}
	var abort error

	listings, errs, stageErr := o.discoverStage(ctx, runID, brands)
	summary.Listings += listings
	summary.Errors += errs
	if stageErr != nil {
		abort = stageErr
	}
	if _, err := o.tracker.UpdateMetrics(ctx, runID, listings, 0, errs); err != nil {
		return summary, fmt.Errorf("update metrics: %w", err)
	}

	vehicles, errs, stageErr := o.detailStage(ctx, runID)
	summary.Vehicles += vehicles
	summary.Errors += errs
	if stageErr != nil && abort == nil {
		abort = stageErr
	}
	if _, err := o.tracker.UpdateMetrics(ctx, runID, 0, vehicles, errs); err != nil {
		return summary, fmt.Errorf("update metrics: %w", err)
	}

	if abort != nil {
		if _, err := o.tracker.Fail(ctx, runID, abort.Error()); err != nil {
			return summary, fmt.Errorf("record failure: %w", err)
		}
		return summary, abort
	}

	if _, err := o.tracker.Complete(ctx, runID); err != nil {
		return summary, fmt.Errorf("complete run: %w", err)
	}
	return summary, nil
}

// discoverStage walks every brand and persists each observed stub under the
// run. A brand whose stream aborts is counted and remembered, but the walk
// moves on to the next brand.
func (o *Orchestrator) discoverStage(ctx context.Context, runID string, brands []models.Brand) (listings, errs int, abort error) {
	for _, brand := range brands {
		if err := ctx.Err(); err != nil {
			return listings, errs, err
		}

		log := o.log.WithFields(logrus.Fields{"run_id": runID, "brand": brand.Slug})
		log.Info("Walking brand")

		stream := o.walker.Walk(brand)
		for {
			stubs, ok := stream.Next(ctx)
			if !ok {
				break
			}
			for i := range stubs {
				stubs[i].RunID = runID
				if err := o.repo.AddListing(ctx, &stubs[i]); err != nil {
					log.WithError(err).WithField("listing_id", stubs[i].ID).Error("Failed to persist stub")
					errs++
					continue
				}
				listings++
			}
		}

		if err := stream.Err(); err != nil {
			log.WithError(err).Error("Brand walk aborted")
			errs++
			abort = fmt.Errorf("brand %s: %w", brand.Slug, err)
		}
	}
	return listings, errs, abort
}

// detailStage fetches details for every stub the run has not yet resolved
// into a vehicle record.
func (o *Orchestrator) detailStage(ctx context.Context, runID string) (vehicles, errs int, abort error) {
	stubs, err := o.tracker.FindResumable(ctx, runID)
	if err != nil {
		return 0, 1, fmt.Errorf("find resumable stubs: %w", err)
	}
	if len(stubs) == 0 {
		o.log.WithField("run_id", runID).Info("No pending details to fetch")
		return 0, 0, nil
	}

	o.log.WithFields(logrus.Fields{"run_id": runID, "pending": len(stubs)}).Info("Fetching vehicle details")

	stream := o.fetcher.FetchAll(stubs)
	for {
		detail, ok := stream.Next(ctx)
		if !ok {
			break
		}
		if detail == nil {
			errs++
			continue
		}
		if err := o.repo.AddOrUpdateVehicle(ctx, detail); err != nil {
			o.log.WithError(err).WithField("listing_id", detail.ListingID).Error("Failed to persist vehicle")
			errs++
			continue
		}
		vehicles++
	}

	if err := stream.Err(); err != nil {
		errs++
		return vehicles, errs, fmt.Errorf("detail stream: %w", err)
	}
	return vehicles, errs, nil
}
