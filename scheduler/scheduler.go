package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"carscout/config"
	"carscout/models"
	"carscout/scraper"
)

// Scheduler kicks off recurring crawls in daemon mode, either on a cron
// expression or a fixed interval. Each firing is a fresh run with its own id;
// overlapping firings are skipped, never queued.
type Scheduler struct {
	cfg          *config.Config
	orchestrator *scraper.Orchestrator
	cron         *cron.Cron
	ticker       *time.Ticker
	stopCh       chan struct{}
	running      chan struct{}
	log          *logrus.Entry
}

func New(cfg *config.Config, orchestrator *scraper.Orchestrator, log *logrus.Entry) *Scheduler {
	return &Scheduler{
		cfg:          cfg,
		orchestrator: orchestrator,
		cron:         cron.New(),
		stopCh:       make(chan struct{}),
		running:      make(chan struct{}, 1),
		log:          log,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Scheduler.Cron != "" {
		s.log.WithField("cron", s.cfg.Scheduler.Cron).Info("Starting scheduler")
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			s.fire(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
		return nil
	}

	if s.cfg.Scheduler.Interval > 0 {
		s.log.WithField("interval", s.cfg.Scheduler.Interval).Info("Starting scheduler")
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.fire(ctx)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
		return nil
	}

	s.log.Info("No schedule configured, daemon is idle")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// TriggerNow runs one crawl immediately under a fresh run id.
func (s *Scheduler) TriggerNow(ctx context.Context) (*scraper.Summary, error) {
	return s.runOnce(ctx, uuid.NewString(), s.cfg.Brands)
}

func (s *Scheduler) fire(ctx context.Context) {
	select {
	case s.running <- struct{}{}:
		defer func() { <-s.running }()
	default:
		s.log.Warn("Previous crawl still running, skipping scheduled firing")
		return
	}

	if _, err := s.runOnce(ctx, uuid.NewString(), s.cfg.Brands); err != nil {
		s.log.WithError(err).Error("Scheduled crawl failed")
	}
}

func (s *Scheduler) runOnce(ctx context.Context, runID string, brands []models.Brand) (*scraper.Summary, error) {
	summary, err := s.orchestrator.RunCrawl(ctx, runID, brands)
	if summary != nil {
		s.log.WithFields(logrus.Fields{
			"run_id":   runID,
			"listings": summary.Listings,
			"vehicles": summary.Vehicles,
			"errors":   summary.Errors,
		}).Info("Crawl finished")
	}
	return summary, err
}
