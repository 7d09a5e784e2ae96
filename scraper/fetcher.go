package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"carscout/models"
)

// FetcherConfig tunes the detail fetch pacing and session lifecycle.
type FetcherConfig struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	RotateEvery int // fetch attempts between fresh sessions
}

// Fetcher turns listing stubs into normalized vehicle records over the
// session channel, rotating the session periodically so a single long-lived
// channel never outlives its token or accumulates a fingerprint.
type Fetcher struct {
	sessions SessionSource
	policy   BackoffPolicy
	cfg      FetcherConfig
	log      *logrus.Entry
}

func NewFetcher(sessions SessionSource, policy BackoffPolicy, cfg FetcherConfig, log *logrus.Entry) *Fetcher {
	if cfg.RotateEvery <= 0 {
		cfg.RotateEvery = 500
	}
	return &Fetcher{sessions: sessions, policy: policy, cfg: cfg, log: log}
}

// FetchAll starts a detail stream over stubs. The stream yields exactly one
// result per stub in input order; a failed or empty item yields nil at its
// position and never aborts the batch. Only session-level faults stop the
// stream early, reported through Err.
func (f *Fetcher) FetchAll(stubs []models.ListingStub) *DetailStream {
	return &DetailStream{f: f, stubs: stubs}
}

type DetailStream struct {
	f         *Fetcher
	stubs     []models.ListingStub
	pos       int
	attempted int
	err       error
}

// Next fetches the next stub's detail record. The returned flag is false
// once every stub has been consumed or the session channel is lost; a nil
// record with a true flag is a per-item failure, already logged and counted
// by the caller.
func (s *DetailStream) Next(ctx context.Context) (*models.VehicleDetail, bool) {
	if s.pos >= len(s.stubs) || s.err != nil {
		return nil, false
	}
	if err := ctx.Err(); err != nil {
		s.err = err
		return nil, false
	}

	stub := s.stubs[s.pos]
	s.pos++
	log := s.f.log.WithFields(logrus.Fields{"listing_id": stub.ID, "item": s.pos, "total": len(s.stubs)})

	client, err := s.session(ctx)
	if err != nil {
		s.err = fmt.Errorf("session unavailable: %w", err)
		return nil, false
	}
	s.attempted++

	detail, err := s.fetchOne(ctx, client, stub)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch vehicle detail")
		return nil, true
	}
	if detail == nil {
		log.Info("Detail request returned no record")
		return nil, true
	}
	detail.ScrapedAt = time.Now()
	return detail, true
}

// Err returns the session-level cause of an early stop, nil when the whole
// batch was consumed.
func (s *DetailStream) Err() error { return s.err }

// session hands out the current client, minting a fresh one every
// RotateEvery attempts before the next request goes out.
func (s *DetailStream) session(ctx context.Context) (*Client, error) {
	if s.attempted > 0 && s.attempted%s.f.cfg.RotateEvery == 0 {
		s.f.log.WithField("attempted", s.attempted).Info("Rotating request session")
		return s.f.sessions.Rotate(ctx)
	}
	return s.f.sessions.Current(ctx)
}

// fetchOne issues the detail request for one stub under the backoff policy.
// A non-success response is an empty result, not a fault: the site answers
// removed or hidden ads that way. Exhausted retries surface as the final
// transient error.
func (s *DetailStream) fetchOne(ctx context.Context, client *Client, stub models.ListingStub) (*models.VehicleDetail, error) {
	url := fmt.Sprintf("%s/api/listings/%s", siteBaseURL, stub.ID)
	start := time.Now()

	for attempt := 1; ; attempt++ {
		politeDelay(ctx, s.f.cfg.MinDelay, s.f.cfg.MaxDelay)

		payload, err := s.request(ctx, client, url)
		if err == nil {
			if payload == nil {
				return nil, nil
			}
			return Normalize(stub, payload)
		}

		delay, retry := s.f.policy.ShouldRetry(err, attempt, time.Since(start))
		if !retry {
			return nil, err
		}
		s.f.log.WithFields(logrus.Fields{"listing_id": stub.ID, "attempt": attempt, "delay": delay}).
			WithError(err).Warn("Retrying vehicle detail request")
		sleepCtx(ctx, delay)
	}
}

func (s *DetailStream) request(ctx context.Context, client *Client, url string) (*DetailPayload, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, Transient(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var payload DetailPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, Validation(fmt.Errorf("decode detail payload %s: %w", url, err))
	}
	return &payload, nil
}
