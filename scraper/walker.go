package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"carscout/models"
)

const searchURLTemplate = siteBaseURL + "/pretraga?attr=&attr_encoded=1&category_id=18&" +
	"brand=%s&models=0&brands=%s&page=%d&created_gte=-7+days"

// WalkerConfig tunes the discovery walk pacing.
type WalkerConfig struct {
	MinDelay     time.Duration
	MaxDelay     time.Duration
	ReadyTimeout time.Duration
}

// Walker drives the renderer and extractor across the discovery pages of one
// brand. Each Walk produces a finite, non-restartable page stream.
type Walker struct {
	renderer PageRenderer
	policy   BackoffPolicy
	cfg      WalkerConfig
	log      *logrus.Entry
}

func NewWalker(renderer PageRenderer, policy BackoffPolicy, cfg WalkerConfig, log *logrus.Entry) *Walker {
	return &Walker{renderer: renderer, policy: policy, cfg: cfg, log: log}
}

// Walk starts a page stream for brand at page 1.
func (w *Walker) Walk(brand models.Brand) *PageStream {
	return &PageStream{
		w:     w,
		brand: brand,
		next:  1,
		log:   w.log.WithField("brand", brand.Slug),
	}
}

// PageStream yields one page of stubs per Next call. After Next returns
// false, Err distinguishes an aborted walk (backoff exhausted) from a normal
// end: exhausted pagination and a not-found page both finish without error.
type PageStream struct {
	w     *Walker
	brand models.Brand
	next  int // 0 once exhausted
	err   error
	log   *logrus.Entry
}

func (s *PageStream) Next(ctx context.Context) ([]models.ListingStub, bool) {
	if s.next == 0 || s.err != nil {
		return nil, false
	}
	if err := ctx.Err(); err != nil {
		s.err = err
		return nil, false
	}

	pageNum := s.next
	url := fmt.Sprintf(searchURLTemplate, s.brand.ID, s.brand.ID, pageNum)
	s.log.WithFields(logrus.Fields{"page": pageNum, "url": url}).Info("Fetching discovery page")

	html, err := s.fetchWithBackoff(ctx, url)
	if err != nil {
		s.next = 0
		if IsTerminal(err) {
			// The site confirmed the page does not exist; a normal end of
			// the walk, not a fault to escalate.
			s.log.WithField("page", pageNum).Info("Discovery page not found, stopping walk")
			return nil, false
		}
		s.log.WithField("page", pageNum).WithError(err).Error("Giving up on discovery page")
		s.err = err
		return nil, false
	}

	page, err := ExtractPage(html)
	if err != nil {
		s.next = 0
		s.err = err
		return nil, false
	}

	s.advance(page.NextPage, pageNum)

	now := time.Now()
	for i := range page.Stubs {
		page.Stubs[i].ObservedAt = now
	}
	return page.Stubs, true
}

// Err returns the abort cause of a stream that stopped early, nil when the
// walk ended normally.
func (s *PageStream) Err() error { return s.err }

// advance parses the next cursor; anything that is not a strictly larger
// page number means the pagination is exhausted. The cursor-only-grows rule
// also guards against revisiting a page when the site echoes the current one.
func (s *PageStream) advance(cursor string, current int) {
	if cursor == "" {
		s.next = 0
		return
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n <= current {
		s.next = 0
		return
	}
	s.next = n
}

func (s *PageStream) fetchWithBackoff(ctx context.Context, url string) (string, error) {
	start := time.Now()
	for attempt := 1; ; attempt++ {
		politeDelay(ctx, s.w.cfg.MinDelay, s.w.cfg.MaxDelay)

		html, err := s.w.renderer.Render(ctx, url, s.w.cfg.ReadyTimeout)
		if err == nil {
			if ContainsNotFound(html) {
				return "", NotFound(url)
			}
			return html, nil
		}

		delay, retry := s.w.policy.ShouldRetry(err, attempt, time.Since(start))
		if !retry {
			return "", err
		}
		s.log.WithFields(logrus.Fields{"attempt": attempt, "delay": delay}).
			WithError(err).Warn("Retrying discovery page")
		sleepCtx(ctx, delay)
	}
}

// politeDelay sleeps for a uniformly random duration in [min, max] before an
// outbound request. This is deliberate pacing against the target, applied
// before every single request.
func politeDelay(ctx context.Context, min, max time.Duration) {
	if max <= min {
		sleepCtx(ctx, min)
		return
	}
	sleepCtx(ctx, min+time.Duration(rand.Int63n(int64(max-min))))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
