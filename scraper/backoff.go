package scraper

import "time"

// BackoffPolicy decides whether a failed attempt is retried and after what
// delay. Delays grow exponentially from BaseDelay by Factor until either
// MaxAttempts or MaxElapsed is exceeded. The same policy value is shared by
// the walker and the fetcher so fault tolerance is uniform across stages.
type BackoffPolicy struct {
	MaxAttempts int
	MaxElapsed  time.Duration
	BaseDelay   time.Duration
	Factor      float64
}

// DefaultBackoff mirrors the crawl defaults: 3 tries, a minute ceiling.
func DefaultBackoff() BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts: 3,
		MaxElapsed:  60 * time.Second,
		BaseDelay:   time.Second,
		Factor:      2,
	}
}

// ShouldRetry reports whether the attempt-th failure (1-based) of an
// operation that has been running for elapsed should be retried, and the
// delay to wait first. Terminal errors always give up: they are a confirmed
// negative outcome, not a fault.
func (p BackoffPolicy) ShouldRetry(err error, attempt int, elapsed time.Duration) (time.Duration, bool) {
	if IsTerminal(err) {
		return 0, false
	}
	if attempt >= p.MaxAttempts {
		return 0, false
	}
	delay := p.delay(attempt)
	if p.MaxElapsed > 0 && elapsed+delay > p.MaxElapsed {
		return 0, false
	}
	return delay, true
}

func (p BackoffPolicy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Factor
	}
	return time.Duration(d)
}
