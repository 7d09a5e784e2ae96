package models

import "time"

// ListingStub is the minimal identity of an ad captured from a discovery
// page, before detail enrichment. Stubs are append-only: every walk that
// observes the same ad inserts a new row, keyed by observation, so a run's
// unfinished work can be derived later from its own observations.
type ListingStub struct {
	ID         string    `json:"listing_id" db:"listing_id"`
	URL        string    `json:"url" db:"url"`
	Title      string    `json:"title" db:"title"`
	RawPrice   string    `json:"price" db:"price"`
	ObservedAt time.Time `json:"observed_at" db:"observed_at"`
	RunID      string    `json:"run_id" db:"run_id"`
}
