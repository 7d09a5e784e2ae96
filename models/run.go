package models

import "time"

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one bounded execution of the crawl-and-ingest engine. Metric
// counters only ever grow within a run; item-level failures bump ErrorsCount
// without failing the run, while a stage-level abort flips it to failed.
type Run struct {
	ID               string     `json:"id" db:"id"`
	StartedAt        time.Time  `json:"started_at" db:"started_at"`
	CompletedAt      *time.Time `json:"completed_at" db:"completed_at"`
	Status           RunStatus  `json:"status" db:"status"`
	ListingsScraped  int        `json:"listings_scraped" db:"listings_scraped"`
	VehiclesScraped  int        `json:"vehicles_scraped" db:"vehicles_scraped"`
	ErrorsCount      int        `json:"errors_count" db:"errors_count"`
	LastErrorMessage *string    `json:"last_error_message" db:"last_error_message"`
}

func (r *Run) Fail(message string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.CompletedAt = &now
	r.LastErrorMessage = &message
}

func (r *Run) Succeed() {
	now := time.Now()
	r.Status = RunStatusSuccess
	r.CompletedAt = &now
}
