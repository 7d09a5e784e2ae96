package scraper

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"carscout/models"
	"carscout/services"
	"carscout/storage"
)

// crawlRepo is an in-memory Repository for end-to-end pipeline tests.
type crawlRepo struct {
	runs     map[string]*models.Run
	listings []models.ListingStub
	vehicles map[string]*models.VehicleDetail
}

func newCrawlRepo() *crawlRepo {
	return &crawlRepo{
		runs:     make(map[string]*models.Run),
		vehicles: make(map[string]*models.VehicleDetail),
	}
}

func (r *crawlRepo) AddListing(ctx context.Context, stub *models.ListingStub) error {
	r.listings = append(r.listings, *stub)
	return nil
}

func (r *crawlRepo) AddOrUpdateVehicle(ctx context.Context, v *models.VehicleDetail) error {
	copied := *v
	r.vehicles[v.ListingID] = &copied
	return nil
}

func (r *crawlRepo) FindListingsWithoutVehicle(ctx context.Context, runID string) ([]models.ListingStub, error) {
	seen := make(map[string]bool)
	var pending []models.ListingStub
	for _, stub := range r.listings {
		if stub.RunID != runID || r.vehicles[stub.ID] != nil || seen[stub.ID] {
			continue
		}
		seen[stub.ID] = true
		pending = append(pending, stub)
	}
	return pending, nil
}

func (r *crawlRepo) CreateRun(ctx context.Context, run *models.Run) error {
	copied := *run
	r.runs[run.ID] = &copied
	return nil
}

func (r *crawlRepo) GetRun(ctx context.Context, id string) (*models.Run, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

func (r *crawlRepo) UpdateRun(ctx context.Context, run *models.Run) error {
	if _, ok := r.runs[run.ID]; !ok {
		return storage.ErrRunNotFound
	}
	copied := *run
	r.runs[run.ID] = &copied
	return nil
}

func testOrchestrator(repo storage.Repository, renderer PageRenderer, sessions SessionSource) *Orchestrator {
	tracker := services.NewRunTracker(repo, testLog())
	return NewOrchestrator(repo, tracker, quickWalker(renderer), quickFetcher(sessions, 500), testLog())
}

func TestRunCrawl_TwoStages(t *testing.T) {
	repo := newCrawlRepo()
	renderer := &fakeRenderer{outcomes: []renderOutcome{
		{html: discoveryHTML([]string{"101", "102"}, "1", "2")},
		{err: NotFound("page 2")},
	}}
	transport := &cannedTransport{
		status: map[string]int{"101": 200, "102": 200},
		body:   map[string]string{"101": detailJSON("2018"), "102": detailJSON("2019")},
	}
	sessions := &countingSessions{client: &Client{
		http:    &http.Client{Transport: transport},
		headers: http.Header{},
	}}

	o := testOrchestrator(repo, renderer, sessions)
	summary, err := o.RunCrawl(context.Background(), "run-1", []models.Brand{{ID: "7", Slug: "audi"}})
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if summary.Listings != 2 || summary.Vehicles != 2 || summary.Errors != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(repo.listings) != 2 {
		t.Fatalf("expected 2 persisted stubs, got %d", len(repo.listings))
	}
	if repo.listings[0].RunID != "run-1" {
		t.Fatalf("stub must carry the run id, got %q", repo.listings[0].RunID)
	}
	if repo.vehicles["101"] == nil || repo.vehicles["102"] == nil {
		t.Fatal("expected both vehicles persisted")
	}

	run := repo.runs["run-1"]
	if run == nil {
		t.Fatal("expected run record")
	}
	if run.Status != models.RunStatusSuccess {
		t.Fatalf("expected successful run, got %s", run.Status)
	}
	if run.ListingsScraped != 2 || run.VehiclesScraped != 2 {
		t.Fatalf("unexpected run metrics: %+v", run)
	}
}

func TestRunCrawl_ResumesUnfinishedRun(t *testing.T) {
	repo := newCrawlRepo()

	// A previous execution of run-1 observed two stubs but only resolved one.
	repo.runs["run-1"] = &models.Run{ID: "run-1", Status: models.RunStatusRunning, ListingsScraped: 2}
	repo.listings = []models.ListingStub{
		{ID: "201", RunID: "run-1"},
		{ID: "202", RunID: "run-1"},
	}
	repo.vehicles["201"] = &models.VehicleDetail{ListingID: "201", RunID: "run-1"}

	transport := &cannedTransport{
		status: map[string]int{"202": 200},
		body:   map[string]string{"202": detailJSON("2016")},
	}
	sessions := &countingSessions{client: &Client{
		http:    &http.Client{Transport: transport},
		headers: http.Header{},
	}}

	o := testOrchestrator(repo, &fakeRenderer{}, sessions)
	summary, err := o.RunCrawl(context.Background(), "run-1", nil)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	if summary.Vehicles != 1 {
		t.Fatalf("expected exactly the pending stub fetched, got %d", summary.Vehicles)
	}
	if transport.requests != 1 {
		t.Fatalf("expected a single detail request, got %d", transport.requests)
	}
	if repo.vehicles["202"] == nil {
		t.Fatal("expected pending vehicle persisted")
	}
	if repo.runs["run-1"].Status != models.RunStatusSuccess {
		t.Fatalf("expected resumed run to finish, got %s", repo.runs["run-1"].Status)
	}
}

func TestRunCrawl_BrandAbortFailsRunButContinues(t *testing.T) {
	repo := newCrawlRepo()
	renderer := &fakeRenderer{outcomes: []renderOutcome{
		// First brand exhausts retries; second brand walks normally.
		{err: Transient("page 1", errors.New("timeout"))},
		{err: Transient("page 1", errors.New("timeout"))},
		{err: Transient("page 1", errors.New("timeout"))},
		{html: discoveryHTML([]string{"301"}, "1", "")},
	}}
	transport := &cannedTransport{
		status: map[string]int{"301": 200},
		body:   map[string]string{"301": detailJSON("2021")},
	}
	sessions := &countingSessions{client: &Client{
		http:    &http.Client{Transport: transport},
		headers: http.Header{},
	}}

	o := testOrchestrator(repo, renderer, sessions)
	brands := []models.Brand{{ID: "7", Slug: "audi"}, {ID: "11", Slug: "bmw"}}
	summary, err := o.RunCrawl(context.Background(), "run-1", brands)
	if err == nil {
		t.Fatal("expected crawl error for aborted brand")
	}

	if summary.Listings != 1 || summary.Vehicles != 1 {
		t.Fatalf("second brand should still be crawled, got %+v", summary)
	}
	run := repo.runs["run-1"]
	if run.Status != models.RunStatusFailed {
		t.Fatalf("expected failed run, got %s", run.Status)
	}
	if run.LastErrorMessage == nil {
		t.Fatal("expected abort message on the run")
	}
	if run.ErrorsCount == 0 {
		t.Fatal("expected abort counted in errors")
	}
}
