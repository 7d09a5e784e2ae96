package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"carscout/models"
)

// cannedTransport serves detail API responses keyed by listing id, with an
// optional number of connection failures before each id starts answering.
type cannedTransport struct {
	status   map[string]int
	body     map[string]string
	failures map[string]int
	requests int
}

func (t *cannedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests++
	parts := strings.Split(req.URL.Path, "/")
	id := parts[len(parts)-1]

	if t.failures[id] > 0 {
		t.failures[id]--
		return nil, errors.New("connection reset")
	}

	status, ok := t.status[id]
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(t.body[id])),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// countingSessions hands out one canned client and counts mints.
type countingSessions struct {
	client  *Client
	current int
	rotated int
	err     error
}

func (s *countingSessions) Current(ctx context.Context) (*Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.current++
	return s.client, nil
}

func (s *countingSessions) Rotate(ctx context.Context) (*Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.rotated++
	return s.client, nil
}

func detailJSON(year string) string {
	return fmt.Sprintf(`{
		"attributes": [
			{"name": "Godište", "value": "%s", "type": "number"},
			{"name": "Gorivo", "value": "Dizel", "type": "string"}
		],
		"brand": {"name": "Audi"},
		"model": {"name": "A4"},
		"state": "Korišteno",
		"cities": [{"name": "Sarajevo"}],
		"images": ["https://cdn.olx.ba/1.jpg"]
	}`, year)
}

func quickFetcher(sessions SessionSource, rotateEvery int) *Fetcher {
	policy := BackoffPolicy{MaxAttempts: 3, MaxElapsed: time.Second, BaseDelay: time.Millisecond, Factor: 2}
	return NewFetcher(sessions, policy, FetcherConfig{RotateEvery: rotateEvery}, testLog())
}

func stubsForIDs(ids ...string) []models.ListingStub {
	stubs := make([]models.ListingStub, len(ids))
	for i, id := range ids {
		stubs[i] = models.ListingStub{ID: id, URL: siteBaseURL + "/artikal/" + id, RunID: "run-1"}
	}
	return stubs
}

func TestFetchAll_EmptyResultKeepsPosition(t *testing.T) {
	transport := &cannedTransport{
		status: map[string]int{"1": 200, "3": 200},
		body:   map[string]string{"1": detailJSON("2018"), "3": detailJSON("2015")},
	}
	sessions := &countingSessions{client: &Client{
		http:    &http.Client{Transport: transport},
		headers: http.Header{},
	}}

	stream := quickFetcher(sessions, 500).FetchAll(stubsForIDs("1", "2", "3"))
	ctx := context.Background()

	var results []*models.VehicleDetail
	for {
		detail, ok := stream.Next(ctx)
		if !ok {
			break
		}
		results = append(results, detail)
	}

	if err := stream.Err(); err != nil {
		t.Fatalf("expected clean end, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected one result per stub, got %d", len(results))
	}
	if results[0] == nil || results[2] == nil {
		t.Fatal("expected records at positions 1 and 3")
	}
	if results[1] != nil {
		t.Fatal("expected empty result for the removed ad")
	}
	if results[0].ListingID != "1" || results[2].ListingID != "3" {
		t.Fatalf("results out of order: %v %v", results[0].ListingID, results[2].ListingID)
	}
	if results[0].BuildYear == nil || *results[0].BuildYear != 2018 {
		t.Fatalf("expected build year 2018, got %v", results[0].BuildYear)
	}
	if results[0].ScrapedAt.IsZero() {
		t.Fatal("expected ScrapedAt to be stamped")
	}
}

func TestFetchAll_RotatesSessionAtThreshold(t *testing.T) {
	transport := &cannedTransport{status: map[string]int{}, body: map[string]string{}}
	ids := make([]string, 501)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i+1)
		transport.status[ids[i]] = 200
		transport.body[ids[i]] = detailJSON("2019")
	}
	sessions := &countingSessions{client: &Client{
		http:    &http.Client{Transport: transport},
		headers: http.Header{},
	}}

	stream := quickFetcher(sessions, 500).FetchAll(stubsForIDs(ids...))
	ctx := context.Background()

	var yielded int
	for {
		if _, ok := stream.Next(ctx); !ok {
			break
		}
		yielded++
	}

	if err := stream.Err(); err != nil {
		t.Fatalf("expected clean end, got %v", err)
	}
	if yielded != 501 {
		t.Fatalf("expected 501 results, got %d", yielded)
	}
	if sessions.rotated != 1 {
		t.Fatalf("expected exactly one rotation, got %d", sessions.rotated)
	}
	if sessions.current != 500 {
		t.Fatalf("expected 500 current-session reuses, got %d", sessions.current)
	}
}

func TestFetchAll_RetriesTransientThenSucceeds(t *testing.T) {
	transport := &cannedTransport{
		status:   map[string]int{"9": 200},
		body:     map[string]string{"9": detailJSON("2020")},
		failures: map[string]int{"9": 2},
	}
	sessions := &countingSessions{client: &Client{
		http:    &http.Client{Transport: transport},
		headers: http.Header{},
	}}

	stream := quickFetcher(sessions, 500).FetchAll(stubsForIDs("9"))
	detail, ok := stream.Next(context.Background())
	if !ok {
		t.Fatal("expected a yielded result")
	}
	if detail == nil {
		t.Fatal("expected retries to recover the record")
	}
	if transport.requests != 3 {
		t.Fatalf("expected 3 requests, got %d", transport.requests)
	}
}

func TestFetchAll_ExhaustedRetriesYieldNilAndContinue(t *testing.T) {
	transport := &cannedTransport{
		status:   map[string]int{"9": 200, "10": 200},
		body:     map[string]string{"9": detailJSON("2020"), "10": detailJSON("2021")},
		failures: map[string]int{"9": 10},
	}
	sessions := &countingSessions{client: &Client{
		http:    &http.Client{Transport: transport},
		headers: http.Header{},
	}}

	stream := quickFetcher(sessions, 500).FetchAll(stubsForIDs("9", "10"))
	ctx := context.Background()

	detail, ok := stream.Next(ctx)
	if !ok || detail != nil {
		t.Fatalf("expected nil result for the failed item, got ok=%v detail=%v", ok, detail)
	}
	detail, ok = stream.Next(ctx)
	if !ok || detail == nil {
		t.Fatal("expected the batch to continue past the failed item")
	}
	if detail.ListingID != "10" {
		t.Fatalf("expected listing 10, got %s", detail.ListingID)
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("item failure must not abort the stream, got %v", err)
	}
}

func TestFetchAll_SessionLossStopsStream(t *testing.T) {
	sessions := &countingSessions{err: errors.New("warmup failed")}

	stream := quickFetcher(sessions, 500).FetchAll(stubsForIDs("1", "2"))
	if _, ok := stream.Next(context.Background()); ok {
		t.Fatal("expected stream to stop without a session")
	}
	if stream.Err() == nil {
		t.Fatal("expected session loss in Err")
	}
}
