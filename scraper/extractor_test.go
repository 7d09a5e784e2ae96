package scraper

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestExtractPage_Basic(t *testing.T) {
	page, err := ExtractPage(loadFixture(t, "search_page.html"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(page.Stubs) != 2 {
		t.Fatalf("expected 2 stubs, got %d", len(page.Stubs))
	}

	first := page.Stubs[0]
	if first.ID != "54100023" {
		t.Fatalf("expected id 54100023, got %s", first.ID)
	}
	if first.URL != "https://olx.ba/artikal/54100023" {
		t.Fatalf("unexpected URL %s", first.URL)
	}
	if first.Title != "Audi A4 2.0 TDI S-Line" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.RawPrice != "25.000 KM" {
		t.Fatalf("unexpected price %q", first.RawPrice)
	}

	second := page.Stubs[1]
	if second.ID != "54100077" {
		t.Fatalf("expected id 54100077, got %s", second.ID)
	}
	if second.RawPrice != "Na upit" {
		t.Fatalf("unexpected price %q", second.RawPrice)
	}

	if page.NextPage != "2" {
		t.Fatalf("expected next page 2, got %q", page.NextPage)
	}
}

func TestExtractPage_LastPage(t *testing.T) {
	page, err := ExtractPage(loadFixture(t, "search_page_last.html"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(page.Stubs) != 1 {
		t.Fatalf("expected 1 stub, got %d", len(page.Stubs))
	}
	if page.NextPage != "" {
		t.Fatalf("expected no next page, got %q", page.NextPage)
	}
}

func TestExtractPage_NoCards(t *testing.T) {
	page, err := ExtractPage("<html><body><p>nista</p></body></html>")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(page.Stubs) != 0 {
		t.Fatalf("expected 0 stubs, got %d", len(page.Stubs))
	}
	if page.NextPage != "" {
		t.Fatalf("expected no next page, got %q", page.NextPage)
	}
}

func TestContainsNotFound(t *testing.T) {
	if !ContainsNotFound(loadFixture(t, "not_found.html")) {
		t.Fatal("expected not-found signature to be detected")
	}
	if !ContainsNotFound("<p>Nema rezultata za traženi pojam</p>") {
		t.Fatal("expected empty-results signature to be detected")
	}
	if ContainsNotFound(loadFixture(t, "search_page.html")) {
		t.Fatal("regular page misdetected as not found")
	}
}
