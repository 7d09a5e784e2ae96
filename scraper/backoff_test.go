package scraper

import (
	"errors"
	"testing"
	"time"
)

func TestShouldRetry_TransientGrowsExponentially(t *testing.T) {
	p := DefaultBackoff()
	err := Transient("https://olx.ba/x", errors.New("timeout"))

	delay, retry := p.ShouldRetry(err, 1, 0)
	if !retry {
		t.Fatal("expected first failure to be retried")
	}
	if delay != time.Second {
		t.Fatalf("expected 1s delay, got %s", delay)
	}

	delay, retry = p.ShouldRetry(err, 2, 5*time.Second)
	if !retry {
		t.Fatal("expected second failure to be retried")
	}
	if delay != 2*time.Second {
		t.Fatalf("expected 2s delay, got %s", delay)
	}
}

func TestShouldRetry_GivesUpAtMaxAttempts(t *testing.T) {
	p := DefaultBackoff()
	err := Transient("https://olx.ba/x", errors.New("timeout"))

	if _, retry := p.ShouldRetry(err, p.MaxAttempts, 0); retry {
		t.Fatal("expected no retry once attempts are exhausted")
	}
}

func TestShouldRetry_GivesUpAtMaxElapsed(t *testing.T) {
	p := DefaultBackoff()
	err := Transient("https://olx.ba/x", errors.New("timeout"))

	if _, retry := p.ShouldRetry(err, 1, p.MaxElapsed); retry {
		t.Fatal("expected no retry past the elapsed ceiling")
	}
}

func TestShouldRetry_TerminalNeverRetried(t *testing.T) {
	p := DefaultBackoff()

	if _, retry := p.ShouldRetry(NotFound("https://olx.ba/x"), 1, 0); retry {
		t.Fatal("terminal error must not be retried")
	}
}

func TestErrorPredicates(t *testing.T) {
	if !IsTerminal(NotFound("https://olx.ba/x")) {
		t.Fatal("NotFound should be terminal")
	}
	if IsTerminal(Transient("https://olx.ba/x", errors.New("reset"))) {
		t.Fatal("Transient should not be terminal")
	}
	if !IsValidation(Validation(errors.New("bad payload"))) {
		t.Fatal("Validation should be detected")
	}
	if IsTerminal(errors.New("plain")) {
		t.Fatal("plain error should not be terminal")
	}
}
