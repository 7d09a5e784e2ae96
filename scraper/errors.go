package scraper

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a scrape fault for the backoff policy and callers.
type ErrorKind int

const (
	// KindTransient covers network faults, timeouts and 5xx-style responses.
	// These are retried under the backoff policy.
	KindTransient ErrorKind = iota
	// KindTerminal is a content-confirmed absence: the target renders a
	// "page not found" body instead of returning a status code. Never retried.
	KindTerminal
	// KindValidation marks a fetched record that failed normalization.
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindTerminal:
		return "terminal"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// Error tags an underlying fault with its kind. The site signals absence via
// page content rather than transport status, so the kind travels with the
// error value instead of being re-derived at every call site.
type Error struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Transient(url string, err error) *Error {
	return &Error{Kind: KindTransient, URL: url, Err: err}
}

func NotFound(url string) *Error {
	return &Error{Kind: KindTerminal, URL: url, Err: errors.New("page not found")}
}

func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Err: err}
}

// IsTerminal reports whether err carries a terminal (never retry) kind.
// Unclassified errors are treated as transient.
func IsTerminal(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindTerminal
}

func IsValidation(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindValidation
}
