package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the registry has no document for a package.
var ErrNotFound = errors.New("package not found")

// HTTPError represents a non-2xx response from the registry.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string // first bytes of the response body, for diagnostics
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("request to %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request to %s returned status %d", e.URL, e.StatusCode)
}

// IsNotFound reports whether the response was a 404.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// NotFoundError is returned when a named package does not exist.
type NotFoundError struct {
	Name    string
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("package not found: %s@%s", e.Name, e.Version)
	}
	return fmt.Sprintf("package not found: %s", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RateLimitError is returned when the registry rejects a request with 429
// and retries are exhausted.
type RateLimitError struct {
	URL string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by registry: %s", e.URL)
}
