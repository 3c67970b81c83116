package client

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/guarzo/freestuff/api"
)

var (
	// ErrNoAPIKey is returned by New when Config.APIKey is empty.
	ErrNoAPIKey = errors.New("no API key provided")
	// ErrInvalidDomain is returned by New when Config.APIDomain is not an absolute URL.
	ErrInvalidDomain = errors.New("invalid API domain")
	// ErrHTTPSRequired rejects plain-http domains and redirects.
	ErrHTTPSRequired = errors.New("https is required")
	// ErrRateLimited is returned when the API answers 429 Too Many Requests.
	// The client never retries on its own.
	ErrRateLimited = errors.New("rate limited by API")
)

// StatusError is a non-2xx, non-429 response. It matches api.ErrInvalidResponse.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := e.Body
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, msg)
}

func (e *StatusError) Is(target error) bool {
	return target == api.ErrInvalidResponse
}

// TransportError is a failure below HTTP: DNS, TLS, connection resets,
// timeouts, a cancelled context. Err is the net/http error as returned.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
