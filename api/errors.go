package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidResponse matches every response the API sent that could not be
// turned into the requested value.
var ErrInvalidResponse = errors.New("invalid response from API")

// DecodeError wraps the parse diagnostic behind an invalid response.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidResponse, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// Is reports ErrInvalidResponse as a match so callers don't need the concrete type.
func (e *DecodeError) Is(target error) bool {
	return target == ErrInvalidResponse
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	return &DecodeError{Cause: err}
}

// APIError is returned when the envelope carried a message. The message takes
// priority over any data in the same response.
type APIError struct {
	Message string
	// Code is the envelope's error field, if the API sent one.
	Code string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (%s): %s", e.Code, e.Message)
	}
	return "API error: " + e.Message
}
