package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable wraps transport failures: the backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrMalformedResponse is returned when a success response cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// NetworkErrorMessage is shown for transport and decoding failures.
const NetworkErrorMessage = "Network error, please try again later"

// APIError is a non-2xx answer from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// UserMessage converts an operation error into the text shown to the user.
// Backend messages are passed through verbatim; fallback covers backend
// errors without one.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return NetworkErrorMessage
}
