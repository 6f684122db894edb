package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by every call when no api key is set.
	ErrNotConfigured = errors.New("tmdb api key not configured")
	// ErrUnavailable covers transport failures and non-2xx responses.
	ErrUnavailable = errors.New("tmdb unavailable")
	// ErrMalformed means the response body did not have the expected shape.
	ErrMalformed = errors.New("tmdb response malformed")
	// ErrNotFound means tmdb reported no such record.
	ErrNotFound = errors.New("tmdb record not found")
)

// statusError carries the HTTP status of a failed request.
type statusError struct {
	Code   int
	Status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("tmdb request failed: %s", e.Status)
}

func isProviderError(err error) bool {
	return errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrNotFound)
}
