package catalog

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network call when the TMDB API key
// is missing. Handlers surface it as HTTP 500.
var ErrNotConfigured = errors.New("tmdb api key not configured")

// UpstreamError wraps a non-2xx TMDB response. The original status code is
// preserved so the HTTP layer can mirror it to the caller.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb request failed: status %d", e.Status)
	}
	return fmt.Sprintf("tmdb request failed: status %d: %s", e.Status, e.Body)
}
