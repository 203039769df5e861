package loader

import "fmt"

// RemoteError reports that the server was reachable but answered with a
// non-OK status. It is surfaced as-is so callers can apply their own retry
// or backoff policy.
type RemoteError struct {
	StatusCode int
	Status     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: %d %s", e.StatusCode, e.Status)
}
