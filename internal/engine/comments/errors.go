package comments

import (
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
)

var (
	// ErrCommentsUnavailable is returned when a page carries no resolvable
	// comments and retrying is not expected to help. This layer cannot tell
	// disabled comments from a malformed response.
	ErrCommentsUnavailable = errors.New("comments are not available")

	// ErrCursorExhausted is returned when FetchNextPage is called with no
	// token left to request.
	ErrCursorExhausted = errors.New("comment cursor exhausted")

	errEmptyPage = errors.New("empty comment page")
)

// TransportError is a /next request that failed before a page could be
// parsed, including a 2xx response whose body could not be read whole.
type TransportError struct {
	StatusCode int // 0 for network errors
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("next: %v", e.Err)
	case e.Body != "":
		return fmt.Sprintf("next: HTTP %d: %s", e.StatusCode, e.Body)
	case e.StatusCode >= 200 && e.StatusCode <= 299 && e.Err != nil:
		return fmt.Sprintf("next: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("next: HTTP %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Temporary reports whether a caller above this layer may reasonably retry.
func (e *TransportError) Temporary() bool {
	if e.StatusCode == 0 {
		return true
	}
	return engine.IsRetryableStatus(e.StatusCode)
}

// EmptyPagesError reports a later page that stayed empty on every attempt.
// It matches ErrCommentsUnavailable under errors.Is, and stays
// distinguishable from a first-page failure through errors.As.
type EmptyPagesError struct {
	Attempts int
}

func (e *EmptyPagesError) Error() string {
	return fmt.Sprintf("%v: %d attempts returned empty pages", ErrCommentsUnavailable, e.Attempts)
}

func (e *EmptyPagesError) Unwrap() error { return ErrCommentsUnavailable }
