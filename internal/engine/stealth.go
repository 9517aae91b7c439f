package engine

import (
	"context"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// IsRetryableStatus re-exports the stealth retryable-status table.
func IsRetryableStatus(code int) bool { return stealth.IsRetryableStatus(code) }

// RetryHTTP retries transient HTTP failures with the stealth defaults.
// Comment continuation pages never go through it: their transport errors
// surface to the caller unretried.
func RetryHTTP(ctx context.Context, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, stealth.DefaultRetryConfig, fn)
}
