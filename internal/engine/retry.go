package engine

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// EmptyPageRetries is how many times an empty later page is re-requested.
const EmptyPageRetries = 5

// RetryConfig controls retry behavior.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Jitter      float64 // randomization factor, 0 = deterministic waits
}

// DefaultRetryConfig is used for empty continuation pages.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  EmptyPageRetries,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     8 * time.Second,
	Multiplier:  2.0,
	Jitter:      0.2,
}

// Attempts returns the total number of tries: the first plus MaxRetries.
func (rc RetryConfig) Attempts() uint {
	if rc.MaxRetries < 0 {
		return 1
	}
	return uint(rc.MaxRetries) + 1
}

// NewBackOff builds an exponential backoff capped at MaxWait.
// A zero InitialWait retries immediately.
func NewBackOff(rc RetryConfig) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = rc.InitialWait
	bo.MaxInterval = rc.MaxWait
	if bo.MaxInterval < bo.InitialInterval {
		bo.MaxInterval = bo.InitialInterval
	}
	bo.Multiplier = rc.Multiplier
	if bo.Multiplier < 1 {
		bo.Multiplier = 1
	}
	bo.RandomizationFactor = rc.Jitter
	bo.Reset()
	return bo
}
