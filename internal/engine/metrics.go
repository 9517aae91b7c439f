package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	NextRequests        atomic.Int64
	TransportErrors     atomic.Int64
	PagesParsed         atomic.Int64
	CommentsProjected   atomic.Int64
	EmptyPageRetries    atomic.Int64
	CommentsUnavailable atomic.Int64
	SeedRequests        atomic.Int64
	ArchiveWrites       atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"next_requests":        metrics.NextRequests.Load(),
		"transport_errors":     metrics.TransportErrors.Load(),
		"pages_parsed":         metrics.PagesParsed.Load(),
		"comments_projected":   metrics.CommentsProjected.Load(),
		"empty_page_retries":   metrics.EmptyPageRetries.Load(),
		"comments_unavailable": metrics.CommentsUnavailable.Load(),
		"seed_requests":        metrics.SeedRequests.Load(),
		"archive_writes":       metrics.ArchiveWrites.Load(),
		"llm_calls":            metrics.LLMCalls.Load(),
		"llm_errors":           metrics.LLMErrors.Load(),
		"cache_hits":           hits,
		"cache_misses":         misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"next_requests", "transport_errors",
		"pages_parsed", "comments_projected",
		"empty_page_retries", "comments_unavailable",
		"seed_requests", "archive_writes",
		"llm_calls", "llm_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the comments and sources sub-packages.
func IncrNextRequests()           { metrics.NextRequests.Add(1) }
func IncrTransportErrors()        { metrics.TransportErrors.Add(1) }
func IncrPagesParsed()            { metrics.PagesParsed.Add(1) }
func IncrCommentsProjected(n int) { metrics.CommentsProjected.Add(int64(n)) }
func IncrEmptyPageRetries()       { metrics.EmptyPageRetries.Add(1) }
func IncrCommentsUnavailable()    { metrics.CommentsUnavailable.Add(1) }
func IncrSeedRequests()           { metrics.SeedRequests.Add(1) }
func IncrArchiveWrites(n int)     { metrics.ArchiveWrites.Add(int64(n)) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
