package comments

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
)

// Fetcher performs one /next continuation request and returns the raw body.
// Failures must be reported as *TransportError.
type Fetcher interface {
	Next(ctx context.Context, token, visitorData string) ([]byte, error)
}

// PageCache stores raw pages by continuation token. Only pages that resolved
// to at least one comment are stored.
type PageCache interface {
	Get(ctx context.Context, token string) ([]byte, bool)
	Set(ctx context.Context, token string, raw []byte)
}

// Options tunes a Session. The zero value retries 5 times without delay.
type Options struct {
	Retry       engine.RetryConfig
	Limiter     *rate.Limiter // nil = unlimited
	Cache       PageCache     // nil = no caching
	VisitorData string
}

// Session drives comment pagination for one video. FetchNextPage calls are
// serialized; distinct videos use distinct sessions and share nothing.
type Session struct {
	mu          sync.Mutex
	fetcher     Fetcher
	video       *Video
	opts        Options
	visitorData string
	totalCount  *int
	pages       int
}

// NewSession creates a session over v's cursor.
func NewSession(f Fetcher, v *Video, opts Options) *Session {
	if opts.Retry == (engine.RetryConfig{}) {
		opts.Retry = engine.RetryConfig{MaxRetries: engine.EmptyPageRetries}
	}
	return &Session{
		fetcher:     f,
		video:       v,
		opts:        opts,
		visitorData: opts.VisitorData,
	}
}

type fetched struct {
	result      PageResult
	visitorData *string
}

// FetchNextPage requests the page under the cursor top and returns its
// comments in upstream order.
//
// An empty first page fails with ErrCommentsUnavailable. An empty later page
// is re-requested up to Retry.MaxRetries more times with backoff before
// failing with *EmptyPagesError. Transport errors are returned as is.
func (s *Session) FetchNextPage(ctx context.Context) ([]Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.video.Cursor.Peek()
	if !ok {
		return nil, ErrCursorExhausted
	}
	first := s.pages == 0

	attempts := 0
	f, err := backoff.Retry(ctx, func() (fetched, error) {
		attempts++
		f, err := s.attempt(ctx, token)
		if err != nil {
			return fetched{}, backoff.Permanent(err)
		}
		if len(f.result.Comments) == 0 {
			if first {
				return fetched{}, backoff.Permanent(ErrCommentsUnavailable)
			}
			return fetched{}, errEmptyPage
		}
		return f, nil
	}, s.retryOptions(&attempts)...)
	if err != nil {
		if errors.Is(err, errEmptyPage) {
			err = &EmptyPagesError{Attempts: attempts}
		}
		if errors.Is(err, ErrCommentsUnavailable) {
			engine.IncrCommentsUnavailable()
		}
		return nil, err
	}

	s.pages++
	if s.totalCount == nil {
		s.totalCount = f.result.TotalCount
	}
	if s.visitorData == "" && f.visitorData != nil {
		s.visitorData = *f.visitorData
	}
	if next := f.result.NextToken; next != nil && *next != "" {
		s.video.Cursor.Push(*next)
	} else {
		s.video.Cursor.Finish()
	}

	engine.IncrCommentsProjected(len(f.result.Comments))
	slog.Debug("comments: page fetched",
		slog.String("video", s.video.ID),
		slog.Int("page", s.pages),
		slog.Int("comments", len(f.result.Comments)),
		slog.Int("attempts", attempts))
	return f.result.Comments, nil
}

// retryOptions bounds the loop by attempt count and ctx only; the default
// elapsed-time limit of backoff.Retry is disabled.
func (s *Session) retryOptions(attempts *int) []backoff.RetryOption {
	return []backoff.RetryOption{
		backoff.WithBackOff(engine.NewBackOff(s.opts.Retry)),
		backoff.WithMaxTries(s.opts.Retry.Attempts()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			engine.IncrEmptyPageRetries()
			slog.Debug("comments: empty page, retrying",
				slog.String("video", s.video.ID),
				slog.Int("attempt", *attempts),
				slog.Duration("wait", wait))
		}),
	}
}

// attempt fetches and parses one page, preferring the cache. Visitor data of
// a cached page belongs to whichever request stored it and is not adopted.
func (s *Session) attempt(ctx context.Context, token string) (fetched, error) {
	if s.opts.Cache != nil {
		if raw, ok := s.opts.Cache.Get(ctx, token); ok {
			engine.IncrPagesParsed()
			if f := (fetched{result: ParsePage(raw).Result()}); len(f.result.Comments) > 0 {
				return f, nil
			}
		}
	}

	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Wait(ctx); err != nil {
			return fetched{}, err
		}
	}

	raw, err := s.fetcher.Next(ctx, token, s.visitorData)
	if err != nil {
		engine.IncrTransportErrors()
		return fetched{}, err
	}
	engine.IncrPagesParsed()

	page := ParsePage(raw)
	f := fetched{result: page.Result(), visitorData: page.VisitorData}
	if s.opts.Cache != nil && len(f.result.Comments) > 0 {
		s.opts.Cache.Set(ctx, token, raw)
	}
	return f, nil
}

// Each fetches pages until the cursor is exhausted, maxPages pages were
// yielded (0 = no limit), or fn or a fetch returns an error.
func (s *Session) Each(ctx context.Context, maxPages int, fn func(page int, comments []Comment) error) error {
	for n := 0; maxPages <= 0 || n < maxPages; n++ {
		if n > 0 {
			if _, ok := s.video.Cursor.Peek(); !ok {
				return nil
			}
		}
		cs, err := s.FetchNextPage(ctx)
		if err != nil {
			return err
		}
		if err := fn(n, cs); err != nil {
			return err
		}
	}
	return nil
}

// TotalCount returns the comment count from the first page header, or nil.
func (s *Session) TotalCount() *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCount
}

// VisitorData returns the visitor data sent with requests ("" = none yet).
func (s *Session) VisitorData() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visitorData
}

// Pages returns the number of pages fetched successfully.
func (s *Session) Pages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

// Video returns the video this session paginates.
func (s *Session) Video() *Video { return s.video }

// Restart rewinds the cursor to its seed. Visitor data is kept.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.video.Cursor.Reset()
	s.pages = 0
	s.totalCount = nil
}
