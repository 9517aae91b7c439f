package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	NextURL              string  // innertube /next endpoint
	ClientVersion        string  // WEB client version sent in the request context
	Hl                   string  // interface language
	Gl                   string  // content region
	NextRPS              float64 // /next requests per second, 0 = unlimited
	NextBurst            int
	Retry                RetryConfig
	FetchTimeout         time.Duration
	MaxPages             int // cap for a single tool call
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	ArchivePath          string // SQLite file; "" disables the SQLite archive
	DatabaseURL          string // PostgreSQL archive; takes precedence over ArchivePath
	LLMAPIKey            string
	LLMAPIKeyFallbacks   []string
	LLMAPIBase           string
	LLMModel             string
	LLMTemperature       float64
	LLMMaxTokens         int
	MaxDigestChars       int
	HTTPClient           *http.Client
	LLMClient            *llm.Client // nil = digest disabled
}

// Defaults for the innertube WEB client.
const (
	DefaultNextURL       = "https://www.youtube.com/youtubei/v1/next"
	DefaultClientVersion = "2.20210408.08.00"
)

var cfg Config

// Cfg exposes the engine configuration for sub-packages (comments, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.NextURL == "" {
		c.NextURL = DefaultNextURL
	}
	if c.ClientVersion == "" {
		c.ClientVersion = DefaultClientVersion
	}
	if c.Hl == "" {
		c.Hl = "en"
	}
	if c.Gl == "" {
		c.Gl = "US"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg = c
	Cfg = &cfg
}

// NewLimiter returns a limiter for /next requests, or nil when unlimited.
// Each comment session gets its own limiter.
func NewLimiter() *rate.Limiter {
	if cfg.NextRPS <= 0 {
		return nil
	}
	burst := cfg.NextBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.NextRPS), burst)
}
