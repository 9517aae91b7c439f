// go_ytcomments — YouTube comments MCP server.
//
// Exposes three MCP tools: youtube_comments, youtube_comments_saved,
// youtube_comments_digest. Comments are paged through the innertube /next
// endpoint and optionally archived to SQLite or PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_ytcomments/internal/commentserver"
	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/archive"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_ytcomments",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytcomments",
		Version: version,
	}, nil)

	commentserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 3))

	err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytcomments",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	})
	if s := archive.GetStore(); s != nil {
		s.Close()
	}
	if err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		ClientVersion: env.Str("YT_CLIENT_VERSION", engine.DefaultClientVersion),
		Hl:            env.Str("YT_HL", "en"),
		Gl:            env.Str("YT_GL", "US"),
		NextRPS:       env.Float("NEXT_RPS", 2),
		NextBurst:     env.Int("NEXT_BURST", 2),
		Retry: engine.RetryConfig{
			MaxRetries:  env.Int("EMPTY_PAGE_RETRIES", engine.EmptyPageRetries),
			InitialWait: env.Duration("RETRY_INITIAL_WAIT", 500*time.Millisecond),
			MaxWait:     env.Duration("RETRY_MAX_WAIT", 8*time.Second),
			Multiplier:  engine.DefaultRetryConfig.Multiplier,
			Jitter:      engine.DefaultRetryConfig.Jitter,
		},
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 15*time.Second),
		MaxPages:             env.Int("MAX_PAGES", 20),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		ArchivePath:          env.Str("ARCHIVE_PATH", filepath.Join(os.Getenv("HOME"), ".go_ytcomments", "comments.db")),
		DatabaseURL:          env.Str("DATABASE_URL", ""),
		LLMAPIKey:            env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:   env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:             env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 4096),
		MaxDigestChars:       env.Int("MAX_DIGEST_CHARS", 30000),
	}
	if c.ArchivePath == "off" {
		c.ArchivePath = ""
	}
	c.HTTPClient = &http.Client{
		Timeout: c.FetchTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	} else {
		slog.Warn("LLM_API_KEY not set, youtube_comments_digest disabled")
	}

	engine.Init(c)

	// Comment archive (PostgreSQL when DATABASE_URL is set, else SQLite)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := archive.Open(ctx, c.DatabaseURL, c.ArchivePath)
	switch {
	case err != nil:
		slog.Warn("archive init failed, saving disabled", slog.Any("error", err))
	case store == nil:
		slog.Info("archive disabled")
	default:
		archive.SetStore(store)
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
