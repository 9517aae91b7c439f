package archive

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// PostgresStore archives comments in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a pgx pool and runs schema migrations.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("archive: postgres connected", slog.String("addr", config.ConnConfig.Host))
	return s, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := schemaFS.ReadFile("schema/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if _, err := s.pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("execute %s: %w", entry.Name(), err)
		}
		slog.Info("migration applied", slog.String("file", entry.Name()))
	}
	return nil
}

// SaveComments appends one page of comments as a single batch.
func (s *PostgresStore) SaveComments(ctx context.Context, videoID string, page int, cs []comments.Comment) error {
	if len(cs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, c := range cs {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("archive: encode comment: %w", err)
		}
		batch.Queue(
			`INSERT INTO yt_comments (video_id, page, position, comment_id, author, content, data)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			videoID, page, i, strOrEmpty(c.ID), strOrEmpty(c.Author), strOrEmpty(c.Content), data,
		)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("archive: insert: %w", err)
	}
	engine.IncrArchiveWrites(len(cs))
	return nil
}

// ListComments returns archived comments of videoID in fetch order.
func (s *PostgresStore) ListComments(ctx context.Context, videoID string, limit int) ([]SavedComment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT video_id, page, position, data, saved_at FROM yt_comments
		 WHERE video_id = $1 ORDER BY id ASC LIMIT $2`, videoID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("archive: query: %w", err)
	}
	defer rows.Close()

	var out []SavedComment
	for rows.Next() {
		var sc SavedComment
		var data []byte
		var savedAt time.Time
		if err := rows.Scan(&sc.VideoID, &sc.Page, &sc.Position, &data, &savedAt); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		if err := json.Unmarshal(data, &sc.Comment); err != nil {
			return nil, fmt.Errorf("archive: decode comment: %w", err)
		}
		sc.SavedAt = savedAt.UTC().Format(time.RFC3339)
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ListVideos returns per-video counts, most recently saved first.
func (s *PostgresStore) ListVideos(ctx context.Context, limit int) ([]VideoSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT video_id, COUNT(*), MAX(saved_at) FROM yt_comments
		 GROUP BY video_id ORDER BY MAX(saved_at) DESC, video_id LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("archive: query: %w", err)
	}
	defer rows.Close()

	var out []VideoSummary
	for rows.Next() {
		var v VideoSummary
		var last time.Time
		if err := rows.Scan(&v.VideoID, &v.Comments, &last); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		v.LastSavedAt = last.UTC().Format(time.RFC3339)
		out = append(out, v)
	}
	return out, rows.Err()
}
