// Package archive persists fetched comments so they can be listed without
// going back to YouTube. Writes append; the same comment saved twice is
// stored twice.
package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
)

// SavedComment is an archived comment with where it came from.
type SavedComment struct {
	VideoID  string           `json:"video_id"`
	Page     int              `json:"page"`
	Position int              `json:"position"`
	SavedAt  string           `json:"saved_at"`
	Comment  comments.Comment `json:"comment"`
}

// VideoSummary describes the archived comments of one video.
type VideoSummary struct {
	VideoID     string `json:"video_id"`
	Comments    int    `json:"comments"`
	LastSavedAt string `json:"last_saved_at"`
}

// Store is an append-only comment archive.
type Store interface {
	SaveComments(ctx context.Context, videoID string, page int, cs []comments.Comment) error
	ListComments(ctx context.Context, videoID string, limit int) ([]SavedComment, error)
	ListVideos(ctx context.Context, limit int) ([]VideoSummary, error)
	Close()
}

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// strOrEmpty flattens an optional field for the indexed columns.
func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Package-level singleton, set from main.go.
var store Store

// SetStore sets the package-level archive (nil disables archiving).
func SetStore(s Store) { store = s }

// GetStore returns the package-level archive (may be nil).
func GetStore() Store { return store }

// Open picks the archive backend: PostgreSQL when databaseURL is set,
// otherwise SQLite at path. Both empty returns a nil Store.
func Open(ctx context.Context, databaseURL, path string) (Store, error) {
	switch {
	case databaseURL != "":
		s, err := OpenPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case path != "":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		slog.Info("archive: sqlite opened", slog.String("path", path))
		return s, nil
	}
	return nil, nil
}
