package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
)

// SQLiteStore archives comments in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the archive database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("archive: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSQLiteSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS comments (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id   TEXT NOT NULL,
		page       INTEGER NOT NULL,
		position   INTEGER NOT NULL,
		comment_id TEXT,
		author     TEXT,
		content    TEXT,
		data       TEXT NOT NULL,
		saved_at   TEXT NOT NULL
	)`); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS comments_video_idx ON comments (video_id, page, position)`)
	return err
}

// SaveComments appends one page of comments in a single transaction.
func (s *SQLiteStore) SaveComments(ctx context.Context, videoID string, page int, cs []comments.Comment) error {
	if len(cs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO comments (video_id, page, position, comment_id, author, content, data, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("archive: prepare: %w", err)
	}
	defer stmt.Close()

	ts := now()
	for i, c := range cs {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("archive: encode comment: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, videoID, page, i,
			strOrEmpty(c.ID), strOrEmpty(c.Author), strOrEmpty(c.Content), string(data), ts); err != nil {
			return fmt.Errorf("archive: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive: commit: %w", err)
	}
	engine.IncrArchiveWrites(len(cs))
	return nil
}

// ListComments returns archived comments of videoID in fetch order.
func (s *SQLiteStore) ListComments(ctx context.Context, videoID string, limit int) ([]SavedComment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, page, position, data, saved_at FROM comments
		 WHERE video_id = ? ORDER BY id ASC LIMIT ?`, videoID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("archive: query: %w", err)
	}
	defer rows.Close()

	var out []SavedComment
	for rows.Next() {
		var sc SavedComment
		var data string
		if err := rows.Scan(&sc.VideoID, &sc.Page, &sc.Position, &data, &sc.SavedAt); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &sc.Comment); err != nil {
			return nil, fmt.Errorf("archive: decode comment: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ListVideos returns per-video counts, most recently saved first.
func (s *SQLiteStore) ListVideos(ctx context.Context, limit int) ([]VideoSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, COUNT(*), MAX(saved_at) FROM comments
		 GROUP BY video_id ORDER BY MAX(saved_at) DESC, video_id LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("archive: query: %w", err)
	}
	defer rows.Close()

	var out []VideoSummary
	for rows.Next() {
		var v VideoSummary
		if err := rows.Scan(&v.VideoID, &v.Comments, &v.LastSavedAt); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}
