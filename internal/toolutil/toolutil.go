// Package toolutil provides shared helper functions for go_ytcomments MCP tools.
package toolutil

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/sources"
)

// ResolveVideoID accepts a bare video ID or a YouTube URL.
func ResolveVideoID(video string) (string, error) {
	video = strings.TrimSpace(video)
	if video == "" {
		return "", fmt.Errorf("video is required")
	}
	id := sources.ExtractVideoID(video)
	if id == "" {
		return "", fmt.Errorf("not a YouTube video ID or URL: %q", video)
	}
	return id, nil
}

// ClampPages normalises a requested page count: 0 → 1, capped at limit (0 = no cap).
func ClampPages(n, limit int) int {
	if n <= 0 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// CommentLines converts comments to digest input, skipping ones without text.
func CommentLines(cs []comments.Comment) []engine.CommentLine {
	lines := make([]engine.CommentLine, 0, len(cs))
	for _, c := range cs {
		if c.Text() == "" {
			continue
		}
		l := engine.CommentLine{Author: c.AuthorName(), Text: c.Text()}
		if c.LikesDisplay != nil {
			l.Likes = *c.LikesDisplay
		}
		lines = append(lines, l)
	}
	return lines
}
