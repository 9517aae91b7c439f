package commentserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/archive"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
	"github.com/anatolykoptev/go_ytcomments/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultDigestPages = 3

// RegisterTools registers the comment tools on the given MCP server:
// youtube_comments, youtube_comments_saved, youtube_comments_digest.
func RegisterTools(server *mcp.Server) {
	registerComments(server)
	registerSaved(server)
	registerDigest(server)
}

func registerComments(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_comments",
		Description: "Fetch top-level comments of a YouTube video in watch-page order. Returns structured JSON per comment (content, author, likes, reply count, published time, pinned/hearted/highlighted flags), the total comment count, and a next_token to resume from. Set save=true to archive the comments.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CommentsInput) (*mcp.CallToolResult, CommentsOutput, error) {
		id, err := toolutil.ResolveVideoID(input.Video)
		if err != nil {
			return nil, CommentsOutput{}, err
		}
		out, err := fetchComments(ctx, fetchRequest{
			VideoID:  id,
			Token:    strings.TrimSpace(input.Token),
			MaxPages: toolutil.ClampPages(input.MaxPages, engine.Cfg.MaxPages),
			Save:     input.Save,
		})
		if err != nil {
			return nil, CommentsOutput{}, describeFetchError(id, err)
		}
		slog.Info("youtube_comments: done",
			slog.String("video", id),
			slog.Int("pages", out.Pages),
			slog.Int("comments", len(out.Comments)))
		return nil, out, nil
	})
}

func registerSaved(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_comments_saved",
		Description: "List comments archived by youtube_comments (save=true). With a video, returns its archived comments in fetch order; without one, lists archived videos with comment counts.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SavedInput) (*mcp.CallToolResult, SavedOutput, error) {
		store := archive.GetStore()
		if store == nil {
			return nil, SavedOutput{}, errors.New("comment archive is disabled (set ARCHIVE_PATH or DATABASE_URL)")
		}
		if strings.TrimSpace(input.Video) == "" {
			videos, err := store.ListVideos(ctx, input.Limit)
			if err != nil {
				return nil, SavedOutput{}, err
			}
			return nil, SavedOutput{Videos: videos, Total: len(videos)}, nil
		}
		id, err := toolutil.ResolveVideoID(input.Video)
		if err != nil {
			return nil, SavedOutput{}, err
		}
		saved, err := store.ListComments(ctx, id, input.Limit)
		if err != nil {
			return nil, SavedOutput{}, err
		}
		return nil, SavedOutput{VideoID: id, Comments: saved, Total: len(saved)}, nil
	})
}

func registerDigest(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_comments_digest",
		Description: "Summarize what viewers say about a YouTube video. Fetches a few pages of comments (or reads the archive with source=saved) and returns an LLM digest: summary, overall sentiment, and recurring themes with the comments that raise them.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input DigestInput) (*mcp.CallToolResult, DigestOutput, error) {
		id, err := toolutil.ResolveVideoID(input.Video)
		if err != nil {
			return nil, DigestOutput{}, err
		}
		source := strings.ToLower(strings.TrimSpace(input.Source))
		if source == "" {
			source = "live"
		}
		pages := input.MaxPages
		if pages <= 0 {
			pages = defaultDigestPages
		}
		pages = toolutil.ClampPages(pages, engine.Cfg.MaxPages)

		var cs []comments.Comment
		var cacheKey string
		switch source {
		case "live":
			cacheKey = engine.CacheKey("digest", id, fmt.Sprint(pages))
			if out, ok := engine.CacheLoadJSON[DigestOutput](ctx, cacheKey); ok {
				return nil, out, nil
			}
			fetched, err := fetchComments(ctx, fetchRequest{VideoID: id, MaxPages: pages})
			if err != nil {
				return nil, DigestOutput{}, describeFetchError(id, err)
			}
			cs = fetched.Comments
		case "saved":
			store := archive.GetStore()
			if store == nil {
				return nil, DigestOutput{}, errors.New("comment archive is disabled (set ARCHIVE_PATH or DATABASE_URL)")
			}
			saved, err := store.ListComments(ctx, id, 0)
			if err != nil {
				return nil, DigestOutput{}, err
			}
			for _, s := range saved {
				cs = append(cs, s.Comment)
			}
		default:
			return nil, DigestOutput{}, fmt.Errorf("unknown source %q (want live or saved)", input.Source)
		}

		lines := toolutil.CommentLines(cs)
		digest, err := engine.SummarizeComments(ctx, id, lines)
		if err != nil {
			return nil, DigestOutput{}, fmt.Errorf("LLM digest failed: %w", err)
		}
		out := DigestOutput{VideoID: id, Analyzed: len(lines), Digest: *digest}
		if cacheKey != "" {
			engine.CacheStoreJSON(ctx, cacheKey, out)
		}
		return nil, out, nil
	})
}

// describeFetchError gives agents a readable reason for the common failures.
func describeFetchError(videoID string, err error) error {
	var te *comments.TransportError
	switch {
	case errors.Is(err, comments.ErrCommentsUnavailable):
		return fmt.Errorf("comments for %s are disabled or unavailable: %w", videoID, err)
	case errors.As(err, &te):
		if te.Temporary() {
			return fmt.Errorf("youtube request failed, try again later: %w", err)
		}
		return fmt.Errorf("youtube request rejected: %w", err)
	}
	return err
}
