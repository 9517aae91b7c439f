package commentserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/archive"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/sources"
)

// Swapped in tests.
var (
	newFetcher = func() comments.Fetcher { return sources.NewInnertubeClient() }
	fetchSeed  = sources.FetchCommentSeed
)

type fetchRequest struct {
	VideoID  string
	Token    string // "" = discover the seed
	MaxPages int
	Save     bool
}

// fetchComments pages through a video's comments. A failure after at least one
// page is reported as a warning alongside the comments already collected.
func fetchComments(ctx context.Context, req fetchRequest) (CommentsOutput, error) {
	token, visitorData := req.Token, ""
	if token == "" {
		seed, err := fetchSeed(ctx, req.VideoID)
		if err != nil {
			return CommentsOutput{}, err
		}
		token, visitorData = seed.Token, seed.VisitorData
	}

	video := comments.NewVideo(req.VideoID, token)
	session := comments.NewSession(newFetcher(), video, comments.Options{
		Retry:       engine.Cfg.Retry,
		Limiter:     engine.NewLimiter(),
		Cache:       engine.PageCache{},
		VisitorData: visitorData,
	})

	out := CommentsOutput{VideoID: video.ID, URL: video.URL(), Comments: []comments.Comment{}}
	store := archive.GetStore()

	err := engine.TrackOperation(ctx, "comments:"+video.ID, func(ctx context.Context) error {
		return session.Each(ctx, req.MaxPages, func(page int, cs []comments.Comment) error {
			out.Comments = append(out.Comments, cs...)
			if req.Save && store != nil {
				if err := store.SaveComments(ctx, video.ID, page, cs); err != nil {
					slog.Warn("youtube_comments: archive failed", slog.String("video", video.ID), slog.Any("error", err))
				} else {
					out.Saved += len(cs)
				}
			}
			return nil
		})
	})

	out.Pages = session.Pages()
	out.TotalCount = session.TotalCount()
	if tok, ok := video.Cursor.Peek(); ok && out.Pages > 0 {
		out.NextToken = tok
	}

	if err != nil {
		if out.Pages == 0 {
			return CommentsOutput{}, err
		}
		var empty *comments.EmptyPagesError
		if errors.As(err, &empty) {
			slog.Info("youtube_comments: later page stayed empty",
				slog.String("video", video.ID), slog.Int("attempts", empty.Attempts))
		} else {
			slog.Warn("youtube_comments: stopped early", slog.String("video", video.ID), slog.Any("error", err))
		}
		out.Warning = err.Error()
	}
	return out, nil
}
