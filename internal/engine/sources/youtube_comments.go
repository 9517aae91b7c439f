package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/tidwall/gjson"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
)

const (
	commentSectionID = "comment-item-section"

	watchSectionsPath = "contents.twoColumnWatchNextResults.results.results.contents"
	seedTokenPath     = "itemSectionRenderer.contents.0.continuationItemRenderer.continuationEndpoint.continuationCommand.token"
)

var (
	videoIDRE   = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/|v/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	bareVideoRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID pulls the 11-char video ID from a bare ID or any YouTube URL format.
func ExtractVideoID(s string) string {
	if bareVideoRE.MatchString(s) {
		return s
	}
	m := videoIDRE.FindStringSubmatch(s)
	if len(m) >= 2 {
		return m[1]
	}
	return ""
}

// Seed is the starting point of a video's comment pagination.
type Seed struct {
	Token       string
	VisitorData string
}

// FetchCommentSeed looks up the first comment continuation token for videoID
// using the configured client.
func FetchCommentSeed(ctx context.Context, videoID string) (Seed, error) {
	return NewInnertubeClient().Seed(ctx, videoID)
}

// Seed requests the watch-next page of videoID and extracts the comment
// section token. Transient HTTP failures are retried here, unlike Next.
// A video without a comment section yields comments.ErrCommentsUnavailable.
func (c *InnertubeClient) Seed(ctx context.Context, videoID string) (Seed, error) {
	body, err := json.Marshal(ytNextReq{Context: c.webContext(""), VideoID: videoID})
	if err != nil {
		return Seed{}, err
	}

	engine.IncrSeedRequests()
	resp, err := engine.RetryHTTP(ctx, func() (*http.Response, error) {
		req, err := c.newRequest(ctx, body, "")
		if err != nil {
			return nil, err
		}
		return c.HTTPClient.Do(req)
	})
	if err != nil {
		return Seed{}, &comments.TransportError{Err: fmt.Errorf("seed %s: %w", videoID, err)}
	}
	data, err := readNextBody(resp)
	if err != nil {
		return Seed{}, err
	}

	seed, ok := parseSeed(data)
	if !ok {
		slog.Debug("youtube: no comment section", slog.String("video", videoID))
		return Seed{}, comments.ErrCommentsUnavailable
	}
	return seed, nil
}

// parseSeed finds the comment item section among the watch-next sections.
func parseSeed(data []byte) (Seed, bool) {
	if !gjson.ValidBytes(data) {
		return Seed{}, false
	}
	root := gjson.ParseBytes(data)
	var seed Seed
	root.Get(watchSectionsPath).ForEach(func(_, section gjson.Result) bool {
		if section.Get("itemSectionRenderer.sectionIdentifier").String() != commentSectionID {
			return true
		}
		if tok := section.Get(seedTokenPath); tok.Type == gjson.String && tok.Str != "" {
			seed.Token = tok.Str
			return false
		}
		return true
	})
	if seed.Token == "" {
		return Seed{}, false
	}
	if vd := root.Get("responseContext.visitorData"); vd.Type == gjson.String {
		seed.VisitorData = vd.Str
	}
	return seed, true
}
