package commentserver

import (
	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/archive"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
)

// --- youtube_comments ---

type CommentsInput struct {
	Video    string `json:"video" jsonschema:"YouTube video ID or URL"`
	Token    string `json:"token,omitempty" jsonschema:"Continuation token to resume from (next_token of a previous call)"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"Pages to fetch, about 20 comments each (default: 1)"`
	Save     bool   `json:"save,omitempty" jsonschema:"Archive fetched comments for youtube_comments_saved"`
}

type CommentsOutput struct {
	VideoID    string             `json:"video_id"`
	URL        string             `json:"url"`
	TotalCount *int               `json:"total_count,omitempty"` // header count of the first page fetched
	Pages      int                `json:"pages"`
	Comments   []comments.Comment `json:"comments"`
	NextToken  string             `json:"next_token,omitempty"` // empty once the last page was reached
	Saved      int                `json:"saved,omitempty"`
	Warning    string             `json:"warning,omitempty"` // set when a later page failed after earlier pages succeeded
}

// --- youtube_comments_saved ---

type SavedInput struct {
	Video string `json:"video,omitempty" jsonschema:"YouTube video ID or URL; omit to list archived videos"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max rows (default: 100, max: 1000)"`
}

type SavedOutput struct {
	VideoID  string                 `json:"video_id,omitempty"`
	Comments []archive.SavedComment `json:"comments,omitempty"`
	Videos   []archive.VideoSummary `json:"videos,omitempty"`
	Total    int                    `json:"total"`
}

// --- youtube_comments_digest ---

type DigestInput struct {
	Video    string `json:"video" jsonschema:"YouTube video ID or URL"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"Pages to fetch before summarizing (default: 3)"`
	Source   string `json:"source,omitempty" jsonschema:"live (default) fetches from YouTube, saved reads the archive"`
}

type DigestOutput struct {
	VideoID  string               `json:"video_id"`
	Analyzed int                  `json:"analyzed"`
	Digest   engine.CommentDigest `json:"digest"`
}
