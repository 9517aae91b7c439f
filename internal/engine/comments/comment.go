package comments

import "github.com/anatolykoptev/go_ytcomments/internal/engine"

// Comment is one top-level comment as shown on the watch page.
// Pointer fields are nil when the upstream entity graph lacks the node.
type Comment struct {
	ID                   *string `json:"id,omitempty"`
	Content              *string `json:"content,omitempty"`
	Author               *string `json:"author,omitempty"`
	AuthorChannelID      *string `json:"author_channel_id,omitempty"`
	IsAuthorUploader     *bool   `json:"is_author_uploader,omitempty"`
	LikesDisplay         *string `json:"likes,omitempty"`        // platform formatted, e.g. "1.2K"
	IsFavorited          bool    `json:"is_favorited"`
	PublishedTimeDisplay *string `json:"published_time,omitempty"` // relative, e.g. "2 days ago"
	ReplyCount           *int    `json:"reply_count,omitempty"`
	IsPinned             bool    `json:"is_pinned"`
	IsHighlighted        bool    `json:"is_highlighted"`
}

// Project maps a resolved join to a Comment. Each field is read on its own
// path so one missing node never blocks another.
func Project(j Join) Comment {
	c := j.Comment
	return Comment{
		ID:                   c.Get("properties", "commentId").Str(),
		Content:              c.Get("properties", "content", "content").Str(),
		Author:               c.Get("author", "displayName").Str(),
		AuthorChannelID:      c.Get("author", "channelId").Str(),
		IsAuthorUploader:     c.Get("author", "isCreator").Bool(),
		LikesDisplay:         c.Get("toolbar", "likeCountLiked").Str(),
		IsFavorited:          j.Favorited(),
		PublishedTimeDisplay: c.Get("properties", "publishedTime").Str(),
		ReplyCount:           parseCount(c.Get("toolbar", "replyCount").Str()),
		IsPinned:             j.Ref.Pinned,
		IsHighlighted:        j.Ref.Highlighted,
	}
}

func parseCount(s *string) *int {
	if s == nil {
		return nil
	}
	n, ok := engine.ParseCount(*s)
	if !ok {
		return nil
	}
	return &n
}

// Text returns the content or "" when absent.
func (c Comment) Text() string {
	if c.Content == nil {
		return ""
	}
	return *c.Content
}

// AuthorName returns the author display name or "" when absent.
func (c Comment) AuthorName() string {
	if c.Author == nil {
		return ""
	}
	return *c.Author
}
