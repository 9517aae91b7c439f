package comments

// Video is the comment-bearing view of one YouTube video. The seed token is
// obtained elsewhere (the watch page /next response); the cursor evolves as
// pages are fetched.
type Video struct {
	ID                       string
	CommentContinuationToken string
	Cursor                   *Cursor
}

// NewVideo creates a Video whose cursor is seeded with token ("" = none).
func NewVideo(id, token string) *Video {
	return &Video{
		ID:                       id,
		CommentContinuationToken: token,
		Cursor:                   NewCursor(token),
	}
}

// URL returns the watch page URL.
func (v *Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}
