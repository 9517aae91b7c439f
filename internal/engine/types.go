package engine

// --- Digest types ---

// CommentLine is the view of a single comment handed to the digest prompt.
type CommentLine struct {
	Author string
	Likes  string
	Text   string
}

// DigestTheme is one recurring topic with the comments that raise it.
type DigestTheme struct {
	Theme    string `json:"theme"`
	Comments []int  `json:"comments"` // 1-based indices into the digested comments
}

// CommentDigest is the LLM summary of a batch of comments.
type CommentDigest struct {
	Summary   string        `json:"summary"`   // 2-3 sentence plain text, no markdown
	Sentiment string        `json:"sentiment"` // positive, negative, mixed or neutral
	Themes    []DigestTheme `json:"themes"`
}
