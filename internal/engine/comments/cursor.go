package comments

import "sync"

// Cursor is the stack of continuation tokens requested for one video.
// The top is the token for the next page. Once a page arrives without a
// next token the cursor is exhausted.
type Cursor struct {
	mu        sync.Mutex
	tokens    []string
	seeded    int
	exhausted bool
}

// NewCursor creates a cursor seeded with token, or an empty one when token is "".
func NewCursor(token string) *Cursor {
	c := &Cursor{}
	if token != "" {
		c.tokens = []string{token}
		c.seeded = 1
	}
	return c
}

// Peek returns the top token. ok is false when nothing can be requested.
func (c *Cursor) Peek() (token string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exhausted || len(c.tokens) == 0 {
		return "", false
	}
	return c.tokens[len(c.tokens)-1], true
}

// Push records the token of the page after the one just fetched.
func (c *Cursor) Push(token string) {
	c.mu.Lock()
	c.tokens = append(c.tokens, token)
	c.mu.Unlock()
}

// Finish marks the cursor exhausted after a terminal page.
func (c *Cursor) Finish() {
	c.mu.Lock()
	c.exhausted = true
	c.mu.Unlock()
}

// Exhausted reports whether the terminal page has been reached.
func (c *Cursor) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}

// Len returns the number of tokens on the stack, seed included.
func (c *Cursor) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens)
}

// Tokens returns a copy of the stack, oldest first.
func (c *Cursor) Tokens() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tokens...)
}

// Reset drops every pushed token and returns to the seed.
func (c *Cursor) Reset() {
	c.mu.Lock()
	c.tokens = c.tokens[:c.seeded]
	c.exhausted = false
	c.mu.Unlock()
}
