package comments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorLifecycle(t *testing.T) {
	c := NewCursor("seed")
	tok, ok := c.Peek()
	assert.True(t, ok)
	assert.Equal(t, "seed", tok)

	c.Push("p2")
	c.Push("p3")
	tok, _ = c.Peek()
	assert.Equal(t, "p3", tok)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"seed", "p2", "p3"}, c.Tokens())

	c.Finish()
	assert.True(t, c.Exhausted())
	_, ok = c.Peek()
	assert.False(t, ok)

	c.Reset()
	assert.False(t, c.Exhausted())
	tok, ok = c.Peek()
	assert.True(t, ok)
	assert.Equal(t, "seed", tok)
	assert.Equal(t, 1, c.Len())
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor("")
	_, ok := c.Peek()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestCursorTokensIsCopy(t *testing.T) {
	c := NewCursor("seed")
	toks := c.Tokens()
	toks[0] = "changed"
	tok, _ := c.Peek()
	assert.Equal(t, "seed", tok)
}

func TestVideo(t *testing.T) {
	v := NewVideo("dQw4w9WgXcQ", "seed")
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", v.URL())
	assert.Equal(t, "seed", v.CommentContinuationToken)
	tok, ok := v.Cursor.Peek()
	assert.True(t, ok)
	assert.Equal(t, "seed", tok)
}
