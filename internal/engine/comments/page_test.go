package comments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageEndToEnd(t *testing.T) {
	raw := buildPage(t, pageSpec{
		items: []obj{
			headerItem("1,234", " Comments"),
			threadItem("c1", "t1", nil),
			continuationItem("NEXT"),
		},
		mutations: []obj{
			commentMutation("c1", obj{
				"properties": obj{"content": obj{"content": "hello"}},
				"author":     obj{"displayName": "Bob"},
			}),
			toolbarMutation("t1", "TOOLBAR_HEART_STATE_HEARTED"),
		},
		visitorData: "VD",
	})

	res := ParsePage(raw).Result()
	require.Len(t, res.Comments, 1)
	c := res.Comments[0]
	assert.Equal(t, "hello", c.Text())
	assert.Equal(t, "Bob", c.AuthorName())
	assert.True(t, c.IsFavorited)
	assert.False(t, c.IsPinned)
	assert.False(t, c.IsHighlighted)

	require.NotNil(t, res.TotalCount)
	assert.Equal(t, 1234, *res.TotalCount)
	require.NotNil(t, res.NextToken)
	assert.Equal(t, "NEXT", *res.NextToken)

	p := ParsePage(raw)
	require.NotNil(t, p.VisitorData)
	assert.Equal(t, "VD", *p.VisitorData)
}

func TestParsePageHeaderCount(t *testing.T) {
	tests := []struct {
		name string
		runs []any
		want *int
	}{
		{"count first", []any{"1,234", "Comments"}, ptr(1234)},
		{"label first", []any{"Comments", "1,234"}, ptr(1234)},
		{"label with spaces", []any{"42", " Comments"}, ptr(42)},
		{"first non-label wins", []any{"7", "8"}, ptr(7)},
		{"only label", []any{"Comments"}, nil},
		{"no runs", []any{}, nil},
		{"unparsable first match", []any{"1.2K", "5"}, nil},
		{"non-string runs skipped", []any{12, "3"}, ptr(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := buildPage(t, pageSpec{items: []obj{headerItem(tt.runs...)}})
			assert.Equal(t, tt.want, ParsePage(raw).TotalCount)
		})
	}
}

func TestParsePageFirstHeaderAndTokenWin(t *testing.T) {
	raw := buildPage(t, pageSpec{items: []obj{
		headerItem("1", "Comments"),
		continuationItem("A"),
		headerItem("2", "Comments"),
		continuationItem("B"),
	}})
	p := ParsePage(raw)
	assert.Equal(t, ptr(1), p.TotalCount)
	assert.Equal(t, ptr("A"), p.NextToken)
}

func TestParsePageFlagsAndOrder(t *testing.T) {
	raw := buildPage(t, pageSpec{
		items: []obj{
			threadItem("c1", "t1", obj{"pinnedText": "Pinned by Creator"}),
			threadItem("c2", "t2", obj{"linkedCommentText": "Highlighted comment"}),
			threadItem("c3", "t3", obj{"pinnedText": nil, "linkedCommentText": "Highlighted reply"}),
			threadItem("c9", "t1", nil), // unknown comment entity
			threadItem("", "t1", nil),   // no comment key
		},
		mutations: []obj{
			commentMutation("c1", obj{"properties": obj{"content": obj{"content": "one"}}}),
			commentMutation("c2", obj{"properties": obj{"content": obj{"content": "two"}}}),
			commentMutation("c3", obj{"properties": obj{"content": obj{"content": "three"}}}),
			toolbarMutation("t1", ""),
			toolbarMutation("t2", ""),
			toolbarMutation("t3", ""),
		},
	})

	cs := ParsePage(raw).Comments()
	require.Len(t, cs, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{cs[0].Text(), cs[1].Text(), cs[2].Text()})
	assert.True(t, cs[0].IsPinned)
	assert.False(t, cs[0].IsHighlighted)
	assert.False(t, cs[1].IsPinned)
	assert.True(t, cs[1].IsHighlighted)
	assert.False(t, cs[2].IsPinned)
	assert.False(t, cs[2].IsHighlighted)
}

func TestParsePageAppendAction(t *testing.T) {
	raw := commentsPage(t, "p2", 2, "NEXT2")
	res := ParsePage(raw).Result()
	assert.Len(t, res.Comments, 2)
	assert.Nil(t, res.TotalCount)
	assert.Equal(t, ptr("NEXT2"), res.NextToken)
}

func TestParsePageIdempotent(t *testing.T) {
	raw := buildPage(t, pageSpec{
		items: []obj{headerItem("3", "Comments"), threadItem("c1", "t1", nil), continuationItem("N")},
		mutations: []obj{
			commentMutation("c1", obj{"properties": obj{"content": obj{"content": "x"}}}),
			toolbarMutation("t1", "TOOLBAR_HEART_STATE_HEARTED"),
		},
	})
	assert.Equal(t, ParsePage(raw).Result(), ParsePage(raw).Result())
}

func TestParsePageUnrecognized(t *testing.T) {
	for _, raw := range []string{
		"",
		"not json",
		`{}`,
		`[]`,
		`{"onResponseReceivedEndpoints":"nope"}`,
		`{"onResponseReceivedEndpoints":[{"somethingElse":{}}]}`,
	} {
		res := ParsePage([]byte(raw)).Result()
		assert.Empty(t, res.Comments, raw)
		assert.Nil(t, res.NextToken, raw)
		assert.Nil(t, res.TotalCount, raw)
	}
}
