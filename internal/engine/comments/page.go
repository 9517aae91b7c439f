package comments

import (
	"strings"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
)

// countLabel marks the label run in the comments header ("1,234" + " Comments").
const countLabel = "Comments"

// Page is one decomposed /next continuation response.
type Page struct {
	Entities    EntityTable
	Threads     []ThreadRef
	TotalCount  *int
	NextToken   *string
	VisitorData *string
}

// PageResult is the resolved output of one page.
type PageResult struct {
	Comments   []Comment `json:"comments"`
	TotalCount *int      `json:"total_count,omitempty"`
	NextToken  *string   `json:"next_token,omitempty"`
}

// ParsePage decomposes a raw response. Unknown or invalid input yields an
// empty Page: no threads and no token.
func ParsePage(raw []byte) Page {
	root := ParseNode(raw)
	items := continuationItems(root)

	p := Page{
		Entities:    buildEntityTable(root.Get("frameworkUpdates", "entityBatchUpdate", "mutations").Items()),
		VisitorData: root.Get("responseContext", "visitorData").Str(),
	}

	headerSeen, tokenSeen := false, false
	for _, item := range items {
		switch {
		case item.Has("commentsHeaderRenderer"):
			if !headerSeen {
				headerSeen = true
				p.TotalCount = headerCount(item.Get("commentsHeaderRenderer"))
			}
		case item.Has("commentThreadRenderer"):
			vm := item.Get("commentThreadRenderer", "commentViewModel", "commentViewModel")
			if ref, ok := threadRefFrom(vm); ok {
				p.Threads = append(p.Threads, ref)
			}
		case item.Has("continuationItemRenderer"):
			if !tokenSeen {
				tokenSeen = true
				p.NextToken = item.Get("continuationItemRenderer", "continuationEndpoint", "continuationCommand", "token").Str()
			}
		}
	}
	return p
}

// continuationItems flattens every continuation wrapper into one ordered list.
// The first page arrives as a reload command, later pages as append actions.
func continuationItems(root Node) []Node {
	var items []Node
	for _, ep := range root.Get("onResponseReceivedEndpoints").Items() {
		for _, wrapper := range []string{"reloadContinuationItemsCommand", "appendContinuationItemsAction"} {
			items = append(items, ep.Get(wrapper, "continuationItems").Items()...)
		}
	}
	return items
}

// headerCount picks the first run whose text lacks the label word and parses
// it. No such run, or an unparsable one, yields nil.
func headerCount(header Node) *int {
	for _, run := range header.Get("countText", "runs").Items() {
		text := run.Get("text").Str()
		if text == nil || strings.Contains(*text, countLabel) {
			continue
		}
		n, ok := engine.ParseCount(*text)
		if !ok {
			return nil
		}
		return &n
	}
	return nil
}

// Comments joins every thread against the entity table and projects the
// survivors, preserving thread order.
func (p Page) Comments() []Comment {
	out := make([]Comment, 0, len(p.Threads))
	for _, ref := range p.Threads {
		j, ok := p.Entities.Resolve(ref)
		if !ok {
			continue
		}
		out = append(out, Project(j))
	}
	return out
}

// Result resolves the page into its user-facing form.
func (p Page) Result() PageResult {
	return PageResult{
		Comments:   p.Comments(),
		TotalCount: p.TotalCount,
		NextToken:  p.NextToken,
	}
}
