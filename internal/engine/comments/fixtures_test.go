package comments

import (
	"encoding/json"
	"fmt"
	"testing"
)

type obj = map[string]any

func threadItem(commentKey, toolbarKey string, extra obj) obj {
	vm := obj{}
	if commentKey != "" {
		vm["commentKey"] = commentKey
	}
	if toolbarKey != "" {
		vm["toolbarStateKey"] = toolbarKey
	}
	for k, v := range extra {
		vm[k] = v
	}
	return obj{"commentThreadRenderer": obj{"commentViewModel": obj{"commentViewModel": vm}}}
}

func headerItem(runs ...any) obj {
	rs := make([]any, len(runs))
	for i, r := range runs {
		rs[i] = obj{"text": r}
	}
	return obj{"commentsHeaderRenderer": obj{"countText": obj{"runs": rs}}}
}

func continuationItem(token string) obj {
	return obj{"continuationItemRenderer": obj{
		"continuationEndpoint": obj{"continuationCommand": obj{"token": token}},
	}}
}

func commentMutation(key string, payload obj) obj {
	return obj{"entityKey": key, "payload": obj{"commentEntityPayload": payload}}
}

func toolbarMutation(key, heartState string) obj {
	return obj{"entityKey": key, "payload": obj{"engagementToolbarStateEntityPayload": obj{"heartState": heartState}}}
}

type pageSpec struct {
	wrapper     string // reloadContinuationItemsCommand (default) or appendContinuationItemsAction
	items       []obj
	mutations   []obj
	visitorData string
}

func buildPage(t *testing.T, spec pageSpec) []byte {
	t.Helper()
	wrapper := spec.wrapper
	if wrapper == "" {
		wrapper = "reloadContinuationItemsCommand"
	}
	items := make([]any, len(spec.items))
	for i, it := range spec.items {
		items[i] = it
	}
	muts := make([]any, len(spec.mutations))
	for i, m := range spec.mutations {
		muts[i] = m
	}
	root := obj{
		"onResponseReceivedEndpoints": []any{obj{wrapper: obj{"continuationItems": items}}},
		"frameworkUpdates":            obj{"entityBatchUpdate": obj{"mutations": muts}},
	}
	if spec.visitorData != "" {
		root["responseContext"] = obj{"visitorData": spec.visitorData}
	}
	raw, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return raw
}

// commentsPage builds a page with n resolvable comments whose content is
// "<prefix>-<i>" and an optional next token.
func commentsPage(t *testing.T, prefix string, n int, next string) []byte {
	t.Helper()
	spec := pageSpec{wrapper: "appendContinuationItemsAction"}
	for i := 0; i < n; i++ {
		ck, tk := fmt.Sprintf("%s-c%d", prefix, i), fmt.Sprintf("%s-t%d", prefix, i)
		spec.items = append(spec.items, threadItem(ck, tk, nil))
		spec.mutations = append(spec.mutations,
			commentMutation(ck, obj{"properties": obj{"content": obj{"content": fmt.Sprintf("%s-%d", prefix, i)}}}),
			toolbarMutation(tk, "TOOLBAR_HEART_STATE_UNHEARTED"),
		)
	}
	if next != "" {
		spec.items = append(spec.items, continuationItem(next))
	}
	return buildPage(t, spec)
}
