package comments

// Upstream literals that drive flag and state derivation.
const (
	heartStateHearted      = "TOOLBAR_HEART_STATE_HEARTED"
	highlightedCommentText = "Highlighted comment"
)

// EntityTable maps an entity key to the mutation that last carried it.
// It is built once per response and only read afterwards.
type EntityTable map[string]Node

// buildEntityTable indexes mutations by their entityKey. Mutations without a
// string key are ignored; on duplicate keys the later mutation wins.
func buildEntityTable(mutations []Node) EntityTable {
	table := make(EntityTable, len(mutations))
	for _, m := range mutations {
		key := m.Get("entityKey").Str()
		if key == nil {
			continue
		}
		table[*key] = m
	}
	return table
}

// ThreadRef links a comment thread to its two entity records.
type ThreadRef struct {
	CommentKey      string
	ToolbarStateKey string
	Pinned          bool
	Highlighted     bool
}

// threadRefFrom reads a commentViewModel node. ok is false when either key is
// missing, in which case the thread cannot be joined and is skipped.
func threadRefFrom(vm Node) (ref ThreadRef, ok bool) {
	commentKey := vm.Get("commentKey").Str()
	toolbarKey := vm.Get("toolbarStateKey").Str()
	if commentKey == nil || toolbarKey == nil {
		return ThreadRef{}, false
	}
	linked := vm.Get("linkedCommentText").Str()
	return ThreadRef{
		CommentKey:      *commentKey,
		ToolbarStateKey: *toolbarKey,
		Pinned:          vm.Has("pinnedText"),
		Highlighted:     linked != nil && *linked == highlightedCommentText,
	}, true
}

// Join is the resolved view of one comment: its thread reference plus the
// payloads of the comment entity and the toolbar-state entity.
type Join struct {
	Ref     ThreadRef
	Comment Node // payload.commentEntityPayload
	Toolbar Node // payload.engagementToolbarStateEntityPayload
}

// Resolve joins ref against the table by exact key. It reports false when
// either entity is missing; partial joins are never surfaced.
func (t EntityTable) Resolve(ref ThreadRef) (Join, bool) {
	commentEntity, ok := t[ref.CommentKey]
	if !ok {
		return Join{}, false
	}
	toolbarEntity, ok := t[ref.ToolbarStateKey]
	if !ok {
		return Join{}, false
	}
	return Join{
		Ref:     ref,
		Comment: commentEntity.Get("payload", "commentEntityPayload"),
		Toolbar: toolbarEntity.Get("payload", "engagementToolbarStateEntityPayload"),
	}, true
}

// Favorited reports whether the uploader hearted the comment.
func (j Join) Favorited() bool {
	state := j.Toolbar.Get("heartState").Str()
	return state != nil && *state == heartStateHearted
}
