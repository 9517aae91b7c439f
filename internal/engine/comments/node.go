package comments

import "github.com/tidwall/gjson"

// Node is a read-only view over a semi-structured JSON value.
// Every accessor is total: a missing step in a path yields the zero Node
// instead of an error, so field extraction degrades to "absent".
type Node struct {
	r gjson.Result
}

// ParseNode wraps raw JSON bytes. Invalid JSON yields the zero Node.
func ParseNode(raw []byte) Node {
	if !gjson.ValidBytes(raw) {
		return Node{}
	}
	return Node{r: gjson.ParseBytes(raw)}
}

// Get follows a chain of object keys. Keys are plain field names.
func (n Node) Get(keys ...string) Node {
	r := n.r
	for _, k := range keys {
		if !r.IsObject() {
			return Node{}
		}
		r = r.Get(escapeKey(k))
		if !r.Exists() {
			return Node{}
		}
	}
	return Node{r: r}
}

// Present reports whether the value exists and is not JSON null.
func (n Node) Present() bool {
	return n.r.Exists() && n.r.Type != gjson.Null
}

// Has reports whether key is present and non-null on an object node.
func (n Node) Has(key string) bool {
	return n.Get(key).Present()
}

// Str returns the string value, or nil when absent or not a JSON string.
func (n Node) Str() *string {
	if n.r.Type != gjson.String {
		return nil
	}
	s := n.r.Str
	return &s
}

// Bool returns the boolean value, or nil when absent or not a JSON boolean.
func (n Node) Bool() *bool {
	switch n.r.Type {
	case gjson.True, gjson.False:
		b := n.r.Type == gjson.True
		return &b
	}
	return nil
}

// Items returns the elements of an array node, or nil for anything else.
func (n Node) Items() []Node {
	if !n.r.IsArray() {
		return nil
	}
	arr := n.r.Array()
	out := make([]Node, len(arr))
	for i, r := range arr {
		out[i] = Node{r: r}
	}
	return out
}

// Raw returns the raw JSON text of the node ("" when absent).
func (n Node) Raw() string {
	return n.r.Raw
}

// escapeKey escapes gjson path metacharacters so k is matched literally.
func escapeKey(k string) string {
	var buf []byte
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			if buf == nil {
				buf = append(make([]byte, 0, len(k)+4), k[:i]...)
			}
			buf = append(buf, '\\')
		}
		if buf != nil {
			buf = append(buf, k[i])
		}
	}
	if buf == nil {
		return k
	}
	return string(buf)
}
