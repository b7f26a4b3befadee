package domain

import (
	"encoding/base64"
	"encoding/json"
)

// EdgeKind names one paginated upstream feed of a hashtag.
type EdgeKind string

const (
	EdgeTop    EdgeKind = "top_media"
	EdgeRecent EdgeKind = "recent_media"
)

// EdgeCursorState is the pagination state of one (tag, edge) pair.
// NextURL is the upstream full-URL continuation and is preferred over After
// when present. Exhausted is a one-way latch: once an edge signals
// end-of-data it is never queried again within the same bundle lineage.
type EdgeCursorState struct {
	After     string `json:"after,omitempty"`
	NextURL   string `json:"next_url,omitempty"`
	Exhausted bool   `json:"exhausted,omitempty"`
}

// Resumable reports whether the edge still has something to paginate.
func (s EdgeCursorState) Resumable() bool {
	return !s.Exhausted
}

// TagCursor pairs the two hashtag edge states of one tag.
type TagCursor struct {
	Top    EdgeCursorState `json:"top"`
	Recent EdgeCursorState `json:"recent"`
}

// CursorBundle is the opaque pagination token handed to callers between page
// requests. It is fully self-describing: no server-side state is needed to
// resume. The version field lets future edge kinds extend the schema without
// invalidating older serialized tokens; unknown fields are ignored on decode.
type CursorBundle struct {
	Version int                  `json:"v"`
	Tags    map[string]TagCursor `json:"tags,omitempty"`
}

const cursorBundleVersion = 1

func NewCursorBundle() CursorBundle {
	return CursorBundle{Version: cursorBundleVersion, Tags: map[string]TagCursor{}}
}

// Empty reports whether the bundle carries no per-tag state.
func (b CursorBundle) Empty() bool {
	return len(b.Tags) == 0
}

// Encode serializes the bundle as base64 JSON for transport across stateless
// HTTP requests. An empty bundle encodes to the empty string.
func (b CursorBundle) Encode() string {
	if b.Empty() {
		return ""
	}
	b.Version = cursorBundleVersion
	raw, err := json.Marshal(b)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursorBundle parses an opaque token previously produced by Encode.
// Malformed or empty tokens yield a fresh bundle rather than an error so a
// stale client token degrades to "start from the beginning".
func DecodeCursorBundle(token string) CursorBundle {
	if token == "" {
		return NewCursorBundle()
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return NewCursorBundle()
	}
	var b CursorBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return NewCursorBundle()
	}
	if b.Tags == nil {
		b.Tags = map[string]TagCursor{}
	}
	return b
}
