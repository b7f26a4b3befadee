package domain

// MediaType mirrors the upstream media_type field.
type MediaType string

const (
	MediaTypeImage    MediaType = "IMAGE"
	MediaTypeVideo    MediaType = "VIDEO"
	MediaTypeCarousel MediaType = "CAROUSEL_ALBUM"
)

// ChildMedia is one entry of a carousel album.
type ChildMedia struct {
	ID        string    `json:"id"`
	MediaType MediaType `json:"media_type"`
	MediaURL  string    `json:"media_url"`
}

// MediaItem is the normalized post record produced by every fetch.
// Timestamp is the upstream-supplied ISO-8601 string and is never generated
// locally. Username is empty for hashtag-sourced items because the hashtag
// edges do not expose it; SourceTag is empty for mention-sourced items.
type MediaItem struct {
	ID           string       `json:"id"`
	MediaURL     string       `json:"media_url"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	MediaType    MediaType    `json:"media_type"`
	Caption      string       `json:"caption,omitempty"`
	Permalink    string       `json:"permalink,omitempty"`
	Timestamp    string       `json:"timestamp"`
	Username     string       `json:"username,omitempty"`
	SourceTag    string       `json:"source_tag,omitempty"`
	Category     string       `json:"category,omitempty"`
	Products     []string     `json:"products,omitempty"`
	Children     []ChildMedia `json:"children,omitempty"`
}

// HasUsableURL reports whether the item carries at least one displayable URL.
func (m *MediaItem) HasUsableURL() bool {
	return m != nil && (m.MediaURL != "" || m.ThumbnailURL != "")
}

// NormalizeCarousel collapses a carousel album onto its first child's
// type and URL, keeping the full child list for callers that want it.
func (m *MediaItem) NormalizeCarousel() {
	if m.MediaType != MediaTypeCarousel || len(m.Children) == 0 {
		return
	}
	first := m.Children[0]
	if first.MediaURL != "" {
		m.MediaURL = first.MediaURL
	}
	if first.MediaType != "" {
		m.MediaType = first.MediaType
	}
}
