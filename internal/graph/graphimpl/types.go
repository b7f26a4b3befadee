package graphimpl

import (
	"github.com/hashfeed/hashfeed/internal/domain"
	"github.com/hashfeed/hashfeed/internal/graph"
)

// Wire shapes of the upstream API.

type mediaNode struct {
	ID           string `json:"id"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Caption      string `json:"caption"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
	Username     string `json:"username"`
	Children     *struct {
		Data []childNode `json:"data"`
	} `json:"children"`
}

type childNode struct {
	ID        string `json:"id"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
}

type paging struct {
	Cursors struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors"`
	Next string `json:"next"`
}

type edgeResponse struct {
	Data   []mediaNode `json:"data"`
	Paging *paging     `json:"paging"`
}

type searchResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// normalize converts a wire node into the domain record, collapsing carousels
// onto their first child.
func (n mediaNode) normalize() domain.MediaItem {
	item := domain.MediaItem{
		ID:           n.ID,
		MediaURL:     n.MediaURL,
		ThumbnailURL: n.ThumbnailURL,
		MediaType:    domain.MediaType(n.MediaType),
		Caption:      n.Caption,
		Permalink:    n.Permalink,
		Timestamp:    n.Timestamp,
		Username:     n.Username,
	}
	if n.Children != nil {
		for _, c := range n.Children.Data {
			item.Children = append(item.Children, domain.ChildMedia{
				ID:        c.ID,
				MediaType: domain.MediaType(c.MediaType),
				MediaURL:  c.MediaURL,
			})
		}
	}
	item.NormalizeCarousel()
	return item
}

func (r edgeResponse) toPage() graph.Page {
	page := graph.Page{Items: make([]domain.MediaItem, 0, len(r.Data))}
	for _, n := range r.Data {
		page.Items = append(page.Items, n.normalize())
	}
	if r.Paging != nil {
		page.NextAfter = r.Paging.Cursors.After
		page.NextURL = r.Paging.Next
	}
	return page
}
