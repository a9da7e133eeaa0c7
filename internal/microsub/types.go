// internal/microsub/types.go
// Response shapes for the Microsub read API. The JSON field names here are
// the contract clients depend on; they must not drift.
package microsub

// Channel is the Microsub rendering of a NewsBlur folder.
type Channel struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Unread int    `json:"unread"`
}

// Author is the h-card block on a timeline entry.
type Author struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Content carries the entry body.
type Content struct {
	HTML string `json:"html"`
}

// Item is the Microsub rendering of a NewsBlur story.
type Item struct {
	Type      string   `json:"type"`
	Published string   `json:"published"`
	URL       string   `json:"url"`
	Author    Author   `json:"author"`
	Category  []string `json:"category"`
	Name      string   `json:"name"`
	Content   Content  `json:"content"`
	ID        string   `json:"_id"`
	IsRead    bool     `json:"_is_read"`
}

// Paging holds opaque page cursors; both are page numbers in disguise.
type Paging struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// ChannelList is the action=channels response body.
type ChannelList struct {
	Channels []Channel `json:"channels"`
}

// Timeline is the action=timeline (and action=preview) response body.
type Timeline struct {
	Items  []Item  `json:"items"`
	Paging *Paging `json:"paging,omitempty"`
}
