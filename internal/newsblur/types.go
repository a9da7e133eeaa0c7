// internal/newsblur/types.go
package newsblur

import (
	"encoding/json"
	"fmt"
)

// Folder is a named group of feed subscriptions.
type Folder struct {
	Name    string
	FeedIDs []int64
}

// FolderEntry is one element of the /reader/feeds folders list. NewsBlur
// mixes two shapes in the same array: a bare feed id for subscriptions that
// live outside any folder, and a single-key object mapping a folder name to
// its feed ids. The shape is decided once here, at decode time.
type FolderEntry struct {
	Folder *Folder // set for folder entries
	FeedID int64   // set for bare feed ids
}

func (e *FolderEntry) UnmarshalJSON(data []byte) error {
	var id json.Number
	if err := json.Unmarshal(data, &id); err == nil {
		n, err := id.Int64()
		if err != nil {
			return fmt.Errorf("bad feed id %q: %w", id.String(), err)
		}
		*e = FolderEntry{FeedID: n}
		return nil
	}

	var obj map[string][]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("folder entry is neither a feed id nor a folder: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("folder entry has %d names, want 1", len(obj))
	}
	for name, members := range obj {
		folder := &Folder{Name: name}
		for _, m := range members {
			var id json.Number
			if err := json.Unmarshal(m, &id); err != nil {
				// Nested folders and other non-numeric members are not
				// part of this folder's direct feed list.
				continue
			}
			n, err := id.Int64()
			if err != nil {
				return fmt.Errorf("bad feed id %q in folder %s: %w", id.String(), name, err)
			}
			folder.FeedIDs = append(folder.FeedIDs, n)
		}
		*e = FolderEntry{Folder: folder}
	}
	return nil
}

// FeedsResponse is the /reader/feeds payload.
type FeedsResponse struct {
	Authenticated bool          `json:"authenticated"`
	Folders       []FolderEntry `json:"folders"`
}

// Story is one article from /reader/river_stories.
type Story struct {
	ID         string   `json:"story_id"`
	Permalink  string   `json:"story_permalink"`
	Date       string   `json:"story_date"`
	Title      string   `json:"story_title"`
	Content    string   `json:"story_content"`
	Authors    string   `json:"story_authors"`
	Tags       []string `json:"story_tags"`
	ReadStatus int      `json:"read_status"`
}

// StoriesResponse is the /reader/river_stories payload.
type StoriesResponse struct {
	Authenticated bool    `json:"authenticated"`
	Stories       []Story `json:"stories"`
}

// UserProfile is the profile block inside /social/profile.
type UserProfile struct {
	Username string `json:"username"`
	Website  string `json:"website"`
	FeedLink string `json:"feed_link"`
}

// ProfileResponse is the /social/profile payload. Raw preserves the full
// response body so signup can store the profile snapshot verbatim.
type ProfileResponse struct {
	Authenticated bool        `json:"authenticated"`
	UserProfile   UserProfile `json:"user_profile"`

	Raw json.RawMessage `json:"-"`
}
