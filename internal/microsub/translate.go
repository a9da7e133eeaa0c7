// internal/microsub/translate.go
package microsub

import (
	"strconv"

	"baffle/internal/newsblur"
)

// notificationsChannel is appended after every real folder; NewsBlur keeps
// notification stories outside the folder tree.
const notificationsChannel = "notifications"

// FoldersToChannels renders folder entries as channels in their original
// order. Bare feed ids have no folder to render. The synthetic notifications
// channel is always last, even when the user has no folders at all.
func FoldersToChannels(folders []newsblur.FolderEntry) []Channel {
	channels := make([]Channel, 0, len(folders)+1)
	for _, entry := range folders {
		if entry.Folder == nil {
			continue
		}
		channels = append(channels, Channel{
			UID:    entry.Folder.Name,
			Name:   entry.Folder.Name,
			Unread: 0,
		})
	}
	return append(channels, Channel{UID: notificationsChannel, Name: notificationsChannel, Unread: 0})
}

// ResolveFeedIDs collects the feed ids the timeline should query. With no
// channel filter it is the union of every folder, order preserved. With a
// filter, only folders whose name equals it contribute; a filter matching
// nothing yields an empty set, which downstream turns into an empty
// timeline rather than an error.
func ResolveFeedIDs(folders []newsblur.FolderEntry, channel string) []int64 {
	var ids []int64
	for _, entry := range folders {
		if entry.Folder == nil {
			continue
		}
		if channel != "" && entry.Folder.Name != channel {
			continue
		}
		ids = append(ids, entry.Folder.FeedIDs...)
	}
	return ids
}

// StoriesToItems maps stories 1:1 to timeline entries, preserving order.
func StoriesToItems(stories []newsblur.Story) []Item {
	items := make([]Item, 0, len(stories))
	for _, s := range stories {
		items = append(items, Item{
			Type:      "entry",
			Published: s.Date,
			URL:       s.Permalink,
			Author:    Author{Type: "card", Name: s.Authors},
			Category:  s.Tags,
			Name:      s.Title,
			Content:   Content{HTML: s.Content},
			ID:        s.ID,
			IsRead:    s.ReadStatus != 0,
		})
	}
	return items
}

// BuildPaging derives the cursors for a timeline response. page is the
// requested page number, 0 for the implicit first page. before points one
// page back (never off the front), after points one page forward whenever
// the current page produced any stories.
func BuildPaging(page, storyCount int) *Paging {
	var p Paging
	if page > 1 {
		p.Before = strconv.Itoa(page - 1)
	}
	if storyCount > 0 {
		if page > 0 {
			p.After = strconv.Itoa(page + 1)
		} else {
			p.After = "2"
		}
	}
	if p.Before == "" && p.After == "" {
		return nil
	}
	return &p
}
