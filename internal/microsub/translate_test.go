package microsub

import (
	"reflect"
	"testing"

	"baffle/internal/newsblur"
)

func folder(name string, ids ...int64) newsblur.FolderEntry {
	return newsblur.FolderEntry{Folder: &newsblur.Folder{Name: name, FeedIDs: ids}}
}

func bareFeed(id int64) newsblur.FolderEntry {
	return newsblur.FolderEntry{FeedID: id}
}

func TestFoldersToChannels(t *testing.T) {
	folders := []newsblur.FolderEntry{
		folder("One", 123, 456),
		bareFeed(5917088),
		folder("Two", 789),
	}

	channels := FoldersToChannels(folders)

	want := []Channel{
		{UID: "One", Name: "One", Unread: 0},
		{UID: "Two", Name: "Two", Unread: 0},
		{UID: "notifications", Name: "notifications", Unread: 0},
	}
	if !reflect.DeepEqual(channels, want) {
		t.Errorf("FoldersToChannels = %+v, want %+v", channels, want)
	}
}

func TestFoldersToChannelsEmpty(t *testing.T) {
	channels := FoldersToChannels(nil)
	if len(channels) != 1 || channels[0].Name != "notifications" {
		t.Errorf("FoldersToChannels(nil) = %+v, want just notifications", channels)
	}
}

func TestFoldersToChannelsCountInvariant(t *testing.T) {
	// k folder entries always produce k+1 channels with notifications last.
	for k := 0; k < 5; k++ {
		var folders []newsblur.FolderEntry
		for i := 0; i < k; i++ {
			folders = append(folders, folder(string(rune('A'+i)), int64(i)))
		}
		channels := FoldersToChannels(folders)
		if len(channels) != k+1 {
			t.Errorf("k=%d: got %d channels, want %d", k, len(channels), k+1)
		}
		if last := channels[len(channels)-1]; last.Name != "notifications" {
			t.Errorf("k=%d: last channel = %q, want notifications", k, last.Name)
		}
		for _, c := range channels {
			if c.Unread != 0 {
				t.Errorf("k=%d: channel %s unread = %d, want 0", k, c.Name, c.Unread)
			}
		}
	}
}

func TestResolveFeedIDs(t *testing.T) {
	folders := []newsblur.FolderEntry{
		folder("One", 123, 456),
		bareFeed(42),
		folder("Two", 789),
		folder("One", 999),
	}

	tests := []struct {
		name    string
		channel string
		want    []int64
	}{
		{"no filter unions all folders", "", []int64{123, 456, 789, 999}},
		{"filter selects matching folders", "One", []int64{123, 456, 999}},
		{"filter selects single folder", "Two", []int64{789}},
		{"unknown channel yields empty set", "Nope", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFeedIDs(folders, tt.channel)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveFeedIDs(%q) = %v, want %v", tt.channel, got, tt.want)
			}
		})
	}
}

func TestStoriesToItems(t *testing.T) {
	stories := []newsblur.Story{
		{
			ID:         "abc987",
			Permalink:  "http://example.com/post",
			Date:       "2017-01-01 00:00:00",
			Title:      "My post",
			Content:    "Writing some <em>HTML</em>.",
			Authors:    "Ms. Foo",
			Tags:       []string{"one", "two"},
			ReadStatus: 0,
		},
		{ID: "def654", Title: "Read already", ReadStatus: 1},
	}

	items := StoriesToItems(stories)
	if len(items) != len(stories) {
		t.Fatalf("got %d items, want %d", len(items), len(stories))
	}

	want := Item{
		Type:      "entry",
		Published: "2017-01-01 00:00:00",
		URL:       "http://example.com/post",
		Author:    Author{Type: "card", Name: "Ms. Foo"},
		Category:  []string{"one", "two"},
		Name:      "My post",
		Content:   Content{HTML: "Writing some <em>HTML</em>."},
		ID:        "abc987",
		IsRead:    false,
	}
	if !reflect.DeepEqual(items[0], want) {
		t.Errorf("items[0] = %+v, want %+v", items[0], want)
	}
	if !items[1].IsRead {
		t.Error("items[1]._is_read = false, want true for nonzero read_status")
	}
}

func TestStoriesToItemsEmpty(t *testing.T) {
	items := StoriesToItems(nil)
	if items == nil || len(items) != 0 {
		t.Errorf("StoriesToItems(nil) = %v, want an empty non-nil slice", items)
	}
}

func TestBuildPaging(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		storyCount int
		want       *Paging
	}{
		{"page 3 with stories", 3, 5, &Paging{Before: "2", After: "4"}},
		{"page 3 without stories", 3, 0, &Paging{Before: "2"}},
		{"page 1 with stories", 1, 5, &Paging{After: "2"}},
		{"unpaged with stories", 0, 5, &Paging{After: "2"}},
		{"unpaged without stories", 0, 0, nil},
		{"page 2 without stories", 2, 0, &Paging{Before: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPaging(tt.page, tt.storyCount)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildPaging(%d, %d) = %+v, want %+v", tt.page, tt.storyCount, got, tt.want)
			}
		})
	}
}
