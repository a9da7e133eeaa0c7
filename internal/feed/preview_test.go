package feed

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example Blog</title>
  <link>https://example.com</link>
  <item>
    <title>First post</title>
    <link>https://example.com/first</link>
    <guid>https://example.com/first</guid>
    <description>Writing some &lt;em&gt;HTML&lt;/em&gt;.</description>
    <author>foo@example.com (Ms. Foo)</author>
    <category>one</category>
    <pubDate>Sun, 01 Jan 2017 00:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Second post</title>
    <link>https://example.com/second</link>
    <guid>https://example.com/second</guid>
  </item>
</channel>
</rss>`

func TestPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testRSS))
	}))
	defer srv.Close()

	p := NewPreviewer(log.New(io.Discard, "", 0))
	items, err := p.Preview(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	first := items[0]
	if first.Type != "entry" {
		t.Errorf("type = %q, want entry", first.Type)
	}
	if first.Name != "First post" {
		t.Errorf("name = %q, want First post", first.Name)
	}
	if first.URL != "https://example.com/first" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Published != "2017-01-01T00:00:00Z" {
		t.Errorf("published = %q, want 2017-01-01T00:00:00Z", first.Published)
	}
	if first.Content.HTML == "" {
		t.Error("content.html is empty")
	}
	if first.ID != "https://example.com/first" {
		t.Errorf("_id = %q", first.ID)
	}
}

func TestPreviewBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewPreviewer(log.New(io.Discard, "", 0))
	if _, err := p.Preview(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a 404 feed URL")
	}
}

func TestPreviewNotAFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not a feed</body></html>"))
	}))
	defer srv.Close()

	p := NewPreviewer(log.New(io.Discard, "", 0))
	if _, err := p.Preview(context.Background(), srv.URL); err == nil {
		t.Fatal("expected a parse error for an HTML page")
	}
}
