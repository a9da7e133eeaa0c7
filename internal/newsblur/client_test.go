package newsblur

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFeedsClassifiesOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(t *testing.T, feeds *FeedsResponse, err error)
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"authenticated": true, "folders": [{"One": [123, 456]}]}`,
			check: func(t *testing.T, feeds *FeedsResponse, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(feeds.Folders) != 1 || feeds.Folders[0].Folder == nil {
					t.Fatalf("unexpected folders: %+v", feeds.Folders)
				}
				if feeds.Folders[0].Folder.Name != "One" {
					t.Errorf("folder name = %q, want One", feeds.Folders[0].Folder.Name)
				}
			},
		},
		{
			name:   "bad status",
			status: http.StatusBadGateway,
			body:   "upstream broken",
			check: func(t *testing.T, _ *FeedsResponse, err error) {
				var apiErr *Error
				if !errors.As(err, &apiErr) {
					t.Fatalf("got %T (%v), want *Error", err, err)
				}
				if apiErr.StatusCode != http.StatusBadGateway {
					t.Errorf("StatusCode = %d, want 502", apiErr.StatusCode)
				}
			},
		},
		{
			name:   "unauthenticated payload",
			status: http.StatusOK,
			body:   `{"authenticated": false}`,
			check: func(t *testing.T, _ *FeedsResponse, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("got %T (%v), want *AuthError", err, err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer my-token" {
					t.Errorf("Authorization = %q, want Bearer my-token", got)
				}
				if got := r.Header.Get("User-Agent"); got != userAgent {
					t.Errorf("User-Agent = %q, want %q", got, userAgent)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "id", "secret")
			feeds, err := c.Feeds(context.Background(), "my-token")
			tt.check(t, feeds, err)
		})
	}
}

func TestRiverStoriesParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"authenticated": true, "stories": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "id", "secret")
	if _, err := c.RiverStories(context.Background(), "t", []int64{123, 456}, 3); err != nil {
		t.Fatalf("RiverStories: %v", err)
	}

	feeds := gotQuery["feeds"]
	if len(feeds) != 2 || feeds[0] != "123" || feeds[1] != "456" {
		t.Errorf("feeds params = %v, want [123 456]", feeds)
	}
	if got := gotQuery["page"]; len(got) != 1 || got[0] != "3" {
		t.Errorf("page param = %v, want [3]", got)
	}
}

func TestRiverStoriesOmitsPageOnFirstRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("page") {
			t.Errorf("unexpected page param in %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"authenticated": true, "stories": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "id", "secret")
	if _, err := c.RiverStories(context.Background(), "t", []int64{1}, 0); err != nil {
		t.Fatalf("RiverStories: %v", err)
	}
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/oauth/token" {
			t.Errorf("got %s %s, want POST /oauth/token", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		want := map[string]string{
			"grant_type":    "authorization_code",
			"code":          "my-code",
			"redirect_uri":  "http://localhost/newsblur/callback",
			"client_id":     "my-client-id",
			"client_secret": "my-client-secret",
		}
		for k, v := range want {
			if got := r.PostFormValue(k); got != v {
				t.Errorf("form %s = %q, want %q", k, got, v)
			}
		}
		w.Write([]byte(`{"access_token": "my-access-token", "token_type": "Bearer"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "my-client-id", "my-client-secret")
	token, err := c.ExchangeCode(context.Background(), "my-code", "http://localhost/newsblur/callback")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if token != "my-access-token" {
		t.Errorf("token = %q, want my-access-token", token)
	}
}

func TestExchangeCodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "id", "secret")
	_, err := c.ExchangeCode(context.Background(), "bad-code", "http://localhost/cb")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T (%v), want *Error", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
}

func TestAuthorizeURL(t *testing.T) {
	c := NewClient("https://newsblur.com", "my-client-id", "secret")
	got := c.AuthorizeURL("http://localhost:8080/newsblur/callback")

	want := "https://newsblur.com/oauth/authorize?client_id=my-client-id&redirect_uri=http%3A%2F%2Flocalhost%3A8080%2Fnewsblur%2Fcallback&response_type=code"
	if got != want {
		t.Errorf("AuthorizeURL = %q, want %q", got, want)
	}
}
