// internal/newsblur/client.go
// Client for the NewsBlur API, https://newsblur.com/api
package newsblur

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const userAgent = "Baffle (https://baffle.tech)"

// Error reports a failed NewsBlur call: a transport failure or a non-200
// status. StatusCode is what the gateway relays to its own caller.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// AuthError reports the odd NewsBlur failure mode where the HTTP call
// succeeds with 200 but the payload's authenticated flag is false. It is
// deliberately a different type from Error: the transport worked, the
// credential did not, and the two map to different response codes.
type AuthError struct {
	Body string
}

func (e *AuthError) Error() string {
	return "couldn't log into NewsBlur despite HTTP 200: " + e.Body
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
}

// NewClient creates a NewsBlur client. Timeout policy lives on the HTTP
// client here, not in the request paths.
func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// get issues an authenticated GET and classifies the outcome three ways:
// *Error for transport/status failures, *AuthError when the payload says
// unauthenticated, nil with v populated on success.
func (c *Client) get(ctx context.Context, path, token string, v any) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{StatusCode: http.StatusBadGateway, Message: "NewsBlur error: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{StatusCode: resp.StatusCode, Message: "NewsBlur error: " + http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	var env struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if !env.Authenticated {
		return nil, &AuthError{Body: string(body)}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return body, nil
}

// Feeds fetches the folder/feed listing.
func (c *Client) Feeds(ctx context.Context, token string) (*FeedsResponse, error) {
	var feeds FeedsResponse
	if _, err := c.get(ctx, "/reader/feeds", token, &feeds); err != nil {
		return nil, err
	}
	return &feeds, nil
}

// RiverStories fetches stories for the given feed ids. page <= 0 means the
// implicit first page.
func (c *Client) RiverStories(ctx context.Context, token string, feedIDs []int64, page int) (*StoriesResponse, error) {
	params := url.Values{}
	for _, id := range feedIDs {
		params.Add("feeds", strconv.FormatInt(id, 10))
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	var stories StoriesResponse
	if _, err := c.get(ctx, "/reader/river_stories?"+params.Encode(), token, &stories); err != nil {
		return nil, err
	}
	return &stories, nil
}

// Profile fetches the authenticated user's profile. The raw body is kept on
// the response for storage.
func (c *Client) Profile(ctx context.Context, token string) (*ProfileResponse, error) {
	var profile ProfileResponse
	body, err := c.get(ctx, "/social/profile", token, &profile)
	if err != nil {
		return nil, err
	}
	profile.Raw = body
	return &profile, nil
}

// AuthorizeURL builds the URL a signup is redirected to.
func (c *Client) AuthorizeURL(redirectURI string) string {
	q := url.Values{
		"response_type": {"code"},
		"redirect_uri":  {redirectURI},
		"client_id":     {c.clientID},
	}
	return c.baseURL + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{StatusCode: http.StatusBadGateway, Message: "NewsBlur error: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{StatusCode: resp.StatusCode, Message: "NewsBlur error: " + http.StatusText(resp.StatusCode)}
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("error decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}
	return token.AccessToken, nil
}
