// Save as: internal/indieauth/discovery.go
package indieauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	securitynet "baffle/internal/security/netutil"

	"golang.org/x/net/html"
)

const userAgent = "Baffle (https://baffle.tech)"

// Service locates and queries IndieAuth token endpoints. Both operations hit
// URLs the user controls, so destinations are validated against private
// address ranges before any request is made.
type Service struct {
	client *http.Client
}

func NewService() *Service {
	return &Service{
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
	}
}

// DiscoverTokenEndpoint fetches siteURL and extracts the user's token
// endpoint. Strategies in precedence order, first match wins:
//  1. a Link response header entry with rel token_endpoint,
//  2. a <link rel="token_endpoint"> element in the HTML body.
// Relative endpoints are resolved against the final fetched URL.
func (s *Service) DiscoverTokenEndpoint(ctx context.Context, siteURL string) (string, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("bad web site URL %q: %w", siteURL, err)
	}
	if err := checkDestination(u); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error fetching %s: %w", siteURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("got status %d from %s", resp.StatusCode, siteURL)
	}

	// Redirects may have moved us; resolve relative hrefs against where we
	// actually landed.
	base := resp.Request.URL

	if endpoint := endpointFromLinkHeader(resp.Header.Values("Link"), base); endpoint != "" {
		return endpoint, nil
	}

	const maxBodyBytes = 1 << 20
	if endpoint := endpointFromHTML(io.LimitReader(resp.Body, maxBodyBytes), base); endpoint != "" {
		return endpoint, nil
	}

	return "", fmt.Errorf("no token_endpoint found at %s", siteURL)
}

var (
	linkURLRe = regexp.MustCompile(`<([^>]+)>`)
	linkRelRe = regexp.MustCompile(`rel\s*=\s*(?:"([^"]*)"|'([^']*)'|([^;,\s]+))`)
)

// endpointFromLinkHeader scans comma-separated link-values for a rel
// containing token_endpoint. The regexes tolerate double-quoted,
// single-quoted and bare rel values.
func endpointFromLinkHeader(values []string, base *url.URL) string {
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			urlMatch := linkURLRe.FindStringSubmatch(part)
			if urlMatch == nil {
				continue
			}
			relMatch := linkRelRe.FindStringSubmatch(part)
			if relMatch == nil {
				continue
			}
			rel := relMatch[1] + relMatch[2] + relMatch[3]
			if !relContains(rel, "token_endpoint") {
				continue
			}
			if resolved, err := base.Parse(strings.TrimSpace(urlMatch[1])); err == nil {
				return resolved.String()
			}
		}
	}
	return ""
}

// endpointFromHTML walks the document for the first matching <link> element.
func endpointFromHTML(r io.Reader, base *url.URL) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}

	var endpoint string
	var findLink func(*html.Node)
	findLink = func(n *html.Node) {
		if endpoint != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, href string
			for _, a := range n.Attr {
				switch a.Key {
				case "rel":
					rel = a.Val
				case "href":
					href = a.Val
				}
			}
			if relContains(rel, "token_endpoint") && href != "" {
				if resolved, err := base.Parse(href); err == nil {
					endpoint = resolved.String()
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findLink(c)
		}
	}
	findLink(doc)

	return endpoint
}

// relContains reports whether want appears in a space-separated rel list.
func relContains(rel, want string) bool {
	for _, r := range strings.Fields(strings.ToLower(rel)) {
		if r == want {
			return true
		}
	}
	return false
}

// checkDestination resolves the host and blocks private/reserved ranges
// (loopback stays allowed for tests).
func checkDestination(u *url.URL) error {
	host := u.Hostname()
	if host == "" {
		return errors.New("web site URL has no host")
	}
	if ip := net.ParseIP(host); ip != nil {
		if securitynet.IsPrivateIP(ip) && !ip.IsLoopback() {
			return errors.New("destination resolves to private/reserved address")
		}
		return nil
	}
	if addrs, err := net.LookupIP(host); err == nil {
		for _, a := range addrs {
			if securitynet.IsPrivateIP(a) && !a.IsLoopback() {
				return errors.New("destination resolves to private/reserved address")
			}
		}
	}
	return nil
}
