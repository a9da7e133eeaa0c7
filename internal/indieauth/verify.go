// Save as: internal/indieauth/verify.go
package indieauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// VerifyToken presents a bearer token to the user's token endpoint and
// returns the endpoint's status code. Only the status matters: 2xx accepts
// the token, anything else is forwarded to the caller as a rejection.
func (s *Service) VerifyToken(ctx context.Context, endpoint, token string) (int, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return 0, fmt.Errorf("bad token endpoint %q: %w", endpoint, err)
	}
	if err := checkDestination(u); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error reaching token endpoint %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
