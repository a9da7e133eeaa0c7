// internal/server/oauth.go
// Signup flow: redirect to NewsBlur's OAuth consent page, then on callback
// exchange the code, fetch the profile, discover the site's IndieAuth token
// endpoint, and persist the lot as one user record.
package server

import (
	"net/http"

	"baffle/internal/database"
)

// redirectURI derives the OAuth callback URL. BaseURL takes priority so a
// deployment behind a proxy registers a stable URI with NewsBlur.
func (s *Server) redirectURI(r *http.Request) string {
	if s.config.BaseURL != "" {
		return s.config.BaseURL + "/newsblur/callback"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/newsblur/callback"
}

func (s *Server) handleOAuthStart(w http.ResponseWriter, r *http.Request) {
	authURL := s.newsblur.AuthorizeURL(s.redirectURI(r))
	s.logger.Printf("Redirecting to %s", authURL)
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	if code == "" {
		s.error(w, http.StatusBadRequest, "Missing code parameter")
		return
	}

	token, err := s.newsblur.ExchangeCode(r.Context(), code, s.redirectURI(r))
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	profile, err := s.newsblur.Profile(r.Context(), token)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	if profile.UserProfile.Username == "" {
		s.error(w, http.StatusBadGateway, "NewsBlur profile response missing username")
		return
	}
	// Discovery needs somewhere to look. Nothing is persisted until the whole
	// chain succeeds, so a retry after fixing the profile starts clean.
	if profile.UserProfile.Website == "" {
		s.error(w, http.StatusBadRequest, "Please add a web site to your NewsBlur profile, then sign up again.")
		return
	}

	endpoint, err := s.discoverer.DiscoverTokenEndpoint(r.Context(), profile.UserProfile.Website)
	if err != nil {
		s.error(w, http.StatusBadRequest, "Couldn't discover token endpoint: "+err.Error())
		return
	}

	user := database.User{
		Username:      profile.UserProfile.Username,
		NewsBlurToken: token,
		TokenEndpoint: endpoint,
		Profile:       string(profile.Raw),
	}
	if err := s.store.SaveUser(r.Context(), user); err != nil {
		s.logger.Printf("Error saving user %s: %v", user.Username, err)
		s.error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.logger.Printf("Signed up %s with token endpoint %s", user.Username, endpoint)
	s.renderPage(w, pageData{Username: user.Username, Endpoint: s.endpointURL(r, user.Username)})
}

// endpointURL is the Microsub URL the freshly signed-up user pastes into
// their reader.
func (s *Server) endpointURL(r *http.Request, username string) string {
	if s.config.BaseURL != "" {
		return s.config.BaseURL + "/newsblur/" + username
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/newsblur/" + username
}
