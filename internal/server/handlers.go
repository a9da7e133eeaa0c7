// internal/server/handlers.go
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"baffle/internal/database"
	"baffle/internal/microsub"
	"baffle/internal/newsblur"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMicrosub serves /newsblur/{username}: the Microsub endpoint a reader
// app is configured with. Every request is gated on the caller's IndieAuth
// token before anything is forwarded upstream.
func (s *Server) handleMicrosub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		s.error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	username := strings.TrimPrefix(r.URL.Path, "/newsblur/")
	if username == "" || strings.Contains(username, "/") {
		http.NotFound(w, r)
		return
	}

	user, ok := s.authenticate(w, r, username)
	if !ok {
		return
	}

	action := r.FormValue("action")
	switch action {
	case "channels":
		s.handleChannels(w, r, user)
	case "timeline":
		s.handleTimeline(w, r, user)
	case "preview":
		s.handlePreview(w, r)
	default:
		s.error(w, http.StatusNotImplemented, action+" action not supported yet")
	}
}

// authenticate runs the request gate: the Authorization header must carry a
// bearer token, the path's username must be signed up, and the user's own
// token endpoint must accept the token. On rejection it writes the response
// itself and returns false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request, username string) (database.User, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		s.error(w, http.StatusUnauthorized, "Missing Authorization header")
		return database.User{}, false
	}
	parts := strings.Split(authz, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		s.error(w, http.StatusBadRequest, "Bad Authorization header: "+authz)
		return database.User{}, false
	}
	token := parts[1]

	user, err := s.store.GetUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.error(w, http.StatusBadRequest, "User "+username+" not found. Try signing up on https://baffle.tech !")
			return database.User{}, false
		}
		s.logger.Printf("Error loading user %s: %v", username, err)
		s.error(w, http.StatusInternalServerError, "Internal Server Error")
		return database.User{}, false
	}
	if user.TokenEndpoint == "" || user.NewsBlurToken == "" {
		// Signup only persists complete records; a partial one is a bug.
		s.logger.Printf("User %s has an incomplete record", username)
		s.error(w, http.StatusInternalServerError, "Internal Server Error")
		return database.User{}, false
	}

	status, err := s.verifier.VerifyToken(r.Context(), user.TokenEndpoint, token)
	if err != nil {
		s.logger.Printf("Error verifying token against %s: %v", user.TokenEndpoint, err)
		s.error(w, http.StatusBadGateway, "Couldn't reach token endpoint "+user.TokenEndpoint)
		return database.User{}, false
	}
	if status < 200 || status > 299 {
		s.error(w, status, "token rejected by "+user.TokenEndpoint)
		return database.User{}, false
	}

	return user, true
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request, user database.User) {
	feeds, err := s.newsblur.Feeds(r.Context(), user.NewsBlurToken)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, microsub.ChannelList{
		Channels: microsub.FoldersToChannels(feeds.Folders),
	})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request, user database.User) {
	// before and after are both page numbers; after wins when both appear.
	cursor := r.FormValue("after")
	if cursor == "" {
		cursor = r.FormValue("before")
	}
	page := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 1 {
			s.error(w, http.StatusBadRequest, "Bad page number: "+cursor)
			return
		}
		page = n
	}

	feeds, err := s.newsblur.Feeds(r.Context(), user.NewsBlurToken)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	feedIDs := microsub.ResolveFeedIDs(feeds.Folders, r.FormValue("channel"))

	stories, err := s.newsblur.RiverStories(r.Context(), user.NewsBlurToken, feedIDs, page)
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, microsub.Timeline{
		Items:  microsub.StoriesToItems(stories.Stories),
		Paging: microsub.BuildPaging(page, len(stories.Stories)),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	feedURL := r.FormValue("url")
	if feedURL == "" {
		s.error(w, http.StatusBadRequest, "Missing url parameter")
		return
	}
	items, err := s.previewer.Preview(r.Context(), feedURL)
	if err != nil {
		s.error(w, http.StatusBadRequest, fmt.Sprintf("Couldn't preview %s: %v", feedURL, err))
		return
	}
	RespondWithJSON(w, http.StatusOK, microsub.Timeline{Items: items})
}

// upstreamError maps a NewsBlur call failure onto the gateway's response.
// Status failures are relayed as-is, the 200-but-unauthenticated case means
// the stored token went stale, and anything else is a bad gateway.
func (s *Server) upstreamError(w http.ResponseWriter, err error) {
	var nbErr *newsblur.Error
	if errors.As(err, &nbErr) {
		s.error(w, nbErr.StatusCode, nbErr.Message)
		return
	}
	var authErr *newsblur.AuthError
	if errors.As(err, &authErr) {
		s.error(w, http.StatusUnauthorized, "NewsBlur no longer accepts the stored token; please sign up again")
		return
	}
	s.logger.Printf("Upstream error: %v", err)
	s.error(w, http.StatusBadGateway, "NewsBlur error: "+err.Error())
}

func (s *Server) error(w http.ResponseWriter, code int, message string) {
	s.logger.Printf("%d %s", code, message)
	RespondWithError(w, code, message)
}
