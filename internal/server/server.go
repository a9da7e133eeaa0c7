// internal/server/server.go
package server

import (
	"context"
	"log"
	"net/http"

	"baffle/internal/database"
	"baffle/internal/microsub"
	"baffle/internal/newsblur"
)

type Config struct {
	// BaseURL overrides the OAuth callback origin derived from the inbound
	// request, for deployments behind a proxy that rewrites Host.
	BaseURL string
}

// TokenVerifier checks a caller's bearer token against a token endpoint and
// returns the endpoint's status code.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, endpoint, token string) (int, error)
}

// EndpointDiscoverer locates the IndieAuth token endpoint for a web site.
// It is a separate collaborator so signup tests can stub it.
type EndpointDiscoverer interface {
	DiscoverTokenEndpoint(ctx context.Context, siteURL string) (string, error)
}

// Previewer renders an arbitrary feed URL as timeline items.
type Previewer interface {
	Preview(ctx context.Context, feedURL string) ([]microsub.Item, error)
}

type Server struct {
	store      database.UserStore
	newsblur   *newsblur.Client
	verifier   TokenVerifier
	discoverer EndpointDiscoverer
	previewer  Previewer
	logger     *log.Logger
	config     Config
}

func NewServer(store database.UserStore, nb *newsblur.Client, verifier TokenVerifier, discoverer EndpointDiscoverer, previewer Previewer, logger *log.Logger, config Config) *Server {
	return &Server{
		store:      store,
		newsblur:   nb,
		verifier:   verifier,
		discoverer: discoverer,
		previewer:  previewer,
		logger:     logger,
		config:     config,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/newsblur/start", s.handleOAuthStart)
	mux.HandleFunc("/newsblur/callback", s.handleOAuthCallback)
	mux.HandleFunc("/newsblur/", s.handleMicrosub)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.handleIndex(w, r)
	})

	return gzipMiddleware(mux)
}

func (s *Server) Start(addr string) error {
	s.logger.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}
