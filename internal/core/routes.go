package core

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// defaultRequestTimeout is the soft deadline applied to request contexts.
const defaultRequestTimeout = 29 * time.Second

// defaultRedactedHeaders lists header names masked in request logs.
var defaultRedactedHeaders = []string{
	"Authorization",
	"Cookie",
}

// MountRoutes registers the global middleware chain, the /v1 group, and the
// health endpoint.
//
// Middleware ordering: Recoverer first so every panic is caught, then the
// context deadline, then request ID generation so everything downstream
// (including logging) can correlate, then security headers, then logging.
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(defaultRequestTimeout))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(s.SecurityHeadersMiddleware)
	s.router.Use(RequestLogger(s.Logger, defaultRedactedHeaders))

	s.router.Route("/v1", func(r chi.Router) {
		for _, registrar := range s.V1RouteRegistrars {
			registrar(r)
		}
	})

	s.router.Get("/healthz", s.HandleHealth)
}

// healthResponse is the JSON body for the health endpoint.
type healthResponse struct {
	Status string `json:"status"`
	Env    string `json:"env,omitempty"`
}

// HandleHealth reports liveness. The service holds no critical external
// dependency at request time (the weather upstream is checked lazily), so
// this is a static response.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	env := ""
	if s.Config != nil {
		env = s.Config.AppEnv
	}
	JSON(w, r, http.StatusOK, healthResponse{Status: "healthy", Env: env})
}
