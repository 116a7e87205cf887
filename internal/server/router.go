package server

import (
	"net/http"

	"github.com/dealsync/dealsync/internal/server/handlers"
	"github.com/dealsync/dealsync/internal/server/middleware"
	"github.com/dealsync/dealsync/internal/server/response"
)

// setupRouter builds the route table and wraps it in the middleware chain.
func (s *Server) setupRouter() http.Handler {
	h := handlers.New(s.ds, s.settings, s.sseBroadcaster, s.logger)

	mux := http.NewServeMux()

	// Browsers probe for a favicon; a 204 keeps it out of the error logs.
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/health", method(http.MethodGet, h.HandleHealth))
	mux.HandleFunc("/api/status", method(http.MethodGet, h.HandleStatus))
	mux.HandleFunc("/api/history", method(http.MethodGet, h.HandleHistory))
	mux.HandleFunc("/api/sync", method(http.MethodPost, h.HandleSync))
	mux.HandleFunc("/api/events", method(http.MethodGet, h.HandleEvents))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleGetConfig(w, r)
		case http.MethodPut:
			h.HandleUpdateConfig(w, r)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	return s.applyMiddleware(mux)
}

// method restricts a handler to one verb; everything else gets the JSON
// 405 envelope rather than the mux's plain-text default.
func method(verb string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != verb {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h(w, r)
	}
}

// applyMiddleware wraps handler in recovery, logging and (when enabled)
// CORS, outermost first.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if s.config.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(s.config.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = s.config.CORSOrigins
			corsConfig.AllowAll = false
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	return middleware.Chain(chain...)(handler)
}
