package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// preflightCacheSeconds is how long browsers may cache an OPTIONS answer.
const preflightCacheSeconds = 24 * 60 * 60

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	AllowAll       bool
}

// DefaultCORSConfig allows every origin. Dashboards are usually served
// from a different origin than the API, so open is the useful default;
// narrow AllowedOrigins when the deployment knows its callers.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		AllowAll:       true,
	}
}

// CORS answers preflight requests and stamps allow headers on everything
// else.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	allowMethods := strings.Join(config.AllowedMethods, ", ")
	allowHeaders := strings.Join(config.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(preflightCacheSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()

			switch {
			case config.AllowAll || len(config.AllowedOrigins) == 0:
				headers.Set("Access-Control-Allow-Origin", "*")
			case originAllowed(config.AllowedOrigins, r.Header.Get("Origin")):
				// Echoing the origin requires Vary so caches keep
				// per-origin copies apart.
				headers.Set("Access-Control-Allow-Origin", r.Header.Get("Origin"))
				headers.Set("Vary", "Origin")
			}

			headers.Set("Access-Control-Allow-Methods", allowMethods)
			headers.Set("Access-Control-Allow-Headers", allowHeaders)
			headers.Set("Access-Control-Max-Age", maxAge)

			if r.Method == http.MethodOptions {
				// Preflight ends here; the real request follows separately.
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed reports whether origin appears in the allow list. The
// comparison is exact, including scheme and port.
func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, candidate := range allowed {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}
