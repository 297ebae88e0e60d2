package middleware

import "net/http"

// DefaultServerHeader is what the decoy reports itself as
const DefaultServerHeader = "uvicorn"

// DecoyHeadersConfig holds the response headers the decoy presents
type DecoyHeadersConfig struct {
	ServerHeader string
}

// DecoyHeaders returns a middleware that makes responses look like they come
// from the server being impersonated. Headers a stock deployment of that
// server wouldn't send are not added.
func DecoyHeaders(config DecoyHeadersConfig) func(http.Handler) http.Handler {
	server := config.ServerHeader
	if server == "" {
		server = DefaultServerHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Server", server)

			// attacker-supplied JSON must never render as HTML
			w.Header().Set("X-Content-Type-Options", "nosniff")

			next.ServeHTTP(w, r)
		})
	}
}
