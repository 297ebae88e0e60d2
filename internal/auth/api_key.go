package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
)

// APIKeyHeader is the request header carrying the API key
const APIKeyHeader = "X-API-Key"

// APIKeySet holds the SHA256 hashes of the accepted keys
type APIKeySet struct {
	hashes [][sha256.Size]byte
}

// NewAPIKeySet hashes the accepted keys. Blank entries are ignored.
func NewAPIKeySet(keys []string) *APIKeySet {
	set := &APIKeySet{}
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		set.hashes = append(set.hashes, sha256.Sum256([]byte(key)))
	}
	return set
}

// Empty reports whether no keys are configured
func (s *APIKeySet) Empty() bool {
	return len(s.hashes) == 0
}

// Valid compares key against every accepted key in constant time
func (s *APIKeySet) Valid(key string) bool {
	if key == "" {
		return false
	}

	candidate := sha256.Sum256([]byte(key))
	match := 0
	for _, hash := range s.hashes {
		match |= subtle.ConstantTimeCompare(candidate[:], hash[:])
	}
	return match == 1
}

// RequireAPIKey rejects requests whose X-API-Key header is not in keys with
// 401 {"detail":"Invalid API key"}. An empty set lets every request through.
func RequireAPIKey(keys *APIKeySet, ipConfig *pkghttp.IPConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keys.Empty() || keys.Valid(r.Header.Get(APIKeyHeader)) {
				next.ServeHTTP(w, r)
				return
			}

			logger.WarnContext(r.Context(), "rejected request with invalid API key",
				slog.String("path", r.URL.Path),
				slog.String("ip_address", pkghttp.ExtractClientIP(r, ipConfig)))
			pkghttp.WriteUnauthorized(w, "Invalid API key")
		})
	}
}
