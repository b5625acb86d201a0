package transport

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// CheckToken reports whether got matches the configured token.
func CheckToken(want, got string) bool {
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// AuthMiddleware enforces bearer token authentication. An empty token
// disables the check.
func AuthMiddleware(token string, open ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range open {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}

			got := BearerToken(r.Header.Get("Authorization"))
			if got == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: "missing bearer token"})
				return
			}
			if !CheckToken(token, got) {
				writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: "invalid bearer token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
