package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// TokenAuth guards mutating routes with a bearer token checked against a
// bcrypt hash. The last accepted token is remembered so repeated requests
// (drag moves, keystrokes) skip the bcrypt cost.
type TokenAuth struct {
	hash []byte

	mu       sync.Mutex
	accepted []byte
}

// NewTokenAuth returns a guard for the given bcrypt hash. An empty hash
// disables the check.
func NewTokenAuth(hash string) *TokenAuth {
	if hash == "" {
		slog.Warn("EDITOR_TOKEN_HASH not set, mutating routes are open")
	}
	return &TokenAuth{hash: []byte(hash)}
}

// Enabled reports whether a token is required.
func (a *TokenAuth) Enabled() bool {
	return len(a.hash) > 0
}

// valid checks token against the hash.
func (a *TokenAuth) valid(token string) bool {
	t := []byte(token)

	a.mu.Lock()
	cached := a.accepted
	a.mu.Unlock()
	if cached != nil && subtle.ConstantTimeCompare(cached, t) == 1 {
		return true
	}

	if bcrypt.CompareHashAndPassword(a.hash, t) != nil {
		return false
	}
	a.mu.Lock()
	a.accepted = t
	a.mu.Unlock()
	return true
}

// RequireToken returns 401 unless the request carries a valid
// "Authorization: Bearer <token>" header.
func (a *TokenAuth) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok || !a.valid(token) {
			slog.Warn("rejected editor token",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", RequestID(r.Context()),
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="catplanner"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
