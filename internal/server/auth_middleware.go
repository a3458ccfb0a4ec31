package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// tokenAuth rejects requests that carry neither a matching bearer token nor
// a matching token query parameter. Browsers cannot set headers on websocket
// handshakes, hence the query fallback.
func tokenAuth(token string, next http.Handler) http.Handler {
	want := []byte(token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("token")
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			got = strings.TrimPrefix(h, "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			writeError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
