package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// editorKeyFrom pulls the bearer token off a request, empty when absent.
func editorKeyFrom(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// IsEditor reports whether the request carries the editor key.
func IsEditor(r *http.Request, editorKey string) bool {
	candidate := editorKeyFrom(r)
	if candidate == "" || editorKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(editorKey)) == 1
}

// RequireEditor guards the admin routes. Who holds the key is an external
// concern; the middleware only checks possession.
func RequireEditor(editorKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEditor(r, editorKey) {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "edit rights required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
