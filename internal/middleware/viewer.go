package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const viewerKey ctxKey = "viewer"

// viewerHeader names the header carrying the simulated viewer identity.
// There is no real identity verification in this system; the header stands
// in for an authenticated principal.
const viewerHeader = "X-Viewer"

// WithViewer extracts the viewer identity from the request header and
// stores it in the request context. Requests without the header are treated
// as coming from the given default (the document owner).
func WithViewer(defaultViewer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := r.Header.Get(viewerHeader)
			if viewer == "" {
				viewer = defaultViewer
			}
			ctx := context.WithValue(r.Context(), viewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetViewerFromContext extracts the viewer identity from the request
// context. Returns an empty string if not found.
func GetViewerFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(viewerKey).(string); ok {
		return s
	}
	return ""
}
