package middleware

import (
	"io"
	"net/http"
)

// frame streams can be large; past this the connection is dropped instead of drained
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest discards up to maxDrainBytes of the body the handler
// left unread and closes it, so small requests keep their connection alive.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil {
				return
			}
			_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
			_ = r.Body.Close()
		})
	}
}
