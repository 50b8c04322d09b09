package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes bounds request bodies; a logged workout is a few hundred bytes.
const DefaultMaxBodyBytes = 64 << 10

// DrainAndCloseRequest caps the request body at maxBodyBytes and, once the handler is
// done, drains what is left of it and closes it. Reads past the cap fail, so a JSON
// decoder sees an error instead of an unbounded stream.
func DrainAndCloseRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
