package middleware

import (
	"net/http"
)

// DefaultMaxBodySize applies when no positive limit is configured.
const DefaultMaxBodySize int64 = 10 * 1024 * 1024

// BodySizeLimit caps the request body at limit bytes. Reading past the limit
// fails with *http.MaxBytesError, which handlers answer with 413.
func BodySizeLimit(limit int64) Middleware {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
