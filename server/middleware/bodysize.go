package middleware

import (
	"net/http"

	"github.com/kbukum/whisperd/util"
)

const defaultMaxBodySize = 100 << 20 // 100MB

// BodySizeLimit returns middleware that restricts the request body to the
// given size string (e.g. "100MB", "512KB", "1GB"). Reads past the limit
// fail with *http.MaxBytesError.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
