package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/hongminglow/arcade-be/internal/http/respond"
)

// RateLimit limits requests per client IP to perMinute. Zero disables it.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respond.Error(w, http.StatusTooManyRequests, "Too many requests, try again later")
		}),
	)
}
