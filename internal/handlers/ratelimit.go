package handlers

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket shared by every mutating request
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter creates a limiter allowing rps requests per second with the
// given burst. It returns nil when rps <= 0, which disables limiting.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Middleware rejects POST, PUT, PATCH and DELETE requests once the bucket is
// empty. Reads are never limited.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l == nil || !isMutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		res := l.bucket.Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			respondError(w, ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
