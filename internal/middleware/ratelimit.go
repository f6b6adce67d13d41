// File: internal/middleware/ratelimit.go
package middleware

import (
	"fmt"
	"log"
	"net/http"

	"github.com/tmsanders/go-preceptor/internal/ratelimit"
)

// RateLimitMiddleware guards an endpoint group with a per-IP attempt
// limiter. Blocked callers get a JSON 429 with Retry-After set.
func RateLimitMiddleware(limiter *ratelimit.AttemptLimiter, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ratelimit.ClientIP(r)
			decision := limiter.Allow(clientIP)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt.Unix()))

			if !decision.Allowed {
				status := "rate limited"
				if decision.Banned {
					status = "banned"
				}
				log.Printf("[RateLimit] blocked %s request from %s (%s)", name, clientIP, status)

				if decision.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%.0f", decision.RetryAfter.Seconds()))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many attempts, please try again later"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
