package main

import (
	"math"
	"net/http"
	"strconv"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Routes builds the gateway's HTTP handler. A nil limiter disables rate
// limiting of the stream endpoints.
func (g *Gateway) Routes(limiter *rate.Limiter) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/chat/stream", rateLimitMiddleware(limiter, http.HandlerFunc(g.ChatStream)))
	mux.Handle("/api/agui/stream", rateLimitMiddleware(limiter, http.HandlerFunc(g.AGUIStream)))
	mux.HandleFunc("/api/health", g.Health)

	return otelhttp.NewHandler(corsMiddleware(mux), "a2gate-gateway")
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware rejects requests with 429 when limiter has no tokens.
func rateLimitMiddleware(limiter *rate.Limiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		res := limiter.Reserve()
		if !res.OK() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
