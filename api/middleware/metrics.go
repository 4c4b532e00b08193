package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type requestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Metrics observes request latency keyed by the matched chi route pattern.
func Metrics(observer requestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			observer.ObserveRequest(r.Method, routePattern(r), statusOf(ww), time.Since(start))
		})
	}
}
