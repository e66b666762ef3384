package providers

import (
	"net/http"
	"time"
)

// unmatchedRoute labels requests outside the registered API paths so stray
// URLs cannot grow the metric label set.
const unmatchedRoute = "unmatched"

type recordingWriter struct {
	http.ResponseWriter
	status int
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware counts and times API calls per registered route and
// logs one access line per request at debug level.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, router RouterProviderInterface, next http.Handler) http.Handler {
	known := make(map[string]bool)
	for _, route := range router.GetRoutes() {
		known[route.Url] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		took := time.Since(start)

		route := r.URL.Path
		if !known[route] {
			route = unmatchedRoute
		}
		metrics.IncRequestsTotal(route, rw.status)
		metrics.ObserveRequestDuration(route, took)
		logger.Debugf(GetLogTypeByRequestType(r.Method), "%s %s %d %s", r.Method, r.URL.Path, rw.status, took)
	})
}
