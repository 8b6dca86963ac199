package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPMetricsMiddleware records count and latency per route and status
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		ObserveHTTPRequest(r.Method, routeLabel(r), strconv.Itoa(sw.status), time.Since(start))
	})
}

// routeLabel keeps label cardinality bounded. The mux pattern is only set
// on requests it saw directly, so path ids are collapsed to "{id}" otherwise.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	segs := strings.Split(r.URL.Path, "/")
	for i, s := range segs {
		if len(s) == 36 {
			if _, err := uuid.Parse(s); err == nil {
				segs[i] = "{id}"
			}
		}
	}
	return strings.Join(segs, "/")
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
