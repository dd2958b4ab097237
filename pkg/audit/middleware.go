package audit

import (
	"net/http"
	"strings"
	"time"
)

// Middleware captures mutating requests and authorization denials in
// the audit trail. Reads are not logged unless logAllRequests is set.
type Middleware struct {
	logger         Logger
	logAllRequests bool
}

// NewMiddleware creates the audit middleware.
func NewMiddleware(logger Logger, logAllRequests bool) *Middleware {
	return &Middleware{
		logger:         logger,
		logAllRequests: logAllRequests,
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Handler wraps an HTTP handler with audit capture. The audit logger
// is also placed on the request context so handlers can record
// domain-specific events themselves.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := WithLogger(r.Context(), m.logger)
		ctx = WithRequestStartTime(ctx, start)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		if m.shouldLog(r, rw.statusCode) {
			// Failure to audit never fails the request.
			_ = m.logger.LogHTTPRequest(ctx, r, rw.statusCode, time.Since(start))
		}
	})
}

func (m *Middleware) shouldLog(r *http.Request, statusCode int) bool {
	if m.logAllRequests {
		return true
	}
	// Denials are always part of the trail.
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return true
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return !strings.HasPrefix(r.URL.Path, "/health")
	}
	return false
}
