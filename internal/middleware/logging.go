// Package middleware contains HTTP middleware shared by all routes.
//
// WHAT IS MIDDLEWARE?
// A function that wraps an http.Handler to add behaviour around it without
// touching the handler itself:
//
//	func MyMiddleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // BEFORE the handler
//	        next.ServeHTTP(w, r)
//	        // AFTER the handler
//	    })
//	}
//
// chi's Router.Use takes exactly this shape, so anything here plugs into
// the router next to chi's own RequestID / RealIP / Recoverer.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request: method, path, status, duration, bytes,
// and the chi request ID when RequestID runs earlier in the chain.
//
// CAPTURING THE STATUS:
// http.ResponseWriter does not expose the status code or byte count after
// the fact. chi's WrapResponseWriter records both while passing writes
// through (and keeps Flusher/Hijacker working for the wrapped writer).
//
// LOG LEVELS:
// 5xx responses are logged at warn so they stand out from normal traffic.
// A failed GitHub lookup is not a 5xx: the page still renders fine.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// Handler wrote nothing; net/http sends 200.
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
