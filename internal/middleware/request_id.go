package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"medivault/internal/platform/logger"
)

const loggerKey ctxKey = "logger"

// RequestLogger cuelga del contexto un logger con el request id de chi
// (requiere chimw.RequestID antes) y loguea cada request al terminar.
func RequestLogger(base logger.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := base.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey, log)))

			log.Info("http request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

// LoggerFrom devuelve el logger del request o uno mudo.
func LoggerFrom(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey).(logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}
