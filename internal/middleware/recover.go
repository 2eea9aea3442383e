package middleware

import (
	"net/http"
	"runtime/debug"
)

// Recover convierte un panic en 500 y lo loguea con el logger del request.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			LoggerFrom(r.Context()).Error("panic recovered", map[string]any{
				"panic":  rec,
				"method": r.Method,
				"path":   r.URL.Path,
				"stack":  string(debug.Stack()),
			})
			http.Error(w, "internal error", http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
