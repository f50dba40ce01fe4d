package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin/render"

	"github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/logger"
)

// Recovery returns middleware that recovers from panics, logs the stack and
// answers 500 with the generic error body. If the response was already
// started (a stream in flight) only the log entry is written.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithContext(r.Context()).Error("Panic recovered", map[string]interface{}{
					"error":  fmt.Sprintf("%v", rec),
					"stack":  string(debug.Stack()),
					"path":   r.URL.Path,
					"method": r.Method,
				})
				if sw.wroteHeader {
					return
				}
				body := render.JSON{Data: errors.Internal(nil).ToResponse()}
				body.WriteContentType(sw)
				sw.WriteHeader(http.StatusInternalServerError)
				_ = body.Render(sw)
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
