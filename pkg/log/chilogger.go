package log

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Logger is a chi middleware writing one zap entry per request.
func Logger(l *zap.Logger, name string) func(next http.Handler) http.Handler {
	if l == nil {
		panic("log.Logger received a nil *zap.Logger")
	}

	logger := l.WithOptions(zap.AddCallerSkip(1)).Named(name)

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				fields := []zap.Field{
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("http_method", r.Method),
					zap.String("http_path", r.URL.Path),
					zap.Int("http_status_code", status),
					zap.Int("response_bytes", ww.BytesWritten()),
					zap.Duration("latency", time.Since(start)),
				}

				msg := fmt.Sprintf("HTTP request completed: %s", r.URL.Path)
				switch {
				case status >= 500:
					logger.Error(msg, fields...)
				case status >= 400:
					logger.Warn(msg, fields...)
				case r.URL.Path == "/metrics":
					logger.Debug(msg, fields...)
				default:
					logger.Info(msg, fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
