package middlewares

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a logged 500 response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection quietly.
func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("panic recovered",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("route", r.Method+" "+r.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				WriteError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
