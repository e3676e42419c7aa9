package middleware

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/serroba/bookmarks/internal/handlers"
	"go.uber.org/zap"
)

// Recover turns a panicking handler into a logged, generic 500 response.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
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

				logger.Error("recovered from panic",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("requestId", middleware.GetReqID(r.Context())),
					zap.Stack("stack"),
				)

				if r.Header.Get("Connection") != "Upgrade" {
					handlers.ServerError(w, r)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
