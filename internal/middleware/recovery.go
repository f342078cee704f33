package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/wanderlust/wanderlust/internal/render"
)

// Recoverer is a middleware that recovers from panics, logs them with the
// stack and renders the 500 error page.
func Recoverer(logger *slog.Logger, responder *render.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				responder.Error(w, r, http.StatusInternalServerError, render.DefaultErrorMessage)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
