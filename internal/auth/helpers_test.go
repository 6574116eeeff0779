package auth_test

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retailpulse/retailpulse/internal/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(handler *auth.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return r
}
