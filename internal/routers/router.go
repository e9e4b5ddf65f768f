package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"docsync/internal/api"
	"docsync/internal/engine"
	"docsync/internal/metrics"
)

func New(log *zap.Logger, eng *engine.Engine) http.Handler {
	h := api.NewHandlers(log, eng)
	r := chi.NewRouter()

	r.Get("/healthz", h.Health)
	r.Get("/api/v1/status", h.Status)
	r.Get("/api/v1/documents/{id}", h.GetDocument)

	r.Get("/ws", h.DocumentWS)

	r.Handle("/metrics", metrics.Handler())

	return r
}
