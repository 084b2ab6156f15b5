package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notecover/internal/coverservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// imports may be nil, in which case GET /imports answers 404.
func NewRouter(svc *coverservice.Service, p Panel, imports ImportLog, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, p, imports)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Panel.
	r.Get("/panel", h.GetPanel)
	r.Put("/active", h.SetActive)
	r.Post("/drop", h.Drop)

	// Covers by note path.
	r.Get("/notes/*", h.GetCover)
	r.Put("/notes/*", h.PutCover)

	r.Get("/images", h.ListImages)
	if imports != nil {
		r.Get("/imports", h.ListImports)
	}

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
