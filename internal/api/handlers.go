package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notecover/internal/apperr"
	"github.com/starford/notecover/internal/coverservice"
	"github.com/starford/notecover/internal/journal"
	"github.com/starford/notecover/internal/models"
	"github.com/starford/notecover/internal/panel"
)

const maxDropBytes = 50 << 20 // 50 MB

// Panel is what the handlers need from the panel controller.
type Panel interface {
	Current() models.View
	Submit(ctx context.Context, ev panel.Event) error
}

// ImportLog lists past import attempts.
type ImportLog interface {
	Recent(ctx context.Context, note string, limit int) ([]journal.Entry, error)
}

// Handler holds API route handlers.
type Handler struct {
	svc     *coverservice.Service
	panel   Panel
	imports ImportLog
}

// NewHandler creates a new Handler.
func NewHandler(svc *coverservice.Service, p Panel, imports ImportLog) *Handler {
	return &Handler{svc: svc, panel: p, imports: imports}
}

// coverNotePath extracts the note path from /api/notes/{path}/cover.
// Supports encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func coverNotePath(r *http.Request) (string, bool) {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	raw, ok := strings.CutSuffix(raw, "/cover")
	if !ok || raw == "" {
		return "", false
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw, true
	}
	return decoded, true
}

// GetPanel handles GET /api/panel.
//
//	@Summary		Current panel view
//	@Tags			panel
//	@Produce		json
//	@Success		200	{object}	models.View
//	@Security		BearerAuth
//	@Router			/panel [get]
func (h *Handler) GetPanel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.panel.Current())
}

// SetActive handles PUT /api/active.
//
//	@Summary		Switch the note the panel follows
//	@Tags			panel
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SetActiveRequest	true	"Active note"
//	@Success		202		{object}	AcceptedResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/active [put]
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.submit(w, r, panel.DocumentSwitched{Path: strings.TrimPrefix(req.Path, "/")})
}

// Drop handles POST /api/drop (multipart/form-data, field "file").
//
//	@Summary		Drop an image onto the panel
//	@Tags			panel
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image file"
//	@Success		202		{object}	AcceptedResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/drop [post]
func (h *Handler) Drop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDropBytes)

	if err := r.ParseMultipartForm(maxDropBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid multipart")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field in multipart form")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	h.submit(w, r, panel.FileDropped{Name: header.Filename, Data: data})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, ev panel.Event) {
	if err := h.panel.Submit(r.Context(), ev); err != nil {
		slog.Error("panel submit failed", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "panel unavailable")
		return
	}
	writeJSON(w, http.StatusAccepted, AcceptedResponse{Status: "accepted"})
}

// GetCover handles GET /api/notes/{path}/cover.
//
//	@Summary		Resolve a note's cover image
//	@Tags			covers
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	models.View
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path}/cover [get]
func (h *Handler) GetCover(w http.ResponseWriter, r *http.Request) {
	path, ok := coverNotePath(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	v, err := h.svc.Cover(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get cover", path, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// PutCover handles PUT /api/notes/{path}/cover.
//
//	@Summary		Point a note's cover key at an image
//	@Tags			covers
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string			true	"Note path"
//	@Param			body	body		SetCoverRequest	true	"Image reference"
//	@Success		200		{object}	models.View
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path}/cover [put]
func (h *Handler) PutCover(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	path, ok := coverNotePath(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	var req SetCoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	v, err := h.svc.SetCover(r.Context(), path, req.Reference)
	if err != nil {
		writeServiceError(w, "set cover", path, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ListImages handles GET /api/images.
//
//	@Summary		List stored images
//	@Tags			covers
//	@Produce		json
//	@Success		200	{object}	ImagesResponse
//	@Security		BearerAuth
//	@Router			/images [get]
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.svc.Images(r.Context())
	if err != nil {
		slog.Error("list images failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, ImagesResponse{Images: images})
}

// ListImports handles GET /api/imports.
//
//	@Summary		Recent import attempts
//	@Tags			imports
//	@Produce		json
//	@Param			note	query		string	false	"Filter by note path"
//	@Param			limit	query		int		false	"Max entries"
//	@Success		200		{object}	ImportsResponse
//	@Security		BearerAuth
//	@Router			/imports [get]
func (h *Handler) ListImports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	entries, err := h.imports.Recent(r.Context(), q.Get("note"), limit)
	if err != nil {
		slog.Error("list imports failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, ImportsResponse{Imports: entries})
}

func writeServiceError(w http.ResponseWriter, op, path string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrMalformedDrop):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		slog.Error(op+" failed", slog.String("path", path), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
