package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/starford/notecover/internal/checksum"
	"github.com/starford/notecover/internal/storage"
)

// FilesHandler serves stored vault files at the URLs produced by
// coverservice.ResourceURL.
type FilesHandler struct {
	store  storage.Provider
	hidden func(rel string) bool
}

// NewFilesHandler creates a handler over store. hidden, if non-nil, marks
// paths that must not be served (ignored files).
func NewFilesHandler(store storage.Provider, hidden func(rel string) bool) *FilesHandler {
	return &FilesHandler{store: store, hidden: hidden}
}

// ServeHTTP handles GET /files/*.
func (h *FilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "*")
	if raw == "" {
		raw = strings.TrimPrefix(r.URL.Path, "/files/")
	}
	rel, err := url.PathUnescape(raw)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if rel == "" || (h.hidden != nil && h.hidden(rel)) {
		http.NotFound(w, r)
		return
	}

	data, err := h.store.Read(rel)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "cannot read file", http.StatusBadRequest)
		return
	}

	w.Header().Set("ETag", checksum.ETag(data))
	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, path.Base(rel), time.Time{}, bytes.NewReader(data))
}
