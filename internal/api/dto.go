package api

import (
	"github.com/starford/notecover/internal/journal"
	"github.com/starford/notecover/internal/models"
)

// SetActiveRequest selects the note the panel follows. An empty path
// clears the panel.
type SetActiveRequest struct {
	Path string `json:"path" example:"notes/hello.md"`
}

// SetCoverRequest is the request body for PUT /api/notes/{path}/cover.
type SetCoverRequest struct {
	Reference string `json:"reference" example:"[[cover.png]]"`
}

// AcceptedResponse acknowledges an event queued for the panel.
type AcceptedResponse struct {
	Status string `json:"status" example:"accepted"`
}

// ImagesResponse lists stored images.
type ImagesResponse struct {
	Images []models.StoredFile `json:"images"`
}

// ImportsResponse lists journal entries, newest first.
type ImportsResponse struct {
	Imports []journal.Entry `json:"imports"`
}
