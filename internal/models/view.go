package models

// ViewState enumerates what the cover panel can be showing.
type ViewState string

const (
	ViewEmpty     ViewState = "empty"     // no active note
	ViewNoImage   ViewState = "no-image"  // active note has no cover key
	ViewImage     ViewState = "image"     // cover resolved
	ViewNotFound  ViewState = "not-found" // cover key set but nothing matches
	ViewImporting ViewState = "importing"
	ViewError     ViewState = "error"
)

// View is the panel's render output, published to clients on every change.
type View struct {
	State     ViewState   `json:"state"`
	Note      string      `json:"note,omitempty"`
	Reference string      `json:"reference,omitempty"`
	File      *StoredFile `json:"file,omitempty"`
	URL       string      `json:"url,omitempty"`
	Message   string      `json:"message,omitempty"`
}
