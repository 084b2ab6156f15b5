// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/notecover/internal/models"

// Provider is the interface for vault file operations. All paths are
// slash-separated and relative to the vault root.
type Provider interface {
	// Files enumerates every non-ignored file in the vault, in lexical path order.
	Files() ([]models.StoredFile, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent folders.
	Write(path string, content []byte) error
	// FolderExists reports whether path names an existing folder.
	FolderExists(path string) bool
	// CreateFolder creates path and any missing parents.
	CreateFolder(path string) error
	// ResolveLinkPath resolves a path-like reference written in the note at origin.
	ResolveLinkPath(reference, origin string) (*models.StoredFile, bool)
}
