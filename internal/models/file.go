// Package models defines the domain types for notecover.
package models

import (
	"path"
	"strings"
)

// StoredFile is a file in the vault, addressed relative to the vault root.
type StoredFile struct {
	Name      string `json:"name"`      // leaf name with extension
	Basename  string `json:"basename"`  // leaf name without extension
	Path      string `json:"path"`      // slash-separated, relative to vault root
	Extension string `json:"extension"` // without the leading dot
}

// NewStoredFile derives all fields from a vault-relative path.
func NewStoredFile(p string) StoredFile {
	p = strings.TrimPrefix(path.Clean(strings.ReplaceAll(p, "\\", "/")), "/")
	name := path.Base(p)
	ext := path.Ext(name)
	return StoredFile{
		Name:      name,
		Basename:  strings.TrimSuffix(name, ext),
		Path:      p,
		Extension: strings.TrimPrefix(ext, "."),
	}
}

// Resolution is the outcome of resolving an image reference. File is nil
// when nothing matched; Reference then holds the cleaned reference that was
// tried.
type Resolution struct {
	File      *StoredFile `json:"file,omitempty"`
	Reference string      `json:"reference"`
}

// Found reports whether the reference resolved to a stored file.
func (r Resolution) Found() bool {
	return r.File != nil
}
