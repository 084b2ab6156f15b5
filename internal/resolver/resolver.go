// Package resolver maps image references found in note frontmatter to
// stored vault files.
package resolver

import (
	"regexp"
	"strings"

	"github.com/starford/notecover/internal/models"
)

// ImageExtensions are tried, in order, when a link names a file without its
// extension.
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "svg"}

var linkRe = regexp.MustCompile(`^\[\[(.*?)\]\]$`)

// LinkResolver resolves a path-like reference relative to the note it
// appears in. storage.FS implements it.
type LinkResolver interface {
	ResolveLinkPath(reference, origin string) (*models.StoredFile, bool)
}

// Resolve finds the stored file named by reference.
//
// A reference of the form [[name]] is matched against candidates in the
// order given: the first file whose name equals name, or name plus one of
// ImageExtensions, or whose basename equals name, wins. Anything else is
// handed to links, which interprets it relative to origin.
//
// Resolve never fails; a miss is a Resolution without a File.
func Resolve(reference string, candidates []models.StoredFile, origin string, links LinkResolver) models.Resolution {
	if reference == "" {
		return models.Resolution{}
	}

	if clean, ok := linkTarget(reference); ok {
		for i := range candidates {
			if matchesLink(candidates[i], clean) {
				f := candidates[i]
				return models.Resolution{File: &f, Reference: clean}
			}
		}
		return models.Resolution{Reference: clean}
	}

	if links != nil {
		if f, ok := links.ResolveLinkPath(reference, origin); ok {
			return models.Resolution{File: f, Reference: reference}
		}
	}
	return models.Resolution{Reference: reference}
}

// linkTarget extracts the inner name of a whole-string [[name]] link. Nested
// or chained brackets are not a link.
func linkTarget(reference string) (string, bool) {
	m := linkRe.FindStringSubmatch(reference)
	if m == nil {
		return "", false
	}
	inner := m[1]
	if strings.Contains(inner, "[[") || strings.Contains(inner, "]]") {
		return "", false
	}
	return inner, true
}

func matchesLink(f models.StoredFile, clean string) bool {
	if f.Name == clean {
		return true
	}
	for _, ext := range ImageExtensions {
		if f.Name == clean+"."+ext {
			return true
		}
	}
	return f.Basename == clean
}
