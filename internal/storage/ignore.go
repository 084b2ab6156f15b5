package storage

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile is read from the vault root when present; it uses gitignore
// syntax.
const IgnoreFile = ".coverignore"

// defaultIgnore hides editor state, trash and in-flight temp files from
// enumeration and the watcher.
var defaultIgnore = []string{
	".git",
	".obsidian",
	".trash",
	".DS_Store",
	"Thumbs.db",
	tempPattern,
	IgnoreFile,
}

// Matcher decides whether a vault-relative path is hidden from notecover.
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher compiles the default rules plus root/.coverignore if it exists.
func NewMatcher(root string) (*Matcher, error) {
	file := filepath.Join(root, IgnoreFile)
	if _, err := os.Stat(file); err == nil {
		ig, err := gitignore.CompileIgnoreFileAndLines(file, defaultIgnore...)
		if err != nil {
			return nil, err
		}
		return &Matcher{ignorer: ig}, nil
	}
	return &Matcher{ignorer: gitignore.CompileIgnoreLines(defaultIgnore...)}, nil
}

// Matches reports whether rel should be skipped.
func (m *Matcher) Matches(rel string) bool {
	if m == nil || m.ignorer == nil || rel == "" || rel == "." {
		return false
	}
	return m.ignorer.MatchesPath(filepath.ToSlash(rel))
}
