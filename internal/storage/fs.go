package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/starford/notecover/internal/models"
)

const tempPattern = ".notecover-tmp-*"

// FS implements Provider backed by the local file system.
type FS struct {
	root   string // absolute path to vault directory
	ignore *Matcher
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	m, err := NewMatcher(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: ignore rules: %w", err)
	}
	return &FS{root: abs, ignore: m}, nil
}

// Root returns the absolute vault directory.
func (f *FS) Root() string {
	return f.root
}

// Ignored reports whether a vault-relative path is hidden by the ignore rules.
func (f *FS) Ignored(rel string) bool {
	return f.ignore.Matches(rel)
}

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes vault root: %s", rel)
	}
	return abs, nil
}

// Files walks the vault and returns every file not hidden by ignore rules.
func (f *FS) Files() ([]models.StoredFile, error) {
	var out []models.StoredFile
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if f.ignore.Matches(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		out = append(out, models.NewStoredFile(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// Read returns the raw bytes of a vault file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if abs == f.root {
		return fmt.Errorf("storage: cannot write to vault root")
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// FolderExists reports whether path is an existing directory in the vault.
func (f *FS) FolderExists(path string) bool {
	abs, err := f.safePath(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.IsDir()
}

// CreateFolder creates a folder (and parents) inside the vault.
func (f *FS) CreateFolder(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("storage: create folder %s: %w", path, err)
	}
	return nil
}

// ResolveLinkPath resolves a path-like reference the way a note link is
// read: a leading "/" anchors at the vault root; otherwise the note's own
// folder is tried before the vault root; a bare name falls back to the first
// file anywhere in the vault with that name. A missing extension matches any.
func (f *FS) ResolveLinkPath(reference, origin string) (*models.StoredFile, bool) {
	ref := strings.TrimSpace(strings.ReplaceAll(reference, "\\", "/"))
	if ref == "" {
		return nil, false
	}

	files, err := f.Files()
	if err != nil {
		return nil, false
	}

	var tries []string
	if strings.HasPrefix(ref, "/") {
		tries = []string{path.Clean(ref)[1:]}
	} else {
		if dir := path.Dir(filepath.ToSlash(origin)); dir != "." && dir != "/" {
			tries = append(tries, path.Join(dir, ref))
		}
		tries = append(tries, path.Clean(ref))
	}

	for _, want := range tries {
		if file, ok := findByPath(files, want); ok {
			return file, true
		}
	}

	if strings.Contains(ref, "/") {
		return nil, false
	}
	for i := range files {
		if files[i].Name == ref {
			return &files[i], true
		}
	}
	for i := range files {
		if files[i].Basename == ref {
			return &files[i], true
		}
	}
	return nil, false
}

// findByPath matches an exact vault path first, then the same path with any
// extension.
func findByPath(files []models.StoredFile, want string) (*models.StoredFile, bool) {
	for i := range files {
		if files[i].Path == want {
			return &files[i], true
		}
	}
	if path.Ext(want) != "" {
		return nil, false
	}
	for i := range files {
		if strings.TrimSuffix(files[i].Path, path.Ext(files[i].Path)) == want {
			return &files[i], true
		}
	}
	return nil, false
}
