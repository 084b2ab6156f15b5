// Package coverservice ties the resolver, the frontmatter rewriter and the
// path policy to vault storage.
package coverservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/starford/notecover/internal/apperr"
	"github.com/starford/notecover/internal/checksum"
	"github.com/starford/notecover/internal/journal"
	"github.com/starford/notecover/internal/models"
	"github.com/starford/notecover/internal/parser"
	"github.com/starford/notecover/internal/pathpolicy"
	"github.com/starford/notecover/internal/resolver"
	"github.com/starford/notecover/internal/storage"
)

// FilesPrefix is the URL prefix under which stored files are served.
const FilesPrefix = "/files/"

// Settings are the vault-level knobs the service needs.
type Settings struct {
	// CoverKey is the frontmatter key holding the image reference.
	CoverKey string
	// AttachmentFolder decides where imported files go; see pathpolicy.DestinationPath.
	AttachmentFolder string
}

// ImportResult describes a completed import.
type ImportResult struct {
	Note      string            `json:"note"`
	File      models.StoredFile `json:"file"`
	Reference string            `json:"reference"`
	URL       string            `json:"url"`
}

// Service reads and updates note covers.
type Service struct {
	store    storage.Provider
	journal  journal.Recorder
	settings Settings
	logger   *slog.Logger
}

// NewService creates a cover service. rec may be nil to skip journaling.
func NewService(store storage.Provider, rec journal.Recorder, settings Settings, logger *slog.Logger) *Service {
	if settings.CoverKey == "" {
		settings.CoverKey = "image"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, journal: rec, settings: settings, logger: logger}
}

// CoverKey returns the frontmatter key in use.
func (s *Service) CoverKey() string {
	return s.settings.CoverKey
}

// Cover resolves the cover image of the note at notePath.
func (s *Service) Cover(_ context.Context, notePath string) (*models.View, error) {
	data, err := s.readNote(notePath)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	ref, ok := res.String(s.settings.CoverKey)
	if !ok {
		return &models.View{State: models.ViewNoImage, Note: notePath}, nil
	}

	files, err := s.store.Files()
	if err != nil {
		return nil, err
	}
	r := resolver.Resolve(ref, files, notePath, s.store)
	if !r.Found() {
		return &models.View{
			State:     models.ViewNotFound,
			Note:      notePath,
			Reference: r.Reference,
			Message:   fmt.Sprintf("image not found: %s", r.Reference),
		}, nil
	}
	return &models.View{
		State:     models.ViewImage,
		Note:      notePath,
		Reference: r.Reference,
		File:      r.File,
		URL:       ResourceURL(*r.File),
	}, nil
}

// SetCover points the note's cover key at reference. A bare file name is
// stored as a wikilink; anything with a folder is stored as a quoted path.
func (s *Service) SetCover(ctx context.Context, notePath, reference string) (*models.View, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" || strings.ContainsAny(reference, "\r\n") {
		return nil, fmt.Errorf("%w: reference %q", apperr.ErrInvalidInput, reference)
	}
	data, err := s.readNote(notePath)
	if err != nil {
		return nil, err
	}
	updated := parser.SetKey(string(data), s.settings.CoverKey, referenceValue(reference))
	if err := s.store.Write(notePath, []byte(updated)); err != nil {
		return nil, err
	}
	return s.Cover(ctx, notePath)
}

func referenceValue(ref string) string {
	switch {
	case strings.HasPrefix(ref, "[[") && strings.HasSuffix(ref, "]]"):
		return parser.QuoteValue(ref)
	case !strings.Contains(ref, "/"):
		return parser.LinkValue(ref)
	default:
		return parser.QuoteValue(ref)
	}
}

// Import stores data as an image next to notePath (per the attachment folder
// setting) and points the note's cover key at it.
//
// Non-image content fails with apperr.ErrMalformedDrop before anything is
// written. Storage failures are wrapped in apperr.ErrImportFailure.
func (s *Service) Import(ctx context.Context, notePath, fileName string, data []byte) (*ImportResult, error) {
	name, err := checkImage(fileName, data)
	if err != nil {
		return nil, err
	}

	entry := journal.Entry{
		Note:       notePath,
		SourceName: fileName,
		Size:       int64(len(data)),
		Checksum:   checksum.Sum(data),
	}

	text, err := s.store.Read(notePath)
	if err != nil {
		return nil, s.fail(ctx, entry, fmt.Errorf("read note: %w", err))
	}

	files, err := s.store.Files()
	if err != nil {
		return nil, s.fail(ctx, entry, err)
	}
	existing := make(map[string]struct{}, len(files))
	for _, f := range files {
		existing[f.Name] = struct{}{}
	}
	unique := pathpolicy.UniqueName(name, existing)

	dest := pathpolicy.DestinationPath(unique, s.settings.AttachmentFolder, pathpolicy.Folder(notePath))
	entry.StoredPath = dest
	if folder := pathpolicy.Folder(dest); folder != "" && !s.store.FolderExists(folder) {
		if err := s.store.CreateFolder(folder); err != nil {
			return nil, s.fail(ctx, entry, err)
		}
	}
	if err := s.store.Write(dest, data); err != nil {
		return nil, s.fail(ctx, entry, err)
	}

	updated := parser.SetKey(string(text), s.settings.CoverKey, parser.LinkValue(unique))
	if err := s.store.Write(notePath, []byte(updated)); err != nil {
		return nil, s.fail(ctx, entry, fmt.Errorf("update note: %w", err))
	}

	entry.Status = journal.StatusOK
	s.record(ctx, entry)

	file := models.NewStoredFile(dest)
	s.logger.Info("image imported",
		slog.String("note", notePath),
		slog.String("path", dest))
	return &ImportResult{
		Note:      notePath,
		File:      file,
		Reference: unique,
		URL:       ResourceURL(file),
	}, nil
}

// Images lists every stored file with an image extension.
func (s *Service) Images(_ context.Context) ([]models.StoredFile, error) {
	files, err := s.store.Files()
	if err != nil {
		return nil, err
	}
	out := make([]models.StoredFile, 0, len(files))
	for _, f := range files {
		if IsImageExtension(f.Extension) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ResourceURL returns the URL clients use to display f.
func ResourceURL(f models.StoredFile) string {
	segs := strings.Split(f.Path, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return FilesPrefix + strings.Join(segs, "/")
}

// IsImageExtension reports whether ext (with or without dot) is one the
// resolver understands.
func IsImageExtension(ext string) bool {
	return slices.Contains(resolver.ImageExtensions, strings.ToLower(strings.TrimPrefix(ext, ".")))
}

// checkImage validates a dropped file and returns the name to store it
// under. Names without an extension get the sniffed one.
func checkImage(fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", apperr.ErrMalformedDrop, fileName)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s looks like %s", apperr.ErrMalformedDrop, fileName, mt.String())
	}

	name := sanitizeName(fileName)
	if name == "" {
		name = uuid.New().String()
	}
	if path.Ext(name) == "" {
		name += mt.Extension()
	}
	if !IsImageExtension(path.Ext(name)) {
		return "", fmt.Errorf("%w: unsupported extension %q", apperr.ErrMalformedDrop, path.Ext(name))
	}
	return name, nil
}

// sanitizeName keeps only the leaf of a client-supplied name.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '|', '#', '^', ':', '"', '\r', '\n':
			return '_'
		}
		return r
	}, name)
}

func (s *Service) readNote(notePath string) ([]byte, error) {
	if notePath == "" {
		return nil, apperr.ErrNotFound
	}
	data, err := s.store.Read(notePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Service) fail(ctx context.Context, entry journal.Entry, cause error) error {
	entry.Status = journal.StatusFailed
	entry.Error = cause.Error()
	s.record(ctx, entry)
	s.logger.Warn("image import failed",
		slog.String("note", entry.Note),
		slog.String("source", entry.SourceName),
		slog.String("error", cause.Error()))
	return fmt.Errorf("%w: %w", apperr.ErrImportFailure, cause)
}

func (s *Service) record(ctx context.Context, entry journal.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("journal record failed", slog.String("error", err.Error()))
	}
}
