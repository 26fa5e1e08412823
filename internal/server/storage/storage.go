// Package storage implements the sandboxed per-user file operations:
// directory listing, directory creation and download streaming. Every path
// that reaches the filesystem went through the sandbox resolver first.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"homecloud/internal/logging"
	"homecloud/internal/server/archive"
	"homecloud/internal/server/models"
	"homecloud/internal/server/sandbox"
)

type Service struct {
	storageRoot string
	logger      logging.Logger
}

func NewService(storageRoot string, logger logging.Logger) *Service {
	return &Service{
		storageRoot: storageRoot,
		logger:      logger.With("module", "storage"),
	}
}

// Resolve maps rawPath into user's sandbox. Exposed for collaborating
// services that need the validated absolute path (upload reservations,
// share creation).
func (s *Service) Resolve(user *models.User, rawPath string) (string, error) {
	return sandbox.Resolve(sandbox.UserRoot(s.storageRoot, user.ID), rawPath)
}

// List returns the entries of the directory at rawPath inside user's
// sandbox.
func (s *Service) List(ctx context.Context, user *models.User, rawPath string) ([]models.Element, error) {
	dir, err := s.Resolve(user, rawPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	contents := make([]models.Element, 0, len(entries))
	for _, entry := range entries {
		element := models.Element{Name: entry.Name()}
		if entry.IsDir() {
			element.Type = models.ElementTypeDirectory
		} else {
			element.Type = models.ElementTypeFile
			if info, err := entry.Info(); err == nil {
				element.Bytes = info.Size()
			}
		}
		contents = append(contents, element)
	}
	return contents, nil
}

// MakeDirectory creates the directory at rawPath inside user's sandbox,
// including any missing parents.
func (s *Service) MakeDirectory(ctx context.Context, user *models.User, rawPath string) error {
	dir, err := s.Resolve(user, rawPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	s.logger.Info(ctx, "directory created", "user_id", user.ID)
	return nil
}

// Open resolves rawPath for user and prepares it for download. The source
// must exist.
func (s *Service) Open(ctx context.Context, user *models.User, rawPath string) (*Source, error) {
	path, err := s.Resolve(user, rawPath)
	if err != nil {
		return nil, err
	}
	return openPath(path)
}

// OpenShared prepares a previously shared absolute path for download. The
// path was sandbox-validated when the share was created; authorization is
// the share link itself.
func (s *Service) OpenShared(ctx context.Context, path string) (*Source, error) {
	return openPath(path)
}

func openPath(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening download source: %w", err)
	}
	return &Source{Path: path, Name: filepath.Base(path), IsDir: info.IsDir()}, nil
}

// Source is a download source bound to a single request/response cycle: a
// regular file streamed raw, or a directory streamed as a ZIP archive.
type Source struct {
	Path  string
	Name  string
	IsDir bool
}

// Stream writes the source to w: file bytes verbatim, directories through
// the archive packager.
func (src *Source) Stream(w io.Writer) error {
	if src.IsDir {
		return archive.WriteDir(src.Path, w)
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("streaming file: %w", err)
	}
	return nil
}
