package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrFileTooLarge is returned when a staged upload exceeds the size limit
var ErrFileTooLarge = errors.New("file exceeds the maximum upload size")

// StagedFile is an upload written to the local staging directory
type StagedFile struct {
	Path         string
	OriginalName string
	MimeType     string
	Size         int64
}

// LocalStorage stages uploads on local disk
type LocalStorage struct {
	dir     string
	maxSize int64
}

// NewLocalStorage creates the staging directory if needed. maxSize <= 0 means unlimited.
func NewLocalStorage(dir string, maxSize int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{dir: filepath.Clean(dir), maxSize: maxSize}, nil
}

// Dir returns the staging directory
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save writes r to a new file in the staging directory. The stored name is
// random; only the extension of name is kept.
func (s *LocalStorage) Save(ctx context.Context, name string, r io.Reader) (StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return StagedFile{}, err
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 10 {
		ext = ""
	}
	path := filepath.Join(s.dir, uuid.New().String()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StagedFile{}, fmt.Errorf("failed to create staged file: %w", err)
	}

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	size, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && s.maxSize > 0 && size > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return StagedFile{}, err
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		_ = os.Remove(path)
		return StagedFile{}, fmt.Errorf("failed to detect content type: %w", err)
	}

	return StagedFile{
		Path:         path,
		OriginalName: name,
		MimeType:     mtype.String(),
		Size:         size,
	}, nil
}

// Remove deletes a staged file. Paths outside the staging directory are refused.
// Removing a file that is already gone is not an error.
func (s *LocalStorage) Remove(path string) error {
	if !s.Contains(path) {
		return fmt.Errorf("refusing to remove %q outside %q", path, s.dir)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Contains reports whether path lies inside the staging directory
func (s *LocalStorage) Contains(path string) bool {
	rel, err := filepath.Rel(s.dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// StaleFiles lists regular files in the staging directory last modified before cutoff
func (s *LocalStorage) StaleFiles(cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			stale = append(stale, filepath.Join(s.dir, e.Name()))
		}
	}
	return stale, nil
}
