// internal/app/system/docstore/docstore.go

// Package docstore stores uploaded task documents on the local filesystem.
// Files live under <root>/<taskID>/<uuid8>-<sanitized-filename> so a task's
// documents can be removed together when the task is deleted.
package docstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store writes and removes document files beneath a root directory.
type Store struct {
	root string
}

// New returns a Store rooted at dir. The directory is created by the app's
// startup hook, not here.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Put stores the reader's contents for the given task and returns the
// storage path relative to the root.
func (s *Store) Put(taskID, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create task dir: %w", err)
	}

	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	rel := filepath.ToSlash(filepath.Join(taskID, uniqueName))

	f, err := os.Create(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return rel, nil
}

// Delete removes a stored file. A missing file is not an error; the
// document record is the source of truth.
func (s *Store) Delete(path string) error {
	full, err := s.FullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// DeleteTask removes a task's entire document directory.
func (s *Store) DeleteTask(taskID string) error {
	if taskID == "" || taskID == "." {
		return fmt.Errorf("invalid task id")
	}
	if err := os.RemoveAll(filepath.Join(s.root, taskID)); err != nil {
		return fmt.Errorf("remove task dir: %w", err)
	}
	return nil
}

// FullPath resolves a stored relative path to an absolute filesystem path,
// rejecting anything that escapes the root.
func (s *Store) FullPath(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." ||
		len(clean) >= 3 && clean[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("invalid document path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

// sanitizeFilename replaces characters that could be problematic in
// filenames and truncates long names while preserving the extension.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
