package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	reportout "studydesk/internal/modules/report/port/out"
)

type FileNoteStore struct{}

func NewFileNoteStore() reportout.NoteStore {
	return FileNoteStore{}
}

func (FileNoteStore) Read(_ context.Context, path string) (string, bool, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read note: %w", err)
	}
	return string(raw), true, nil
}

// Write replaces path via a temp file in the same directory.
func (FileNoteStore) Write(_ context.Context, path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create note dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.md")
	if err != nil {
		return fmt.Errorf("create temp note: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp note: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
