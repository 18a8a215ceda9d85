package fpstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kilianp07/svitlo/core/fingerprint"
)

// HashExt is the extension of fingerprint files.
const HashExt = ".hash"

// FileStore keeps one fingerprint per file, <dir>/<safe key>.hash, holding
// the hex digest as text.
type FileStore struct {
	dir string
}

// NewFileStore stores fingerprints under dir. The directory is created on the
// first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, fingerprint.SafeKey(key)+HashExt)
}

func (s *FileStore) Load(_ context.Context, key string) (fingerprint.Fingerprint, error) {
	b, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", fingerprint.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	fp := fingerprint.Fingerprint(strings.TrimSpace(string(b)))
	if fp == "" {
		return "", fingerprint.ErrNotFound
	}
	return fp, nil
}

// Save replaces the file through a temporary sibling so a reader never sees a
// partial digest.
func (s *FileStore) Save(_ context.Context, key string, fp fingerprint.Fingerprint) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create hash dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".fp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(string(fp)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
