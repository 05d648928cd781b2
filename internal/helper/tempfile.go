package helper

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// StageTempFile copies r into a new uniquely named file under dir (os.TempDir
// when empty) with extension ext. The file is synced and closed before the
// path is returned. cleanup removes it; removal failures are only logged.
func StageTempFile(dir string, r io.Reader, ext string) (string, func(), error) {
	f, err := os.CreateTemp(dir, "docqa-*"+ext)
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { removeTempFile(path) }

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("failed to close temp file: %w", err)
	}

	log.Debug().Str("path", path).Msg("Staged upload")
	return path, cleanup, nil
}

func removeTempFile(path string) {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return
	}
	log.Warn().Err(err).Str("path", path).Msg("Failed to remove temp file")
}
