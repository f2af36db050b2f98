package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Local writes artifacts beneath a base directory.
type Local struct {
	fs   afero.Fs
	base string
}

// NewLocal creates a store rooted at dir on the OS filesystem.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact dir: %w", err)
	}
	return NewLocalFs(afero.NewOsFs(), abs), nil
}

// NewLocalFs creates a store over an arbitrary afero filesystem.
func NewLocalFs(fs afero.Fs, base string) *Local {
	return &Local{fs: afero.NewBasePathFs(fs, base), base: base}
}

// Put writes data to base/key, creating parent directories.
func (l *Local) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if err := l.fs.MkdirAll(filepath.Dir(filepath.FromSlash(key)), 0o755); err != nil {
		return "", fmt.Errorf("creating artifact dir: %w", err)
	}
	if err := afero.WriteFile(l.fs, filepath.FromSlash(key), data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return filepath.Join(l.base, filepath.FromSlash(key)), nil
}
