// Package storage persists generated artifacts (diffusion output images)
// that are not streamed back in the HTTP response.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/nadzzz/aigateway/internal/config"
)

// Store writes named artifacts.
type Store interface {
	// Put writes data under key and returns where it can be found
	// (a file path or an s3:// URL).
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// New returns the store selected by cfg.Backend.
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3(cfg.S3)
	case "local", "":
		return NewLocal(cfg.Local.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// CleanKey reduces a caller-supplied name to a relative slash path with no
// parent references.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimLeft(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", fmt.Errorf("empty artifact key")
	}
	return key, nil
}
