// Package storage keeps uploaded images (avatars, recipe and category
// pictures). Records store the returned object path; URL turns it into
// something a client can fetch.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/Amaytushin/Ratatouille-tusul/config"
	"github.com/google/uuid"
)

// Upload directories, one per kind of image.
const (
	DirAvatars    = "avatars"
	DirRecipes    = "recipes"
	DirCategories = "categories"
)

// ErrInvalidPath is returned for object paths that escape the store.
var ErrInvalidPath = errors.New("storage: invalid object path")

// Store persists image objects addressed by relative path.
type Store interface {
	// Save writes body under dir with a fresh name keeping filename's extension.
	Save(ctx context.Context, dir, filename, contentType string, body io.Reader) (string, error)
	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, objectPath string) error
	// URL is where clients fetch the object. It may be relative to the API host.
	URL(objectPath string) string
}

// New builds the store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure s3: %w", err)
		}
		return NewS3Store(s3Cfg.Client, s3Cfg.BucketName, s3Cfg.PublicBaseURL), nil
	case config.StorageLocal, "":
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// objectKey names a new object under dir.
func objectKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(dir, uuid.New().String()+ext)
}

// cleanKey rejects absolute paths and paths leaving the store root.
func cleanKey(objectPath string) (string, error) {
	if objectPath == "" || strings.HasPrefix(objectPath, "/") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(objectPath)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// Managed reports whether objectPath lies in one of the upload directories,
// that is whether it names an object this package created.
func Managed(objectPath string) bool {
	cleaned, err := cleanKey(strings.TrimSpace(objectPath))
	if err != nil {
		return false
	}
	dir, _, found := strings.Cut(cleaned, "/")
	if !found {
		return false
	}
	switch dir {
	case DirAvatars, DirRecipes, DirCategories:
		return true
	}
	return false
}
