package service

import (
	"context"
	"io"
	"strings"

	"github.com/Amaytushin/Ratatouille-tusul/internal/storage"
	"github.com/sirupsen/logrus"
)

// Upload is an image file received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func saveImage(ctx context.Context, store storage.Store, dir string, upload *Upload) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	if contentType != "" && !allowedImageTypes[contentType] {
		return "", validationError("unsupported image type %q", upload.ContentType)
	}
	objectPath, err := store.Save(ctx, dir, upload.Filename, contentType, upload.Body)
	if err != nil {
		return "", err
	}
	return objectPath, nil
}

// imagePath validates an image given as a path instead of a file. Paths in
// the upload directories are only accepted when the record already holds
// them; anything else would let one record claim another's upload.
func imagePath(current, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested != "" && requested != current && storage.Managed(requested) {
		return "", validationError("image %q must be uploaded as a file", requested)
	}
	return requested, nil
}

// discardImage removes an object that is no longer referenced. Paths outside
// the upload directories are left alone. Failures are logged; the record
// change already happened.
func discardImage(ctx context.Context, store storage.Store, objectPath string) {
	if !storage.Managed(objectPath) {
		return
	}
	if err := store.Delete(ctx, objectPath); err != nil {
		logrus.WithError(err).WithField("object", objectPath).Warn("failed to delete stored image")
	}
}
