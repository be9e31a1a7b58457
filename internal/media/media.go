// Package media stores uploaded product and banner images.
package media

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// Store saves an image and returns where it can be fetched from.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (model.UploadResult, error)
}

// allowedExtensions lists the image types accepted for upload.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// NewKey derives a unique object key from an uploaded filename. It rejects
// files that are not images.
func NewKey(filename string) (key, contentType string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", "", model.NewValidationError(fmt.Sprintf("unsupported image type %q", ext))
	}
	return uuid.NewString() + ext, contentType, nil
}

// joinURL appends key to base with exactly one slash between them.
func joinURL(base, key string) string {
	if base == "" {
		return "/" + key
	}
	if strings.Contains(base, "://") {
		return strings.TrimRight(base, "/") + "/" + key
	}
	return path.Join(base, key)
}
