package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// fileStore writes images under a local directory served at baseURL.
type fileStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewFileStore creates a store that writes to dir.
func NewFileStore(dir, baseURL string, logger zerolog.Logger) Store {
	return &fileStore{
		dir:     dir,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "media-file-store").Logger(),
	}
}

func (s *fileStore) Put(ctx context.Context, key, _ string, data []byte) (model.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return model.UploadResult{}, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error().Err(err).Str("dir", s.dir).Msg("failed to create media directory")
		return model.UploadResult{}, fmt.Errorf("failed to create media directory %s: %w", s.dir, err)
	}

	target := filepath.Join(s.dir, filepath.Base(key))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("file", target).Msg("failed to write image")
		return model.UploadResult{}, fmt.Errorf("failed to write image %s: %w", target, err)
	}

	s.logger.Info().
		Str("file", target).
		Int("bytes", len(data)).
		Msg("image stored on local file system")

	return model.UploadResult{URL: joinURL(s.baseURL, filepath.Base(key)), Key: key}, nil
}
