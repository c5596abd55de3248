package services

//go:generate mockgen -source=media.go -destination=media_mock.go -package=services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/models"
)

// MediaHost stores a local file with an external hosting service and returns its public URL.
type MediaHost interface {
	Upload(ctx context.Context, path, mediaType, contentType string) (string, error)
}

// MediaService spools client uploads to a temporary file and forwards them to the host.
type MediaService struct {
	host    MediaHost
	dir     string
	timeout time.Duration
}

// NewMediaService creates a MediaService. A zero timeout disables the deadline.
func NewMediaService(host MediaHost, dir string, timeout time.Duration) *MediaService {
	return &MediaService{host: host, dir: dir, timeout: timeout}
}

// MediaTypeOf maps a MIME type to image or video. ok is false for anything else.
func MediaTypeOf(contentType string) (mediaType string, ok bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, true
	}
	return "", false
}

// Upload hosts the file and returns its media reference. Only the declared
// content type is checked. The temporary copy is removed whatever the outcome.
func (s *MediaService) Upload(ctx context.Context, file *models.Upload) (*models.Media, error) {
	contentType := file.ContentType
	mediaType, ok := MediaTypeOf(contentType)
	if !ok {
		logger.Log.Warnw("rejected upload", "filename", file.Filename, "content_type", contentType)
		return nil, ErrUnsupportedMedia
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(s.dir, "upload-*"+filepath.Ext(file.Filename))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			logger.Log.Errorw("failed to remove temporary upload", "path", tmp.Name(), "error", err)
		}
	}()

	_, err = io.Copy(tmp, file.Content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Log.Errorw("failed to spool upload", "path", tmp.Name(), "error", err)
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	url, err := s.host.Upload(ctx, tmp.Name(), mediaType, contentType)
	if err != nil {
		logger.Log.Errorw("failed to host upload", "filename", file.Filename, "type", mediaType, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	logger.Log.Infow("upload hosted", "filename", file.Filename, "type", mediaType, "url", url)
	return &models.Media{URL: url, Type: mediaType}, nil
}
