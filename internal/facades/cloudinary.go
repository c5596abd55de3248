package facades

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/models"
)

// videoEagerTransform scales videos down to 720px wide.
const videoEagerTransform = "w_720,c_scale"

// CloudinaryUploader is the subset of the Cloudinary upload API used here.
type CloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryFacade hosts media files on Cloudinary.
type CloudinaryFacade struct {
	client CloudinaryUploader
	folder string
}

// NewCloudinaryFacade creates a facade around an existing upload client.
func NewCloudinaryFacade(client CloudinaryUploader, folder string) *CloudinaryFacade {
	return &CloudinaryFacade{client: client, folder: folder}
}

// NewCloudinaryFacadeFromParams builds a Cloudinary client from account credentials.
func NewCloudinaryFacadeFromParams(cloudName, apiKey, apiSecret, folder string) (*CloudinaryFacade, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return NewCloudinaryFacade(&cld.Upload, folder), nil
}

// Upload sends the local file at path and returns its secure URL.
func (f *CloudinaryFacade) Upload(ctx context.Context, path, mediaType, contentType string) (string, error) {
	params := uploader.UploadParams{
		ResourceType: mediaType,
		Folder:       f.folder,
	}
	if mediaType == models.MediaTypeVideo {
		params.Eager = videoEagerTransform
	}

	res, err := f.client.Upload(ctx, path, params)
	if err != nil {
		logger.Log.Errorw("failed to upload media to cloudinary", "type", mediaType, "error", err)
		return "", err
	}
	if res == nil {
		return "", errors.New("cloudinary returned an empty response")
	}
	if res.Error.Message != "" {
		logger.Log.Errorw("cloudinary rejected media upload", "type", mediaType, "error", res.Error.Message)
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary returned no url")
	}

	logger.Log.Infow("media uploaded to cloudinary", "type", mediaType, "public_id", res.PublicID)
	return res.SecureURL, nil
}
