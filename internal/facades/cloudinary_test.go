package facades

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
)

type fakeCloudinaryUploader struct {
	params uploader.UploadParams
	file   interface{}
	result *uploader.UploadResult
	err    error
}

func (f *fakeCloudinaryUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.file = file
	f.params = params
	return f.result, f.err
}

func TestCloudinaryFacade_UploadImage(t *testing.T) {
	client := &fakeCloudinaryUploader{result: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/x/cat.png"}}
	facade := NewCloudinaryFacade(client, "memes")

	url, err := facade.Upload(context.Background(), "/tmp/upload-1.png", "image", "image/png")
	assert.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/x/cat.png", url)
	assert.Equal(t, "/tmp/upload-1.png", client.file)
	assert.Equal(t, "image", client.params.ResourceType)
	assert.Equal(t, "memes", client.params.Folder)
	assert.Empty(t, client.params.Eager)
}

func TestCloudinaryFacade_UploadVideoRequestsScaling(t *testing.T) {
	client := &fakeCloudinaryUploader{result: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/x/cat.mp4"}}
	facade := NewCloudinaryFacade(client, "")

	url, err := facade.Upload(context.Background(), "/tmp/upload-2.mp4", "video", "video/mp4")
	assert.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/x/cat.mp4", url)
	assert.Equal(t, "video", client.params.ResourceType)
	assert.Equal(t, "w_720,c_scale", client.params.Eager)
}

func TestCloudinaryFacade_UploadErrors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeCloudinaryUploader
	}{
		{"transport error", &fakeCloudinaryUploader{err: errors.New("connection reset")}},
		{"api error", &fakeCloudinaryUploader{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}}},
		{"empty response", &fakeCloudinaryUploader{}},
		{"missing url", &fakeCloudinaryUploader{result: &uploader.UploadResult{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := NewCloudinaryFacade(tt.client, "")
			url, err := facade.Upload(context.Background(), "/tmp/x.png", "image", "image/png")
			assert.Error(t, err)
			assert.Empty(t, url)
		})
	}
}
