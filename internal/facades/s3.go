package facades

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/logger"
)

// S3Uploader is the subset of the s3manager uploader used here.
type S3Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3Facade hosts media files in an S3 bucket.
type S3Facade struct {
	uploader S3Uploader
	bucket   string
}

// NewS3Facade creates a facade around an existing uploader.
func NewS3Facade(uploader S3Uploader, bucket string) *S3Facade {
	return &S3Facade{uploader: uploader, bucket: bucket}
}

// NewS3FacadeFromRegion builds an uploader from the default AWS credential chain.
func NewS3FacadeFromRegion(region, bucket string) (*S3Facade, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return NewS3Facade(s3manager.NewUploader(sess), bucket), nil
}

// Upload stores the local file at path under <mediaType>/<uuid><ext> and
// returns the object location.
func (f *S3Facade) Upload(ctx context.Context, path, mediaType, contentType string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := mediaType + "/" + uuid.NewString() + filepath.Ext(path)
	input := &s3manager.UploadInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := f.uploader.UploadWithContext(ctx, input)
	if err != nil {
		logger.Log.Errorw("failed to upload media to s3", "bucket", f.bucket, "key", key, "error", err)
		return "", err
	}

	logger.Log.Infow("media uploaded to s3", "bucket", f.bucket, "key", key)
	return out.Location, nil
}
