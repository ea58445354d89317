package image

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aura-archive-api/internal/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Store implements Store by uploading generated images to an S3 bucket
type S3Store struct {
	svc    *s3.S3
	bucket string
	region string
	prefix string
}

// NewS3Store creates a store backed by the configured bucket. Credentials
// come from the standard AWS environment/instance chain.
func NewS3Store(cfg *config.ImageConfig) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.S3Region)})
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}
	return &S3Store{
		svc:    s3.New(sess),
		bucket: cfg.S3Bucket,
		region: cfg.S3Region,
		prefix: cfg.S3Prefix,
	}, nil
}

func (s *S3Store) UploadPermanent(ctx context.Context, key string, data []byte) (string, error) {
	fullKey := path.Join(s.prefix, key)
	_, err := s.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("putting object %s: %w", fullKey, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, fullKey), nil
}
