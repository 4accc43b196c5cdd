package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"rideshare-backend/internal/config"
)

// ImageStore keeps profile images in an S3-compatible bucket (MinIO in development).
type ImageStore struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucketName string
	publicURL  string
}

func NewImageStore(ctx context.Context, cfg config.StorageConfig) (*ImageStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("image storage is not configured: set S3_ENDPOINT and S3_BUCKET")
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		endpoint = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	publicURL := cfg.PublicBaseURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("%s/%s", endpoint, cfg.Bucket)
	}

	return &ImageStore{
		client:     client,
		uploader:   manager.NewUploader(client),
		bucketName: cfg.Bucket,
		publicURL:  strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *ImageStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, s.bucketName, err)
	}
	return nil
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from bucket %s: %w", key, s.bucketName, err)
	}
	return nil
}

// URL is where clients can fetch the object.
func (s *ImageStore) URL(key string) string {
	return s.publicURL + "/" + key
}
