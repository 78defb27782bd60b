// Package storage owns the lifecycle of backing binary objects in an
// S3-compatible store (MinIO in development, any S3 provider in production).
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"boards/internal/domain"
)

// ObjectStore is the contract the file lifecycle depends on. Delete must be
// idempotent: deleting an already-absent key is not an error.
type ObjectStore interface {
	// Put streams an object body into the given bucket.
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error

	// Delete removes an object. Absent keys are not an error.
	Delete(ctx context.Context, bucket, key string) error

	// SignedURL returns a time-limited access URL for an object.
	SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// S3Config holds connection settings for the object store.
type S3Config struct {
	Region    string
	Endpoint  string // custom endpoint for MinIO and other S3-compatibles
	AccessKey string
	SecretKey string
}

// S3ObjectStore implements ObjectStore on the AWS SDK.
type S3ObjectStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	logger        *slog.Logger
}

// NewS3ObjectStore creates an S3-compatible object store client. A custom
// endpoint switches the client to path-style addressing, which MinIO
// requires.
func NewS3ObjectStore(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3ObjectStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	logger.Info("object store initialized",
		"region", cfg.Region,
		"endpoint", cfg.Endpoint,
	)

	return &S3ObjectStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		logger:        logger,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *S3ObjectStore) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", bucket, err)
	}

	s.logger.Info("created bucket", "bucket", bucket)
	return nil
}

// Put streams an object body into the given bucket.
func (s *S3ObjectStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return &domain.StorageError{Op: "put", Bucket: bucket, Key: key, Err: err}
	}

	return nil
}

// Delete removes an object. S3 DeleteObject succeeds on absent keys, which
// gives us the required idempotency for free.
func (s *S3ObjectStore) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &domain.StorageError{Op: "delete", Bucket: bucket, Key: key, Err: err}
	}

	return nil
}

// SignedURL returns a presigned GET URL that expires after ttl.
func (s *S3ObjectStore) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", &domain.StorageError{Op: "sign", Bucket: bucket, Key: key, Err: err}
	}

	return req.URL, nil
}
