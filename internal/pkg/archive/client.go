package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/logger"
)

// ObjectPutter is the part of the S3 API the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client writes archive objects to an S3 compatible bucket
type Client struct {
	s3     ObjectPutter
	bucket string
	log    zerolog.Logger
}

// NewClient creates a new S3 archive client
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("S3 archive is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	if _, err := s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.BucketName)}); err != nil {
		if env.IsDev() {
			log := logger.For("archive")
			log.Warn().Err(err).Str("bucket", cfg.BucketName).Msg("bucket not reachable, archive writes may fail")
		} else {
			return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.BucketName, err)
		}
	}

	return NewWithPutter(s3Client, cfg.BucketName), nil
}

// NewWithPutter builds a client around an existing S3 API.
func NewWithPutter(putter ObjectPutter, bucket string) *Client {
	return &Client{s3: putter, bucket: bucket, log: logger.For("archive")}
}

// Put stores body under key.
func (c *Client) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", c.bucket, key, err)
	}
	c.log.Debug().Str("key", key).Int("bytes", len(body)).Msg("archived object")
	return nil
}
