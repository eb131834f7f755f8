package archive

import (
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
)

// Config holds the S3 archive configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads the archive configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("ARCHIVE_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("ARCHIVE_S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("ARCHIVE_S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("ARCHIVE_S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("ARCHIVE_S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("ARCHIVE_S3_ENABLED", "false") == "true",
	}

	// Validate required fields if the archive is enabled
	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("ARCHIVE_S3_ACCESS_KEY_ID is required when the archive is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("ARCHIVE_S3_SECRET_ACCESS_KEY is required when the archive is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("ARCHIVE_S3_BUCKET_NAME is required when the archive is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if the archive is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// FeedbackKey generates the object key of an archived feedback record.
// Format: feedback/YYYY/MM/UUID.json
func FeedbackKey(id string, submitted time.Time) string {
	submitted = submitted.UTC()
	return fmt.Sprintf("feedback/%04d/%02d/%s.json", submitted.Year(), int(submitted.Month()), id)
}
