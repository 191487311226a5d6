// Package objectstore provides the S3-compatible storage client used to
// stage build-context archives for the remote builder.
package objectstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilnworks/kiln-go/internal/platform/env"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
}

func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("KILN_MINIO_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:  env.String("KILN_MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: env.String("KILN_MINIO_ACCESS_KEY", "kiln"),
		SecretKey: env.String("KILN_MINIO_SECRET_KEY", "kilnminio"),
		Region:    env.String("KILN_MINIO_REGION", "us-east-1"),
		UseSSL:    useSSL,
		Bucket:    env.String("KILN_MINIO_BUCKET", "kiln-staging"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("staging bucket is required")
	}
	return nil
}
