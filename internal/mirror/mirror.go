// Package mirror copies freshly compiled artifacts to an S3-compatible bucket.
package mirror

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNoBucket = errors.New("s3 bucket required")

// Mirror stores a copy of an artifact under key.
type Mirror interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Noop discards everything. It is used when no bucket is configured.
type Noop struct{}

func (Noop) Put(context.Context, string, []byte) error { return nil }

// Config describes the target bucket. Empty credentials fall back to the
// default AWS credential chain.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
	PathStyle bool
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Mirror uploads artifacts with PutObject.
type S3Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 builds an S3Mirror. Extra options are applied after the ones derived
// from cfg.
func NewS3(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*S3Mirror, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)
	client := s3.NewFromConfig(awsCfg, opts...)

	return &S3Mirror{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

// Key joins the mirror prefix and key with forward slashes.
func (m *S3Mirror) Key(key string) string {
	if m.prefix == "" {
		return key
	}
	return path.Join(m.prefix, key)
}

func (m *S3Mirror) Put(ctx context.Context, key string, data []byte) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(m.Key(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", m.bucket, m.Key(key), err)
	}
	return nil
}
