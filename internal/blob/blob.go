// Package blob stores raw uploaded files in an S3-compatible bucket.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store keeps raw upload bytes under a key.
type Store interface {
	// Put writes data and returns the object key it was stored under.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// ErrDisabled is returned by NopStore reads.
var ErrDisabled = errors.New("blob storage is not configured")

// NopStore accepts writes and keeps nothing.
type NopStore struct{}

func (NopStore) Put(_ context.Context, key, _ string, _ []byte) (string, error) { return key, nil }

func (NopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrDisabled }

// Config selects the bucket. Endpoint is set for R2 or MinIO.
type Config struct {
	Endpoint  string `json:",optional"`
	Region    string `json:",default=auto"`
	Bucket    string `json:",optional"`
	AccessKey string `json:",optional"`
	SecretKey string `json:",optional"`
	Prefix    string `json:",default=resumes/"`
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }

// S3Store writes objects with the AWS SDK. Path-style addressing keeps
// MinIO and R2 endpoints working.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store builds a client from static credentials when given, and from
// the default AWS credential chain otherwise.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blob: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" || strings.HasPrefix(key, s.prefix) {
		return key
	}
	return s.prefix + key
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	full := s.objectKey(key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(full),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", full, err)
	}
	return full, nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return data, nil
}

// New returns an S3Store when cfg names a bucket and a NopStore otherwise.
func New(ctx context.Context, cfg Config) (Store, error) {
	if !cfg.Enabled() {
		return NopStore{}, nil
	}
	return NewS3Store(ctx, cfg)
}
