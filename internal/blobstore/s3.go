package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/hashindex/internal/common"
)

// S3Options configures access to an S3-compatible backend (AWS S3 or a
// self-hosted MinIO endpoint).
type S3Options struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store stores blobs as objects under date-partitioned keys.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an S3-backed Store from static credentials. No request
// is made until the first Put or Get.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.RootUser,
			opts.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Store{client: client, bucket: opts.Bucket}, nil
}

// newStorageKey partitions objects by upload date so buckets stay browsable.
func newStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("corpus/%d/%02d/%02d/%v", d.Year(), int(d.Month()), d.Day(), uuid.New())
}

func (s *S3Store) Put(ctx context.Context, r io.Reader, size int64) (string, error) {
	key := newStorageKey()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("putting object %s: %w", key, err)
	}
	return key, nil
}

func (s *S3Store) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("object %s: %w", ref, common.ErrNotFound)
		}
		return nil, fmt.Errorf("getting object %s: %w", ref, err)
	}
	return out.Body, nil
}
