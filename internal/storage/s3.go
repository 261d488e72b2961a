// Package storage uploads images to an S3-compatible object store (MinIO in
// development) and derives the public URLs the posts and gallery reference.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// s3API is the slice of the S3 client the uploader uses. Narrowing it keeps
// tests free of a real client.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config holds what the uploader needs to reach the store.
type Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Uploader stores objects and answers with their public URLs. Objects are
// publicly readable by bucket policy; URLs are derived, not signed.
type Uploader struct {
	client        s3API
	publicBaseURL string
	logger        *slog.Logger
}

// New builds an Uploader against cfg.Endpoint.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("storage: loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = cfg.Endpoint
	}

	return &Uploader{
		client:        client,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// objectKey builds a date-partitioned random key preserving the original
// file's extension.
func objectKey(filename string) string {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}
	d := time.Now().UTC()
	return fmt.Sprintf("%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// Upload stores body under a fresh key in bucket and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, bucket, filename string, body io.Reader) (string, error) {
	key := objectKey(filename)

	contentType := "application/octet-stream"
	if i := strings.LastIndex(filename, "."); i >= 0 {
		if byExt := mime.TypeByExtension(strings.ToLower(filename[i:])); byExt != "" {
			contentType = byExt
		}
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: uploading to %s: %w", bucket, err)
	}

	url := u.PublicURL(bucket, key)
	u.logger.Info("object uploaded",
		slog.String("bucket", bucket),
		slog.String("key", key),
	)
	return url, nil
}

// PublicURL derives the stable public URL of an object.
func (u *Uploader) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", u.publicBaseURL, bucket, key)
}

// ListPublicURLs returns the public URLs of every object in bucket, for the
// gallery page.
func (u *Uploader) ListPublicURLs(ctx context.Context, bucket string) ([]string, error) {
	var urls []string
	var continuation *string
	for {
		out, err := u.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: listing %s: %w", bucket, err)
		}
		for _, obj := range out.Contents {
			if obj.Key != nil {
				urls = append(urls, u.PublicURL(bucket, *obj.Key))
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}
	return urls, nil
}
