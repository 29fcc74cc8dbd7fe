// Package storage uploads submission attachments to an S3-compatible bucket
// and hands back the public URL stored on the submission record.
package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Options configures access to the bucket. Endpoint is optional; when set
// (self-hosted or R2-style storage) path-style addressing is used.
type Options struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type BlobStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewBlobStore(ctx context.Context, opts Options) (*BlobStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load blob storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &BlobStore{client: client, bucket: opts.Bucket, baseURL: strings.TrimSuffix(opts.PublicBaseURL, "/")}, nil
}

// UploadFile stores the file at path under a fresh object key and returns
// its public URL.
func (b *BlobStore) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()

	key := objectKey(path)
	contentType := contentTypeFor(path)

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &b.bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	return b.baseURL + "/" + key, nil
}

// objectKey derives a collision-free key, keeping the original extension so
// the stored URL stays recognizable.
func objectKey(path string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(path))
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
