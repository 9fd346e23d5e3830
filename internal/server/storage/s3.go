package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/snapfeed/internal/server/config"
)

// S3Uploader stores files in an S3-compatible bucket (AWS or MinIO-style
// backends with a BaseEndpoint override).
type S3Uploader struct {
	config *sc.Config
}

func NewS3Uploader(config *sc.Config) *S3Uploader {
	return &S3Uploader{config: config}
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(u.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.S3RootUser,
			u.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload puts the local file into the bucket under key and returns the
// object's public URL.
func (u *S3Uploader) Upload(ctx context.Context, localPath string, key string) (string, error) {

	client, err := u.getClient(ctx)
	if err != nil {
		return "", err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening upload file: %w", err)
	}
	defer file.Close()

	bucket := u.config.S3Bucket

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   file,
	})
	if err != nil {
		return "", fmt.Errorf("error uploading object: %w", err)
	}

	return u.publicURL(key), nil
}

// PresignGet returns a time-limited GET URL for key, for private buckets.
func (u *S3Uploader) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {

	client, err := u.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := u.config.S3Bucket

	req, err := s3.NewPresignClient(client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (u *S3Uploader) publicURL(key string) string {
	// escape per segment, the slashes in the key are real path separators
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	endpoint := strings.TrimSuffix(u.config.S3BaseEndpoint, "/")
	return fmt.Sprintf("%s/%s/%s", endpoint, u.config.S3Bucket, strings.Join(segments, "/"))
}
