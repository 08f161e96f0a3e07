package aws

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads generated report files to a bucket
type S3Publisher struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Publisher creates a new S3Publisher for bucket, storing objects under prefix
func NewS3Publisher(cfg aws.Config, bucket, prefix string) *S3Publisher {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true // Use path-style addressing which is more reliable
	})
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Publish uploads each file and returns the resulting s3:// URIs in order
func (p *S3Publisher) Publish(ctx context.Context, files ...string) ([]string, error) {
	uris := make([]string, 0, len(files))
	for _, file := range files {
		uri, err := p.upload(ctx, file)
		if err != nil {
			return uris, err
		}
		uris = append(uris, uri)
	}
	return uris, nil
}

func (p *S3Publisher) upload(ctx context.Context, file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", file, err)
	}
	defer f.Close()

	key := path.Join(p.prefix, filepath.Base(file))
	contentType := mime.TypeByExtension(filepath.Ext(file))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s to bucket %s: %w", file, p.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.bucket, key), nil
}
