// Where: internal/index/s3_store.go
// What: S3-backed ObjectStore implementation.
// Why: Map the sync boundary onto the AWS SDK.
package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements ObjectStore on a real S3 client.
type S3Store struct {
	client *s3.Client
}

// NewS3Store builds a store using the default AWS config chain. The
// DEPLOYCTL_AWS_ENDPOINT override points it at a local S3-compatible store
// with static credentials, matching the provisioner's behavior.
func NewS3Store(ctx context.Context) (*S3Store, error) {
	endpoint := strings.TrimSpace(os.Getenv("DEPLOYCTL_AWS_ENDPOINT"))

	opts := []func(*config.LoadOptions) error{}
	if region := os.Getenv("AWS_REGION"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if endpoint != "" {
		creds := credentials.NewStaticCredentialsProvider("local", "local", "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	return &S3Store{client: client}, nil
}

func (s *S3Store) PutObject(ctx context.Context, bucket, key string, body io.Reader) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	return err
}

func (s *S3Store) ListObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}
