package repository

import (
	"bytes"
	"context"
	"fmt"

	"productcat/scraper/internal/config"
	"productcat/scraper/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3Repository struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Repository uploads the dataset as a single CSV object. Empty credentials fall back
// to the default AWS credential chain.
func NewS3Repository(ctx context.Context, cfg config.S3Config, key string) (OutcomeRepository, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &s3Repository{
		client: client,
		bucket: cfg.Bucket,
		key:    key,
	}, nil
}

func (r *s3Repository) Reset(ctx context.Context) error {
	// DeleteObject succeeds for missing keys
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete stale object %s: %w", r.Location(), err)
	}
	return nil
}

func (r *s3Repository) Replace(ctx context.Context, outcomes []domain.CategoryOutcome) error {
	body, err := encodeCSV(outcomes)
	if err != nil {
		return err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload dataset to S3: %w", err)
	}

	return nil
}

func (r *s3Repository) Location() string {
	return fmt.Sprintf("s3://%s/%s", r.bucket, r.key)
}
