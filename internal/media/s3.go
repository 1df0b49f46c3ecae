package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"realestate/internal/models"
)

const s3KeyPrefix = "properties/"

// S3Config holds configuration for S3-compatible storage. Endpoint is set
// for providers such as DO Spaces, R2 or MinIO.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type S3 struct {
	client *s3.Client
	cfg    S3Config
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{client: client, cfg: cfg}, nil
}

func (s *S3) Save(ctx context.Context, publicID, contentType string, body io.Reader) (models.PropertyImage, error) {
	if !ValidPublicID(publicID) {
		return models.PropertyImage{}, ErrInvalidPublicID
	}
	key := s3KeyPrefix + publicID
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return models.PropertyImage{}, fmt.Errorf("put object: %w", err)
	}
	return models.PropertyImage{URL: PublicURL(s.cfg, key), PublicID: publicID}, nil
}

func (s *S3) Delete(ctx context.Context, publicID string) error {
	if !ValidPublicID(publicID) {
		return ErrInvalidPublicID
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s3KeyPrefix + publicID),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// PublicURL returns the public URL for key.
func PublicURL(cfg S3Config, key string) string {
	if cfg.Endpoint != "" {
		endpoint := strings.TrimRight(cfg.Endpoint, "/")
		if strings.Contains(endpoint, "digitaloceanspaces.com") {
			host := strings.TrimPrefix(endpoint, "https://")
			return fmt.Sprintf("https://%s.%s/%s", cfg.Bucket, host, key)
		}
		return fmt.Sprintf("%s/%s/%s", endpoint, cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
}
