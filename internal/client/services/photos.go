package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/orcadive/divelog/internal/client/config"
	"github.com/orcadive/divelog/internal/logging"
	"github.com/orcadive/divelog/internal/netx"
)

// Test seams for the AWS SDK surface used here.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// PhotoService stores dive photos in S3-compatible object storage and
// hands out storage keys; entries carry only the keys in their photo
// reference list, never the bytes.
type PhotoService struct {
	config *config.Config
	log    logging.Logger
}

func NewPhotoService(cfg *config.Config, log logging.Logger) *PhotoService {
	return &PhotoService{config: cfg, log: log}
}

// photoStorageKey spreads photos by date, one object per photo.
func photoStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("photos/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *PhotoService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
	})

	return newS3PresignClient(client), nil
}

// Upload pushes photo bytes through a presigned PUT and returns the
// storage key to record on the entry.
func (s *PhotoService) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := photoStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presigning photo upload: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, req.URL, data, contentType); err != nil {
		return "", err
	}

	s.log.Info(ctx, "photo uploaded", "key", key, "bytes", len(data))
	return key, nil
}

// ResolveURL returns a short-lived download URL for a stored photo key.
func (s *PhotoService) ResolveURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presigning photo download: %w", err)
	}

	return req.URL, nil
}
