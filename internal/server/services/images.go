package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/bhojanbox/internal/server/config"
)

// ImageURLTTL is how long a presigned menu image link stays valid.
const ImageURLTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ImageSigner turns object keys into time-limited GET links.
type ImageSigner interface {
	SignGet(ctx context.Context, key string) (string, error)
}

// S3ImageSigner presigns GET requests against an S3-compatible store. The
// presign client is built on first use and reused afterwards.
type S3ImageSigner struct {
	config *sc.Config

	once   sync.Once
	client *s3.PresignClient
	err    error
}

func NewS3ImageSigner(cfg *sc.Config) *S3ImageSigner {
	return &S3ImageSigner{config: cfg}
}

func (s *S3ImageSigner) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *S3ImageSigner) SignGet(ctx context.Context, key string) (string, error) {
	s.once.Do(func() {
		s.client, s.err = s.getPresignClient(ctx)
	})
	if s.err != nil {
		return "", fmt.Errorf("s3 presign client: %w", s.err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(s.client, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ImageURLTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
