package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of the AWS S3 API the backend uses; it exists so
// tests can substitute a mock.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures the S3 backend. Endpoint and ForcePathStyle support
// S3-compatible services like MinIO.
type S3Config struct {
	Bucket         string `env:"UPLOAD_S3_BUCKET"`
	Region         string `env:"UPLOAD_S3_REGION"`
	AccessKeyID    string `env:"UPLOAD_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"UPLOAD_S3_SECRET_KEY"`
	Endpoint       string `env:"UPLOAD_S3_ENDPOINT"`
	BaseURL        string `env:"UPLOAD_S3_BASE_URL"`
	ForcePathStyle bool   `env:"UPLOAD_S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// S3 stores uploads in an S3 bucket. Safe for concurrent use.
type S3 struct {
	client  S3Client
	bucket  string
	baseURL string
}

// S3Option customizes the backend.
type S3Option func(*S3)

// WithS3Client injects a pre-configured client, mainly for tests.
func WithS3Client(client S3Client) S3Option {
	return func(s *S3) { s.client = client }
}

// NewS3 creates an S3 backend. Credentials fall back to the default AWS
// chain when not set explicitly.
func NewS3(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	baseURL := cfg.BaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	backend := &S3{bucket: cfg.Bucket, baseURL: baseURL}
	for _, opt := range opts {
		opt(backend)
	}
	if backend.client != nil {
		return backend, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadConfig, err)
	}

	backend.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return backend, nil
}

// Save uploads the file under key.
func (s *S3) Save(ctx context.Context, fh *multipart.FileHeader, key string) (*File, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	if key == "" || strings.Contains(key, "..") {
		return nil, ErrInvalidKey
	}

	mimeType, err := DetectMIMEType(fh)
	if err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(fh.Size),
	})
	if err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, classifyS3Error(err))
	}

	return &File{
		Filename:  fh.Filename,
		Key:       key,
		Size:      fh.Size,
		MIMEType:  mimeType,
		Extension: Extension(fh),
		URL:       s.URL(key),
	}, nil
}

// Delete removes an object; missing objects are reported as ErrFileNotFound.
func (s *S3) Delete(ctx context.Context, key string) error {
	if !s.Exists(ctx, key) {
		return ErrFileNotFound
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Join(ErrFailedToDeleteFile, classifyS3Error(err))
	}
	return nil
}

// Exists reports whether the object is present in the bucket.
func (s *S3) Exists(ctx context.Context, key string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// URL returns the public URL for key. A configured BaseURL (CDN) wins over
// the default virtual-hosted bucket URL.
func (s *S3) URL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// classifyS3Error keeps AWS error codes out of callers by mapping the common
// ones onto package sentinels.
func classifyS3Error(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return errors.Join(ErrFileNotFound, err)
		case "NoSuchBucket":
			return errors.Join(ErrInvalidConfig, err)
		}
	}
	return err
}
