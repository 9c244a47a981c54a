package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/photovault/photovault/internal/cidx"
	"github.com/photovault/photovault/internal/common"
)

// s3API is the slice of the S3 client the mirror uses; injectable in tests.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Mirror archives ciphertext on an S3-compatible endpoint (MinIO or a
// cloud bucket). S3 assigns no content identifiers, so the mirror derives a
// genuine CIDv1 from the blob itself and uses it as the object key — the
// same bytes always land on the same key. Objects carry no content type and
// no metadata.
type S3Mirror struct {
	api    s3API
	bucket string
}

// S3MirrorConfig carries the S3-compatible endpoint settings.
type S3MirrorConfig struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// Configured reports whether uploads can be attempted.
func (c S3MirrorConfig) Configured() bool {
	return c.Bucket != "" && c.AccessKey != ""
}

// NewS3Mirror builds the mirror from static credentials against a custom
// endpoint (path-style, as MinIO expects).
func NewS3Mirror(ctx context.Context, cfg S3MirrorConfig) (*S3Mirror, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3mirror: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Mirror{api: client, bucket: cfg.Bucket}, nil
}

// NewS3MirrorWithAPI injects a mockable API (used in tests).
func NewS3MirrorWithAPI(api s3API, bucket string) *S3Mirror {
	return &S3Mirror{api: api, bucket: bucket}
}

func (m *S3Mirror) Name() string { return "s3mirror" }

func (m *S3Mirror) Upload(ctx context.Context, blob []byte, opts UploadOptions) (string, error) {
	cid := cidx.FromBytes(blob)

	_, err := m.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(cid),
		Body:   newProgressReader(bytes.NewReader(blob), int64(len(blob)), opts.OnProgress),
	})
	if err != nil {
		return "", fmt.Errorf("s3mirror: put object: %v: %w", err, common.ErrBackendUnavailable)
	}

	return cid, nil
}

func (m *S3Mirror) Download(ctx context.Context, cid string) ([]byte, error) {
	out, err := m.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(cid),
	})
	if err != nil {
		return nil, fmt.Errorf("s3mirror: get object: %v: %w", err, common.ErrBackendUnavailable)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3mirror: read object: %w", common.ErrBackendUnavailable)
	}
	return data, nil
}

func (m *S3Mirror) Exists(ctx context.Context, cid string) (bool, error) {
	_, err := m.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(cid),
	})
	if err != nil {
		return false, nil // best-effort: absent or unreachable both read as "no"
	}
	return true, nil
}

func (m *S3Mirror) Unpin(ctx context.Context, cid string) error {
	_, err := m.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(cid),
	})
	if err != nil {
		return fmt.Errorf("s3mirror: delete object: %w", err)
	}
	return nil
}
