package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	perr "lectern/internal/platform/errors"
)

// S3Config locates the bucket, decoded from CACHE_S3_*
// Endpoint overrides the AWS endpoint for MinIO and other compatible servers
type S3Config struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Prefix    string `env:"PREFIX" envDefault:"lectern/"`
}

// ObjectAPI is the part of the S3 client the store uses
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 keeps one object per key; object names are the sha256 of the key under prefix
type S3 struct {
	api    ObjectAPI
	bucket string
	prefix string
}

// NewS3 wraps an object client
func NewS3(api ObjectAPI, bucket, prefix string) (*S3, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, perr.Configf("cache: s3 backend needs CACHE_S3_BUCKET")
	}
	return &S3{api: api, bucket: bucket, prefix: prefix}, nil
}

// NewS3Client builds an S3 client with static credentials when given
func NewS3Client(ctx context.Context, c S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "cache: load aws config")
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *S3) object(key string) *string {
	sum := sha256.Sum256([]byte(key))
	return aws.String(s.prefix + hex.EncodeToString(sum[:]))
}

// Get downloads the object for key; NoSuchKey is a miss
func (s *S3) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: s.object(key)})
	if err != nil {
		var nsk *types.NoSuchKey
		var nf *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nf) {
			return nil, false, nil
		}
		return nil, false, perr.Wrapf(err, perr.ErrorCodeDB, "cache: s3 get %q", key)
	}
	defer func() { _ = out.Body.Close() }()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, perr.Wrapf(err, perr.ErrorCodeDB, "cache: s3 read %q", key)
	}
	return b, true, nil
}

// Set uploads val under key
func (s *S3) Set(ctx context.Context, key string, val []byte) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         s.object(key),
		Body:        bytes.NewReader(val),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "cache: s3 put %q", key)
	}
	return nil
}

// Delete removes the object for key; S3 treats an absent object as deleted
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: s.object(key)})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "cache: s3 delete %q", key)
	}
	return nil
}
