package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of the S3 client used by S3Reader.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Reader implements Reader over S3-compatible object storage.
type S3Reader struct {
	api ObjectAPI
	cfg Config
}

// New creates an S3Reader with static credentials from cfg.
func New(cfg Config) (*S3Reader, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Reader{
		api: s3.New(s3.Options{}, opts...),
		cfg: cfg,
	}, nil
}

// NewWithAPI creates an S3Reader over an existing client.
// Only Bucket is required in cfg.
func NewWithAPI(api ObjectAPI, cfg Config) (*S3Reader, error) {
	if api == nil || cfg.Bucket == "" {
		return nil, ErrInvalidConfig
	}
	cfg.applyDefaults()
	return &S3Reader{api: api, cfg: cfg}, nil
}

// Open retrieves an object from S3.
func (s *S3Reader) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := objectKey(s.cfg.Prefix, key)
	if err != nil {
		return nil, err
	}

	output, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(k),
	})
	if err != nil {
		return nil, classify(k, err, ErrReadFailed)
	}

	return output.Body, nil
}

// Stat checks that an object exists and returns its metadata.
func (s *S3Reader) Stat(ctx context.Context, key string) (*Object, error) {
	k, err := objectKey(s.cfg.Prefix, key)
	if err != nil {
		return nil, err
	}

	output, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(k),
	})
	if err != nil {
		return nil, classify(k, err, ErrNotFound)
	}

	return &Object{
		Key:         key,
		Size:        aws.ToInt64(output.ContentLength),
		ContentType: aws.ToString(output.ContentType),
		ETag:        aws.ToString(output.ETag),
	}, nil
}

// ReadAll reads the whole object, failing with ErrTooLarge past MaxObjectSize.
func (s *S3Reader) ReadAll(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.cfg.MaxObjectSize+1))
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	if int64(len(data)) > s.cfg.MaxObjectSize {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, key)
	}
	return data, nil
}

var _ Reader = (*S3Reader)(nil)
