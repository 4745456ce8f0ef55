// Package object persists the encyclopedia as a single document in an
// S3-compatible bucket (AWS S3 or MinIO).
package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cory-johannsen/monfuse/internal/config"
	"github.com/cory-johannsen/monfuse/internal/game/creature"
	"github.com/cory-johannsen/monfuse/internal/storage/file"
)

// Store reads and writes one object holding the encyclopedia snapshot.
type Store struct {
	client *s3.Client
	bucket string
	key    string
	format file.Format
}

// New builds a Store from cfg using the default AWS credentials chain.
//
// Precondition: cfg.Bucket and cfg.Key must be non-empty.
// Postcondition: Returns a Store or a non-nil error. No request is made.
func New(ctx context.Context, cfg config.ObjectConfig, optFns ...func(*s3.Options)) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	if cfg.Key == "" {
		return nil, errors.New("s3 object key required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	opts := []func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}
	client := s3.NewFromConfig(awsCfg, append(opts, optFns...)...)
	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewWithClient wraps an existing client. The encoding follows key's
// extension.
func NewWithClient(client *s3.Client, bucket, key string) *Store {
	return &Store{client: client, bucket: bucket, key: key, format: file.FormatFor(key)}
}

// Location returns the s3:// URI of the snapshot.
func (s *Store) Location() string { return "s3://" + s.bucket + "/" + s.key }

// Load fetches the snapshot. A missing object is an empty encyclopedia.
func (s *Store) Load(ctx context.Context) (map[string]creature.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if isNotFound(err) {
		return map[string]creature.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.Location(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Location(), err)
	}
	records, err := file.Decode(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.Location(), err)
	}
	return records, nil
}

// Save overwrites the snapshot with records.
func (s *Store) Save(ctx context.Context, records map[string]creature.Record) error {
	data, err := file.Encode(s.format, records)
	if err != nil {
		return fmt.Errorf("encoding encyclopedia: %w", err)
	}
	contentType := "application/json"
	if s.format == file.YAML {
		contentType = "application/yaml"
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &s.key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   &contentType,
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.Location(), err)
	}
	return nil
}

// Health checks that the bucket is reachable.
func (s *Store) Health(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket}); err != nil {
		return fmt.Errorf("s3 health check failed: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
