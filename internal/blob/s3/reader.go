package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kailas-cloud/taxodex/internal/blob"
)

// maxAssetSize caps a single object download.
const maxAssetSize = 64 << 20

// getObjectAPI is the slice of the S3 client the reader uses.
type getObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Reader implements blob.Reader over an S3-compatible bucket (AWS S3 or MinIO).
// Asset names map to "<prefix>/<name>" object keys.
type Reader struct {
	client getObjectAPI
	bucket string
	prefix string
}

var _ blob.Reader = (*Reader)(nil)

// Config holds construction parameters. Credentials come from the default
// AWS chain (env, shared config, instance role).
type Config struct {
	Region    string
	Bucket    string
	Prefix    string
	Endpoint  string // optional; set for MinIO
	PathStyle bool
}

// New creates an S3 reader from Config.
func New(ctx context.Context, cfg Config) (*Reader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newReader(client, cfg.Bucket, cfg.Prefix), nil
}

func newReader(client getObjectAPI, bucket, prefix string) *Reader {
	return &Reader{client: client, bucket: bucket, prefix: prefix}
}

// Driver returns blob.DriverS3.
func (r *Reader) Driver() blob.Driver { return blob.DriverS3 }

// Read downloads the object for name.
func (r *Reader) Read(ctx context.Context, name string) ([]byte, error) {
	key := name
	if r.prefix != "" {
		key = path.Join(r.prefix, name)
	}
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &r.bucket, Key: &key})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s", blob.ErrNotFound, r.bucket, key)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", r.bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", r.bucket, key, err)
	}
	return data, nil
}
