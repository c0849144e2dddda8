// AngelaMos | 2026
// s3.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/config"
)

const defaultDownloadTTL = 24 * time.Hour

type presigner interface {
	PresignGetObject(
		ctx context.Context,
		params *s3.GetObjectInput,
		optFns ...func(*s3.PresignOptions),
	) (*v4.PresignedHTTPRequest, error)
}

// S3Signer presigns GET requests against an S3 compatible bucket.
type S3Signer struct {
	client presigner
	bucket string
	ttl    time.Duration
	now    func() time.Time
}

func NewS3Signer(ctx context.Context, cfg config.StorageConfig) (*S3Signer, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 signer: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
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

	return newS3Signer(s3.NewPresignClient(client), cfg.Bucket, cfg.DownloadTTL), nil
}

func newS3Signer(client presigner, bucket string, ttl time.Duration) *S3Signer {
	if ttl <= 0 {
		ttl = defaultDownloadTTL
	}
	return &S3Signer{
		client: client,
		bucket: bucket,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *S3Signer) SignDownload(
	ctx context.Context,
	a *asset.Asset,
) (string, *time.Time, error) {
	key, err := ObjectKey(a.URL, s.bucket)
	if err != nil {
		return "", nil, fmt.Errorf("sign download for asset %d: %w", a.ID, err)
	}

	expires := s.now().Add(s.ttl)

	req, err := s.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", nil, fmt.Errorf("presign asset %d: %w", a.ID, err)
	}

	return req.URL, &expires, nil
}

// ObjectKey extracts the object key from an asset URL. It accepts
// s3://bucket/key, virtual-hosted (bucket.host/key) and path-style
// (host/bucket/key) URLs as well as bare keys.
func ObjectKey(raw, bucket string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse asset url: %w", err)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case u.Scheme == "s3":
		if u.Host != bucket {
			return "", fmt.Errorf("object in bucket %q, want %q", u.Host, bucket)
		}
	case u.Host == "":
	case strings.HasPrefix(u.Host, bucket+"."):
	default:
		path = strings.TrimPrefix(path, bucket+"/")
	}

	if path == "" {
		return "", fmt.Errorf("asset url %q has no object key", raw)
	}
	return path, nil
}
