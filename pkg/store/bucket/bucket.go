package bucket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

var ErrMissingCredentials = errors.New("please set the environment variables S3_LEASE_APP_KEY, S3_LEASE_KEY_ID")

type Settings struct {
	EndpointURL string
	KeyID       string
	AppKey      string
	Region      string
}

// ObjectGetter is the subset of the S3 client used to download lease files.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewClient builds an S3 client for any S3-compatible endpoint using static
// credentials.
func NewClient(ctx context.Context, settings Settings) (*s3.Client, error) {
	if settings.KeyID == "" || settings.AppKey == "" {
		return nil, ErrMissingCredentials
	}

	region := settings.Region
	if region == "" {
		region = DefaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			settings.KeyID,
			settings.AppKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.EndpointURL != "" {
			o.BaseEndpoint = aws.String(settings.EndpointURL)
		}
	}), nil
}

type LeaseBucket struct {
	client ObjectGetter
	bucket string
}

func NewLeaseBucket(client ObjectGetter, bucket string) (*LeaseBucket, error) {
	if client == nil {
		return nil, errors.New("s3 client is nil")
	}
	if bucket == "" {
		return nil, errors.New("lease bucket is required (S3_LEASE_BUCKET)")
	}
	return &LeaseBucket{client: client, bucket: bucket}, nil
}

// Fetch downloads key into dir, naming the file after the key's base name,
// and returns the local path.
func (b *LeaseBucket) Fetch(ctx context.Context, key, dir string) (string, error) {
	logger := zerolog.Ctx(ctx)
	localPath := filepath.Join(dir, path.Base(key))

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("get s3://%s/%s: %w", b.bucket, key, err)
	}
	defer out.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", localPath, err)
	}

	n, err := io.Copy(f, out.Body)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("download s3://%s/%s: %w", b.bucket, key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", localPath, err)
	}

	logger.Info().Str("bucket", b.bucket).Str("key", key).Int64("bytes", n).Str("path", localPath).Msg("lease file downloaded")
	return localPath, nil
}
