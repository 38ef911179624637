package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/nargyrop/s2-aws-dl/service"
)

// DefaultRegion is where the Sentinel-2 buckets live
const DefaultRegion = "eu-central-1"

// Config holds the credential pair used for every request.
// The Sentinel-2 buckets are requester-pays: all requests are sent with the
// requester-pays transfer flag and the transfer is billed to this account.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string // defaults to DefaultRegion
}

// S3Store implements Store against AWS S3
type S3Store struct {
	client     *s3.Client
	downloader *manager.Downloader
}

// NewS3Store creates a new Store from the credential pair
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("NewS3Store.LoadDefaultConfig: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		d.PartSize = 10 * 1024 * 1024 // 10MB per part
	})

	return &S3Store{client: client, downloader: downloader}, nil
}

// GetObject implements Store
func (s *S3Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(key),
		RequestPayer: "requester",
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrObjectNotFound{Bucket: bucket, Key: key}
		}
		return nil, service.MakeTemporary(fmt.Errorf("S3Store.GetObject[s3://%s/%s]: %w", bucket, key, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, service.MakeTemporary(fmt.Errorf("S3Store.GetObject[s3://%s/%s].ReadAll: %w", bucket, key, err))
	}
	return body, nil
}

// DownloadToFile implements Store
func (s *S3Store) DownloadToFile(ctx context.Context, bucket, key, localPath string) error {
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("S3Store.DownloadToFile: create %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err = s.downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(key),
		RequestPayer: "requester",
	}); err != nil {
		return fmt.Errorf("S3Store.DownloadToFile[s3://%s/%s]: %w", bucket, key, err)
	}
	return nil
}

// ListKeys implements Store
func (s *S3Store) ListKeys(ctx context.Context, bucket, prefix string, suffixes ...string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client,
		&s3.ListObjectsV2Input{
			Bucket:       aws.String(bucket),
			Prefix:       aws.String(prefix),
			RequestPayer: "requester",
		},
	)

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, service.MakeTemporary(fmt.Errorf("S3Store.ListKeys[s3://%s/%s]: %w", bucket, prefix, err))
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			if matchesSuffix(key, suffixes) {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

func matchesSuffix(key string, suffixes []string) bool {
	if len(suffixes) == 0 {
		return true
	}
	for _, suffix := range suffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}
