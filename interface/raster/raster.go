package raster

import (
	"context"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/airbusgeo/osio"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/google/uuid"
)

// Config holds the credential pair used for streaming reads from the imagery
// buckets. It is passed explicitly to NewSession: no process-wide credential
// state is ever set, so sessions with different credentials can coexist.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string // defaults to eu-central-1
}

var registerOnce sync.Once

// Session streams rasters out of requester-pays S3 buckets and persists them
// locally as georeferenced GeoTIFFs. Each session registers its own streaming
// handler under a unique prefix.
type Session struct {
	prefix string
}

// NewSession creates a Session from the credential pair
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	registerOnce.Do(godal.RegisterAll)

	if cfg.Region == "" {
		cfg.Region = "eu-central-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("raster.NewSession.LoadDefaultConfig: %w", err)
	}

	// every read of the imagery buckets must carry the requester-pays flag
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, smithyhttp.SetHeaderValue("x-amz-request-payer", "requester"))
	})

	s3Handle, err := osio.S3Handle(ctx, osio.S3Client(client))
	if err != nil {
		return nil, fmt.Errorf("raster.NewSession.S3Handle: %w", err)
	}
	adapter, err := osio.NewAdapter(s3Handle,
		osio.BlockSize("1Mb"),
		osio.NumCachedBlocks(64))
	if err != nil {
		return nil, fmt.Errorf("raster.NewSession.NewAdapter: %w", err)
	}

	session := &Session{prefix: fmt.Sprintf("s2-%s://", uuid.New().String()[:8])}
	if err := godal.RegisterVSIHandler(session.prefix, adapter); err != nil {
		return nil, fmt.Errorf("raster.NewSession.RegisterVSIHandler: %w", err)
	}
	return session, nil
}

// AccessPath returns the session-scoped access path of bucket/key
func (s *Session) AccessPath(bucket, key string) string {
	return s.prefix + bucket + "/" + key
}

// Fetch loads the raster at accessPath and writes it to outputPath as a
// GeoTIFF, keeping geotransform, projection and nodata
func (s *Session) Fetch(ctx context.Context, accessPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := Load(accessPath)
	if err != nil {
		return fmt.Errorf("raster.Fetch.%w", err)
	}
	if err := Write(img, outputPath); err != nil {
		return fmt.Errorf("raster.Fetch.%w", err)
	}
	return nil
}
