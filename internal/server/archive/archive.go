// Package archive stores raw received messages in an S3 compatible bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) error {
		_, err := c.PutObject(ctx, in, optFns...)
		return err
	}

	newKey = func(t time.Time) string {
		return fmt.Sprintf("inbox/%04d/%02d/%02d/%v.eml", t.Year(), t.Month(), t.Day(), uuid.New())
	}
)

// Store is the archive used by the ingestion pipeline. A Store without a
// bucket is disabled and Put returns an empty key.
type Store struct {
	bucket string
	client *s3.Client
	now    func() time.Time
}

// New builds the S3 client from cfg. It returns a disabled store when no
// bucket is configured.
func New(ctx context.Context, cfg *sc.Config) (*Store, error) {
	if cfg.S3Bucket == "" {
		return &Store{}, nil
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			// MinIO and friends don't do virtual-hosted buckets
			o.UsePathStyle = true
		}
	})

	return &Store{bucket: cfg.S3Bucket, client: client, now: time.Now}, nil
}

func (s *Store) Enabled() bool { return s != nil && s.bucket != "" }

// Put uploads raw and returns its object key.
func (s *Store) Put(ctx context.Context, raw []byte) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	key := newKey(s.now().UTC())
	err := putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(raw),
		ContentLength: aws.Int64(int64(len(raw))),
		ContentType:   aws.String("message/rfc822"),
	})
	if err != nil {
		return "", fmt.Errorf("archive put %s: %w", key, err)
	}
	return key, nil
}
