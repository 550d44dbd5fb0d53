package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Upload timeout per object — generous for multi-slide video outputs.
const uploadTimeout = 180 * time.Second

// Store wraps one S3 bucket with bounded-timeout fetch and upload.
type Store struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader

	Bucket       string
	fetchTimeout time.Duration
}

func New(client *s3.Client, bucket string, fetchTimeout time.Duration) *Store {
	return &Store{
		client:       client,
		uploader:     manager.NewUploader(client),
		downloader:   manager.NewDownloader(client),
		Bucket:       bucket,
		fetchTimeout: fetchTimeout,
	}
}

// Fetch downloads an object to localPath and reports success. Non-existence,
// denial, transport failure, and timeout all log a warning and return false;
// callers decide whether the asset was critical.
func (s *Store) Fetch(ctx context.Context, key, localPath string) bool {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	f, err := os.Create(localPath)
	if err != nil {
		log.Warn().Err(err).Str("path", localPath).Msg("cannot create local file for download")
		return false
	}

	_, err = s.downloader.Download(fetchCtx, f, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	closeErr := f.Close()
	if err != nil {
		os.Remove(localPath)
		log.Warn().Err(err).Str("key", key).Msg("download failed")
		return false
	}
	if closeErr != nil {
		os.Remove(localPath)
		log.Warn().Err(closeErr).Str("key", key).Msg("download write failed")
		return false
	}
	return true
}

// Upload stores a local file under key with the given content type.
func (s *Store) Upload(ctx context.Context, key, localPath, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err = s.uploader.Upload(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s to bucket %s: %w", key, s.Bucket, err)
	}
	return nil
}
