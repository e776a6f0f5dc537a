package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nneonya/Travel-app/internal/config"
	"github.com/nneonya/Travel-app/pkg/logger"
)

// FileStore persists uploaded files and returns the URL clients should
// use to fetch them.
type FileStore interface {
	Save(ctx context.Context, folder, name string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// PublicPrefix is the URL prefix the router serves the upload dir under.
const PublicPrefix = "/public"

// LocalStore writes files below Dir, served statically at PublicPrefix.
type LocalStore struct {
	Dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

func (s *LocalStore) Save(_ context.Context, folder, name string, body io.Reader, _ string) (string, error) {
	dir := filepath.Join(s.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path.Join(PublicPrefix, folder, name), nil
}

// Delete removes a file previously returned by Save. URLs that don't
// point into the upload dir are ignored.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, PublicPrefix+"/") {
		return nil
	}
	rel := path.Clean(strings.TrimPrefix(url, PublicPrefix+"/"))
	if strings.HasPrefix(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// R2Store keeps files in a Cloudflare R2 (S3-compatible) bucket.
type R2Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewR2Store(ctx context.Context, cfg config.Config) (*R2Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Store{
		client:    client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimRight(cfg.R2PublicURL, "/"),
	}, nil
}

func (s *R2Store) Save(ctx context.Context, folder, name string, body io.Reader, contentType string) (string, error) {
	key := path.Join(folder, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *R2Store) Delete(ctx context.Context, url string) error {
	if s.publicURL == "" || !strings.HasPrefix(url, s.publicURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, s.publicURL+"/")
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// NewFileStore picks R2 when it is configured and falls back to the local
// upload directory otherwise.
func NewFileStore(ctx context.Context, cfg config.Config) FileStore {
	if cfg.UseObjectStorage() {
		store, err := NewR2Store(ctx, cfg)
		if err == nil {
			logger.Info().Str("bucket", cfg.R2BucketName).Msg("Using R2 object storage for uploads")
			return store
		}
		logger.Warn().Err(err).Msg("R2 unavailable, falling back to local uploads")
	}
	logger.Info().Str("dir", cfg.UploadDir).Msg("Using local upload directory")
	return NewLocalStore(cfg.UploadDir)
}
