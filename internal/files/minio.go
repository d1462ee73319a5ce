package files

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"dealchecker/internal/compliance"
	dErrors "dealchecker/pkg/domain-errors"
)

// objectAPI is the subset of *minio.Client the store uses.
type objectAPI interface {
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore lists and opens deal documents in an S3-compatible bucket.
type MinioStore struct {
	client objectAPI
	bucket string
	logger *slog.Logger
}

// Connect builds a MinIO client and creates the bucket if it is missing.
func Connect(ctx context.Context, cfg MinioConfig, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return NewMinio(client, cfg.Bucket, logger), nil
}

func NewMinio(client objectAPI, bucket string, logger *slog.Logger) *MinioStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MinioStore{client: client, bucket: bucket, logger: logger}
}

// ListDealFiles returns the documents stored under the deal's prefix.
func (s *MinioStore) ListDealFiles(ctx context.Context, dealID string) ([]compliance.File, error) {
	prefix := Prefix(dealID)
	var files []compliance.File
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    false,
		WithMetadata: true,
	}) {
		if info.Err != nil {
			return nil, dErrors.Wrap(info.Err, dErrors.CodeUpstream, "failed to list deal files")
		}
		if strings.HasSuffix(info.Key, "/") {
			continue
		}
		label := metadata(info.UserMetadata, metaCategory)
		name := metadata(info.UserMetadata, metaFilename)
		if label == "" {
			// Plain S3 does not return metadata in listings.
			stat, err := s.client.StatObject(ctx, s.bucket, info.Key, minio.StatObjectOptions{})
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to read file metadata")
			}
			label = metadata(stat.UserMetadata, metaCategory)
			name = metadata(stat.UserMetadata, metaFilename)
		}
		id := strings.TrimPrefix(info.Key, prefix)
		if name == "" {
			name = id
		}
		files = append(files, compliance.File{
			ID:         id,
			Name:       name,
			Label:      label,
			StorageKey: info.Key,
			Size:       info.Size,
			UploadedAt: info.LastModified,
		})
	}
	return files, nil
}

// Open streams one document of the deal. Ids outside the deal's prefix are
// reported as not found.
func (s *MinioStore) Open(ctx context.Context, dealID, fileID string) (*Object, error) {
	key, ok := objectKey(dealID, fileID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "file not found")
	}
	stat, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, dErrors.New(dErrors.CodeNotFound, "file not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to stat file")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to open file")
	}
	name := metadata(stat.UserMetadata, metaFilename)
	if name == "" {
		name = fileID
	}
	s.logger.DebugContext(ctx, "opened deal file", "deal_id", dealID, "file_id", fileID, "size", stat.Size)
	return &Object{
		Body:        obj,
		Name:        name,
		ContentType: stat.ContentType,
		Size:        stat.Size,
	}, nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
