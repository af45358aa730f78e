package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/afero"

	"github.com/sfiharvest/navtrack/internal/navtrack/core"
	"github.com/sfiharvest/navtrack/pkg/log"
	"github.com/sfiharvest/navtrack/pkg/options"
)

var _ core.ArchiveStorage = (*MinIO)(nil)

// MinIO uploads closed archive files to an S3 compatible bucket.
type MinIO struct {
	client *minio.Client
	fs     afero.Fs
	bucket string
	prefix string
}

// NewMinIO creates the client. It does not contact the server; call
// CheckBucket for that.
func NewMinIO(opts *options.S3Options, fs afero.Fs) (*MinIO, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIO{
		client: client,
		fs:     fs,
		bucket: opts.BucketName,
		prefix: opts.Prefix,
	}, nil
}

// CheckBucket makes sure the bucket exists, creating it if needed.
func (m *MinIO) CheckBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Bucket does not exist, creating...", "bucket", m.bucket)
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ObjectKey returns the key the file at localPath is stored under.
func (m *MinIO) ObjectKey(localPath string) string {
	return objectKey(m.prefix, localPath)
}

func objectKey(prefix, localPath string) string {
	return path.Join(prefix, filepath.Base(localPath))
}

// Upload copies the file at localPath to the bucket.
func (m *MinIO) Upload(ctx context.Context, localPath string) error {
	f, err := m.fs.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}

	key := m.ObjectKey(localPath)
	_, err = m.client.PutObject(ctx, m.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}
