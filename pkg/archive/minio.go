package archive

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
)

// objectStore is the slice of *minio.Client the archive needs.
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinIO struct {
	client objectStore
	bucket string
}

func NewMinIO(client *minio.Client, bucket string) *MinIO {
	return &MinIO{client: client, bucket: bucket}
}

func (m *MinIO) Archive(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	key = strings.ReplaceAll(key, "\\", "/")

	info, err := m.client.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("bucket", m.bucket).
		Str("key", key).
		Int64("size", info.Size).
		Msg("original archived")
	return nil
}

// Remove deletes an archived original. A missing object is not an error.
func (m *MinIO) Remove(ctx context.Context, key string) error {
	key = strings.ReplaceAll(key, "\\", "/")
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("bucket", m.bucket).Str("key", key).Msg("archived original removed")
	return nil
}
