package config

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
)

func EnsureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("bucket", bucket).Msg("created archive bucket")
	return nil
}
