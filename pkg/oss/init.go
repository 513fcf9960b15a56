package oss

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VideoTube.com/config"
)

// New builds the storage backend named by storage.driver.
func New(ctx context.Context) (Storage, error) {
	cfg := config.ConfigInfo.Storage
	switch cfg.Driver {
	case "minio", "":
		hlog.Infof("Initializing MinIO client with endpoint: %s", cfg.Minio.Endpoint)
		return NewMinio(MinioOptions{
			Endpoint:   cfg.Minio.Endpoint,
			AccessKey:  cfg.Minio.AccessKey,
			SecretKey:  cfg.Minio.SecretKey,
			UseSSL:     cfg.Minio.UseSSL,
			PublicBase: cfg.PublicBase,
		})
	case "s3":
		hlog.Infof("Initializing S3 client for bucket %s in %s", cfg.S3.Bucket, cfg.S3.Region)
		return NewS3(ctx, S3Options{
			Region:     cfg.S3.Region,
			Bucket:     cfg.S3.Bucket,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			Endpoint:   cfg.S3.Endpoint,
			PublicBase: cfg.PublicBase,
		})
	case "memory":
		hlog.Warn("using in-memory object storage, uploads are lost on restart")
		return NewMemory(cfg.PublicBase), nil
	}
	return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
}
