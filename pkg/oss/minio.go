package oss

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const location = "us-east-1" // MinIO默认区域

type MinioOptions struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	PublicBase string
}

type Minio struct {
	client     *minio.Client
	publicBase string
	buckets    sync.Map
}

func NewMinio(opts MinioOptions) (*Minio, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}
	base := opts.PublicBase
	if base == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, opts.Endpoint)
	}
	hlog.Info("Connect Minio Success")
	return &Minio{client: client, publicBase: base}, nil
}

// ensureBucket 检查存储桶是否存在，不存在则创建
func (m *Minio) ensureBucket(ctx context.Context, bucket string) error {
	if _, ok := m.buckets.Load(bucket); ok {
		return nil
	}
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, "check bucket")
	}
	if !exists {
		if err = m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return errors.Wrap(err, "create bucket")
		}
	}
	m.buckets.Store(bucket, struct{}{})
	return nil
}

func (m *Minio) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	bucket, object, err := SplitKey(key)
	if err != nil {
		return "", err
	}
	if err = m.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}
	if _, err = m.client.PutObject(ctx, bucket, object, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", errors.Wrapf(err, "put %s", key)
	}
	return m.URL(key), nil
}

func (m *Minio) Delete(ctx context.Context, key string) error {
	bucket, object, err := SplitKey(key)
	if err != nil {
		return err
	}
	if err = m.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "remove %s", key)
	}
	return nil
}

func (m *Minio) URL(key string) string {
	return joinURL(m.publicBase, key)
}
