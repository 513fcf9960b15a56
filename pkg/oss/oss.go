package oss

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"VideoTube.com/pkg/errno"
)

// Storage keeps uploaded media. Keys have the form "<bucket>/<object>".
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// PutFile uploads the file at path under key and returns its public URL.
func PutFile(ctx context.Context, s Storage, key, path, contentType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", errors.Wrapf(err, "stat %s", path)
	}
	return s.Put(ctx, key, f, info.Size(), contentType)
}

// SplitKey separates the bucket from the object name.
func SplitKey(key string) (bucket, object string, err error) {
	i := strings.IndexByte(key, '/')
	if i <= 0 || i == len(key)-1 {
		return "", "", errors.Errorf("malformed object key %q", key)
	}
	return key[:i], key[i+1:], nil
}

func Key(bucket string, parts ...string) string {
	return bucket + "/" + strings.Join(parts, "")
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

// ImageExt maps an upload content type to a file suffix.
func ImageExt(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "image/gif":
		return ".gif", nil
	}
	return "", errors.Errorf("unsupported image format: %s", contentType)
}

func VideoExt(contentType string) (string, error) {
	switch contentType {
	case "video/mp4":
		return ".mp4", nil
	case "video/webm":
		return ".webm", nil
	case "video/quicktime":
		return ".mov", nil
	case "video/x-matroska":
		return ".mkv", nil
	}
	return "", errors.Errorf("unsupported video format: %s", contentType)
}

// Upload is a file received from a client.
type Upload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// PutImage stores an image upload as <bucket>/<name><ext> and returns the
// key and public URL.
func PutImage(ctx context.Context, s Storage, bucket, name string, u *Upload) (key, url string, err error) {
	ext, err := ImageExt(u.ContentType)
	if err != nil {
		return "", "", errno.ParamErr.WithMessage(err.Error())
	}
	key = Key(bucket, name, ext)
	url, err = s.Put(ctx, key, u.Body, u.Size, u.ContentType)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}
