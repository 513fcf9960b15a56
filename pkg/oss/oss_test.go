package oss

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoTube.com/pkg/errno"
)

func TestSplitKey(t *testing.T) {
	bucket, object, err := SplitKey("video/video/42.mp4")
	require.NoError(t, err)
	assert.Equal(t, "video", bucket)
	assert.Equal(t, "video/42.mp4", object)

	for _, bad := range []string{"", "video", "/x", "video/"} {
		_, _, err := SplitKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestExt(t *testing.T) {
	ext, err := ImageExt("image/png")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)
	_, err = ImageExt("application/pdf")
	assert.Error(t, err)

	ext, err = VideoExt("video/mp4")
	require.NoError(t, err)
	assert.Equal(t, ".mp4", ext)
	_, err = VideoExt("image/png")
	assert.Error(t, err)
}

func TestMemoryPutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("frames"), 0o600))
	m := NewMemory("http://cdn.local/")

	url, err := PutFile(context.Background(), m, Key("video", "video/", "1.mp4"), path, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/video/video/1.mp4", url)
	assert.True(t, m.Has("video/video/1.mp4"))

	require.NoError(t, m.Delete(context.Background(), "video/video/1.mp4"))
	assert.Equal(t, 0, m.Len())

	_, err = m.Put(context.Background(), "nobucket", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}

func TestMinioAgainstServer(t *testing.T) {
	endpoint := os.Getenv("VIDEOTUBE_MINIO_ENDPOINT")
	if testing.Short() || endpoint == "" {
		t.Skip("VIDEOTUBE_MINIO_ENDPOINT not set")
	}
	m, err := NewMinio(MinioOptions{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("VIDEOTUBE_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("VIDEOTUBE_MINIO_SECRET_KEY"),
	})
	require.NoError(t, err)
	ctx := context.Background()
	url, err := m.Put(ctx, "picture/test/probe.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, "/picture/test/probe.txt"))
	require.NoError(t, m.Delete(ctx, "picture/test/probe.txt"))
}

func TestPutImage(t *testing.T) {
	m := NewMemory("http://cdn.local")
	key, url, err := PutImage(context.Background(), m, "picture", "avatar/7", &Upload{
		Body: strings.NewReader("png"), Size: 3, ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "picture/avatar/7.png", key)
	assert.Equal(t, "http://cdn.local/picture/avatar/7.png", url)

	_, _, err = PutImage(context.Background(), m, "picture", "avatar/7", &Upload{
		Body: strings.NewReader("%PDF"), Size: 4, ContentType: "application/pdf",
	})
	assert.ErrorIs(t, err, errno.ParamErr)
	assert.Equal(t, 1, m.Len())
}
