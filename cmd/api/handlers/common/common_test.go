package common

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/oss"
)

func TestPageAndPathID(t *testing.T) {
	var (
		gotPage compose.PageRequest
		pageErr error
		gotID   int64
		idErr   error
	)
	e := route.NewEngine(config.NewOptions(nil))
	e.GET("/videos/:videoId", func(ctx context.Context, c *app.RequestContext) {
		gotPage, pageErr = Page(c)
		gotID, idErr = PathID(c, "videoId")
	})

	ut.PerformRequest(e, http.MethodGet, "/videos/42", nil)
	require.NoError(t, pageErr)
	require.NoError(t, idErr)
	assert.Equal(t, compose.PageRequest{Number: 1, Size: 10}, gotPage)
	assert.Equal(t, int64(42), gotID)

	ut.PerformRequest(e, http.MethodGet, "/videos/abc?page=3&limit=500", nil)
	require.NoError(t, pageErr)
	assert.Equal(t, compose.PageRequest{Number: 3, Size: 100}, gotPage)
	assert.ErrorIs(t, idErr, errno.ParamErr)

	ut.PerformRequest(e, http.MethodGet, "/videos/-1?page=0", nil)
	assert.ErrorIs(t, pageErr, errno.ParamErr)
	assert.ErrorIs(t, idErr, errno.ParamErr)
}

func TestUpload(t *testing.T) {
	var (
		got     *oss.Upload
		content []byte
		upErr   error
		absent  bool
	)
	e := route.NewEngine(config.NewOptions(nil))
	e.POST("/upload", func(ctx context.Context, c *app.RequestContext) {
		u, f, err := Upload(c, "avatar", 16)
		defer Close(f)
		got, upErr = u, err
		if u != nil {
			content, _ = io.ReadAll(u.Body)
		}
		missing, mf, _ := Upload(c, "cover", 16)
		absent = missing == nil && mf == nil
	})

	form := func(data string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="avatar"; filename="a.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte(data))
		require.NoError(t, w.Close())
		return &buf, w.FormDataContentType()
	}

	body, ct := form("png-bytes")
	ut.PerformRequest(e, http.MethodPost, "/upload", &ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: ct})
	require.NoError(t, upErr)
	require.NotNil(t, got)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, int64(9), got.Size)
	assert.Equal(t, "png-bytes", string(content))
	assert.True(t, absent)

	body, ct = form("far too large for the limit")
	ut.PerformRequest(e, http.MethodPost, "/upload", &ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: ct})
	assert.ErrorIs(t, upErr, errno.ParamErr)

	raw := bytes.NewBufferString(`{"title":"x"}`)
	ut.PerformRequest(e, http.MethodPost, "/upload", &ut.Body{Body: raw, Len: raw.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	require.NoError(t, upErr)
	assert.Nil(t, got)
}
