package jwt

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoTube.com/pkg/cache"
	"VideoTube.com/pkg/errno"
)

func newManager(t *testing.T) *Manager {
	m, err := New(Options{
		AccessSecret:  "access",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh",
		RefreshTTL:    24 * time.Hour,
	}, cache.NewMemoryRevoker())
	require.NoError(t, err)
	return m
}

func newEngine(m *Manager) *route.Engine {
	e := route.NewEngine(config.NewOptions(nil))
	whoami := func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, strconv.FormatInt(ViewerID(c), 10))
	}
	e.GET("/private", m.RequireAuth(), whoami)
	e.GET("/public", m.OptionalAuth(), whoami)
	e.POST("/logout", m.RequireAuth(), func(ctx context.Context, c *app.RequestContext) {
		if err := m.Revoke(ctx, c); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.String(http.StatusOK, "bye")
	})
	return e
}

func bearer(token string) ut.Header {
	return ut.Header{Key: "Authorization", Value: "Bearer " + token}
}

func TestAccessToken(t *testing.T) {
	m := newManager(t)
	e := newEngine(m)
	const uid = int64(1796543210987654321)
	token, expire, err := m.IssueAccess(uid)
	require.NoError(t, err)
	assert.True(t, expire.After(time.Now()))

	resp := ut.PerformRequest(e, http.MethodGet, "/private", nil, bearer(token)).Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, strconv.FormatInt(uid, 10), string(resp.Body()))

	resp = ut.PerformRequest(e, http.MethodGet, "/private", nil).Result()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	resp = ut.PerformRequest(e, http.MethodGet, "/private", nil, bearer("garbage")).Result()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestOptionalAuth(t *testing.T) {
	m := newManager(t)
	e := newEngine(m)
	token, _, err := m.IssueAccess(42)
	require.NoError(t, err)

	resp := ut.PerformRequest(e, http.MethodGet, "/public", nil).Result()
	assert.Equal(t, "0", string(resp.Body()))

	resp = ut.PerformRequest(e, http.MethodGet, "/public", nil, bearer("garbage")).Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "0", string(resp.Body()))

	resp = ut.PerformRequest(e, http.MethodGet, "/public", nil, bearer(token)).Result()
	assert.Equal(t, "42", string(resp.Body()))
}

func TestRevokedTokenIsRejected(t *testing.T) {
	m := newManager(t)
	e := newEngine(m)
	token, _, err := m.IssueAccess(7)
	require.NoError(t, err)

	resp := ut.PerformRequest(e, http.MethodPost, "/logout", nil, bearer(token)).Result()
	require.Equal(t, http.StatusOK, resp.StatusCode())

	resp = ut.PerformRequest(e, http.MethodGet, "/private", nil, bearer(token)).Result()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	resp = ut.PerformRequest(e, http.MethodGet, "/public", nil, bearer(token)).Result()
	assert.Equal(t, "0", string(resp.Body()))
}

func TestRefreshToken(t *testing.T) {
	m := newManager(t)
	a, err := m.IssueRefresh(99)
	require.NoError(t, err)
	b, err := m.IssueRefresh(99)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	id, err := m.ParseRefresh(a)
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)

	_, err = m.ParseRefresh(a + "x")
	assert.ErrorIs(t, err, errno.TokenInvalidErr)

	access, _, err := m.IssueAccess(99)
	require.NoError(t, err)
	_, err = m.ParseRefresh(access)
	assert.ErrorIs(t, err, errno.TokenInvalidErr, "access tokens are signed with another key")

	expired := &Manager{refreshKey: m.refreshKey, refreshTTL: -time.Minute}
	old, err := expired.IssueRefresh(99)
	require.NoError(t, err)
	_, err = m.ParseRefresh(old)
	assert.ErrorIs(t, err, errno.TokenInvalidErr)
}

func TestNewRejectsSharedSecret(t *testing.T) {
	for name, opts := range map[string]Options{
		"shared": {AccessSecret: "same", RefreshSecret: "same", AccessTTL: time.Hour, RefreshTTL: time.Hour},
		"empty":  {AccessSecret: "access", AccessTTL: time.Hour, RefreshTTL: time.Hour},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(opts, cache.NewMemoryRevoker())
			assert.Error(t, err)
		})
	}
}
