package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/security"
)

type failingLimiter struct{}

func (failingLimiter) Allow(ctx context.Context, key string) (*security.RateLimitResult, error) {
	return nil, errors.New("redis down")
}

func newEngine(limiter security.Limiter) *route.Engine {
	e := route.NewEngine(config.NewOptions(nil))
	asUser := func(ctx context.Context, c *app.RequestContext) {
		if uid := c.Query("uid"); uid == "1" {
			c.Set(constants.IdentityKey, int64(1))
		} else if uid == "2" {
			c.Set(constants.IdentityKey, int64(2))
		}
		c.Next(ctx)
	}
	e.POST("/write", asUser, RateLimit(limiter), func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, "ok")
	})
	return e
}

func TestRateLimit(t *testing.T) {
	e := newEngine(security.NewLocalLimiter(security.RateLimitConfig{WindowSize: time.Minute, MaxRequests: 2}))

	for i := 0; i < 2; i++ {
		resp := ut.PerformRequest(e, http.MethodPost, "/write?uid=1", nil).Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode())
	}
	resp := ut.PerformRequest(e, http.MethodPost, "/write?uid=1", nil).Result()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	resp = ut.PerformRequest(e, http.MethodPost, "/write?uid=2", nil).Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode(), "limits are per user")
}

func TestRateLimitFailsOpen(t *testing.T) {
	e := newEngine(failingLimiter{})
	resp := ut.PerformRequest(e, http.MethodPost, "/write?uid=1", nil).Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestResource(t *testing.T) {
	assert.Equal(t, "GET:/api/v1/videos/:videoId", Resource(http.MethodGet, "/api/v1/videos/:videoId"))
}
