package middleware

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
	"VideoTube.com/pkg/security"
)

// RateLimit limits write routes per user, falling back to the client ip for
// anonymous callers. A limiter failure lets the request through.
func RateLimit(limiter security.Limiter) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		key := string(c.Method()) + ":" + c.FullPath() + ":"
		if uid := jwt.ViewerID(c); uid > 0 {
			key += strconv.FormatInt(uid, 10)
		} else {
			key += c.ClientIP()
		}
		res, err := limiter.Allow(ctx, key)
		if err != nil {
			hlog.CtxErrorf(ctx, "rate limiter: %v", err)
			c.Next(ctx)
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(res.RetryAfter.Seconds())+1, 10))
			response.Abort(c, errno.TooManyRequestsErr)
			return
		}
		c.Next(ctx)
	}
}
