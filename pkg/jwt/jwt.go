// Package jwt issues and checks the tokens of a session: short lived access
// tokens carried on every request and refresh tokens stored on the user row.
package jwt

import (
	"context"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hzjwt "github.com/hertz-contrib/jwt"
	"github.com/pkg/errors"

	"VideoTube.com/pkg/cache"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
)

type Options struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

type Manager struct {
	access     *hzjwt.HertzJWTMiddleware
	refreshKey []byte
	refreshTTL time.Duration
	revoker    cache.Revoker
}

// New builds the token manager. The two secrets must differ, otherwise a
// refresh token would verify as an access token.
func New(opts Options, revoker cache.Revoker) (*Manager, error) {
	if opts.AccessSecret == "" || opts.RefreshSecret == "" {
		return nil, errors.New("jwt secrets must not be empty")
	}
	if opts.AccessSecret == opts.RefreshSecret {
		return nil, errors.New("jwt access and refresh secrets must differ")
	}
	m := &Manager{
		refreshKey: []byte(opts.RefreshSecret),
		refreshTTL: opts.RefreshTTL,
		revoker:    revoker,
	}
	mw, err := hzjwt.New(&hzjwt.HertzJWTMiddleware{
		Realm:         "videotube",
		Key:           []byte(opts.AccessSecret),
		Timeout:       opts.AccessTTL,
		MaxRefresh:    opts.AccessTTL,
		IdentityKey:   constants.IdentityKey,
		TokenLookup:   "header: Authorization, cookie: accessToken, query: token",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		PayloadFunc: func(data interface{}) hzjwt.MapClaims {
			if id, ok := data.(int64); ok {
				// ids exceed float64 precision, keep them as strings
				return hzjwt.MapClaims{constants.IdentityKey: strconv.FormatInt(id, 10)}
			}
			return hzjwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			id, ok := identity(hzjwt.ExtractClaims(ctx, c))
			if !ok {
				return nil
			}
			return id
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			if id, ok := data.(int64); !ok || id <= 0 {
				return false
			}
			return !m.revoked(ctx, hzjwt.GetToken(ctx, c))
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			hlog.CtxDebugf(ctx, "unauthorized request to %s: %s", c.Path(), message)
			response.SendResponse(c, errno.TokenInvalidErr, nil)
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "init access token middleware")
	}
	m.access = mw
	return m, nil
}

func identity(claims hzjwt.MapClaims) (int64, bool) {
	raw, ok := claims[constants.IdentityKey].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (m *Manager) revoked(ctx context.Context, token string) bool {
	if token == "" {
		return true
	}
	ok, err := m.revoker.IsRevoked(ctx, token)
	if err != nil {
		// a revocation store outage must not lock everybody out
		hlog.CtxErrorf(ctx, "check token revocation: %v", err)
		return false
	}
	return ok
}

// IssueAccess signs an access token for userID.
func (m *Manager) IssueAccess(userID int64) (string, time.Time, error) {
	token, expire, err := m.access.TokenGenerator(userID)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}
	return token, expire, nil
}

// RequireAuth rejects requests without a valid, unrevoked access token.
func (m *Manager) RequireAuth() app.HandlerFunc {
	return m.access.MiddlewareFunc()
}

// OptionalAuth sets the viewer when a valid token is presented and lets
// every other request through as anonymous.
func (m *Manager) OptionalAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		claims, err := m.access.GetClaimsFromJWT(ctx, c)
		if err == nil {
			if id, ok := identity(claims); ok && !m.revoked(ctx, hzjwt.GetToken(ctx, c)) {
				c.Set(constants.IdentityKey, id)
			}
		}
		c.Next(ctx)
	}
}

// Revoke blacklists the access token of the current request until it
// expires.
func (m *Manager) Revoke(ctx context.Context, c *app.RequestContext) error {
	token := hzjwt.GetToken(ctx, c)
	if token == "" {
		return nil
	}
	ttl := m.access.Timeout
	if exp, ok := hzjwt.ExtractClaims(ctx, c)["exp"].(float64); ok {
		ttl = time.Until(time.Unix(int64(exp), 0))
	}
	return m.revoker.Revoke(ctx, token, ttl)
}

// ViewerID returns the authenticated user of the request or
// compose.Anonymous.
func ViewerID(c *app.RequestContext) int64 {
	v, ok := c.Get(constants.IdentityKey)
	if !ok {
		return compose.Anonymous
	}
	id, ok := v.(int64)
	if !ok {
		return compose.Anonymous
	}
	return id
}
