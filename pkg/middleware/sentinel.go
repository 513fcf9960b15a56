package middleware

import (
	"context"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
)

// InitSentinel starts sentinel and installs one QPS rule per resource.
func InitSentinel(qps float64, resources ...string) error {
	if err := sentinel.InitDefault(); err != nil {
		return errors.Wrap(err, "init sentinel")
	}
	rules := make([]*flow.Rule, 0, len(resources))
	for _, res := range resources {
		rules = append(rules, &flow.Rule{
			Resource:               res,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              qps,
			StatIntervalInMs:       1000,
		})
	}
	if _, err := flow.LoadRules(rules); err != nil {
		return errors.Wrap(err, "load flow rules")
	}
	hlog.Infof("sentinel: %d flow rules at %.0f qps", len(rules), qps)
	return nil
}

// Resource names a route the way flow rules refer to it.
func Resource(method, path string) string {
	return method + ":" + path
}

// Sentinel rejects requests once the route's flow rule trips.
func Sentinel() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		res := Resource(string(c.Method()), c.FullPath())
		entry, blocked := sentinel.Entry(res, sentinel.WithTrafficType(base.Inbound))
		if blocked != nil {
			hlog.CtxWarnf(ctx, "sentinel blocked %s: %s", res, blocked.BlockMsg())
			response.Abort(c, errno.TooManyRequestsErr)
			return
		}
		defer entry.Exit()
		c.Next(ctx)
	}
}
