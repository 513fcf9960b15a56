package response

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VideoTube.com/pkg/errno"
)

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendResponse pack response
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.ConvertErr(err)
	status := errno.HTTPStatus(Err)
	if status >= 500 {
		hlog.Errorf("%s %s failed: %v (cause: %v)", c.Method(), c.Path(), err, errors.Cause(err))
	}
	c.JSON(status, Response{
		Code:    Err.ErrCode,
		Message: Err.ErrMsg,
		Data:    data,
	})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *app.RequestContext, err error) {
	SendResponse(c, err, nil)
	c.Abort()
}
