package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/interaction/service"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
)

type ContentParam struct {
	Content string `json:"content" form:"content"`
}

func bindContent(c *app.RequestContext) (string, error) {
	var param ContentParam
	if err := c.Bind(&param); err != nil {
		return "", errno.ParamErr.WithMessage(err.Error())
	}
	return param.Content, nil
}

func ListComments(ctx context.Context, c *app.RequestContext) {
	videoID, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	page, err := common.Page(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	comments, err := service.NewInteractionService(ctx, common.Deps).ListComments(videoID, page, jwt.ViewerID(c))
	response.SendResponse(c, err, comments)
}

func AddComment(ctx context.Context, c *app.RequestContext) {
	videoID, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	content, err := bindContent(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	comment, err := service.NewInteractionService(ctx, common.Deps).AddComment(jwt.ViewerID(c), videoID, content)
	response.SendResponse(c, err, comment)
}

func UpdateComment(ctx context.Context, c *app.RequestContext) {
	commentID, err := common.PathID(c, "commentId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	content, err := bindContent(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	comment, err := service.NewInteractionService(ctx, common.Deps).UpdateComment(jwt.ViewerID(c), commentID, content)
	response.SendResponse(c, err, comment)
}

func DeleteComment(ctx context.Context, c *app.RequestContext) {
	commentID, err := common.PathID(c, "commentId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	err = service.NewInteractionService(ctx, common.Deps).DeleteComment(jwt.ViewerID(c), commentID)
	response.SendResponse(c, err, map[string]interface{}{})
}
