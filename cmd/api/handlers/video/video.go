package handlers

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/video/service"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
)

type UpdateParam struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

func List(ctx context.Context, c *app.RequestContext) {
	page, err := common.Page(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	req := &service.ListRequest{
		Page:     page,
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
	}
	if raw := c.Query("userId"); raw != "" {
		if req.UserID, err = compose.ParseRef(raw); err != nil {
			response.SendResponse(c, err, nil)
			return
		}
	}
	videos, err := service.NewVideoService(ctx, common.Deps).List(req, jwt.ViewerID(c))
	response.SendResponse(c, err, videos)
}

func Detail(ctx context.Context, c *app.RequestContext) {
	id, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	video, err := service.NewVideoService(ctx, common.Deps).Detail(id, jwt.ViewerID(c))
	response.SendResponse(c, err, video)
}

func Publish(ctx context.Context, c *app.RequestContext) {
	clip, vf, err := common.Upload(c, "videoFile", common.Limits.Video)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	thumbnail, tf, err := common.Upload(c, "thumbnail", common.Limits.Image)
	defer common.Close(vf, tf)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	video, err := service.NewVideoService(ctx, common.Deps).Publish(jwt.ViewerID(c), &service.PublishRequest{
		Title:       string(c.FormValue("title")),
		Description: string(c.FormValue("description")),
		Video:       clip,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, response.Response{Code: errno.SuccessCode, Message: "Video published successfully", Data: video})
}

func Update(ctx context.Context, c *app.RequestContext) {
	id, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param UpdateParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return
	}
	req := &service.UpdateRequest{Title: param.Title, Description: param.Description}
	thumbnail, tf, err := common.Upload(c, "thumbnail", common.Limits.Image)
	defer common.Close(tf)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	req.Thumbnail = thumbnail
	video, err := service.NewVideoService(ctx, common.Deps).Update(jwt.ViewerID(c), id, req)
	response.SendResponse(c, err, video)
}

func Delete(ctx context.Context, c *app.RequestContext) {
	id, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	err = service.NewVideoService(ctx, common.Deps).Delete(jwt.ViewerID(c), id)
	response.SendResponse(c, err, map[string]interface{}{})
}

func TogglePublish(ctx context.Context, c *app.RequestContext) {
	id, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	published, err := service.NewVideoService(ctx, common.Deps).TogglePublish(jwt.ViewerID(c), id)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendResponse(c, nil, map[string]bool{"is_published": published})
}
