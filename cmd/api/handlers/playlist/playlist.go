package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/playlist/service"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
)

type PlaylistParam struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

func Create(ctx context.Context, c *app.RequestContext) {
	var param PlaylistParam
	if err := c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return
	}
	playlist, err := service.NewPlaylistService(ctx, common.Deps).Create(jwt.ViewerID(c), param.Name, param.Description)
	response.SendResponse(c, err, playlist)
}

func Detail(ctx context.Context, c *app.RequestContext) {
	id, err := common.PathID(c, "playlistId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlist, err := service.NewPlaylistService(ctx, common.Deps).Detail(id, jwt.ViewerID(c))
	response.SendResponse(c, err, playlist)
}

func Update(ctx context.Context, c *app.RequestContext) {
	id, err := common.PathID(c, "playlistId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param PlaylistParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return
	}
	playlist, err := service.NewPlaylistService(ctx, common.Deps).Update(jwt.ViewerID(c), id, param.Name, param.Description)
	response.SendResponse(c, err, playlist)
}

func Delete(ctx context.Context, c *app.RequestContext) {
	id, err := common.PathID(c, "playlistId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	err = service.NewPlaylistService(ctx, common.Deps).Delete(jwt.ViewerID(c), id)
	response.SendResponse(c, err, map[string]interface{}{})
}

func membership(c *app.RequestContext) (playlistID, videoID int64, err error) {
	if videoID, err = common.PathID(c, "videoId"); err != nil {
		return 0, 0, err
	}
	if playlistID, err = common.PathID(c, "playlistId"); err != nil {
		return 0, 0, err
	}
	return playlistID, videoID, nil
}

func AddVideo(ctx context.Context, c *app.RequestContext) {
	playlistID, videoID, err := membership(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlist, err := service.NewPlaylistService(ctx, common.Deps).AddVideo(jwt.ViewerID(c), playlistID, videoID)
	response.SendResponse(c, err, playlist)
}

func RemoveVideo(ctx context.Context, c *app.RequestContext) {
	playlistID, videoID, err := membership(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlist, err := service.NewPlaylistService(ctx, common.Deps).RemoveVideo(jwt.ViewerID(c), playlistID, videoID)
	response.SendResponse(c, err, playlist)
}

func UserPlaylists(ctx context.Context, c *app.RequestContext) {
	userID, err := common.PathID(c, "userId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	page, err := common.Page(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlists, err := service.NewPlaylistService(ctx, common.Deps).UserPlaylists(userID, page, jwt.ViewerID(c))
	response.SendResponse(c, err, playlists)
}
