package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/relation/service"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
)

func ToggleSubscription(ctx context.Context, c *app.RequestContext) {
	channelID, err := common.PathID(c, "channelId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	subscribed, err := service.NewRelationService(ctx, common.Deps).ToggleSubscription(jwt.ViewerID(c), channelID)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendResponse(c, nil, map[string]bool{"subscribed": subscribed})
}

func Subscribers(ctx context.Context, c *app.RequestContext) {
	channelID, err := common.PathID(c, "channelId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	page, err := common.Page(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	subscribers, err := service.NewRelationService(ctx, common.Deps).Subscribers(channelID, page, jwt.ViewerID(c))
	response.SendResponse(c, err, subscribers)
}

func Channels(ctx context.Context, c *app.RequestContext) {
	subscriberID, err := common.PathID(c, "subscriberId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	page, err := common.Page(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	channels, err := service.NewRelationService(ctx, common.Deps).Channels(subscriberID, page, jwt.ViewerID(c))
	response.SendResponse(c, err, channels)
}
