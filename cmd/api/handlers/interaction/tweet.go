package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/interaction/service"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
)

func CreateTweet(ctx context.Context, c *app.RequestContext) {
	content, err := bindContent(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	tweet, err := service.NewInteractionService(ctx, common.Deps).CreateTweet(jwt.ViewerID(c), content)
	response.SendResponse(c, err, tweet)
}

func UpdateTweet(ctx context.Context, c *app.RequestContext) {
	tweetID, err := common.PathID(c, "tweetId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	content, err := bindContent(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	tweet, err := service.NewInteractionService(ctx, common.Deps).UpdateTweet(jwt.ViewerID(c), tweetID, content)
	response.SendResponse(c, err, tweet)
}

func DeleteTweet(ctx context.Context, c *app.RequestContext) {
	tweetID, err := common.PathID(c, "tweetId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	err = service.NewInteractionService(ctx, common.Deps).DeleteTweet(jwt.ViewerID(c), tweetID)
	response.SendResponse(c, err, map[string]interface{}{})
}

func UserTweets(ctx context.Context, c *app.RequestContext) {
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
	tweets, err := service.NewInteractionService(ctx, common.Deps).UserTweets(userID, page, jwt.ViewerID(c))
	response.SendResponse(c, err, tweets)
}
