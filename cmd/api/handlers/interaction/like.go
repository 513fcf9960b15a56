package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/interaction/service"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
)

// ToggleLike builds the handler for one kind of like target; param names
// the route parameter holding the target id.
func ToggleLike(kind, param string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		targetID, err := common.PathID(c, param)
		if err != nil {
			response.SendResponse(c, err, nil)
			return
		}
		liked, err := service.NewInteractionService(ctx, common.Deps).ToggleLike(kind, targetID, jwt.ViewerID(c))
		if err != nil {
			response.SendResponse(c, err, nil)
			return
		}
		response.SendResponse(c, nil, map[string]bool{"is_liked": liked})
	}
}

var (
	ToggleVideoLike   = ToggleLike(constants.LikeTargetVideo, "videoId")
	ToggleCommentLike = ToggleLike(constants.LikeTargetComment, "commentId")
	ToggleTweetLike   = ToggleLike(constants.LikeTargetTweet, "tweetId")
)

func LikedVideos(ctx context.Context, c *app.RequestContext) {
	page, err := common.Page(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	videos, err := service.NewInteractionService(ctx, common.Deps).LikedVideos(jwt.ViewerID(c), page)
	response.SendResponse(c, err, videos)
}
