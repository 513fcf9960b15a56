package main

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	health "VideoTube.com/cmd/api/handlers/health"
	interaction "VideoTube.com/cmd/api/handlers/interaction"
	playlist "VideoTube.com/cmd/api/handlers/playlist"
	relation "VideoTube.com/cmd/api/handlers/relation"
	user "VideoTube.com/cmd/api/handlers/user"
	video "VideoTube.com/cmd/api/handlers/video"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/middleware"
	"VideoTube.com/pkg/security"
)

func register(h *server.Hertz, tokens *jwt.Manager, limiter security.Limiter) {
	auth := tokens.RequireAuth()
	opt := tokens.OptionalAuth()
	// write routes: authenticated, then limited per user
	write := []app.HandlerFunc{auth, middleware.RateLimit(limiter)}
	w := func(fn app.HandlerFunc) []app.HandlerFunc {
		return append(append([]app.HandlerFunc{}, write...), fn)
	}

	h.GET("/health", health.Health)

	v1 := h.Group("/api/v1")
	v1.GET("/health", health.Health)

	users := v1.Group("/users")
	users.POST("/register", middleware.RateLimit(limiter), user.Register)
	users.POST("/login", middleware.RateLimit(limiter), user.Login)
	users.POST("/refresh-token", user.RefreshToken)
	users.POST("/logout", auth, user.Logout)
	users.POST("/change-password", w(user.ChangePassword)...)
	users.GET("/current-user", auth, user.CurrentUser)
	users.PATCH("/update-account", w(user.UpdateAccount)...)
	users.PATCH("/avatar", w(user.UpdateAvatar)...)
	users.PATCH("/cover-image", w(user.UpdateCoverImage)...)
	users.GET("/c/:username", opt, user.Channel)
	users.GET("/history", auth, user.WatchHistory)

	videos := v1.Group("/videos")
	videos.GET("", opt, video.List)
	videos.POST("", w(video.Publish)...)
	videos.GET("/:videoId", opt, video.Detail)
	videos.PATCH("/:videoId", w(video.Update)...)
	videos.DELETE("/:videoId", w(video.Delete)...)
	videos.PATCH("/toggle/publish/:videoId", w(video.TogglePublish)...)

	comments := v1.Group("/comments")
	comments.GET("/:videoId", opt, interaction.ListComments)
	comments.POST("/:videoId", w(interaction.AddComment)...)
	comments.PATCH("/c/:commentId", w(interaction.UpdateComment)...)
	comments.DELETE("/c/:commentId", w(interaction.DeleteComment)...)

	likes := v1.Group("/likes")
	likes.POST("/toggle/v/:videoId", w(interaction.ToggleVideoLike)...)
	likes.POST("/toggle/c/:commentId", w(interaction.ToggleCommentLike)...)
	likes.POST("/toggle/t/:tweetId", w(interaction.ToggleTweetLike)...)
	likes.GET("/videos", auth, interaction.LikedVideos)

	tweets := v1.Group("/tweets")
	tweets.POST("", w(interaction.CreateTweet)...)
	tweets.PATCH("/:tweetId", w(interaction.UpdateTweet)...)
	tweets.DELETE("/:tweetId", w(interaction.DeleteTweet)...)
	tweets.GET("/user/:userId", opt, interaction.UserTweets)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.POST("/c/:channelId", w(relation.ToggleSubscription)...)
	subscriptions.GET("/c/:channelId", opt, relation.Subscribers)
	subscriptions.GET("/u/:subscriberId", opt, relation.Channels)

	playlists := v1.Group("/playlists")
	playlists.POST("", w(playlist.Create)...)
	playlists.GET("/:playlistId", opt, playlist.Detail)
	playlists.PATCH("/:playlistId", w(playlist.Update)...)
	playlists.DELETE("/:playlistId", w(playlist.Delete)...)
	playlists.PATCH("/add/:videoId/:playlistId", w(playlist.AddVideo)...)
	playlists.PATCH("/remove/:videoId/:playlistId", w(playlist.RemoveVideo)...)
	playlists.GET("/user/:userId", opt, playlist.UserPlaylists)
}
