package constants

import "time"

const (
	DataFormate = "2006-01-02 15:04:05"

	UserTableName          = "users"
	VideoTableName         = "videos"
	CommentTableName       = "comments"
	TweetTableName         = "tweets"
	LikeTableName          = "likes"
	SubscriptionTableName  = "subscriptions"
	PlaylistTableName      = "playlists"
	PlaylistVideoTableName = "playlist_videos"
	WatchHistoryTableName  = "watch_histories"

	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
	LikeTargetTweet   = "tweet"

	IdentityKey = "user_id"

	DefaultPageNum  = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	AvatarBucket    = "picture"
	VideoBucket     = "video"
	ThumbnailPrefix = "thumbnail/"
	AvatarPrefix    = "avatar/"
	CoverPrefix     = "cover/"
	VideoPrefix     = "video/"

	ToggleLockExpiry = 5 * time.Second
)
