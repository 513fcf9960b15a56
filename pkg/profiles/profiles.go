// Package profiles declares the read models served by the API.
package profiles

import (
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
)

var (
	ownerCard = compose.Fields("id", "username", "fullname", "avatar")

	videoFields = []string{"id", "title", "description", "video_url", "thumbnail_url", "duration", "views", "is_published", "created_at"}

	subscriberCount = compose.Relation{Kind: compose.KindCount, As: "subscriber_count",
		From: constants.SubscriptionTableName, ForeignField: "channel_id"}
	isSubscribed = compose.Relation{Kind: compose.KindFlag, As: "is_subscribed",
		From: constants.SubscriptionTableName, ForeignField: "channel_id", ActorField: "subscriber_id"}
	owner = compose.Relation{Kind: compose.KindFirst, As: "owner",
		From: constants.UserTableName, LocalField: "owner_id", ForeignField: "id"}
	publishedOnly = compose.Filter{compose.Eq("is_published", true)}
)

func likesOf(kind string) []compose.Relation {
	where := compose.Filter{compose.Eq("target_kind", kind)}
	return []compose.Relation{
		{Kind: compose.KindCount, As: "likes_count", From: constants.LikeTableName, ForeignField: "target_id", Where: where},
		{Kind: compose.KindFlag, As: "is_liked", From: constants.LikeTableName, ForeignField: "target_id", ActorField: "liked_by", Where: where},
	}
}

func ownerWith(nested ...compose.Relation) compose.Relation {
	r := owner
	r.Relations = nested
	return r
}

var UserSelf = &compose.Profile{
	Name:    "user.self",
	Project: compose.Fields("id", "username", "email", "fullname", "avatar", "cover_image", "created_at", "updated_at"),
}

var UserChannel = &compose.Profile{
	Name: "user.channel",
	Relations: []compose.Relation{
		{Kind: compose.KindCount, As: "subscribers_count", From: constants.SubscriptionTableName, ForeignField: "channel_id"},
		{Kind: compose.KindCount, As: "channels_subscribed_to_count", From: constants.SubscriptionTableName, ForeignField: "subscriber_id"},
		isSubscribed,
		{Kind: compose.KindCount, As: "videos_count", From: constants.VideoTableName, ForeignField: "owner_id", Where: publishedOnly},
	},
	Project: compose.Fields("id", "username", "email", "fullname", "avatar", "cover_image", "created_at",
		"subscribers_count", "channels_subscribed_to_count", "is_subscribed", "videos_count"),
}

var UserWatchHistory = &compose.Profile{
	Name: "user.watch_history",
	Relations: []compose.Relation{
		{Kind: compose.KindMany, As: "watch_history", From: constants.VideoTableName, ForeignField: "id",
			Via: &compose.Via{
				Collection:  constants.WatchHistoryTableName,
				LocalField:  "user_id",
				TargetField: "video_id",
				Sort:        []compose.Sort{{Field: "watched_at", Direction: compose.Descending}},
			},
			Relations: []compose.Relation{owner}},
	},
	Project: compose.Fields("id").With("watch_history", compose.Fields(videoFields...).With("owner", ownerCard)),
}

var VideoCard = &compose.Profile{
	Name:      "video.card",
	Relations: []compose.Relation{owner},
	Project:   compose.Fields(videoFields...).With("owner", ownerCard),
}

var VideoDetail = &compose.Profile{
	Name: "video.detail",
	Relations: append([]compose.Relation{
		ownerWith(subscriberCount, isSubscribed),
		{Kind: compose.KindCount, As: "comments_count", From: constants.CommentTableName, ForeignField: "video_id"},
	}, likesOf(constants.LikeTargetVideo)...),
	Project: compose.Fields(append(videoFields, "owner_id", "updated_at", "likes_count", "is_liked", "comments_count")...).
		With("owner", compose.Fields("id", "username", "fullname", "avatar", "subscriber_count", "is_subscribed")),
}

var CommentList = &compose.Profile{
	Name:      "comment.list",
	Relations: append([]compose.Relation{owner}, likesOf(constants.LikeTargetComment)...),
	Project: compose.Fields("id", "video_id", "content", "created_at", "updated_at", "likes_count", "is_liked").
		With("owner", ownerCard),
}

// LikeVideos composes like edges of one viewer into the videos they liked.
// A like on a video that is no longer published keeps a nil video.
var LikeVideos = &compose.Profile{
	Name: "like.videos",
	Relations: []compose.Relation{
		{Kind: compose.KindFirst, As: "video", From: constants.VideoTableName, LocalField: "target_id", ForeignField: "id",
			Where: publishedOnly, Relations: []compose.Relation{owner}},
	},
	Project: compose.Fields("id", "created_at").With("video", compose.Fields(videoFields...).With("owner", ownerCard)),
}

var TweetList = &compose.Profile{
	Name:      "tweet.list",
	Relations: append([]compose.Relation{owner}, likesOf(constants.LikeTargetTweet)...),
	Project: compose.Fields("id", "content", "created_at", "updated_at", "likes_count", "is_liked").
		With("owner", compose.Fields("id", "username", "avatar")),
}

var SubscriptionSubscribers = &compose.Profile{
	Name: "subscription.subscribers",
	Relations: []compose.Relation{
		{Kind: compose.KindFirst, As: "subscriber", From: constants.UserTableName, LocalField: "subscriber_id", ForeignField: "id",
			Relations: []compose.Relation{subscriberCount, isSubscribed}},
	},
	Project: compose.Fields("id", "created_at").
		With("subscriber", compose.Fields("id", "username", "fullname", "avatar", "subscriber_count", "is_subscribed")),
}

var SubscriptionChannels = &compose.Profile{
	Name: "subscription.channels",
	Relations: []compose.Relation{
		{Kind: compose.KindFirst, As: "channel", From: constants.UserTableName, LocalField: "channel_id", ForeignField: "id",
			Relations: []compose.Relation{
				subscriberCount,
				{Kind: compose.KindFirst, As: "latest_video", From: constants.VideoTableName, ForeignField: "owner_id",
					Where: publishedOnly, Sort: []compose.Sort{compose.DefaultSort}},
			}},
	},
	Project: compose.Fields("id", "created_at").
		With("channel", compose.Fields("id", "username", "fullname", "avatar", "subscriber_count").
			With("latest_video", compose.Fields("id", "title", "thumbnail_url", "duration", "views", "created_at"))),
}

func playlistVideos() compose.Relation {
	return compose.Relation{Kind: compose.KindMany, As: "videos", From: constants.VideoTableName, ForeignField: "id",
		Where: publishedOnly,
		Via: &compose.Via{
			Collection:  constants.PlaylistVideoTableName,
			LocalField:  "playlist_id",
			TargetField: "video_id",
			Sort:        []compose.Sort{{Field: "position", Direction: compose.Ascending}},
		}}
}

var playlistTotals = []compose.Relation{
	{Kind: compose.KindSize, As: "total_videos", Of: "videos"},
	{Kind: compose.KindSum, As: "total_views", Of: "videos", Field: "views"},
}

var PlaylistDetail = &compose.Profile{
	Name:      "playlist.detail",
	Relations: append([]compose.Relation{ownerWith(subscriberCount), playlistVideos()}, playlistTotals...),
	Project: compose.Fields("id", "name", "description", "created_at", "updated_at", "total_videos", "total_views").
		With("owner", compose.Fields("id", "username", "fullname", "avatar", "subscriber_count")).
		With("videos", compose.Fields(videoFields...)),
}

var PlaylistSummary = &compose.Profile{
	Name:      "playlist.summary",
	Relations: append([]compose.Relation{playlistVideos()}, playlistTotals...),
	Project:   compose.Fields("id", "owner_id", "name", "description", "created_at", "updated_at", "total_videos", "total_views"),
}

func All() []*compose.Profile {
	return []*compose.Profile{
		UserSelf, UserChannel, UserWatchHistory,
		VideoCard, VideoDetail,
		CommentList, LikeVideos, TweetList,
		SubscriptionSubscribers, SubscriptionChannels,
		PlaylistDetail, PlaylistSummary,
	}
}

// New validates every profile and returns them as a registry.
func New() (*compose.Registry, error) {
	return compose.NewRegistry(All()...)
}
