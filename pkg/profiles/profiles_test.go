package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
)

const (
	alice int64 = 1
	bob   int64 = 2
	carol int64 = 3
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seed() *compose.MemorySource {
	src := compose.NewMemorySource()
	src.Insert(constants.UserTableName,
		compose.Document{"id": alice, "username": "alice", "fullname": "Alice A", "email": "a@x.io", "avatar": "a.png", "password": "hash", "refresh_token": "rt"},
		compose.Document{"id": bob, "username": "bob", "fullname": "Bob B", "email": "b@x.io", "avatar": "b.png", "password": "hash"},
		compose.Document{"id": carol, "username": "carol", "fullname": "Carol C", "email": "c@x.io", "avatar": "c.png", "password": "hash"},
	)
	src.Insert(constants.VideoTableName,
		compose.Document{"id": int64(10), "owner_id": alice, "title": "one", "views": int64(10), "is_published": true, "created_at": epoch},
		compose.Document{"id": int64(11), "owner_id": alice, "title": "two", "views": int64(20), "is_published": true, "created_at": epoch.Add(time.Hour)},
		compose.Document{"id": int64(12), "owner_id": alice, "title": "three", "views": int64(30), "is_published": true, "created_at": epoch.Add(2 * time.Hour)},
		compose.Document{"id": int64(13), "owner_id": alice, "title": "draft", "views": int64(99), "is_published": false, "created_at": epoch.Add(3 * time.Hour)},
	)
	src.Insert(constants.SubscriptionTableName,
		compose.Document{"id": int64(100), "subscriber_id": bob, "channel_id": alice, "created_at": epoch},
		compose.Document{"id": int64(101), "subscriber_id": carol, "channel_id": alice, "created_at": epoch},
		compose.Document{"id": int64(102), "subscriber_id": alice, "channel_id": carol, "created_at": epoch},
	)
	return src
}

func TestRegistryValidates(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Len(t, r.Names(), len(All()))
	for _, name := range []string{"user.self", "video.detail", "playlist.detail", "subscription.channels"} {
		_, ok := r.Get(name)
		assert.True(t, ok, name)
	}
}

func TestPlaylistDetailTotals(t *testing.T) {
	src := seed()
	src.Insert(constants.PlaylistTableName, compose.Document{"id": int64(7), "owner_id": alice, "name": "mix", "description": "d"})
	src.Insert(constants.PlaylistVideoTableName,
		compose.Document{"id": int64(1), "playlist_id": int64(7), "video_id": int64(11), "position": int64(1)},
		compose.Document{"id": int64(2), "playlist_id": int64(7), "video_id": int64(10), "position": int64(0)},
		compose.Document{"id": int64(3), "playlist_id": int64(7), "video_id": int64(12), "position": int64(2)},
	)
	c := compose.New(src)

	doc, err := c.ComposeOne(context.Background(), constants.PlaylistTableName, compose.Filter{compose.Eq("id", "7")}, compose.Anonymous, PlaylistDetail)
	require.NoError(t, err)
	assert.Equal(t, int64(3), doc["total_videos"])
	assert.Equal(t, int64(60), doc["total_views"])

	o := doc["owner"].(compose.Document)
	assert.Equal(t, "alice", o["username"])
	assert.Equal(t, int64(2), o["subscriber_count"])
	assert.NotContains(t, o, "password")

	videos := doc["videos"].([]compose.Document)
	require.Len(t, videos, 3)
	assert.Equal(t, "one", videos[0]["title"])
	assert.Equal(t, "three", videos[2]["title"])
}

func TestPlaylistHidesUnpublishedVideos(t *testing.T) {
	src := seed()
	src.Insert(constants.PlaylistTableName, compose.Document{"id": int64(8), "owner_id": alice, "name": "drafts"})
	src.Insert(constants.PlaylistVideoTableName,
		compose.Document{"id": int64(4), "playlist_id": int64(8), "video_id": int64(13), "position": int64(0)},
		compose.Document{"id": int64(5), "playlist_id": int64(8), "video_id": int64(10), "position": int64(1)},
	)
	doc, err := compose.New(src).ComposeOne(context.Background(), constants.PlaylistTableName, compose.Filter{compose.Eq("id", int64(8))}, alice, PlaylistSummary)
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc["total_videos"])
	assert.Equal(t, int64(10), doc["total_views"])
	assert.NotContains(t, doc, "videos")
}

func TestTweetLikesPerViewer(t *testing.T) {
	const u1, u2 = int64(51), int64(52)
	src := seed()
	src.Insert(constants.TweetTableName, compose.Document{"id": int64(20), "owner_id": alice, "content": "hi", "created_at": epoch})
	src.Insert(constants.LikeTableName,
		compose.Document{"id": int64(1), "target_kind": constants.LikeTargetTweet, "target_id": int64(20), "liked_by": u1},
		compose.Document{"id": int64(2), "target_kind": constants.LikeTargetTweet, "target_id": int64(20), "liked_by": carol},
		compose.Document{"id": int64(3), "target_kind": constants.LikeTargetVideo, "target_id": int64(20), "liked_by": u2},
	)
	c := compose.New(src)
	req, _ := compose.NewPageRequest(1, 10)

	for _, tc := range []struct {
		viewer int64
		liked  bool
	}{{u1, true}, {u2, false}, {compose.Anonymous, false}} {
		page, err := c.ComposePage(context.Background(), constants.TweetTableName, compose.Filter{compose.Eq("owner_id", alice)}, compose.Sort{}, req, tc.viewer, TweetList)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(2), page.Items[0]["likes_count"])
		assert.Equal(t, tc.liked, page.Items[0]["is_liked"])
	}
}

func TestVideoDetail(t *testing.T) {
	src := seed()
	src.Insert(constants.CommentTableName,
		compose.Document{"id": int64(30), "video_id": int64(10), "owner_id": bob, "content": "nice"},
		compose.Document{"id": int64(31), "video_id": int64(10), "owner_id": carol, "content": "meh"},
	)
	src.Insert(constants.LikeTableName,
		compose.Document{"id": int64(1), "target_kind": constants.LikeTargetVideo, "target_id": int64(10), "liked_by": bob},
		compose.Document{"id": int64(2), "target_kind": constants.LikeTargetComment, "target_id": int64(10), "liked_by": carol},
	)
	c := compose.New(src)

	doc, err := c.ComposeOne(context.Background(), constants.VideoTableName, compose.Filter{compose.Eq("id", int64(10))}, bob, VideoDetail)
	require.NoError(t, err)
	assert.ElementsMatch(t, VideoDetail.Project.Keys(), mapKeys(doc))
	assert.Equal(t, int64(2), doc["comments_count"])
	assert.Equal(t, int64(1), doc["likes_count"])
	assert.Equal(t, true, doc["is_liked"])
	o := doc["owner"].(compose.Document)
	assert.Equal(t, int64(2), o["subscriber_count"])
	assert.Equal(t, true, o["is_subscribed"])

	doc, err = c.ComposeOne(context.Background(), constants.VideoTableName, compose.Filter{compose.Eq("id", int64(10))}, compose.Anonymous, VideoDetail)
	require.NoError(t, err)
	assert.Equal(t, false, doc["is_liked"])
	assert.Equal(t, false, doc["owner"].(compose.Document)["is_subscribed"])
}

func TestUserChannel(t *testing.T) {
	c := compose.New(seed())
	doc, err := c.ComposeOne(context.Background(), constants.UserTableName, compose.Filter{compose.Eq("username", "alice")}, carol, UserChannel)
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc["subscribers_count"])
	assert.Equal(t, int64(1), doc["channels_subscribed_to_count"])
	assert.Equal(t, true, doc["is_subscribed"])
	assert.Equal(t, int64(3), doc["videos_count"])
	assert.NotContains(t, doc, "password")
	assert.NotContains(t, doc, "refresh_token")
}

func TestWatchHistoryOrder(t *testing.T) {
	src := seed()
	src.Insert(constants.WatchHistoryTableName,
		compose.Document{"id": int64(1), "user_id": bob, "video_id": int64(10), "watched_at": epoch},
		compose.Document{"id": int64(2), "user_id": bob, "video_id": int64(12), "watched_at": epoch.Add(time.Minute)},
		compose.Document{"id": int64(3), "user_id": carol, "video_id": int64(11), "watched_at": epoch},
	)
	doc, err := compose.New(src).ComposeOne(context.Background(), constants.UserTableName, compose.Filter{compose.Eq("id", bob)}, bob, UserWatchHistory)
	require.NoError(t, err)
	history := doc["watch_history"].([]compose.Document)
	require.Len(t, history, 2)
	assert.Equal(t, int64(12), history[0]["id"])
	assert.Equal(t, int64(10), history[1]["id"])
	assert.Equal(t, "alice", history[0]["owner"].(compose.Document)["username"])
}

func TestSubscriptionPages(t *testing.T) {
	c := compose.New(seed())
	req, _ := compose.NewPageRequest(1, 10)
	ctx := context.Background()

	subs, err := c.ComposePage(ctx, constants.SubscriptionTableName, compose.Filter{compose.Eq("channel_id", alice)}, compose.Sort{}, req, carol, SubscriptionSubscribers)
	require.NoError(t, err)
	assert.Equal(t, int64(2), subs.TotalItems)
	for _, item := range subs.Items {
		s := item["subscriber"].(compose.Document)
		switch s["username"] {
		case "carol":
			assert.Equal(t, int64(1), s["subscriber_count"])
		case "bob":
			assert.Equal(t, int64(0), s["subscriber_count"])
		default:
			t.Fatalf("unexpected subscriber %v", s["username"])
		}
		assert.Equal(t, false, s["is_subscribed"])
	}

	channels, err := c.ComposePage(ctx, constants.SubscriptionTableName, compose.Filter{compose.Eq("subscriber_id", bob)}, compose.Sort{}, req, bob, SubscriptionChannels)
	require.NoError(t, err)
	require.Len(t, channels.Items, 1)
	ch := channels.Items[0]["channel"].(compose.Document)
	assert.Equal(t, "alice", ch["username"])
	latest := ch["latest_video"].(compose.Document)
	assert.Equal(t, int64(12), latest["id"])
	assert.NotContains(t, latest, "owner_id")
}

func TestLikedVideos(t *testing.T) {
	src := seed()
	src.Insert(constants.LikeTableName,
		compose.Document{"id": int64(1), "target_kind": constants.LikeTargetVideo, "target_id": int64(11), "liked_by": bob, "created_at": epoch},
		compose.Document{"id": int64(2), "target_kind": constants.LikeTargetVideo, "target_id": int64(12), "liked_by": bob, "created_at": epoch.Add(time.Hour)},
		compose.Document{"id": int64(3), "target_kind": constants.LikeTargetTweet, "target_id": int64(12), "liked_by": bob, "created_at": epoch},
		compose.Document{"id": int64(4), "target_kind": constants.LikeTargetVideo, "target_id": int64(13), "liked_by": bob, "created_at": epoch.Add(2 * time.Hour)},
	)
	req, _ := compose.NewPageRequest(1, 10)
	page, err := compose.New(src).ComposePage(context.Background(), constants.LikeTableName,
		compose.Filter{compose.Eq("liked_by", bob), compose.Eq("target_kind", constants.LikeTargetVideo)},
		compose.Sort{}, req, bob, LikeVideos)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Nil(t, page.Items[0]["video"], "liked draft")
	assert.Equal(t, "three", page.Items[1]["video"].(compose.Document)["title"])
	assert.Equal(t, "two", page.Items[2]["video"].(compose.Document)["title"])
}

func mapKeys(d compose.Document) []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	return out
}
