package compose

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoTube.com/pkg/errno"
)

var ownerProjection = Fields("id", "username", "avatar", "subscriber_count", "is_subscribed")

var videoProfile = &Profile{
	Name: "test.video",
	Relations: []Relation{
		{Kind: KindFirst, As: "owner", From: "users", LocalField: "owner_id", ForeignField: "id",
			Relations: []Relation{
				{Kind: KindCount, As: "subscriber_count", From: "subscriptions", ForeignField: "channel_id"},
				{Kind: KindFlag, As: "is_subscribed", From: "subscriptions", ForeignField: "channel_id", ActorField: "subscriber_id"},
			}},
		{Kind: KindCount, As: "likes_count", From: "likes", ForeignField: "target_id", Where: Filter{Eq("target_kind", "video")}},
		{Kind: KindFlag, As: "is_liked", From: "likes", ForeignField: "target_id", ActorField: "liked_by", Where: Filter{Eq("target_kind", "video")}},
	},
	Project: Fields("id", "title", "views", "likes_count", "is_liked").With("owner", ownerProjection),
}

var tweetProfile = &Profile{
	Name: "test.tweet",
	Relations: []Relation{
		{Kind: KindCount, As: "likes_count", From: "likes", ForeignField: "target_id", Where: Filter{Eq("target_kind", "tweet")}},
		{Kind: KindFlag, As: "is_liked", From: "likes", ForeignField: "target_id", ActorField: "liked_by", Where: Filter{Eq("target_kind", "tweet")}},
	},
	Project: Fields("id", "content", "likes_count", "is_liked"),
}

var playlistProfile = &Profile{
	Name: "test.playlist",
	Relations: []Relation{
		{Kind: KindMany, As: "videos", From: "videos", ForeignField: "id",
			Via: &Via{Collection: "playlist_videos", LocalField: "playlist_id", TargetField: "video_id",
				Sort: []Sort{{Field: "position", Direction: Ascending}}}},
		{Kind: KindSize, As: "total_videos", Of: "videos"},
		{Kind: KindSum, As: "total_views", Of: "videos", Field: "views"},
	},
	Project: Fields("id", "name", "total_videos", "total_views").With("videos", Fields("id", "title")),
}

func fixture() *MemorySource {
	src := NewMemorySource()
	src.Insert("users",
		Document{"id": int64(1), "username": "alice", "avatar": "a.png", "password": "secret"},
		Document{"id": int64(2), "username": "bob", "avatar": "b.png", "password": "secret"},
		Document{"id": int64(3), "username": "carol", "avatar": "c.png", "password": "secret"},
	)
	src.Insert("videos",
		Document{"id": int64(10), "owner_id": int64(1), "title": "first", "views": int64(10)},
		Document{"id": int64(11), "owner_id": int64(1), "title": "second", "views": int64(20)},
		Document{"id": int64(12), "owner_id": int64(1), "title": "third", "views": int64(30)},
	)
	src.Insert("subscriptions",
		Document{"id": int64(100), "channel_id": int64(1), "subscriber_id": int64(2)},
		Document{"id": int64(101), "channel_id": int64(1), "subscriber_id": int64(3)},
	)
	src.Insert("likes",
		Document{"id": int64(200), "target_kind": "video", "target_id": int64(10), "liked_by": int64(2)},
		Document{"id": int64(201), "target_kind": "tweet", "target_id": int64(10), "liked_by": int64(3)},
	)
	return src
}

func TestComposeOneVideo(t *testing.T) {
	c := New(fixture())
	ctx := context.Background()

	t.Run("anonymous viewer", func(t *testing.T) {
		doc, err := c.ComposeOne(ctx, "videos", Filter{Eq("id", int64(10))}, Anonymous, videoProfile)
		require.NoError(t, err)
		assert.Equal(t, int64(1), doc["likes_count"])
		assert.Equal(t, false, doc["is_liked"])
		owner := doc["owner"].(Document)
		assert.Equal(t, "alice", owner["username"])
		assert.Equal(t, int64(2), owner["subscriber_count"])
		assert.Equal(t, false, owner["is_subscribed"])
		assert.NotContains(t, owner, "password")
	})

	t.Run("signed in viewer", func(t *testing.T) {
		doc, err := c.ComposeOne(ctx, "videos", Filter{Eq("id", "10")}, 2, videoProfile)
		require.NoError(t, err)
		assert.Equal(t, true, doc["is_liked"])
		assert.Equal(t, true, doc["owner"].(Document)["is_subscribed"])
	})

	t.Run("like on another target kind is not counted", func(t *testing.T) {
		doc, err := c.ComposeOne(ctx, "videos", Filter{Eq("id", int64(10))}, 3, videoProfile)
		require.NoError(t, err)
		assert.Equal(t, int64(1), doc["likes_count"])
		assert.Equal(t, false, doc["is_liked"])
	})

	t.Run("zero edges count as zero", func(t *testing.T) {
		doc, err := c.ComposeOne(ctx, "videos", Filter{Eq("id", int64(12))}, 2, videoProfile)
		require.NoError(t, err)
		assert.Equal(t, int64(0), doc["likes_count"])
		assert.Equal(t, false, doc["is_liked"])
	})
}

func TestComposeOneErrors(t *testing.T) {
	c := New(fixture())
	ctx := context.Background()

	for _, tc := range []struct {
		name   string
		filter Filter
		want   errno.ErrNo
	}{
		{"empty filter", Filter{}, errno.ParamErr},
		{"malformed id", Filter{Eq("id", "not-an-id")}, errno.ParamErr},
		{"negative id", Filter{Eq("id", int64(-4))}, errno.ParamErr},
		{"malformed reference in list", Filter{In("owner_id", "1", "x")}, errno.ParamErr},
		{"no match", Filter{Eq("id", int64(999))}, errno.NotFoundErr},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := c.ComposeOne(ctx, "videos", tc.filter, Anonymous, videoProfile)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComposeOneUpstreamFailure(t *testing.T) {
	src := fixture()
	src.FailWith("likes", errors.New("connection refused"))
	c := New(src)

	doc, err := c.ComposeOne(context.Background(), "videos", Filter{Eq("id", int64(10))}, 2, videoProfile)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.UpstreamErr)
	assert.Contains(t, errors.Cause(err).Error(), "connection refused")

	src.FailWith("likes", nil)
	_, err = c.ComposeOne(context.Background(), "videos", Filter{Eq("id", int64(10))}, 2, videoProfile)
	assert.NoError(t, err)
}

func TestComposeOneCanceledContext(t *testing.T) {
	c := New(fixture())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ComposeOne(ctx, "videos", Filter{Eq("id", int64(10))}, Anonymous, videoProfile)
	assert.ErrorIs(t, err, errno.UpstreamErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeOneIdempotent(t *testing.T) {
	c := New(fixture())
	ctx := context.Background()
	first, err := c.ComposeOne(ctx, "videos", Filter{Eq("id", int64(10))}, 3, videoProfile)
	require.NoError(t, err)
	second, err := c.ComposeOne(ctx, "videos", Filter{Eq("id", int64(10))}, 3, videoProfile)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProjectionKeySet(t *testing.T) {
	c := New(fixture())
	doc, err := c.ComposeOne(context.Background(), "videos", Filter{Eq("id", int64(11))}, 2, videoProfile)
	require.NoError(t, err)

	assert.ElementsMatch(t, videoProfile.Project.Keys(), keys(doc))
	assert.ElementsMatch(t, ownerProjection.Keys(), keys(doc["owner"].(Document)))
	assert.NotContains(t, doc, "owner_id")
}

func TestProjectionMissingFieldsAreNil(t *testing.T) {
	src := fixture()
	src.Insert("videos", Document{"id": int64(13), "owner_id": int64(77), "title": "orphan"})
	c := New(src)

	doc, err := c.ComposeOne(context.Background(), "videos", Filter{Eq("id", int64(13))}, 2, videoProfile)
	require.NoError(t, err)
	assert.ElementsMatch(t, videoProfile.Project.Keys(), keys(doc))
	assert.Nil(t, doc["owner"])
	assert.Nil(t, doc["views"])
}

func TestTweetLikes(t *testing.T) {
	const u1, u2 = int64(41), int64(42)
	src := NewMemorySource()
	src.Insert("tweets", Document{"id": int64(5), "owner_id": int64(1), "content": "hello"})
	src.Insert("likes",
		Document{"id": int64(1), "target_kind": "tweet", "target_id": int64(5), "liked_by": u1},
		Document{"id": int64(2), "target_kind": "tweet", "target_id": int64(5), "liked_by": int64(43)},
	)
	c := New(src)
	ctx := context.Background()

	doc, err := c.ComposeOne(ctx, "tweets", Filter{Eq("id", int64(5))}, u1, tweetProfile)
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc["likes_count"])
	assert.Equal(t, true, doc["is_liked"])

	doc, err = c.ComposeOne(ctx, "tweets", Filter{Eq("id", int64(5))}, u2, tweetProfile)
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc["likes_count"])
	assert.Equal(t, false, doc["is_liked"])
}

func TestPlaylistTotals(t *testing.T) {
	src := fixture()
	src.Insert("playlists", Document{"id": int64(7), "name": "mix", "owner_id": int64(1)})
	src.Insert("playlist_videos",
		Document{"playlist_id": int64(7), "video_id": int64(12), "position": int64(2)},
		Document{"playlist_id": int64(7), "video_id": int64(10), "position": int64(0)},
		Document{"playlist_id": int64(7), "video_id": int64(11), "position": int64(1)},
	)
	c := New(src)

	doc, err := c.ComposeOne(context.Background(), "playlists", Filter{Eq("id", int64(7))}, Anonymous, playlistProfile)
	require.NoError(t, err)
	assert.Equal(t, int64(3), doc["total_videos"])
	assert.Equal(t, int64(60), doc["total_views"])

	videos := doc["videos"].([]Document)
	require.Len(t, videos, 3)
	assert.Equal(t, []any{int64(10), int64(11), int64(12)}, []any{videos[0]["id"], videos[1]["id"], videos[2]["id"]})
	assert.ElementsMatch(t, []string{"id", "title"}, keys(videos[0]))
}

func TestPlaylistDanglingAndEmpty(t *testing.T) {
	src := fixture()
	src.Insert("playlists",
		Document{"id": int64(7), "name": "mix"},
		Document{"id": int64(8), "name": "empty"},
	)
	src.Insert("playlist_videos",
		Document{"playlist_id": int64(7), "video_id": int64(10), "position": int64(0)},
		Document{"playlist_id": int64(7), "video_id": int64(404), "position": int64(1)},
	)
	c := New(src)
	ctx := context.Background()

	doc, err := c.ComposeOne(ctx, "playlists", Filter{Eq("id", int64(7))}, Anonymous, playlistProfile)
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc["total_videos"])
	assert.Equal(t, int64(10), doc["total_views"])

	doc, err = c.ComposeOne(ctx, "playlists", Filter{Eq("id", int64(8))}, Anonymous, playlistProfile)
	require.NoError(t, err)
	assert.Equal(t, int64(0), doc["total_videos"])
	assert.Equal(t, int64(0), doc["total_views"])
	assert.Equal(t, []Document{}, doc["videos"])
}

func TestIntegrityAnomalyIsReported(t *testing.T) {
	src := fixture()
	src.Insert("users", Document{"id": int64(1), "username": "alice-dup"})
	var anomalies atomic.Int32
	c := New(src, WithAnomalyHandler(func(ctx context.Context, collection string, filter Filter, matches int) {
		assert.Equal(t, "users", collection)
		assert.Equal(t, 2, matches)
		anomalies.Add(1)
	}))

	doc, err := c.ComposeOne(context.Background(), "videos", Filter{Eq("id", int64(10))}, Anonymous, videoProfile)
	require.NoError(t, err)
	assert.Equal(t, "alice", doc["owner"].(Document)["username"])
	assert.Equal(t, int32(1), anomalies.Load())
}

func seedPage(n int) *MemorySource {
	src := NewMemorySource()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		src.Insert("videos", Document{
			"id":         int64(i),
			"owner_id":   int64(1),
			"title":      fmt.Sprintf("video %02d", i),
			"views":      int64(i),
			"created_at": base.Add(time.Duration(i) * time.Hour),
		})
	}
	return src
}

func TestComposePagePagination(t *testing.T) {
	c := New(seedPage(25))
	ctx := context.Background()

	for _, tc := range []struct {
		page    int
		items   int
		hasNext bool
		hasPrev bool
		firstID int64
	}{
		{1, 10, true, false, 25},
		{2, 10, true, true, 15},
		{3, 5, false, true, 5},
		{4, 0, false, true, 0},
	} {
		t.Run(fmt.Sprintf("page %d", tc.page), func(t *testing.T) {
			req, err := NewPageRequest(tc.page, 10)
			require.NoError(t, err)
			page, err := c.ComposePage(ctx, "videos", Filter{Eq("owner_id", int64(1))}, Sort{}, req, Anonymous, tweetProfile)
			require.NoError(t, err)
			assert.Equal(t, int64(25), page.TotalItems)
			assert.Equal(t, int64(3), page.TotalPages)
			assert.Equal(t, tc.page, page.CurrentPage)
			assert.Len(t, page.Items, tc.items)
			assert.Equal(t, tc.hasNext, page.HasNextPage)
			assert.Equal(t, tc.hasPrev, page.HasPrevPage)
			if tc.items > 0 {
				assert.Equal(t, tc.firstID, page.Items[0]["id"])
			}
		})
	}
}

func TestComposePageSortAndFilter(t *testing.T) {
	c := New(seedPage(12))
	req, _ := NewPageRequest(1, 5)

	page, err := c.ComposePage(context.Background(), "videos", Filter{Match("VIDEO 1", "title")}, Sort{Field: "views", Direction: Ascending}, req, Anonymous, tweetProfile)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalItems)
	require.Len(t, page.Items, 3)
	assert.Equal(t, int64(10), page.Items[0]["id"])
	assert.Equal(t, int64(12), page.Items[2]["id"])
	for _, item := range page.Items {
		assert.ElementsMatch(t, tweetProfile.Project.Keys(), keys(item))
	}
}

func TestComposePageEmpty(t *testing.T) {
	c := New(NewMemorySource())
	req, _ := NewPageRequest(1, 10)
	page, err := c.ComposePage(context.Background(), "videos", nil, Sort{}, req, Anonymous, tweetProfile)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalPages)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNextPage)
}

func TestComposePageEnrichFailure(t *testing.T) {
	src := seedPage(3)
	src.FailWith("likes", errors.New("timeout"))
	c := New(src, WithConcurrency(2))
	req, _ := NewPageRequest(1, 10)

	page, err := c.ComposePage(context.Background(), "videos", nil, Sort{}, req, Anonymous, tweetProfile)
	assert.Nil(t, page)
	assert.ErrorIs(t, err, errno.UpstreamErr)
}

func TestNewPageRequest(t *testing.T) {
	for _, tc := range [][2]int{{0, 10}, {1, 0}, {-1, -1}} {
		_, err := NewPageRequest(tc[0], tc[1])
		assert.ErrorIs(t, err, errno.ParamErr)
	}
	req, err := NewPageRequest(2, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, req.offset())
}

func TestTotalPages(t *testing.T) {
	for _, tc := range []struct {
		n    int64
		size int
		want int64
	}{
		{0, 10, 0}, {1, 10, 1}, {10, 10, 1}, {11, 10, 2}, {25, 10, 3}, {100, 1, 100},
	} {
		assert.Equal(t, tc.want, totalPages(tc.n, tc.size), "n=%d size=%d", tc.n, tc.size)
	}
}

func keys(d Document) []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	return out
}
