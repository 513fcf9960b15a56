package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/relation/dal/db"
	userdb "VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/deps/depstest"
	"VideoTube.com/pkg/errno"
)

func TestSelfSubscriptionIsRejected(t *testing.T) {
	s := NewRelationService(context.Background(), &deps.Deps{})
	_, err := s.ToggleSubscription(7, 7)
	assert.ErrorIs(t, err, errno.ParamErr)
}

func TestSubscribersAndChannels(t *testing.T) {
	src := compose.NewMemorySource()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	src.Insert(constants.UserTableName,
		compose.Document{"id": int64(1), "username": "alice"},
		compose.Document{"id": int64(2), "username": "bob"},
		compose.Document{"id": int64(3), "username": "carol"},
	)
	src.Insert(constants.SubscriptionTableName,
		compose.Document{"id": int64(20), "subscriber_id": int64(2), "channel_id": int64(1), "created_at": base},
		compose.Document{"id": int64(21), "subscriber_id": int64(3), "channel_id": int64(1), "created_at": base.Add(time.Minute)},
		compose.Document{"id": int64(22), "subscriber_id": int64(1), "channel_id": int64(2), "created_at": base},
	)
	s := NewRelationService(context.Background(), &deps.Deps{Composer: compose.New(src)})
	req, err := compose.NewPageRequest(1, 10)
	require.NoError(t, err)

	p, err := s.Subscribers(1, req, 1)
	require.NoError(t, err)
	require.Len(t, p.Items, 2)
	carol := p.Items[0]["subscriber"].(compose.Document)
	assert.Equal(t, "carol", carol["username"])
	assert.Equal(t, int64(0), carol["subscriber_count"])
	bob := p.Items[1]["subscriber"].(compose.Document)
	assert.Equal(t, int64(1), bob["subscriber_count"])
	assert.Equal(t, true, bob["is_subscribed"], "alice follows bob back")

	p, err = s.Channels(1, req, compose.Anonymous)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	channel := p.Items[0]["channel"].(compose.Document)
	assert.Equal(t, "bob", channel["username"])
	assert.Nil(t, channel["latest_video"])
}

func TestToggleSubscription(t *testing.T) {
	gdb, d := depstest.Open(t)
	db.Init(gdb)
	userdb.Init(gdb)
	s := NewRelationService(context.Background(), d)

	base := time.Now().UnixNano()
	channel := &model.User{ID: base, Username: "c" + time.Now().Format("150405.000"), Email: "c@x.io", Fullname: "channel", Avatar: "a", Password: "p"}
	require.NoError(t, gdb.Create(channel).Error)
	t.Cleanup(func() {
		gdb.Where("id = ?", channel.ID).Delete(&model.User{})
		gdb.Where("channel_id = ?", channel.ID).Delete(&model.Subscription{})
	})

	on, err := s.ToggleSubscription(base+1, channel.ID)
	require.NoError(t, err)
	assert.True(t, on)
	off, err := s.ToggleSubscription(base+1, channel.ID)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = s.ToggleSubscription(base+1, base+2)
	assert.ErrorIs(t, err, errno.NotFoundErr)
}
