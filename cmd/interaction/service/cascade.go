package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VideoTube.com/cmd/interaction/dal/db"
	playlistdb "VideoTube.com/cmd/playlist/dal/db"
	userdb "VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/mq"
)

// CascadeHandler removes what hangs off deleted content. Every step is a
// delete, so replaying an event is harmless.
type CascadeHandler struct{}

var _ mq.ContentDeletedHandler = CascadeHandler{}

func (CascadeHandler) HandleContentDeleted(ctx context.Context, event *mq.ContentDeletedEvent) error {
	hlog.CtxInfof(ctx, "cascading delete of %s %d (event %s)", event.Kind, event.ID, event.EventID)
	switch event.Kind {
	case mq.ContentVideo:
		return cascadeVideo(ctx, event.ID)
	case mq.ContentComment:
		return db.DeleteLikesOf(ctx, constants.LikeTargetComment, event.ID)
	case mq.ContentTweet:
		return db.DeleteLikesOf(ctx, constants.LikeTargetTweet, event.ID)
	}
	hlog.CtxWarnf(ctx, "ignoring content deleted event of unknown kind %q", event.Kind)
	return nil
}

func cascadeVideo(ctx context.Context, videoID int64) error {
	if err := db.DeleteLikesOf(ctx, constants.LikeTargetVideo, videoID); err != nil {
		return err
	}
	n, err := db.DeleteCommentsOfVideo(ctx, videoID)
	if err != nil {
		return err
	}
	if err = playlistdb.RemoveVideoEverywhere(ctx, videoID); err != nil {
		return err
	}
	if err = userdb.DeleteWatchHistoryOfVideo(ctx, videoID); err != nil {
		return errors.WithMessage(err, "clear watch history")
	}
	hlog.CtxInfof(ctx, "video %d cascade done, %d comments removed", videoID, n)
	return nil
}
