package service

import (
	"github.com/pkg/errors"

	"VideoTube.com/cmd/interaction/dal/db"
	"VideoTube.com/cmd/model"
	videodb "VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"VideoTube.com/pkg/profiles"
	"VideoTube.com/pkg/utils"
)

// ListComments pages through the comments of a video, newest first.
func (s *InteractionService) ListComments(videoID int64, page compose.PageRequest, viewerID int64) (*compose.Page, error) {
	if _, err := videodb.GetVisibleVideo(s.ctx, videoID, viewerID); err != nil {
		return nil, err
	}
	return s.d.Composer.ComposePage(s.ctx, constants.CommentTableName, compose.Filter{compose.Eq("video_id", videoID)},
		compose.DefaultSort, page, viewerID, profiles.CommentList)
}

func (s *InteractionService) AddComment(userID, videoID int64, content string) (compose.Document, error) {
	content, err := checkContent(content)
	if err != nil {
		return nil, err
	}
	if _, err = videodb.GetVisibleVideo(s.ctx, videoID, userID); err != nil {
		return nil, err
	}
	comment := &model.Comment{ID: utils.NextID(), VideoID: videoID, OwnerID: userID, Content: content}
	if err = db.CreateComment(s.ctx, comment); err != nil {
		return nil, errors.WithMessage(err, "dao.CreateComment failed")
	}
	return s.comment(comment.ID, userID)
}

func (s *InteractionService) UpdateComment(userID, commentID int64, content string) (compose.Document, error) {
	content, err := checkContent(content)
	if err != nil {
		return nil, err
	}
	comment, err := db.GetCommentByID(s.ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != userID {
		return nil, errno.ForbiddenErr
	}
	if err = db.UpdateComment(s.ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.comment(commentID, userID)
}

func (s *InteractionService) DeleteComment(userID, commentID int64) error {
	comment, err := db.GetCommentByID(s.ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != userID {
		return errno.ForbiddenErr
	}
	if err = db.DeleteComment(s.ctx, commentID); err != nil {
		return err
	}
	return mq.Announce(s.ctx, s.d.Publisher, CascadeHandler{}, mq.NewContentDeletedEvent(mq.ContentComment, commentID, userID))
}

func (s *InteractionService) comment(id, viewerID int64) (compose.Document, error) {
	return s.d.Composer.ComposeOne(s.ctx, constants.CommentTableName, compose.Filter{compose.Eq("id", id)}, viewerID, profiles.CommentList)
}
