package service

import (
	"fmt"

	"github.com/pkg/errors"

	"VideoTube.com/cmd/interaction/dal/db"
	videodb "VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/profiles"
	"VideoTube.com/pkg/utils"
)

// ToggleLike likes or unlikes a video, comment or tweet for userID and
// returns the new state. Toggles of one user on one target are serialised.
func (s *InteractionService) ToggleLike(kind string, targetID, userID int64) (bool, error) {
	if err := s.likeable(kind, targetID, userID); err != nil {
		return false, err
	}

	unlock, err := s.d.Locker.Lock(s.ctx, fmt.Sprintf("like:%s:%d:%d", kind, targetID, userID))
	if err != nil {
		return false, errno.TooManyRequestsErr.WithCause(err)
	}
	defer unlock()
	liked, err := db.ToggleLike(s.ctx, kind, targetID, userID, utils.NextID())
	if err != nil {
		return false, errors.WithMessage(err, "dao.ToggleLike failed")
	}
	return liked, nil
}

// likeable checks that userID can see the target. Videos and the comments
// under them follow the draft rule of their video.
func (s *InteractionService) likeable(kind string, targetID, userID int64) error {
	switch kind {
	case constants.LikeTargetVideo:
		_, err := videodb.GetVisibleVideo(s.ctx, targetID, userID)
		return err
	case constants.LikeTargetComment:
		comment, err := db.GetCommentByID(s.ctx, targetID)
		if err != nil {
			return err
		}
		_, err = videodb.GetVisibleVideo(s.ctx, comment.VideoID, userID)
		return err
	case constants.LikeTargetTweet:
		_, err := db.GetTweetByID(s.ctx, targetID)
		return err
	}
	return errno.ParamErr.WithMessage("unknown like target " + kind)
}

// LikedVideos pages through the videos userID liked, most recent like first.
func (s *InteractionService) LikedVideos(userID int64, page compose.PageRequest) (*compose.Page, error) {
	filter := compose.Filter{
		compose.Eq("target_kind", constants.LikeTargetVideo),
		compose.Eq("liked_by", userID),
	}
	return s.d.Composer.ComposePage(s.ctx, constants.LikeTableName, filter, compose.DefaultSort, page, userID, profiles.LikeVideos)
}
