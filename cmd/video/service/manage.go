package service

import (
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	interactionservice "VideoTube.com/cmd/interaction/service"
	"VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"VideoTube.com/pkg/oss"
	"VideoTube.com/pkg/utils"
)

type UpdateRequest struct {
	Title       string
	Description string
	Thumbnail   *oss.Upload
}

// Update changes the metadata of an owned video. A replaced thumbnail is
// removed from storage once the row points at the new one.
func (s *VideoService) Update(userID, videoID int64, req *UpdateRequest) (compose.Document, error) {
	title, description := strings.TrimSpace(req.Title), strings.TrimSpace(req.Description)
	if title == "" && description == "" && req.Thumbnail == nil {
		return nil, errno.ParamErr.WithMessage("nothing to update")
	}
	video, err := s.owned(videoID, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if title != "" {
		fields["title"], video.Title = title, title
	}
	if description != "" {
		fields["description"], video.Description = description, description
	}
	oldThumbnail := ""
	if req.Thumbnail != nil {
		name := constants.ThumbnailPrefix + strconv.FormatInt(videoID, 10) + "-" + strconv.FormatInt(utils.NextID(), 36)
		key, url, err := oss.PutImage(s.ctx, s.d.Storage, constants.AvatarBucket, name, req.Thumbnail)
		if err != nil {
			return nil, errors.WithMessage(err, "upload thumbnail failed")
		}
		fields["thumbnail_key"], fields["thumbnail_url"] = key, url
		oldThumbnail = video.ThumbnailKey
	}
	if err = db.UpdateVideo(s.ctx, videoID, fields); err != nil {
		if key, ok := fields["thumbnail_key"].(string); ok {
			s.removeObject(key)
		}
		return nil, err
	}
	s.removeObject(oldThumbnail)
	s.index(video)
	return s.detail(videoID, userID)
}

// Delete removes an owned video and its media, then announces the deletion
// so likes, comments and memberships follow.
func (s *VideoService) Delete(userID, videoID int64) error {
	video, err := s.owned(videoID, userID)
	if err != nil {
		return err
	}
	if err = db.DeleteVideo(s.ctx, videoID); err != nil {
		return err
	}
	s.removeObject(video.VideoKey)
	s.removeObject(video.ThumbnailKey)
	if s.d.Search != nil {
		if err = s.d.Search.Delete(s.ctx, videoID); err != nil {
			hlog.CtxErrorf(s.ctx, "remove video %d from index: %v", videoID, err)
		}
	}
	event := mq.NewContentDeletedEvent(mq.ContentVideo, videoID, userID)
	if err = mq.Announce(s.ctx, s.d.Publisher, interactionservice.CascadeHandler{}, event); err != nil {
		return errors.WithMessage(err, "cascade video delete failed")
	}
	return nil
}

// TogglePublish flips the published flag and returns the new value.
func (s *VideoService) TogglePublish(userID, videoID int64) (bool, error) {
	video, err := s.owned(videoID, userID)
	if err != nil {
		return false, err
	}
	if video.IsPublished, err = db.TogglePublished(s.ctx, videoID); err != nil {
		return false, err
	}
	s.index(video)
	return video.IsPublished, nil
}
