package service

import (
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/profiles"
	"VideoTube.com/pkg/utils"
)

// Channel composes the public page of username as seen by viewerID.
func (s *UserService) Channel(username string, viewerID int64) (compose.Document, error) {
	username = utils.Normalize(username)
	if username == "" {
		return nil, errno.ParamErr.WithMessage("username is missing")
	}
	return s.d.Composer.ComposeOne(s.ctx, constants.UserTableName, compose.Filter{compose.Eq("username", username)}, viewerID, profiles.UserChannel)
}

// WatchHistory lists the videos userID watched, most recent first.
func (s *UserService) WatchHistory(userID int64) ([]compose.Document, error) {
	doc, err := s.d.Composer.ComposeOne(s.ctx, constants.UserTableName, compose.Filter{compose.Eq("id", userID)}, userID, profiles.UserWatchHistory)
	if err != nil {
		return nil, err
	}
	videos, _ := doc["watch_history"].([]compose.Document)
	if videos == nil {
		videos = []compose.Document{}
	}
	return videos, nil
}
