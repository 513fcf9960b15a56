package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/playlist/dal/db"
	userdb "VideoTube.com/cmd/user/dal/db"
	videodb "VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/profiles"
	"VideoTube.com/pkg/utils"
)

type PlaylistService struct {
	ctx context.Context
	d   *deps.Deps
}

func NewPlaylistService(ctx context.Context, d *deps.Deps) *PlaylistService {
	return &PlaylistService{ctx: ctx, d: d}
}

func (s *PlaylistService) Create(userID int64, name, description string) (compose.Document, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, errno.ParamErr.WithMessage("name and description are required")
	}
	playlist := &model.Playlist{ID: utils.NextID(), OwnerID: userID, Name: name, Description: description}
	if err := db.CreatePlaylist(s.ctx, playlist); err != nil {
		return nil, errors.WithMessage(err, "dao.CreatePlaylist failed")
	}
	return s.Detail(playlist.ID, userID)
}

func (s *PlaylistService) Update(userID, playlistID int64, name, description string) (compose.Document, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if name == "" && description == "" {
		return nil, errno.ParamErr.WithMessage("name or description is required")
	}
	if _, err := s.owned(playlistID, userID); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if name != "" {
		fields["name"] = name
	}
	if description != "" {
		fields["description"] = description
	}
	if err := db.UpdatePlaylist(s.ctx, playlistID, fields); err != nil {
		return nil, err
	}
	return s.Detail(playlistID, userID)
}

func (s *PlaylistService) Delete(userID, playlistID int64) error {
	if _, err := s.owned(playlistID, userID); err != nil {
		return err
	}
	return db.DeletePlaylist(s.ctx, playlistID)
}

// AddVideo appends a video to an owned playlist. Adding a member again is a
// no-op.
func (s *PlaylistService) AddVideo(userID, playlistID, videoID int64) (compose.Document, error) {
	if _, err := s.owned(playlistID, userID); err != nil {
		return nil, err
	}
	if _, err := videodb.GetVisibleVideo(s.ctx, videoID, userID); err != nil {
		return nil, err
	}
	unlock, err := s.d.Locker.Lock(s.ctx, fmt.Sprintf("playlist:%d", playlistID))
	if err != nil {
		return nil, errno.TooManyRequestsErr.WithCause(err)
	}
	defer unlock()
	if err = db.AddVideo(s.ctx, playlistID, videoID, utils.NextID()); err != nil {
		return nil, err
	}
	return s.Detail(playlistID, userID)
}

func (s *PlaylistService) RemoveVideo(userID, playlistID, videoID int64) (compose.Document, error) {
	if _, err := s.owned(playlistID, userID); err != nil {
		return nil, err
	}
	if err := db.RemoveVideo(s.ctx, playlistID, videoID); err != nil {
		return nil, err
	}
	return s.Detail(playlistID, userID)
}

// Detail composes a playlist with its published videos in position order.
func (s *PlaylistService) Detail(playlistID, viewerID int64) (compose.Document, error) {
	return s.d.Composer.ComposeOne(s.ctx, constants.PlaylistTableName, compose.Filter{compose.Eq("id", playlistID)}, viewerID, profiles.PlaylistDetail)
}

// UserPlaylists pages through the playlists of ownerID with their totals.
func (s *PlaylistService) UserPlaylists(ownerID int64, page compose.PageRequest, viewerID int64) (*compose.Page, error) {
	if _, err := userdb.GetUserByID(s.ctx, ownerID); err != nil {
		return nil, err
	}
	return s.d.Composer.ComposePage(s.ctx, constants.PlaylistTableName, compose.Filter{compose.Eq("owner_id", ownerID)},
		compose.DefaultSort, page, viewerID, profiles.PlaylistSummary)
}

func (s *PlaylistService) owned(playlistID, userID int64) (*model.Playlist, error) {
	playlist, err := db.GetPlaylistByID(s.ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != userID {
		return nil, errno.ForbiddenErr
	}
	return playlist, nil
}
