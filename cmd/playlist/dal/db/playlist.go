package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/errno"
)

func CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	err := DB.WithContext(ctx).Create(playlist).Error
	return errors.Wrapf(err, "CreatePlaylist failed, owner: %d", playlist.OwnerID)
}

func GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := DB.WithContext(ctx).Where("id = ?", id).First(&playlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("playlist not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetPlaylistByID failed, id: %d", id)
	}
	return &playlist, nil
}

func UpdatePlaylist(ctx context.Context, id int64, fields map[string]interface{}) error {
	err := DB.WithContext(ctx).Model(&model.Playlist{}).Where("id = ?", id).Updates(fields).Error
	return errors.Wrapf(err, "UpdatePlaylist failed, id: %d", id)
}

// DeletePlaylist removes the playlist and its memberships.
func DeletePlaylist(ctx context.Context, id int64) error {
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Playlist{}).Error
	})
	return errors.Wrapf(err, "DeletePlaylist failed, id: %d", id)
}

// AddVideo appends videoID to the playlist. Adding a member twice keeps its
// original position.
func AddVideo(ctx context.Context, playlistID, videoID, newID int64) error {
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&model.PlaylistVideo{}).Where("playlist_id = ?", playlistID).
			Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.PlaylistVideo{
			ID:         newID,
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   last + 1,
		}).Error
	})
	return errors.Wrapf(err, "AddVideo failed, playlist: %d, video: %d", playlistID, videoID)
}

// RemoveVideo pulls videoID from the playlist. Removing a non member is not
// an error.
func RemoveVideo(ctx context.Context, playlistID, videoID int64) error {
	err := DB.WithContext(ctx).Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{}).Error
	return errors.Wrapf(err, "RemoveVideo failed, playlist: %d, video: %d", playlistID, videoID)
}

// RemoveVideoEverywhere drops videoID from every playlist.
func RemoveVideoEverywhere(ctx context.Context, videoID int64) error {
	err := DB.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{}).Error
	return errors.Wrapf(err, "RemoveVideoEverywhere failed, video: %d", videoID)
}
