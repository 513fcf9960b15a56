package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/utils"
)

func CreateUser(ctx context.Context, user *model.User) error {
	if err := DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errno.UserAlreadyExistErr
		}
		return errors.Wrapf(err, "CreateUser failed, username: %s", user.Username)
	}
	return nil
}

// ExistsUser reports whether username or email is taken by anyone but
// exceptID.
func ExistsUser(ctx context.Context, username, email string, exceptID int64) (bool, error) {
	var count int64
	q := DB.WithContext(ctx).Model(&model.User{})
	switch {
	case username != "" && email != "":
		q = q.Where("username = ? OR email = ?", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		q = q.Where("email = ?", email)
	}
	if exceptID > 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "查询用户存在性失败")
	}
	return count > 0, nil
}

func GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("user not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetUserByID failed, id: %d", id)
	}
	return &user, nil
}

// GetUserByLogin finds a user by username or email.
func GetUserByLogin(ctx context.Context, username, email string) (*model.User, error) {
	var user model.User
	q := DB.WithContext(ctx)
	switch {
	case username != "" && email != "":
		q = q.Where("username = ? OR email = ?", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		q = q.Where("email = ?", email)
	}
	err := q.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("user does not exist")
	}
	if err != nil {
		return nil, errors.Wrap(err, "GetUserByLogin failed")
	}
	return &user, nil
}

func UpdateUser(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return errno.UserAlreadyExistErr
		}
		return errors.Wrapf(res.Error, "UpdateUser failed, id: %d", id)
	}
	return nil
}

func SetRefreshToken(ctx context.Context, id int64, token string) error {
	err := DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("refresh_token", token).Error
	return errors.Wrapf(err, "SetRefreshToken failed, id: %d", id)
}

// UpsertWatchHistory moves videoID to the top of the user's history.
func UpsertWatchHistory(ctx context.Context, userID, videoID int64, at time.Time) error {
	h := &model.WatchHistory{ID: utils.NextID(), UserID: userID, VideoID: videoID, WatchedAt: at}
	err := DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(h).Error
	return errors.Wrapf(err, "UpsertWatchHistory failed, user: %d, video: %d", userID, videoID)
}

func DeleteWatchHistoryOfVideo(ctx context.Context, videoID int64) error {
	err := DB.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.WatchHistory{}).Error
	return errors.Wrapf(err, "DeleteWatchHistoryOfVideo failed, video: %d", videoID)
}
