package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/errno"
)

func CreateVideo(ctx context.Context, video *model.Video) error {
	if err := DB.WithContext(ctx).Create(video).Error; err != nil {
		return errors.Wrapf(err, "CreateVideo failed, owner: %d", video.OwnerID)
	}
	return nil
}

func GetVideoByID(ctx context.Context, id int64) (*model.Video, error) {
	var video model.Video
	err := DB.WithContext(ctx).Where("id = ?", id).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetVideoByID failed, id: %d", id)
	}
	return &video, nil
}

// GetVisibleVideo loads a video viewerID may see. Someone else's draft reads
// as not found.
func GetVisibleVideo(ctx context.Context, id, viewerID int64) (*model.Video, error) {
	video, err := GetVideoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !video.VisibleTo(viewerID) {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	return video, nil
}

func UpdateVideo(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := DB.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "UpdateVideo failed, id: %d", id)
	}
	return nil
}

// TogglePublished flips is_published in one statement and returns the new
// value.
func TogglePublished(ctx context.Context, id int64) (bool, error) {
	var video model.Video
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Video{}).Where("id = ?", id).
			UpdateColumn("is_published", gorm.Expr("NOT is_published"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errno.NotFoundErr.WithMessage("video not found")
		}
		// 事务内重新读取, 行锁保证读到本次写入
		return tx.Select("is_published").Where("id = ?", id).Take(&video).Error
	})
	if err != nil {
		return false, errors.Wrapf(err, "TogglePublished failed, id: %d", id)
	}
	return video.IsPublished, nil
}

// IncrementViews 浏览量+1
func IncrementViews(ctx context.Context, id int64) error {
	err := DB.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return errors.Wrapf(err, "IncrementViews failed, id: %d", id)
}

func DeleteVideo(ctx context.Context, id int64) error {
	res := DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Video{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "DeleteVideo failed, id: %d", id)
	}
	if res.RowsAffected == 0 {
		return errno.NotFoundErr.WithMessage("video not found")
	}
	return nil
}
