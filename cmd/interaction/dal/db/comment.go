package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
)

func CreateComment(ctx context.Context, comment *model.Comment) error {
	err := DB.WithContext(ctx).Create(comment).Error
	return errors.Wrapf(err, "CreateComment failed, video: %d", comment.VideoID)
}

func GetCommentByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := DB.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("comment not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetCommentByID failed, id: %d", id)
	}
	return &comment, nil
}

func UpdateComment(ctx context.Context, id int64, content string) error {
	err := DB.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content).Error
	return errors.Wrapf(err, "UpdateComment failed, id: %d", id)
}

func DeleteComment(ctx context.Context, id int64) error {
	err := DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error
	return errors.Wrapf(err, "DeleteComment failed, id: %d", id)
}

// DeleteCommentsOfVideo removes every comment under videoID together with
// the likes they collected.
func DeleteCommentsOfVideo(ctx context.Context, videoID int64) (int64, error) {
	var deleted int64
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&model.Comment{}).Where("video_id = ?", videoID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("target_kind = ? AND target_id IN ?", constants.LikeTargetComment, ids).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&model.Comment{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, errors.Wrapf(err, "DeleteCommentsOfVideo failed, video: %d", videoID)
}
