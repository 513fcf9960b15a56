package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"VideoTube.com/cmd/model"
)

// ToggleLike removes the like of userID on the target if there is one and
// adds it otherwise. It returns whether the target is liked afterwards.
func ToggleLike(ctx context.Context, kind string, targetID, userID, newID int64) (bool, error) {
	liked := false
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("target_kind = ? AND target_id = ? AND liked_by = ?", kind, targetID, userID).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		liked = true
		err := tx.Create(&model.Like{ID: newID, TargetKind: kind, TargetID: targetID, LikedBy: userID}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	})
	return liked, errors.Wrapf(err, "ToggleLike failed, %s: %d", kind, targetID)
}

func DeleteLikesOf(ctx context.Context, kind string, targetID int64) error {
	err := DB.WithContext(ctx).Where("target_kind = ? AND target_id = ?", kind, targetID).Delete(&model.Like{}).Error
	return errors.Wrapf(err, "DeleteLikesOf failed, %s: %d", kind, targetID)
}
