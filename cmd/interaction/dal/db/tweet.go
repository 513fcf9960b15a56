package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/errno"
)

func CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	err := DB.WithContext(ctx).Create(tweet).Error
	return errors.Wrapf(err, "CreateTweet failed, owner: %d", tweet.OwnerID)
}

func GetTweetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	var tweet model.Tweet
	err := DB.WithContext(ctx).Where("id = ?", id).First(&tweet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("tweet not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetTweetByID failed, id: %d", id)
	}
	return &tweet, nil
}

func UpdateTweet(ctx context.Context, id int64, content string) error {
	err := DB.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Update("content", content).Error
	return errors.Wrapf(err, "UpdateTweet failed, id: %d", id)
}

func DeleteTweet(ctx context.Context, id int64) error {
	err := DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Tweet{}).Error
	return errors.Wrapf(err, "DeleteTweet failed, id: %d", id)
}
