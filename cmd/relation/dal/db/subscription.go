package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"VideoTube.com/cmd/model"
)

// ToggleSubscription subscribes subscriberID to channelID, or undoes an
// existing subscription. It returns whether the subscription exists
// afterwards.
func ToggleSubscription(ctx context.Context, subscriberID, channelID, newID int64) (bool, error) {
	subscribed := false
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).Delete(&model.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		subscribed = true
		err := tx.Create(&model.Subscription{ID: newID, SubscriberID: subscriberID, ChannelID: channelID}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	})
	return subscribed, errors.Wrapf(err, "ToggleSubscription failed, subscriber: %d, channel: %d", subscriberID, channelID)
}
