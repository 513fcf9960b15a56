package model

import "time"

// Subscription 订阅关系: SubscriberID follows the channel ChannelID.
type Subscription struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	SubscriberID int64     `gorm:"not null;uniqueIndex:idx_subscription_pair" json:"subscriber_id"`
	ChannelID    int64     `gorm:"not null;uniqueIndex:idx_subscription_pair;index" json:"channel_id"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
