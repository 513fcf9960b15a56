package model

import "time"

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	VideoID   int64     `gorm:"not null;index" json:"video_id"`
	OwnerID   int64     `gorm:"not null;index" json:"owner_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OwnerID   int64     `gorm:"not null;index" json:"owner_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Tweet) TableName() string {
	return "tweets"
}

// Like 点赞. The target is a tagged variant: TargetKind names the table
// TargetID points into (video, comment or tweet).
type Like struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	TargetKind string    `gorm:"not null;size:16;uniqueIndex:idx_like_target_actor,priority:1" json:"target_kind"`
	TargetID   int64     `gorm:"not null;uniqueIndex:idx_like_target_actor,priority:2" json:"target_id"`
	LikedBy    int64     `gorm:"not null;uniqueIndex:idx_like_target_actor,priority:3;index" json:"liked_by"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
