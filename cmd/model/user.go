package model

import "time"

// User 用户表. Password and RefreshToken never leave the service layer.
type User struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username      string    `gorm:"not null;size:64;uniqueIndex" json:"username"`
	Email         string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Fullname      string    `gorm:"not null;size:128;index" json:"fullname"`
	Avatar        string    `gorm:"not null;size:512" json:"avatar"`
	AvatarKey     string    `gorm:"size:255" json:"-"`
	CoverImage    string    `gorm:"size:512" json:"cover_image"`
	CoverImageKey string    `gorm:"size:255" json:"-"`
	Password      string    `gorm:"not null;size:255" json:"-"`
	RefreshToken  string    `gorm:"size:1024" json:"-"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// WatchHistory 观看记录, one row per (user, video); WatchedAt moves on every view.
type WatchHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_history_user_video" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:idx_history_user_video;index" json:"video_id"`
	WatchedAt time.Time `gorm:"not null;index" json:"watched_at"`
}

func (WatchHistory) TableName() string {
	return "watch_histories"
}
