package model

import "time"

type Video struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OwnerID      int64     `gorm:"not null;index" json:"owner_id"`
	Title        string    `gorm:"not null;size:255" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	VideoURL     string    `gorm:"not null;size:512" json:"video_url"`
	VideoKey     string    `gorm:"size:255" json:"-"`
	ThumbnailURL string    `gorm:"size:512" json:"thumbnail_url"`
	ThumbnailKey string    `gorm:"size:255" json:"-"`
	Duration     float64   `gorm:"not null;default:0" json:"duration"`
	Views        int64     `gorm:"not null;default:0" json:"views"`
	IsPublished  bool      `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

// VisibleTo reports whether viewerID may see the video. Drafts are only
// visible to their owner.
func (v *Video) VisibleTo(viewerID int64) bool {
	return v.IsPublished || v.OwnerID == viewerID
}

// Playlist 播放列表. Membership lives in PlaylistVideo.
type Playlist struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OwnerID     int64     `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Playlist) TableName() string {
	return "playlists"
}

type PlaylistVideo struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	PlaylistID int64     `gorm:"not null;uniqueIndex:idx_playlist_video" json:"playlist_id"`
	VideoID    int64     `gorm:"not null;uniqueIndex:idx_playlist_video;index" json:"video_id"`
	Position   int64     `gorm:"not null" json:"position"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
