package mq

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContentVideo   = "video"
	ContentComment = "comment"
	ContentTweet   = "tweet"
)

// ContentDeletedEvent 内容删除事件. Consumers remove everything that hangs
// off the deleted row (likes, comments, memberships, history).
type ContentDeletedEvent struct {
	EventID   string `json:"event_id"`
	Kind      string `json:"kind"`
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"owner_id"`
	Timestamp int64  `json:"timestamp"`
}

func NewContentDeletedEvent(kind string, id, ownerID int64) *ContentDeletedEvent {
	return &ContentDeletedEvent{
		EventID:   uuid.NewString(),
		Kind:      kind,
		ID:        id,
		OwnerID:   ownerID,
		Timestamp: time.Now().Unix(),
	}
}

// 常量定义
const (
	ContentEventExchange = "content_events"
	ContentDeletedQueue  = "content_deleted_queue"
	ContentDeletedKey    = "content.deleted"
)
