package mq

import "context"

// Publisher 消息生产者接口
type Publisher interface {
	PublishContentDeleted(ctx context.Context, event *ContentDeletedEvent) error
	Close() error
}

type ContentDeletedHandler interface {
	HandleContentDeleted(ctx context.Context, event *ContentDeletedEvent) error
}

// 确保Producer实现Publisher接口
var _ Publisher = (*Producer)(nil)

var _ Publisher = (*InlineProducer)(nil)
