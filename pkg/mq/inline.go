package mq

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

// InlineProducer runs the handler in the publishing goroutine. It stands in
// for RabbitMQ when no broker is configured.
type InlineProducer struct {
	handler ContentDeletedHandler
}

func NewInlineProducer(handler ContentDeletedHandler) *InlineProducer {
	return &InlineProducer{handler: handler}
}

func (p *InlineProducer) PublishContentDeleted(ctx context.Context, event *ContentDeletedEvent) error {
	hlog.CtxDebugf(ctx, "Handling content deleted event inline: %+v", event)
	return p.handler.HandleContentDeleted(ctx, event)
}

func (p *InlineProducer) Close() error {
	return nil
}

// Announce publishes event. When publishing fails, fallback handles the
// event inline so the dependents of the deleted row are still removed.
func Announce(ctx context.Context, p Publisher, fallback ContentDeletedHandler, event *ContentDeletedEvent) error {
	err := p.PublishContentDeleted(ctx, event)
	if err == nil {
		return nil
	}
	hlog.CtxErrorf(ctx, "publish content deleted event %s failed, handling inline: %v", event.EventID, err)
	if err = fallback.HandleContentDeleted(ctx, event); err != nil {
		return errors.WithMessage(err, "inline content deleted handling failed")
	}
	return nil
}
