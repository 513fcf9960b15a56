package mq

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewConsumer(rabbitmqURL string) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to open a channel")
	}

	// 设置QoS，限制未确认消息数量
	if err = ch.Qos(10, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrap(err, "failed to set QoS")
	}
	if err = setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Consumer{conn: conn, channel: ch}, nil
}

// ConsumeContentDeleted blocks until ctx is done or the delivery channel is
// closed. Failed deliveries are requeued once; a redelivered failure is
// dropped.
func (c *Consumer) ConsumeContentDeleted(ctx context.Context, handler ContentDeletedHandler) error {
	msgs, err := c.channel.Consume(
		ContentDeletedQueue,
		"",    // consumer
		false, // auto-ack (设置为false，手动确认)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return errors.Wrap(err, "failed to register a consumer")
	}

	for {
		select {
		case <-ctx.Done():
			hlog.Info("Content deleted consumer context cancelled")
			return nil
		case d, ok := <-msgs:
			if !ok {
				hlog.Info("Content deleted consumer channel closed")
				return errors.New("delivery channel closed")
			}
			deliver(ctx, d, handler)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func deliver(ctx context.Context, d amqp091.Delivery, handler ContentDeletedHandler) {
	handle(ctx, d.Body, d.Redelivered, d, handler)
}

func handle(ctx context.Context, body []byte, redelivered bool, ack acknowledger, handler ContentDeletedHandler) {
	var event ContentDeletedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		hlog.Errorf("Failed to unmarshal content deleted event: %v", err)
		ack.Nack(false, false) // 拒绝消息，不重新入队
		return
	}

	if err := handler.HandleContentDeleted(ctx, &event); err != nil {
		hlog.CtxErrorf(ctx, "Failed to handle content deleted event %s: %+v", event.EventID, err)
		ack.Nack(false, !redelivered)
		return
	}

	ack.Ack(false) // 确认消息
	hlog.CtxInfof(ctx, "Successfully processed content deleted event: %+v", event)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
