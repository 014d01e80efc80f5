// Package worker runs the notifier process's background work: it relays
// account events from Redis pub/sub to connected WebSocket clients.
package worker

import (
	"context"
	"errors"

	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/pubsub"
	"github.com/qs3c/criptex_server/internal/pkg/ws"
)

// Sender 向用户的所有连接推送消息
type Sender interface {
	SendToUser(userID string, msg *ws.Message) error
}

// Relay 订阅账户事件并转发给在线用户
type Relay struct {
	subscriber *pubsub.Subscriber
	sender     Sender
	logger     logging.Logger
}

func NewRelay(subscriber *pubsub.Subscriber, sender Sender, logger logging.Logger) *Relay {
	return &Relay{
		subscriber: subscriber,
		sender:     sender,
		logger:     logger.With("component", "relay"),
	}
}

// Run 阻塞直到 ctx 结束，ctx 取消不视为错误
func (r *Relay) Run(ctx context.Context) error {
	err := r.subscriber.Subscribe(ctx, func(event *pubsub.AccountEvent) {
		r.Handle(ctx, event)
	})
	if err != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handle 转发单个事件，用户不在线时直接丢弃
func (r *Relay) Handle(ctx context.Context, event *pubsub.AccountEvent) {
	if event.UserID == "" {
		return
	}

	err := r.sender.SendToUser(event.UserID, &ws.Message{
		Type: event.Type,
		Data: event,
	})
	if err != nil {
		r.logger.Warn(ctx, "relay event failed", "user_id", event.UserID, "type", event.Type, "err", err)
		return
	}
	r.logger.Debug(ctx, "event relayed", "user_id", event.UserID, "type", event.Type)
}
