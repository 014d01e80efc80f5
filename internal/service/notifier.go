package service

import (
	"context"

	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/pubsub"
)

// Notifier 账户变动通知，失败不影响请求结果
type Notifier interface {
	Notify(ctx context.Context, event *pubsub.AccountEvent)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, *pubsub.AccountEvent) {}

// NopNotifier Redis 未启用时使用
func NopNotifier() Notifier {
	return nopNotifier{}
}

// PublishNotifier 通过 Redis 发布账户事件
type PublishNotifier struct {
	publisher *pubsub.Publisher
	logger    logging.Logger
}

func NewPublishNotifier(publisher *pubsub.Publisher, logger logging.Logger) *PublishNotifier {
	return &PublishNotifier{publisher: publisher, logger: logger}
}

func (n *PublishNotifier) Notify(ctx context.Context, event *pubsub.AccountEvent) {
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn(ctx, "publish account event failed",
			"type", event.Type,
			"user_id", event.UserID,
			"err", err,
		)
	}
}
