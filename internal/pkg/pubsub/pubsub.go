package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelAccountEvents = "account_events"
)

// 账户事件类型
const (
	EventPredictionCreated = "prediction_created"
	EventBonusClaimed      = "bonus_claimed"
	EventReferralApplied   = "referral_applied"
	EventReferralReward    = "referral_reward"
)

// 事件对应的默认消息
var EventMessages = map[string]string{
	EventPredictionCreated: "Prediction created",
	EventBonusClaimed:      "Daily bonus claimed!",
	EventReferralApplied:   "Referral code applied successfully!",
	EventReferralReward:    "Someone used your referral code",
}

// AccountEvent 余额变动事件，由 API 进程发布，通知进程推送给用户
type AccountEvent struct {
	Type            string    `json:"type"`
	UserID          string    `json:"user_id"`
	FreePredictions int       `json:"free_predictions"`
	PredictionID    string    `json:"prediction_id,omitempty"`
	Message         string    `json:"message,omitempty"`
	At              time.Time `json:"at"`
}

// Publisher Redis 发布者
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher 创建发布者，channel 为空时使用默认频道
func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = ChannelAccountEvents
	}
	return &Publisher{client: client, channel: channel}
}

// Publish 发布账户事件
func (p *Publisher) Publish(ctx context.Context, event *AccountEvent) error {
	if event.Message == "" {
		event.Message = EventMessages[event.Type]
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal account event: %w", err)
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client  *redis.Client
	channel string
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client, channel string) *Subscriber {
	if channel == "" {
		channel = ChannelAccountEvents
	}
	return &Subscriber{client: client, channel: channel}
}

// Subscribe 订阅账户事件，直到 ctx 结束
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*AccountEvent)) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// 等待订阅确认
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", s.channel, err)
	}

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event AccountEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
