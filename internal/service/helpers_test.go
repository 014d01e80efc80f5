package service

import (
	"context"
	"sync"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/pkg/pubsub"
)

// recordingNotifier 记录所有发出的账户事件
type recordingNotifier struct {
	mu     sync.Mutex
	events []*pubsub.AccountEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event *pubsub.AccountEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []*pubsub.AccountEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*pubsub.AccountEvent, len(n.events))
	copy(out, n.events)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			TicketTTLSeconds: 60,
		},
		Auth: config.AuthConfig{
			Provider:        "emergent",
			TimeoutSeconds:  2,
			SessionTTLHours: 7 * 24,
			CookieName:      "session_token",
		},
		Market: config.MarketConfig{
			TimeoutSeconds:       1,
			LookupTimeoutSeconds: 1,
			DefaultCurrency:      "usd",
			Coins:                []string{"bitcoin", "ethereum", "avalanche-2"},
		},
		Quota: config.QuotaConfig{
			InitialFreePredictions: 5,
			DailyBonus:             1,
			BonusCooldownHours:     24,
			ReferralBonus:          1,
			ReferralCodeLength:     8,
			ReferralCodeAttempts:   5,
		},
		Idempotency: config.IdempotencyConfig{
			TTLSeconds: 3600,
		},
	}
}
