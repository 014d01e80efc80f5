package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/pkg/pubsub"
	"github.com/qs3c/criptex_server/internal/repository"
)

var (
	ErrInsufficientQuota   = errors.New("No free predictions remaining")
	ErrBonusAlreadyClaimed = errors.New("Bonus already claimed today")
	ErrUserNotFound        = errors.New("User not found")
)

// QuotaService 免费预测余额的唯一修改入口，所有变更都是条件更新或原子自增
type QuotaService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
	notifier Notifier
}

func NewQuotaService(userRepo *repository.UserRepository, cfg *config.Config, notifier Notifier) *QuotaService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &QuotaService{
		userRepo: userRepo,
		cfg:      cfg,
		notifier: notifier,
	}
}

// WithTx 返回在事务内操作的副本
func (s *QuotaService) WithTx(tx *gorm.DB) *QuotaService {
	return &QuotaService{
		userRepo: s.userRepo.WithTx(tx),
		cfg:      s.cfg,
		notifier: s.notifier,
	}
}

// ConsumeOne 扣减一次免费预测，余额不足时不做任何修改
func (s *QuotaService) ConsumeOne(userID string) error {
	ok, err := s.userRepo.ConsumeFreePrediction(userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientQuota
	}
	return nil
}

// ClaimDailyBonus 领取每日奖励，返回领取后的余额
func (s *QuotaService) ClaimDailyBonus(ctx context.Context, userID string, now time.Time) (int, error) {
	now = now.UTC()
	notAfter := now.Add(-s.cfg.Quota.BonusCooldown())

	ok, err := s.userRepo.ClaimBonus(userID, s.cfg.Quota.DailyBonus, now, notAfter)
	if err != nil {
		return 0, err
	}

	user, err := s.userRepo.GetByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrBonusAlreadyClaimed
	}

	s.notifier.Notify(ctx, &pubsub.AccountEvent{
		Type:            pubsub.EventBonusClaimed,
		UserID:          userID,
		FreePredictions: user.FreePredictions,
		At:              now,
	})

	return user.FreePredictions, nil
}

// GrantReferralBonus 无条件增加余额，供推荐兑换使用
func (s *QuotaService) GrantReferralBonus(userID string, amount int) error {
	ok, err := s.userRepo.AddFreePredictions(userID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
