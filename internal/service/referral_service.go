package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/model"
	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/pubsub"
	"github.com/qs3c/criptex_server/internal/repository"
)

var (
	ErrAlreadyReferred     = errors.New("Referral code already used")
	ErrUnknownReferralCode = errors.New("Invalid referral code")
	ErrSelfReferral        = errors.New("Cannot use your own referral code")
)

type ReferralService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
	quota        *QuotaService
	cfg          *config.Config
	notifier     Notifier
}

func NewReferralService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	referralRepo *repository.ReferralRepository,
	quota *QuotaService,
	cfg *config.Config,
	notifier Notifier,
) *ReferralService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &ReferralService{
		db:           db,
		userRepo:     userRepo,
		referralRepo: referralRepo,
		quota:        quota,
		cfg:          cfg,
		notifier:     notifier,
	}
}

// GenerateCode 随机 UUID 的前 N 个十六进制字符，大写
func (s *ReferralService) GenerateCode() string {
	length := s.cfg.Quota.ReferralCodeLength
	if length <= 0 || length > 32 {
		length = 8
	}
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:length])
}

// Redeem 兑换推荐码，双方各得奖励。失败时不修改任何数据
func (s *ReferralService) Redeem(ctx context.Context, user *model.User, code string) (*model.Referral, error) {
	if user.ReferredBy != nil {
		return nil, ErrAlreadyReferred
	}

	referrer, err := s.userRepo.GetByReferralCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownReferralCode
		}
		return nil, err
	}

	if referrer.ID == user.ID {
		return nil, ErrSelfReferral
	}

	bonus := s.cfg.Quota.ReferralBonus
	referral := &model.Referral{
		ReferrerID: referrer.ID,
		RefereeID:  user.ID,
		Code:       code,
		Bonus:      bonus,
		CreatedAt:  time.Now().UTC(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		quota := s.quota.WithTx(tx)

		// 并发兑换时只有一个请求能设置 referred_by
		ok, err := users.MarkReferred(user.ID, referrer.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyReferred
		}

		if err := s.referralRepo.WithTx(tx).Create(referral); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReferred
			}
			return err
		}

		if err := quota.GrantReferralBonus(user.ID, bonus); err != nil {
			return err
		}
		if err := quota.GrantReferralBonus(referrer.ID, bonus); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrUnknownReferralCode
			}
			return err
		}

		ok, err = users.IncrementReferralStats(referrer.ID, bonus)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownReferralCode
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyRedeemed(ctx, user.ID, referrer.ID)

	return referral, nil
}

func (s *ReferralService) notifyRedeemed(ctx context.Context, refereeID, referrerID string) {
	events := map[string]string{
		refereeID:  pubsub.EventReferralApplied,
		referrerID: pubsub.EventReferralReward,
	}
	for userID, eventType := range events {
		u, err := s.userRepo.GetByID(userID)
		if err != nil {
			continue
		}
		s.notifier.Notify(ctx, &pubsub.AccountEvent{
			Type:            eventType,
			UserID:          userID,
			FreePredictions: u.FreePredictions,
		})
	}
}

// Stats 推荐统计
func (s *ReferralService) Stats(user *model.User) *dto.ReferralStats {
	return &dto.ReferralStats{
		ReferralCode:     user.ReferralCode,
		ReferralCount:    user.ReferralCount,
		ReferralEarnings: user.ReferralEarnings,
	}
}
