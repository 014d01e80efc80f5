package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/model"
	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/idempotency"
	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/market"
	"github.com/qs3c/criptex_server/internal/pkg/pubsub"
	"github.com/qs3c/criptex_server/internal/repository"
)

const idempotencyScope = "prediction"

var ErrRequestInFlight = errors.New("A request with this Idempotency-Key is still being processed")

// PriceLookup 获取币种当前价格
type PriceLookup interface {
	LookupPrice(ctx context.Context, symbol string) (float64, error)
}

type PredictionService struct {
	db             *gorm.DB
	predictionRepo *repository.PredictionRepository
	quota          *QuotaService
	prices         PriceLookup
	guard          *idempotency.Guard
	notifier       Notifier
	logger         logging.Logger
}

// NewPredictionService guard 为 nil 时不支持幂等键
func NewPredictionService(
	db *gorm.DB,
	predictionRepo *repository.PredictionRepository,
	quota *QuotaService,
	prices PriceLookup,
	guard *idempotency.Guard,
	notifier Notifier,
	logger logging.Logger,
) *PredictionService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &PredictionService{
		db:             db,
		predictionRepo: predictionRepo,
		quota:          quota,
		prices:         prices,
		guard:          guard,
		notifier:       notifier,
		logger:         logger.With("component", "prediction"),
	}
}

// List 当前用户的预测，最新的在前
func (s *PredictionService) List(userID string) ([]*model.Prediction, error) {
	return s.predictionRepo.ListByUserID(userID, repository.MaxPredictionsPerList)
}

// Submit 提交预测。写入记录与扣减余额在同一事务中完成
func (s *PredictionService) Submit(ctx context.Context, user *model.User, req *dto.CreatePredictionRequest, idempotencyKey string) (*model.Prediction, error) {
	if idempotencyKey != "" && s.guard != nil {
		return s.submitOnce(ctx, user, req, idempotencyKey)
	}
	return s.submit(ctx, user, req)
}

func (s *PredictionService) submitOnce(ctx context.Context, user *model.User, req *dto.CreatePredictionRequest, key string) (*model.Prediction, error) {
	scope := idempotencyScope + ":" + user.ID

	previousID, err := s.guard.Begin(ctx, scope, key)
	if err != nil {
		if errors.Is(err, idempotency.ErrInFlight) {
			return nil, ErrRequestInFlight
		}
		return nil, err
	}
	if previousID != "" {
		return s.predictionRepo.GetByIDForUser(previousID, user.ID)
	}

	prediction, err := s.submit(ctx, user, req)
	if err != nil {
		if releaseErr := s.guard.Release(ctx, scope, key); releaseErr != nil {
			s.logger.Warn(ctx, "release idempotency key failed", "user_id", user.ID, "err", releaseErr)
		}
		return nil, err
	}

	if err := s.guard.Complete(ctx, scope, key, prediction.ID); err != nil {
		s.logger.Warn(ctx, "complete idempotency key failed", "user_id", user.ID, "err", err)
	}
	return prediction, nil
}

func (s *PredictionService) submit(ctx context.Context, user *model.User, req *dto.CreatePredictionRequest) (*model.Prediction, error) {
	// 任何副作用之前先检查余额
	if user.FreePredictions <= 0 {
		return nil, ErrInsufficientQuota
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	entryPrice := s.entryPrice(ctx, symbol)

	prediction := &model.Prediction{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Symbol:         symbol,
		PredictionType: req.PredictionType,
		Timeframe:      req.Timeframe,
		Confidence:     model.PlaceholderConfidence,
		EntryPrice:     entryPrice,
		TargetPrice:    req.TargetPrice,
		StopLoss:       req.StopLoss,
		CreatedAt:      time.Now().UTC(),
		IsFree:         true,
	}

	var remaining int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.predictionRepo.WithTx(tx).Create(prediction); err != nil {
			return err
		}
		if err := s.quota.WithTx(tx).ConsumeOne(user.ID); err != nil {
			return err
		}

		var updated model.User
		if err := tx.Select("free_predictions").Where("id = ?", user.ID).First(&updated).Error; err != nil {
			return err
		}
		remaining = updated.FreePredictions
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "prediction created",
		"user_id", user.ID,
		"prediction_id", prediction.ID,
		"symbol", symbol,
		"remaining", remaining,
	)

	s.notifier.Notify(ctx, &pubsub.AccountEvent{
		Type:            pubsub.EventPredictionCreated,
		UserID:          user.ID,
		FreePredictions: remaining,
		PredictionID:    prediction.ID,
	})

	return prediction, nil
}

// entryPrice 上游失败或超时时使用静态价格表
func (s *PredictionService) entryPrice(ctx context.Context, symbol string) float64 {
	price, err := s.prices.LookupPrice(ctx, symbol)
	if err != nil || price <= 0 {
		fallback := market.FallbackPrice(symbol)
		s.logger.Warn(ctx, "price lookup failed, using fallback",
			"symbol", symbol,
			"fallback", fallback,
			"err", err,
		)
		return fallback
	}
	return price
}
