package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/model"
	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/identity"
	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/repository"
)

var (
	ErrSessionIDRequired   = errors.New("Session ID required")
	ErrInvalidSession      = errors.New("Invalid session")
	ErrIdentityUnavailable = errors.New("Identity provider unavailable")
	ErrCodeCollision       = errors.New("failed to allocate a unique referral code")
)

type AuthService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	referral    *ReferralService
	exchanger   identity.Exchanger
	cfg         *config.Config
	logger      logging.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	referral *ReferralService,
	exchanger identity.Exchanger,
	cfg *config.Config,
	logger logging.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		referral:    referral,
		exchanger:   exchanger,
		cfg:         cfg,
		logger:      logger.With("component", "auth"),
	}
}

// NewExchanger 按配置选择身份提供方
func NewExchanger(cfg *config.Config) (identity.Exchanger, error) {
	switch strings.ToLower(cfg.Auth.Provider) {
	case "", "emergent":
		return identity.NewEmergentExchanger(cfg.Auth.SessionDataURL, cfg.Auth.Timeout()), nil
	case "github":
		return identity.NewGithubExchanger(
			cfg.OAuth.Github.ClientID,
			cfg.OAuth.Github.ClientSecret,
			cfg.OAuth.Github.RedirectURI,
		), nil
	default:
		return nil, fmt.Errorf("unknown auth provider: %s", cfg.Auth.Provider)
	}
}

// CreateSession 用一次性 session id 换取会话。新用户按邮箱创建，已有用户资料不更新
func (s *AuthService) CreateSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Auth.Timeout())
	defer cancel()

	id, err := s.exchanger.Exchange(ctx, sessionID)
	if err != nil {
		if errors.Is(err, identity.ErrRejected) {
			return nil, ErrInvalidSession
		}
		s.logger.Warn(ctx, "identity exchange failed", "err", err)
		return nil, ErrIdentityUnavailable
	}

	user, err := s.findOrCreateUser(id)
	if err != nil {
		return nil, err
	}

	token := id.SessionToken
	if token == "" {
		if token, err = identity.NewSessionToken(); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	session := &model.Session{
		SessionToken: token,
		UserID:       user.ID,
		ExpiresAt:    now.Add(s.cfg.Auth.SessionTTL()),
		CreatedAt:    now,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// 提供方重复下发同一令牌：属于同一用户时沿用，否则拒绝
		existing, getErr := s.sessionRepo.GetByToken(token)
		if getErr != nil || existing.UserID != user.ID {
			return nil, ErrInvalidSession
		}
	}

	s.logger.Info(ctx, "session created", "user_id", user.ID)

	return &dto.SessionResponse{
		User:         user,
		SessionToken: token,
	}, nil
}

func (s *AuthService) findOrCreateUser(id *identity.Identity) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(id.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.createUser(id)
}

// createUser 推荐码冲突时重新生成，超过次数后放弃
func (s *AuthService) createUser(id *identity.Identity) (*model.User, error) {
	attempts := s.cfg.Quota.ReferralCodeAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		user := &model.User{
			ID:              id.ID,
			Email:           id.Email,
			Name:            id.Name,
			Picture:         id.Picture,
			FreePredictions: s.cfg.Quota.InitialFreePredictions,
			ReferralCode:    s.referral.GenerateCode(),
			CreatedAt:       time.Now().UTC(),
		}

		err := s.userRepo.Create(user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		// 也可能是同一邮箱的并发登录
		if existing, getErr := s.userRepo.GetByEmail(id.Email); getErr == nil {
			return existing, nil
		}
		if exists, _ := s.userRepo.ExistsByID(id.ID); exists {
			return nil, ErrInvalidSession
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrCodeCollision, attempts)
}

// Logout 删除用户的全部会话
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	deleted, err := s.sessionRepo.DeleteByUserID(userID)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "user logged out", "user_id", userID, "sessions", deleted)
	return nil
}
