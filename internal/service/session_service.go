package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/model"
	"github.com/qs3c/criptex_server/internal/repository"
)

var ErrUnauthenticated = errors.New("Not authenticated")

type SessionService struct {
	sessionRepo *repository.SessionRepository
	userRepo    *repository.UserRepository
}

func NewSessionService(sessionRepo *repository.SessionRepository, userRepo *repository.UserRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// Resolve 令牌为空、不存在、已过期或用户已删除时都返回 ErrUnauthenticated
func (s *SessionService) Resolve(token string, now time.Time) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if session.Expired(now) {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return user, nil
}
