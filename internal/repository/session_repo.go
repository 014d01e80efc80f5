package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	return r.db.Create(session).Error
}

func (r *SessionRepository) GetByToken(token string) (*model.Session, error) {
	var session model.Session
	err := r.db.Where("session_token = ?", token).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByUserID 删除用户的全部会话，返回删除数量
func (r *SessionRepository) DeleteByUserID(userID string) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&model.Session{})
	return result.RowsAffected, result.Error
}

// CountExpired 统计在 before 之前已过期的会话
func (r *SessionRepository) CountExpired(before time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Session{}).Where("expires_at <= ?", before).Count(&count).Error
	return count, err
}

// DeleteExpired 删除在 before 之前已过期的会话
func (r *SessionRepository) DeleteExpired(before time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", before).Delete(&model.Session{})
	return result.RowsAffected, result.Error
}
