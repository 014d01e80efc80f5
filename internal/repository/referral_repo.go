package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/model"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) WithTx(tx *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: tx}
}

// Create 写入兑换记录，同一被推荐人重复写入返回 gorm.ErrDuplicatedKey
func (r *ReferralRepository) Create(referral *model.Referral) error {
	return r.db.Create(referral).Error
}

func (r *ReferralRepository) GetByRefereeID(refereeID string) (*model.Referral, error) {
	var referral model.Referral
	err := r.db.Where("referee_id = ?", refereeID).First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

// ListByReferrerID 按兑换时间倒序获取推荐人的兑换记录
func (r *ReferralRepository) ListByReferrerID(referrerID string) ([]*model.Referral, error) {
	referrals := make([]*model.Referral, 0)
	err := r.db.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, err
}
