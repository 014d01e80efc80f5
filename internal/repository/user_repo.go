package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByReferralCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("referral_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByReferralCode(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

// ConsumeFreePrediction 条件扣减一次免费预测，余额为 0 时不修改任何行
func (r *UserRepository) ConsumeFreePrediction(id string) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ? AND free_predictions > 0", id).
		UpdateColumns(map[string]interface{}{
			"free_predictions":       gorm.Expr("free_predictions - 1"),
			"total_predictions_used": gorm.Expr("total_predictions_used + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClaimBonus 仅当上次领取早于 notAfter（或从未领取）时增加余额并记录领取时间
func (r *UserRepository) ClaimBonus(id string, amount int, now, notAfter time.Time) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ? AND (last_bonus_claim IS NULL OR last_bonus_claim <= ?)", id, notAfter).
		UpdateColumns(map[string]interface{}{
			"free_predictions": gorm.Expr("free_predictions + ?", amount),
			"last_bonus_claim": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *UserRepository) AddFreePredictions(id string, amount int) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("free_predictions", gorm.Expr("free_predictions + ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkReferred 设置推荐人，已被推荐过的用户不会被修改
func (r *UserRepository) MarkReferred(id, referrerID string) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ? AND referred_by IS NULL AND id <> ?", id, referrerID).
		UpdateColumn("referred_by", referrerID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IncrementReferralStats 推荐人的推荐次数加一，收益累加
func (r *UserRepository) IncrementReferralStats(id string, earnings int) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"referral_count":    gorm.Expr("referral_count + 1"),
			"referral_earnings": gorm.Expr("referral_earnings + ?", earnings),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByID(id string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
