package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/model"
)

// MaxPredictionsPerList 列表接口最多返回的预测数量
const MaxPredictionsPerList = 100

type PredictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) WithTx(tx *gorm.DB) *PredictionRepository {
	return &PredictionRepository{db: tx}
}

func (r *PredictionRepository) Create(prediction *model.Prediction) error {
	return r.db.Create(prediction).Error
}

// GetByIDForUser 只返回属于该用户的预测
func (r *PredictionRepository) GetByIDForUser(id, userID string) (*model.Prediction, error) {
	var prediction model.Prediction
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&prediction).Error
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// ListByUserID 按创建时间倒序获取用户的预测
func (r *PredictionRepository) ListByUserID(userID string, limit int) ([]*model.Prediction, error) {
	if limit <= 0 || limit > MaxPredictionsPerList {
		limit = MaxPredictionsPerList
	}

	predictions := make([]*model.Prediction, 0)
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&predictions).Error
	return predictions, err
}

func (r *PredictionRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Prediction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
