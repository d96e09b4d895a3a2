package repository

import (
	"testbot_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) ByUser(telegramID int64) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.Where("telegram_id = ?", telegramID).Find(&results).Error
	return results, err
}

func (r *ResultRepository) Recent(telegramID int64, limit int) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.Where("telegram_id = ?", telegramID).
		Order("created_at desc").Limit(limit).Find(&results).Error
	return results, err
}
