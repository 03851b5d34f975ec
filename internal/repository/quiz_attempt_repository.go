package repository

import (
	"context"
	"learnflow_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

func (r *QuizAttemptRepository) FindByUserID(ctx context.Context, userID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// StatsForUser 返回测验次数与平均得分率
func (r *QuizAttemptRepository) StatsForUser(ctx context.Context, userID string) (count int64, average float64, err error) {
	var row struct {
		Count   int64
		Average float64
	}
	err = r.DB.WithContext(ctx).Model(&model.QuizAttempt{}).
		Select("COUNT(*) AS count, COALESCE(AVG(percentage), 0) AS average").
		Where("user_id = ?", userID).
		Scan(&row).Error
	return row.Count, row.Average, err
}
