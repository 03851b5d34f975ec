package repository

import (
	"context"
	"learnflow_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	return &profile, err
}

func (r *ProfileRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Updates(updates).Error
}
