package repository

import (
	"context"
	"learnflow_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

// FindOrCreate 有 URL 时按 URL 去重；没有 URL 时按标题且 url 为 NULL 去重
func (r *ResourceRepository) FindOrCreate(ctx context.Context, title, url string, category model.ResourceCategory) (*model.Resource, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if title == "" && url == "" {
		return nil, ErrEmptyKey
	}
	if category == "" {
		category = model.ResourceOther
	}

	payload := &model.Resource{Title: title, Category: category}
	if url != "" {
		if title == "" {
			payload.Title = url
		}
		payload.URL = &url
		return FindOrCreate(ctx, r.DB, map[string]interface{}{"url": url}, payload)
	}

	return FindOrCreate(ctx, r.DB, map[string]interface{}{"title": title, "url": nil}, payload)
}

func (r *ResourceRepository) CountByURL(ctx context.Context, url string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Resource{}).Where("url = ?", url).Count(&count).Error
	return count, err
}
