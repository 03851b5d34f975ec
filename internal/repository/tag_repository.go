package repository

import (
	"context"
	"learnflow_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type TagRepository struct {
	DB *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

// FindOrCreate 按名称查找或创建标签
func (r *TagRepository) FindOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyKey
	}
	return FindOrCreate(ctx, r.DB, map[string]interface{}{"name": name}, &model.Tag{Name: name})
}

// FindOrCreateAll 逐个查找或创建，忽略空名称和重复名称
func (r *TagRepository) FindOrCreateAll(ctx context.Context, names []string) ([]model.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag, err := r.FindOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}
