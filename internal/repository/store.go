package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEmptyKey 查找或创建时唯一键为空
var ErrEmptyKey = errors.New("empty unique key")

// FindOrCreate 按唯一条件查找记录，不存在时插入 payload。
// 插入使用 ON CONFLICT DO NOTHING，并发请求抢先插入时重新查询，
// 两个请求最终拿到同一行。查询出现 "record not found" 以外的错误时直接返回，不插入。
func FindOrCreate[T any](ctx context.Context, db *gorm.DB, filter map[string]interface{}, payload *T) (*T, error) {
	var existing T
	err := db.WithContext(ctx).Where(filter).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(payload)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return payload, nil
	}

	// 插入被唯一索引吞掉，说明另一请求已写入
	var winner T
	if err := db.WithContext(ctx).Where(filter).First(&winner).Error; err != nil {
		return nil, err
	}
	return &winner, nil
}

// linkRow 插入关联行，已存在时忽略
func linkRow(ctx context.Context, db *gorm.DB, row interface{}) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}
