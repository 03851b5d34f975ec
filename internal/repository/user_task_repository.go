package repository

import (
	"context"
	"learnflow_backend/internal/model"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserTaskFilter 空字符串或 "all" 表示不过滤
type UserTaskFilter struct {
	Search   string
	Priority string
	Status   string
	Category string
}

// UserTaskStats 个人任务统计
type UserTaskStats struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"inProgress"`
	Todo       int64 `json:"todo"`
}

type UserTaskRepository struct {
	DB *gorm.DB
}

func NewUserTaskRepository(db *gorm.DB) *UserTaskRepository {
	return &UserTaskRepository{DB: db}
}

func isFilterSet(v string) bool {
	return v != "" && v != "all"
}

// Create 写入任务后逐条写入标签关联
func (r *UserTaskRepository) Create(ctx context.Context, task *model.UserTask) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return linkTaskTags(ctx, tx, task.ID, task.Tags)
	})
}

// UpdateWithTags 在同一事务中保存任务字段；replaceTags 为 true 时先清除旧标签关联再写入 tags
func (r *UserTaskRepository) UpdateWithTags(ctx context.Context, task *model.UserTask, tags []model.Tag, replaceTags bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if !replaceTags {
			return nil
		}
		if err := tx.Where("user_task_id = ?", task.ID).Delete(&model.UserTaskTag{}).Error; err != nil {
			return err
		}
		return linkTaskTags(ctx, tx, task.ID, tags)
	})
}

func linkTaskTags(ctx context.Context, tx *gorm.DB, taskID string, tags []model.Tag) error {
	for _, tag := range tags {
		if err := linkRow(ctx, tx, &model.UserTaskTag{UserTaskID: taskID, TagID: tag.ID}); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserTaskRepository) UpdateStatus(ctx context.Context, taskID string, status model.TaskStatus) error {
	return r.DB.WithContext(ctx).Model(&model.UserTask{}).
		Where("id = ?", taskID).
		Update("status", status).Error
}

func (r *UserTaskRepository) FindByIDForUser(ctx context.Context, id, userID string) (*model.UserTask, error) {
	var task model.UserTask
	err := r.DB.WithContext(ctx).Preload("Tags").
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	return &task, err
}

// FindByUser 按条件过滤，新建的任务在前
func (r *UserTaskRepository) FindByUser(ctx context.Context, userID string, filter UserTaskFilter) ([]model.UserTask, error) {
	db := r.DB.WithContext(ctx).Preload("Tags").Where("user_id = ?", userID)

	if search := strings.TrimSpace(filter.Search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", term, term)
	}
	if isFilterSet(filter.Priority) {
		db = db.Where("priority = ?", filter.Priority)
	}
	if isFilterSet(filter.Status) {
		db = db.Where("status = ?", filter.Status)
	}
	if isFilterSet(filter.Category) {
		db = db.Where("category = ?", filter.Category)
	}

	var tasks []model.UserTask
	err := db.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// FindUpcoming 返回未完成且有截止日期的任务，按截止日期升序
func (r *UserTaskRepository) FindUpcoming(ctx context.Context, userID string, limit int) ([]model.UserTask, error) {
	var tasks []model.UserTask
	err := r.DB.WithContext(ctx).Preload("Tags").
		Where("user_id = ? AND status <> ? AND due_date IS NOT NULL", userID, model.TaskCompleted).
		Order("due_date ASC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *UserTaskRepository) Delete(ctx context.Context, taskID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_task_id = ?", taskID).Delete(&model.UserTaskTag{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", taskID).Delete(&model.UserTask{}).Error
	})
}

func (r *UserTaskRepository) StatsForUser(ctx context.Context, userID string) (*UserTaskStats, error) {
	var rows []struct {
		Status model.TaskStatus
		Count  int64
	}
	err := r.DB.WithContext(ctx).Model(&model.UserTask{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &UserTaskStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case model.TaskCompleted:
			stats.Completed = row.Count
		case model.TaskInProgress:
			stats.InProgress = row.Count
		case model.TaskTodo:
			stats.Todo = row.Count
		}
	}
	return stats, nil
}
