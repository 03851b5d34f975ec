package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"learnflow_backend/internal/model"
	"learnflow_backend/internal/repository"
	"learnflow_backend/internal/util"
	"learnflow_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TagList 接受字符串数组或逗号分隔的字符串
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = normalizeTags(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags must be a list or a comma-separated string")
	}
	*t = normalizeTags(strings.Split(joined, ","))
	return nil
}

// normalizeTags 去掉首尾空白，丢弃空名称和重复名称，保持原有顺序
func normalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// UserTaskInput 创建或更新个人任务的请求体
type UserTaskInput struct {
	Title          string             `json:"title" binding:"required"`
	Description    string             `json:"description"`
	Priority       model.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category       model.TaskCategory `json:"category" binding:"omitempty,oneof=daily weekly monthly"`
	Status         model.TaskStatus   `json:"status" binding:"omitempty,oneof=todo in-progress completed"`
	DueDate        string             `json:"dueDate"`
	EstimatedHours float64            `json:"estimatedHours" binding:"min=0"`
	Tags           TagList            `json:"tags"`
}

// parseDueDate 支持 2006-01-02 和 RFC3339 两种格式
func parseDueDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(util.DateFormat, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", util.ErrInvalidDueDate, v)
	}
	return &t, nil
}

type TaskService struct {
	TaskRepo *repository.UserTaskRepository
	TagRepo  *repository.TagRepository
	Cache    *repository.DashboardCache
}

func NewTaskService(taskRepo *repository.UserTaskRepository, tagRepo *repository.TagRepository, cache *repository.DashboardCache) *TaskService {
	return &TaskService{
		TaskRepo: taskRepo,
		TagRepo:  tagRepo,
		Cache:    cache,
	}
}

func (s *TaskService) invalidate(ctx context.Context, userID string) {
	if err := s.Cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Warn("Failed to invalidate dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}
}

// Create 新任务的状态总是 todo
func (s *TaskService) Create(ctx context.Context, userID string, in UserTaskInput) (*model.UserTask, error) {
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	tags, err := s.TagRepo.FindOrCreateAll(ctx, in.Tags)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	task := &model.UserTask{
		UserID:         userID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Priority:       in.Priority,
		Category:       in.Category,
		Status:         model.TaskTodo,
		DueDate:        dueDate,
		EstimatedHours: in.EstimatedHours,
		Tags:           tags,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Category == "" {
		task.Category = model.CategoryDaily
	}

	if err := s.TaskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID string, filter repository.UserTaskFilter) ([]model.UserTask, error) {
	return s.TaskRepo.FindByUser(ctx, userID, filter)
}

func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*model.UserTask, error) {
	task, err := s.TaskRepo.FindByIDForUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update 覆盖任务字段；请求中带 tags 时替换标签
func (s *TaskService) Update(ctx context.Context, userID, taskID string, in UserTaskInput) (*model.UserTask, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(in.Title)
	task.Description = in.Description
	task.DueDate = dueDate
	task.EstimatedHours = in.EstimatedHours
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if in.Category != "" {
		task.Category = in.Category
	}
	if in.Status != "" {
		task.Status = in.Status
	}

	// 先解析标签，失败时任务行保持原样
	var tags []model.Tag
	if in.Tags != nil {
		if tags, err = s.TagRepo.FindOrCreateAll(ctx, in.Tags); err != nil {
			return nil, fmt.Errorf("resolve tags: %w", err)
		}
	}

	if err := s.TaskRepo.UpdateWithTags(ctx, task, tags, in.Tags != nil); err != nil {
		return nil, err
	}
	if in.Tags != nil {
		task.Tags = tags
	}

	s.invalidate(ctx, userID)
	return task, nil
}

// ToggleStatus 按 todo -> in-progress -> completed -> todo 切换
func (s *TaskService) ToggleStatus(ctx context.Context, userID, taskID string) (*model.UserTask, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	next := task.Status.Next()
	if err := s.TaskRepo.UpdateStatus(ctx, task.ID, next); err != nil {
		return nil, err
	}
	task.Status = next

	s.invalidate(ctx, userID)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.TaskRepo.Delete(ctx, task.ID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *TaskService) Stats(ctx context.Context, userID string) (*repository.UserTaskStats, error) {
	return s.TaskRepo.StatsForUser(ctx, userID)
}
