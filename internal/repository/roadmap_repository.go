package repository

import (
	"context"
	"learnflow_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoadmapRepository struct {
	DB *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: db}
}

// Create 只写路线图本身，里程碑等子记录由调用方逐条写入
func (r *RoadmapRepository) Create(ctx context.Context, roadmap *model.Roadmap) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(roadmap).Error
}

func (r *RoadmapRepository) CreateMilestone(ctx context.Context, milestone *model.Milestone) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(milestone).Error
}

func (r *RoadmapRepository) CreateTask(ctx context.Context, task *model.RoadmapTask) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

func (r *RoadmapRepository) CreatePrerequisite(ctx context.Context, prereq *model.MilestonePrerequisite) error {
	return r.DB.WithContext(ctx).Create(prereq).Error
}

func (r *RoadmapRepository) LinkTaskResource(ctx context.Context, taskID, resourceID string) error {
	return linkRow(ctx, r.DB, &model.RoadmapTaskResource{RoadmapTaskID: taskID, ResourceID: resourceID})
}

func (r *RoadmapRepository) LinkTag(ctx context.Context, roadmapID, tagID string) error {
	return linkRow(ctx, r.DB, &model.RoadmapTag{RoadmapID: roadmapID, TagID: tagID})
}

func (r *RoadmapRepository) LinkResource(ctx context.Context, roadmapID, resourceID string) error {
	return linkRow(ctx, r.DB, &model.RoadmapResource{RoadmapID: roadmapID, ResourceID: resourceID})
}

// FindByUserID 按创建时间倒序，limit<=0 表示不限制
func (r *RoadmapRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]model.Roadmap, error) {
	var roadmaps []model.Roadmap
	db := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Preload("Tags").
		Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&roadmaps).Error
	return roadmaps, err
}

// FindByIDForUser 加载完整的路线图，里程碑与任务按生成顺序排列
func (r *RoadmapRepository) FindByIDForUser(ctx context.Context, id, userID string) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Milestones.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Milestones.Tasks.Resources").
		Preload("Milestones.Prerequisites", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Tags").
		Preload("Resources").
		First(&roadmap).Error
	return &roadmap, err
}

func (r *RoadmapRepository) ExistsForUser(ctx context.Context, id, userID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Roadmap{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	return count > 0, err
}

// FindTaskInRoadmap 确认任务属于该路线图
func (r *RoadmapRepository) FindTaskInRoadmap(ctx context.Context, roadmapID, taskID string) (*model.RoadmapTask, error) {
	var task model.RoadmapTask
	err := r.DB.WithContext(ctx).
		Joins("JOIN milestones ON milestones.id = roadmap_tasks.milestone_id").
		Where("roadmap_tasks.id = ? AND milestones.roadmap_id = ?", taskID, roadmapID).
		First(&task).Error
	return &task, err
}

func (r *RoadmapRepository) SetTaskCompleted(ctx context.Context, taskID string, completed bool) error {
	return r.DB.WithContext(ctx).Model(&model.RoadmapTask{}).
		Where("id = ?", taskID).
		Update("completed", completed).Error
}

// CountTasks 返回路线图下的任务总数和已完成数
func (r *RoadmapRepository) CountTasks(ctx context.Context, roadmapID string) (total int64, completed int64, err error) {
	base := r.DB.WithContext(ctx).Model(&model.RoadmapTask{}).
		Joins("JOIN milestones ON milestones.id = roadmap_tasks.milestone_id").
		Where("milestones.roadmap_id = ?", roadmapID)

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return
	}
	err = base.Session(&gorm.Session{}).Where("roadmap_tasks.completed = ?", true).Count(&completed).Error
	return
}

func (r *RoadmapRepository) UpdateProgress(ctx context.Context, roadmapID string, progress float64, status model.RoadmapStatus) error {
	return r.DB.WithContext(ctx).Model(&model.Roadmap{}).
		Where("id = ?", roadmapID).
		Updates(map[string]interface{}{"progress": progress, "status": status}).Error
}

func (r *RoadmapRepository) UpdateStatus(ctx context.Context, roadmapID string, status model.RoadmapStatus) error {
	return r.DB.WithContext(ctx).Model(&model.Roadmap{}).
		Where("id = ?", roadmapID).
		Update("status", status).Error
}

// Delete 在事务中删除路线图及其全部子记录和关联行
func (r *RoadmapRepository) Delete(ctx context.Context, roadmapID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		milestoneIDs := tx.Model(&model.Milestone{}).Select("id").Where("roadmap_id = ?", roadmapID)
		taskIDs := tx.Model(&model.RoadmapTask{}).Select("id").Where("milestone_id IN (?)", milestoneIDs)

		if err := tx.Where("roadmap_task_id IN (?)", taskIDs).Delete(&model.RoadmapTaskResource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("milestone_id IN (?)", milestoneIDs).Delete(&model.RoadmapTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("milestone_id IN (?)", milestoneIDs).Delete(&model.MilestonePrerequisite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("roadmap_id = ?", roadmapID).Delete(&model.Milestone{}).Error; err != nil {
			return err
		}
		if err := tx.Where("roadmap_id = ?", roadmapID).Delete(&model.RoadmapTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("roadmap_id = ?", roadmapID).Delete(&model.RoadmapResource{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", roadmapID).Delete(&model.Roadmap{}).Error
	})
}

// RoadmapSummary 仪表盘使用的聚合数据
type RoadmapSummary struct {
	Total           int64
	Active          int64
	AverageProgress float64
}

func (r *RoadmapRepository) SummaryForUser(ctx context.Context, userID string) (*RoadmapSummary, error) {
	var row struct {
		Total    int64
		Active   int64
		Progress float64
	}
	err := r.DB.WithContext(ctx).Model(&model.Roadmap{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active, "+
			"COALESCE(AVG(progress), 0) AS progress", model.RoadmapActive).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &RoadmapSummary{Total: row.Total, Active: row.Active, AverageProgress: row.Progress}, nil
}

// RoadmapGraphStore 汇集持久化生成结果所需的写操作，标签与资源通过查找或创建去重
type RoadmapGraphStore struct {
	*RoadmapRepository
	Tags      *TagRepository
	Resources *ResourceRepository
}

func NewRoadmapGraphStore(roadmaps *RoadmapRepository, tags *TagRepository, resources *ResourceRepository) *RoadmapGraphStore {
	return &RoadmapGraphStore{RoadmapRepository: roadmaps, Tags: tags, Resources: resources}
}

func (s *RoadmapGraphStore) FindOrCreateTag(ctx context.Context, name string) (*model.Tag, error) {
	return s.Tags.FindOrCreate(ctx, name)
}

func (s *RoadmapGraphStore) FindOrCreateResource(ctx context.Context, title, url string, category model.ResourceCategory) (*model.Resource, error) {
	return s.Resources.FindOrCreate(ctx, title, url, category)
}
