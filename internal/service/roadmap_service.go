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
	"learnflow_backend/pkg/monitoring"
	"learnflow_backend/pkg/tracing"
	"math"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoadmapStore 是生成结果落库时用到的写操作
type RoadmapStore interface {
	Create(ctx context.Context, roadmap *model.Roadmap) error
	CreateMilestone(ctx context.Context, milestone *model.Milestone) error
	CreateTask(ctx context.Context, task *model.RoadmapTask) error
	CreatePrerequisite(ctx context.Context, prereq *model.MilestonePrerequisite) error
	LinkTaskResource(ctx context.Context, taskID, resourceID string) error
	LinkTag(ctx context.Context, roadmapID, tagID string) error
	LinkResource(ctx context.Context, roadmapID, resourceID string) error
	FindOrCreateTag(ctx context.Context, name string) (*model.Tag, error)
	FindOrCreateResource(ctx context.Context, title, url string, category model.ResourceCategory) (*model.Resource, error)
}

// 持久化步骤名，同时作为 roadmap_persistence_skips_total 的 step 标签
const (
	StepMilestone    = "milestone"
	StepTask         = "task"
	StepTaskResource = "task_resource"
	StepPrerequisite = "prerequisite"
	StepTag          = "tag"
	StepResource     = "resource"
)

type PersistenceIssue struct {
	Step  string `json:"step"`
	Key   string `json:"key"`
	Error string `json:"error"`
}

// PersistenceReport 记录一次生成请求中保存了多少子记录、跳过了哪些步骤
type PersistenceReport struct {
	MilestonesSaved    int                `json:"milestonesSaved"`
	TasksSaved         int                `json:"tasksSaved"`
	PrerequisitesSaved int                `json:"prerequisitesSaved"`
	TaskResourcesSaved int                `json:"taskResourcesLinked"`
	TagsLinked         int                `json:"tagsLinked"`
	ResourcesLinked    int                `json:"resourcesLinked"`
	Skipped            []PersistenceIssue `json:"skipped"`
}

func (r *PersistenceReport) Complete() bool {
	return len(r.Skipped) == 0
}

func (r *PersistenceReport) skip(roadmapID, step, key string, err error) {
	r.Skipped = append(r.Skipped, PersistenceIssue{Step: step, Key: key, Error: err.Error()})
	monitoring.PersistenceSkips.WithLabelValues(step).Inc()
	logger.Log.Warn("Roadmap persistence step skipped",
		zap.String("roadmap_id", roadmapID),
		zap.String("step", step),
		zap.String("key", key),
		zap.Error(err))
}

type RoadmapInput struct {
	Goal         string
	Timeframe    string
	CurrentLevel string
	Preferences  string
}

type RoadmapResult struct {
	Roadmap     *model.GeneratedRoadmap `json:"roadmap"`
	RoadmapID   string                  `json:"roadmapId"`
	Persistence *PersistenceReport      `json:"persistence"`
}

// ProgressUpdate 勾选任务后的路线图进度
type ProgressUpdate struct {
	RoadmapID string              `json:"roadmapId"`
	TaskID    string              `json:"taskId"`
	Completed bool                `json:"completed"`
	Progress  float64             `json:"progress"`
	Status    model.RoadmapStatus `json:"status"`
}

type RoadmapService struct {
	Generator StructuredGenerator
	Store     RoadmapStore
	Repo      *repository.RoadmapRepository
	Cache     *repository.DashboardCache
}

func NewRoadmapService(generator StructuredGenerator, store RoadmapStore, repo *repository.RoadmapRepository, cache *repository.DashboardCache) *RoadmapService {
	return &RoadmapService{
		Generator: generator,
		Store:     store,
		Repo:      repo,
		Cache:     cache,
	}
}

// Generate 生成路线图并落库。路线图主记录写入失败时返回错误；
// 子记录失败只记录到报告中，返回的 Roadmap 始终是生成的原始对象。
func (s *RoadmapService) Generate(ctx context.Context, userID string, in RoadmapInput) (*RoadmapResult, error) {
	var generated model.GeneratedRoadmap
	err := s.Generator.GenerateObject(ctx, GenerationRequest{
		Schema:      RoadmapSchema,
		Prompt:      BuildRoadmapPrompt(in.Goal, in.Timeframe, in.CurrentLevel, in.Preferences),
		MaxTokens:   roadmapMaxTokens,
		Temperature: roadmapTemperature,
	}, &generated)
	if err != nil {
		return nil, err
	}

	roadmapID, report, err := s.Persist(ctx, userID, &generated)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	return &RoadmapResult{Roadmap: &generated, RoadmapID: roadmapID, Persistence: report}, nil
}

// Persist 依次写入路线图、里程碑、任务、资源、前置条件和标签
func (s *RoadmapService) Persist(ctx context.Context, userID string, generated *model.GeneratedRoadmap) (string, *PersistenceReport, error) {
	ctx, span := tracing.Tracer.Start(ctx, "roadmap.persist")
	defer span.End()

	payload, err := json.Marshal(generated)
	if err != nil {
		return "", nil, fmt.Errorf("encode generated roadmap: %w", err)
	}

	roadmap := &model.Roadmap{
		UserID:            userID,
		Title:             generated.Title,
		Description:       generated.Description,
		EstimatedDuration: generated.EstimatedDuration,
		Difficulty:        generated.Difficulty,
		Status:            model.RoadmapActive,
		GeneratedPayload:  datatypes.JSON(payload),
	}
	if err := s.Store.Create(ctx, roadmap); err != nil {
		return "", nil, fmt.Errorf("persist roadmap: %w", err)
	}
	span.SetAttributes(attribute.String("roadmap.id", roadmap.ID))

	report := &PersistenceReport{Skipped: []PersistenceIssue{}}

	for i, gm := range generated.Milestones {
		milestone := &model.Milestone{
			RoadmapID:      roadmap.ID,
			Title:          gm.Title,
			Description:    gm.Description,
			EstimatedWeeks: gm.EstimatedWeeks,
			Position:       i,
		}
		if err := s.Store.CreateMilestone(ctx, milestone); err != nil {
			// 里程碑失败时其任务与前置条件一并跳过
			report.skip(roadmap.ID, StepMilestone, keyOf(gm.ID, gm.Title), err)
			continue
		}
		report.MilestonesSaved++

		for j, gt := range gm.Tasks {
			s.persistTask(ctx, report, roadmap.ID, milestone.ID, j, gt)
		}

		for _, desc := range gm.Prerequisites {
			prereq := &model.MilestonePrerequisite{MilestoneID: milestone.ID, Description: desc}
			if err := s.Store.CreatePrerequisite(ctx, prereq); err != nil {
				report.skip(roadmap.ID, StepPrerequisite, desc, err)
				continue
			}
			report.PrerequisitesSaved++
		}
	}

	for _, name := range normalizeTags(generated.Tags) {
		tag, err := s.Store.FindOrCreateTag(ctx, name)
		if err == nil {
			err = s.Store.LinkTag(ctx, roadmap.ID, tag.ID)
		}
		if err != nil {
			report.skip(roadmap.ID, StepTag, name, err)
			continue
		}
		report.TagsLinked++
	}

	for _, gr := range generated.Resources {
		if strings.TrimSpace(gr.URL) == "" && strings.TrimSpace(gr.Title) == "" {
			continue
		}
		res, err := s.Store.FindOrCreateResource(ctx, gr.Title, gr.URL, gr.Type)
		if err == nil {
			err = s.Store.LinkResource(ctx, roadmap.ID, res.ID)
		}
		if err != nil {
			report.skip(roadmap.ID, StepResource, keyOf(gr.URL, gr.Title), err)
			continue
		}
		report.ResourcesLinked++
	}

	span.SetAttributes(attribute.Int("roadmap.skipped", len(report.Skipped)))
	if !report.Complete() {
		logger.Log.Warn("Roadmap persisted partially",
			zap.String("roadmap_id", roadmap.ID),
			zap.Int("skipped", len(report.Skipped)))
	}
	return roadmap.ID, report, nil
}

func (s *RoadmapService) persistTask(ctx context.Context, report *PersistenceReport, roadmapID, milestoneID string, position int, gt model.GeneratedTask) {
	task := &model.RoadmapTask{
		MilestoneID:    milestoneID,
		Title:          gt.Title,
		Description:    gt.Description,
		Type:           gt.Type,
		EstimatedHours: gt.EstimatedHours,
		Position:       position,
	}
	if err := s.Store.CreateTask(ctx, task); err != nil {
		report.skip(roadmapID, StepTask, keyOf(gt.ID, gt.Title), err)
		return
	}
	report.TasksSaved++

	for _, ref := range gt.Resources {
		title, url := splitResourceRef(ref)
		if title == "" {
			continue
		}
		res, err := s.Store.FindOrCreateResource(ctx, title, url, model.ResourceOther)
		if err == nil {
			err = s.Store.LinkTaskResource(ctx, task.ID, res.ID)
		}
		if err != nil {
			report.skip(roadmapID, StepTaskResource, ref, err)
			continue
		}
		report.TaskResourcesSaved++
	}
}

// splitResourceRef http(s) 开头的字符串视为 URL，其余视为资源标题
func splitResourceRef(ref string) (title, url string) {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref, ref
	}
	return ref, ""
}

func keyOf(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

func (s *RoadmapService) invalidate(ctx context.Context, userID string) {
	if err := s.Cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Warn("Failed to invalidate dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *RoadmapService) List(ctx context.Context, userID string) ([]model.Roadmap, error) {
	return s.Repo.FindByUserID(ctx, userID, 0)
}

func (s *RoadmapService) Get(ctx context.Context, userID, roadmapID string) (*model.Roadmap, error) {
	roadmap, err := s.Repo.FindByIDForUser(ctx, roadmapID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoadmapNotFound
		}
		return nil, err
	}
	return roadmap, nil
}

func (s *RoadmapService) ensureOwned(ctx context.Context, userID, roadmapID string) error {
	ok, err := s.Repo.ExistsForUser(ctx, roadmapID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrRoadmapNotFound
	}
	return nil
}

// SetTaskCompleted 勾选或取消任务并重新计算进度，全部完成时状态为 completed
func (s *RoadmapService) SetTaskCompleted(ctx context.Context, userID, roadmapID, taskID string, completed bool) (*ProgressUpdate, error) {
	if err := s.ensureOwned(ctx, userID, roadmapID); err != nil {
		return nil, err
	}

	if _, err := s.Repo.FindTaskInRoadmap(ctx, roadmapID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}

	if err := s.Repo.SetTaskCompleted(ctx, taskID, completed); err != nil {
		return nil, err
	}

	total, done, err := s.Repo.CountTasks(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	progress, status := computeProgress(total, done)
	if err := s.Repo.UpdateProgress(ctx, roadmapID, progress, status); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	return &ProgressUpdate{
		RoadmapID: roadmapID,
		TaskID:    taskID,
		Completed: completed,
		Progress:  progress,
		Status:    status,
	}, nil
}

func computeProgress(total, completed int64) (float64, model.RoadmapStatus) {
	if total == 0 {
		return 0, model.RoadmapActive
	}
	progress := math.Round(float64(completed)/float64(total)*10000) / 100
	if completed >= total {
		return 100, model.RoadmapCompleted
	}
	return progress, model.RoadmapActive
}

func (s *RoadmapService) Archive(ctx context.Context, userID, roadmapID string) error {
	if err := s.ensureOwned(ctx, userID, roadmapID); err != nil {
		return err
	}
	if err := s.Repo.UpdateStatus(ctx, roadmapID, model.RoadmapArchived); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *RoadmapService) Delete(ctx context.Context, userID, roadmapID string) error {
	if err := s.ensureOwned(ctx, userID, roadmapID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, roadmapID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}
