package service

import (
	"context"
	"learnflow_backend/internal/model"
	"learnflow_backend/internal/repository"
	"learnflow_backend/pkg/logger"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	upcomingTaskLimit  = 3
	recentRoadmapLimit = 3
)

type Dashboard struct {
	TotalRoadmaps          int64                    `json:"totalRoadmaps"`
	ActiveRoadmaps         int64                    `json:"activeRoadmaps"`
	AverageRoadmapProgress float64                  `json:"averageRoadmapProgress"`
	TaskStats              repository.UserTaskStats `json:"taskStats"`
	QuizzesTaken           int64                    `json:"quizzesTaken"`
	AverageScore           int                      `json:"averageScore"`
	UpcomingTasks          []model.UserTask         `json:"upcomingTasks"`
	RecentRoadmaps         []model.Roadmap          `json:"recentRoadmaps"`
}

type DashboardService struct {
	RoadmapRepo *repository.RoadmapRepository
	TaskRepo    *repository.UserTaskRepository
	AttemptRepo *repository.QuizAttemptRepository
	Cache       *repository.DashboardCache
}

func NewDashboardService(
	roadmapRepo *repository.RoadmapRepository,
	taskRepo *repository.UserTaskRepository,
	attemptRepo *repository.QuizAttemptRepository,
	cache *repository.DashboardCache,
) *DashboardService {
	return &DashboardService{
		RoadmapRepo: roadmapRepo,
		TaskRepo:    taskRepo,
		AttemptRepo: attemptRepo,
		Cache:       cache,
	}
}

// GetUserDashboard 优先读缓存，未命中时并发查询各项统计
func (s *DashboardService) GetUserDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	var cached Dashboard
	hit, err := s.Cache.Get(ctx, userID, &cached)
	if err != nil {
		logger.Log.Warn("Dashboard cache read failed", zap.String("user_id", userID), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	dashboard := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.RoadmapRepo.SummaryForUser(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.TotalRoadmaps = summary.Total
		dashboard.ActiveRoadmaps = summary.Active
		dashboard.AverageRoadmapProgress = math.Round(summary.AverageProgress)
		return nil
	})

	g.Go(func() error {
		stats, err := s.TaskRepo.StatsForUser(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.TaskStats = *stats
		return nil
	})

	g.Go(func() error {
		count, average, err := s.AttemptRepo.StatsForUser(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.QuizzesTaken = count
		dashboard.AverageScore = int(math.Round(average))
		return nil
	})

	g.Go(func() error {
		tasks, err := s.TaskRepo.FindUpcoming(gctx, userID, upcomingTaskLimit)
		if err != nil {
			return err
		}
		dashboard.UpcomingTasks = tasks
		return nil
	})

	g.Go(func() error {
		roadmaps, err := s.RoadmapRepo.FindByUserID(gctx, userID, recentRoadmapLimit)
		if err != nil {
			return err
		}
		dashboard.RecentRoadmaps = roadmaps
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if dashboard.UpcomingTasks == nil {
		dashboard.UpcomingTasks = []model.UserTask{}
	}
	if dashboard.RecentRoadmaps == nil {
		dashboard.RecentRoadmaps = []model.Roadmap{}
	}

	if err := s.Cache.Set(ctx, userID, dashboard); err != nil {
		logger.Log.Warn("Dashboard cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return dashboard, nil
}
