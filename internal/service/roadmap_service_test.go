package service

import (
	"context"
	"testing"

	"learnflow_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoadmapPersistsFullGraph(t *testing.T) {
	gen := &fakeGenerator{output: sampleRoadmap()}
	store := newFakeRoadmapStore()
	svc := NewRoadmapService(gen, store, nil, nil)

	result, err := svc.Generate(context.Background(), "user-1", RoadmapInput{
		Goal:         "Learn full-stack development",
		Timeframe:    "3-months",
		CurrentLevel: "intermediate",
		Preferences:  "Hands-on projects",
	})
	require.NoError(t, err)

	require.Len(t, store.roadmaps, 1)
	assert.Equal(t, store.roadmaps[0].ID, result.RoadmapID)
	assert.Equal(t, "user-1", store.roadmaps[0].UserID)
	assert.Equal(t, model.RoadmapActive, store.roadmaps[0].Status)
	assert.Equal(t, "Full-stack Web Development", result.Roadmap.Title)

	report := result.Persistence
	assert.True(t, report.Complete())
	assert.Equal(t, 3, report.MilestonesSaved)
	assert.Equal(t, 6, report.TasksSaved)
	assert.Equal(t, 3, report.PrerequisitesSaved)
	assert.Equal(t, 3, report.TaskResourcesSaved)
	assert.Equal(t, 2, report.TagsLinked)
	assert.Equal(t, 2, report.ResourcesLinked)
	assert.NotNil(t, report.Skipped)

	// 位置字段保持生成顺序
	for i, m := range store.milestones {
		assert.Equal(t, i, m.Position)
	}
	assert.Equal(t, 0, store.tasks[0].Position)
	assert.Equal(t, 1, store.tasks[1].Position)

	// 同一 URL 的资源只创建一次
	assert.Len(t, store.resourcesByID, 2)
}

func TestGenerateRoadmapRequestParameters(t *testing.T) {
	gen := &fakeGenerator{output: sampleRoadmap()}
	svc := NewRoadmapService(gen, newFakeRoadmapStore(), nil, nil)

	_, err := svc.Generate(context.Background(), "user-1", RoadmapInput{
		Goal:         "Learn full-stack development",
		Timeframe:    "3-months",
		CurrentLevel: "intermediate",
		Preferences:  "Video courses",
	})
	require.NoError(t, err)

	require.Equal(t, 1, gen.calls())
	req := gen.requests[0]
	assert.Equal(t, "roadmap", req.Schema.Name)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 3000, req.MaxTokens)
	assert.Contains(t, req.Prompt, "Learn full-stack development")
	assert.Contains(t, req.Prompt, "3-months")
	assert.Contains(t, req.Prompt, "intermediate")
	assert.Contains(t, req.Prompt, "Video courses")
}

func TestGenerateRoadmapStopsWhenRoadmapInsertFails(t *testing.T) {
	gen := &fakeGenerator{output: sampleRoadmap()}
	store := newFakeRoadmapStore()
	store.createErr = errStoreDown
	svc := NewRoadmapService(gen, store, nil, nil)

	result, err := svc.Generate(context.Background(), "user-1", RoadmapInput{Goal: "Go"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, result)

	// 主记录失败后不再尝试任何子记录写入
	assert.Equal(t, []string{"roadmap"}, store.calls)
}

func TestGenerateRoadmapSkipsFailedMilestone(t *testing.T) {
	gen := &fakeGenerator{output: sampleRoadmap()}
	store := newFakeRoadmapStore()
	store.failMilestone = func(m *model.Milestone) bool { return m.Title == "Backend" }
	svc := NewRoadmapService(gen, store, nil, nil)

	result, err := svc.Generate(context.Background(), "user-1", RoadmapInput{Goal: "Go"})
	require.NoError(t, err)

	report := result.Persistence
	assert.False(t, report.Complete())
	assert.Equal(t, 2, report.MilestonesSaved)
	assert.Equal(t, 4, report.TasksSaved)
	assert.Equal(t, 2, report.PrerequisitesSaved)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, StepMilestone, report.Skipped[0].Step)
	assert.Equal(t, "m2", report.Skipped[0].Key)

	titles := make([]string, 0, len(store.milestones))
	for _, m := range store.milestones {
		titles = append(titles, m.Title)
	}
	assert.Equal(t, []string{"Frontend", "Deployment"}, titles)
	// 失败里程碑之后的里程碑保持原始位置
	assert.Equal(t, 2, store.milestones[1].Position)

	// 返回的仍是完整的生成结果
	assert.Len(t, result.Roadmap.Milestones, 3)
}

func TestGenerateRoadmapSkipsFailedTaskAndTag(t *testing.T) {
	gen := &fakeGenerator{output: sampleRoadmap()}
	store := newFakeRoadmapStore()
	store.failTask = func(task *model.RoadmapTask) bool { return task.Title == "Frontend reading" }
	store.failTag = func(name string) bool { return name == "web" }
	svc := NewRoadmapService(gen, store, nil, nil)

	result, err := svc.Generate(context.Background(), "user-1", RoadmapInput{Goal: "Go"})
	require.NoError(t, err)

	report := result.Persistence
	assert.Equal(t, 3, report.MilestonesSaved)
	assert.Equal(t, 5, report.TasksSaved)
	// 失败任务的资源关联也被跳过
	assert.Equal(t, 2, report.TaskResourcesSaved)
	assert.Equal(t, 1, report.TagsLinked)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, StepTask, report.Skipped[0].Step)
	assert.Equal(t, StepTag, report.Skipped[1].Step)
	assert.Equal(t, "web", report.Skipped[1].Key)
}

func TestGenerateRoadmapGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: generationError("boom")}
	store := newFakeRoadmapStore()
	svc := NewRoadmapService(gen, store, nil, nil)

	_, err := svc.Generate(context.Background(), "user-1", RoadmapInput{Goal: "Go"})
	require.Error(t, err)
	assert.Empty(t, store.calls)
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		total, completed int64
		progress         float64
		status           model.RoadmapStatus
	}{
		{0, 0, 0, model.RoadmapActive},
		{3, 1, 33.33, model.RoadmapActive},
		{4, 2, 50, model.RoadmapActive},
		{4, 4, 100, model.RoadmapCompleted},
	}

	for _, tt := range tests {
		progress, status := computeProgress(tt.total, tt.completed)
		assert.Equal(t, tt.progress, progress)
		assert.Equal(t, tt.status, status)
	}
}

func TestSplitResourceRef(t *testing.T) {
	title, url := splitResourceRef(" https://go.dev/tour ")
	assert.Equal(t, "https://go.dev/tour", title)
	assert.Equal(t, "https://go.dev/tour", url)

	title, url = splitResourceRef("The Go Programming Language")
	assert.Equal(t, "The Go Programming Language", title)
	assert.Empty(t, url)
}
