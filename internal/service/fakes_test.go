package service

import (
	"context"
	"encoding/json"
	"errors"
	"learnflow_backend/internal/model"
	"sync"
)

// fakeGenerator 记录调用并把预设的 JSON 解码到 out
type fakeGenerator struct {
	mu       sync.Mutex
	requests []GenerationRequest
	output   interface{}
	err      error
}

func (g *fakeGenerator) GenerateObject(ctx context.Context, req GenerationRequest, out interface{}) error {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()

	if g.err != nil {
		return g.err
	}
	raw, err := json.Marshal(g.output)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

var errStoreDown = errors.New("store unavailable")

// fakeRoadmapStore 内存实现，failX 返回 true 时对应写入失败
type fakeRoadmapStore struct {
	createErr error

	failMilestone func(m *model.Milestone) bool
	failTask      func(t *model.RoadmapTask) bool
	failTag       func(name string) bool

	calls         []string
	roadmaps      []*model.Roadmap
	milestones    []*model.Milestone
	tasks         []*model.RoadmapTask
	prerequisites []*model.MilestonePrerequisite
	taskLinks     int
	tagLinks      int
	resourceLinks int
	resourcesByID map[string]*model.Resource
}

func newFakeRoadmapStore() *fakeRoadmapStore {
	return &fakeRoadmapStore{resourcesByID: map[string]*model.Resource{}}
}

func (s *fakeRoadmapStore) Create(ctx context.Context, roadmap *model.Roadmap) error {
	s.calls = append(s.calls, "roadmap")
	if s.createErr != nil {
		return s.createErr
	}
	roadmap.ID = model.GenerateUUID()
	s.roadmaps = append(s.roadmaps, roadmap)
	return nil
}

func (s *fakeRoadmapStore) CreateMilestone(ctx context.Context, milestone *model.Milestone) error {
	s.calls = append(s.calls, "milestone")
	if s.failMilestone != nil && s.failMilestone(milestone) {
		return errStoreDown
	}
	milestone.ID = model.GenerateUUID()
	s.milestones = append(s.milestones, milestone)
	return nil
}

func (s *fakeRoadmapStore) CreateTask(ctx context.Context, task *model.RoadmapTask) error {
	s.calls = append(s.calls, "task")
	if s.failTask != nil && s.failTask(task) {
		return errStoreDown
	}
	task.ID = model.GenerateUUID()
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *fakeRoadmapStore) CreatePrerequisite(ctx context.Context, prereq *model.MilestonePrerequisite) error {
	s.calls = append(s.calls, "prerequisite")
	s.prerequisites = append(s.prerequisites, prereq)
	return nil
}

func (s *fakeRoadmapStore) LinkTaskResource(ctx context.Context, taskID, resourceID string) error {
	s.calls = append(s.calls, "task_resource")
	s.taskLinks++
	return nil
}

func (s *fakeRoadmapStore) LinkTag(ctx context.Context, roadmapID, tagID string) error {
	s.calls = append(s.calls, "link_tag")
	s.tagLinks++
	return nil
}

func (s *fakeRoadmapStore) LinkResource(ctx context.Context, roadmapID, resourceID string) error {
	s.calls = append(s.calls, "link_resource")
	s.resourceLinks++
	return nil
}

func (s *fakeRoadmapStore) FindOrCreateTag(ctx context.Context, name string) (*model.Tag, error) {
	s.calls = append(s.calls, "tag")
	if s.failTag != nil && s.failTag(name) {
		return nil, errStoreDown
	}
	return &model.Tag{ID: "tag-" + name, Name: name}, nil
}

func (s *fakeRoadmapStore) FindOrCreateResource(ctx context.Context, title, url string, category model.ResourceCategory) (*model.Resource, error) {
	s.calls = append(s.calls, "resource")
	key := url
	if key == "" {
		key = "title:" + title
	}
	if res, ok := s.resourcesByID[key]; ok {
		return res, nil
	}
	res := &model.Resource{ID: model.GenerateUUID(), Title: title, Category: category}
	if url != "" {
		res.URL = &url
	}
	s.resourcesByID[key] = res
	return res, nil
}

func sampleRoadmap() *model.GeneratedRoadmap {
	milestone := func(id, title string) model.GeneratedMilestone {
		return model.GeneratedMilestone{
			ID:             id,
			Title:          title,
			EstimatedWeeks: 2,
			Prerequisites:  []string{"Basic computer skills"},
			Tasks: []model.GeneratedTask{
				{ID: id + "-t1", Title: title + " reading", Type: model.RoadmapTaskReading, EstimatedHours: 4,
					Resources: []string{"https://developer.mozilla.org"}},
				{ID: id + "-t2", Title: title + " project", Type: model.RoadmapTaskProject, EstimatedHours: 8},
			},
		}
	}

	return &model.GeneratedRoadmap{
		Title:             "Full-stack Web Development",
		Description:       "From HTML to deployment",
		EstimatedDuration: "3 months",
		Difficulty:        model.DifficultyIntermediate,
		Milestones: []model.GeneratedMilestone{
			milestone("m1", "Frontend"),
			milestone("m2", "Backend"),
			milestone("m3", "Deployment"),
		},
		Tags: []string{"web", "javascript"},
		Resources: []model.GeneratedResource{
			{Title: "MDN", URL: "https://developer.mozilla.org", Type: model.ResourceDocumentation},
			{Title: "Eloquent JavaScript", Type: model.ResourceBook},
		},
	}
}
