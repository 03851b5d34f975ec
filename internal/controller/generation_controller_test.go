package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnflow_backend/internal/config"
	"learnflow_backend/internal/middleware"
	"learnflow_backend/internal/model"
	"learnflow_backend/internal/service"
	"learnflow_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

type stubGenerator struct {
	calls  int
	output interface{}
	err    error
}

func (g *stubGenerator) GenerateObject(ctx context.Context, req service.GenerationRequest, out interface{}) error {
	g.calls++
	if g.err != nil {
		return g.err
	}
	raw, err := json.Marshal(g.output)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// stubRoadmapStore 只需要主记录写入，子记录全部成功
type stubRoadmapStore struct{}

func (stubRoadmapStore) Create(ctx context.Context, roadmap *model.Roadmap) error {
	roadmap.ID = "roadmap-1"
	return nil
}

func (stubRoadmapStore) CreateMilestone(ctx context.Context, m *model.Milestone) error {
	return nil
}

func (stubRoadmapStore) CreateTask(ctx context.Context, t *model.RoadmapTask) error {
	return nil
}

func (stubRoadmapStore) CreatePrerequisite(ctx context.Context, p *model.MilestonePrerequisite) error {
	return nil
}

func (stubRoadmapStore) LinkTaskResource(ctx context.Context, taskID, resourceID string) error {
	return nil
}

func (stubRoadmapStore) LinkTag(ctx context.Context, roadmapID, tagID string) error {
	return nil
}

func (stubRoadmapStore) LinkResource(ctx context.Context, roadmapID, resourceID string) error {
	return nil
}

func (stubRoadmapStore) FindOrCreateTag(ctx context.Context, name string) (*model.Tag, error) {
	return &model.Tag{ID: name, Name: name}, nil
}

func (stubRoadmapStore) FindOrCreateResource(ctx context.Context, title, url string, category model.ResourceCategory) (*model.Resource, error) {
	return &model.Resource{ID: title, Title: title}, nil
}

func setupGenerationRouter(gen service.StructuredGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	ctrl := NewGenerationController(
		service.NewStudyService(gen, nil, nil),
		service.NewRoadmapService(gen, stubRoadmapStore{}, nil, nil),
	)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/generate-notes", ctrl.GenerateNotes)
	api.POST("/generate-quiz", ctrl.GenerateQuiz)
	api.POST("/generate-roadmap", middleware.TryAuthMiddleware(cfg), ctrl.GenerateRoadmap)
	return r
}

func postJSON(r *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testToken(t *testing.T) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.User{UUIDBase: model.UUIDBase{ID: "user-1"}, Email: "ada@example.com"}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestGenerateNotesRequiresDocumentText(t *testing.T) {
	gen := &stubGenerator{}
	r := setupGenerationRouter(gen)

	for _, body := range []string{`{}`, `{"documentText":"   "}`, `not json`} {
		w := postJSON(r, "/api/generate-notes", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Document text is required"}`, w.Body.String(), body)
	}
	assert.Zero(t, gen.calls)
}

func TestGenerateQuizRequiresDocumentText(t *testing.T) {
	gen := &stubGenerator{}
	r := setupGenerationRouter(gen)

	w := postJSON(r, "/api/generate-quiz", `{"documentText":"","questionCount":5}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Document text is required"}`, w.Body.String())
	assert.Zero(t, gen.calls)
}

func TestGenerateNotesSuccess(t *testing.T) {
	gen := &stubGenerator{output: model.Notes{
		Title:     "Cells",
		Summary:   "Basics of cells",
		KeyPoints: []string{"Cells divide"},
		Sections:  []model.NoteSection{{Heading: "Intro", Content: "Cells"}},
		Tags:      []string{"biology"},
	}}
	r := setupGenerationRouter(gen)

	w := postJSON(r, "/api/generate-notes", `{"documentText":"Cells are small.","fileName":"bio.txt"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Notes model.Notes `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Cells", body.Notes.Title)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateQuizFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider down")}
	r := setupGenerationRouter(gen)

	w := postJSON(r, "/api/generate-quiz", `{"documentText":"Go"}`, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate quiz"}`, w.Body.String())
}

func TestGenerateRoadmapRequiresAuth(t *testing.T) {
	gen := &stubGenerator{}
	r := setupGenerationRouter(gen)

	body := `{"goal":"Learn full-stack development","timeframe":"3-months","currentLevel":"intermediate"}`
	for _, token := range []string{"", "not-a-jwt"} {
		w := postJSON(r, "/api/generate-roadmap", body, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	}
	assert.Zero(t, gen.calls)
}

func TestGenerateRoadmapRequiresGoal(t *testing.T) {
	gen := &stubGenerator{}
	r := setupGenerationRouter(gen)

	w := postJSON(r, "/api/generate-roadmap", `{"goal":" "}`, testToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Goal is required"}`, w.Body.String())
	assert.Zero(t, gen.calls)
}

func TestGenerateRoadmapSuccess(t *testing.T) {
	gen := &stubGenerator{output: model.GeneratedRoadmap{
		Title:      "Go in 3 months",
		Difficulty: model.DifficultyBeginner,
		Milestones: []model.GeneratedMilestone{{ID: "m1", Title: "Syntax", Tasks: []model.GeneratedTask{
			{ID: "t1", Title: "Tour of Go", Type: model.RoadmapTaskReading},
		}}},
		Tags:      []string{"go"},
		Resources: []model.GeneratedResource{},
	}}
	r := setupGenerationRouter(gen)

	w := postJSON(r, "/api/generate-roadmap", `{"goal":"Learn Go"}`, testToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	var result service.RoadmapResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "roadmap-1", result.RoadmapID)
	assert.Equal(t, "Go in 3 months", result.Roadmap.Title)
	assert.Equal(t, 1, result.Persistence.MilestonesSaved)
	assert.Equal(t, 1, result.Persistence.TasksSaved)
	assert.Empty(t, result.Persistence.Skipped)
}

func TestGenerateRoadmapFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider down")}
	r := setupGenerationRouter(gen)

	w := postJSON(r, "/api/generate-roadmap", `{"goal":"Learn Go"}`, testToken(t))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate roadmap"}`, w.Body.String())
}
