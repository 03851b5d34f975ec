package repository

import (
	"context"
	"testing"
	"time"

	"learnflow_backend/internal/model"
	"learnflow_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// 内存库每个连接独立，限制为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func TestTagFindOrCreateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "javascript")
	require.NoError(t, err)
	second, err := repo.FindOrCreate(ctx, " javascript ")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, int64(1), countRows(t, db, &model.Tag{}))
}

func TestTagFindOrCreateAllSkipsBlankAndDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	tags, err := repo.FindOrCreateAll(ctx, []string{"go", "", "react", "go", "  "})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, "react", tags[1].Name)

	assert.Equal(t, int64(2), countRows(t, db, &model.Tag{}))
}

func TestFindOrCreateRejectsEmptyKeys(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := NewTagRepository(db).FindOrCreate(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewResourceRepository(db).FindOrCreate(ctx, " ", "", model.ResourceOther)
	assert.ErrorIs(t, err, ErrEmptyKey)

	assert.Zero(t, countRows(t, db, &model.Tag{}))
	assert.Zero(t, countRows(t, db, &model.Resource{}))
}

func countRows(t *testing.T, db *gorm.DB, table interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(table).Count(&count).Error)
	return count
}

func TestResourceFindOrCreateByURL(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()
	url := "https://developer.mozilla.org/en-US/docs/Web/JavaScript"

	first, err := repo.FindOrCreate(ctx, "MDN JavaScript", url, model.ResourceDocumentation)
	require.NoError(t, err)
	// 同一 URL 不同标题仍视为同一资源
	second, err := repo.FindOrCreate(ctx, "MDN", url, model.ResourceTutorial)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "MDN JavaScript", second.Title)

	count, err := repo.CountByURL(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestResourceFindOrCreateWithoutURL(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "Eloquent JavaScript", "", model.ResourceBook)
	require.NoError(t, err)
	assert.Nil(t, first.URL)

	second, err := repo.FindOrCreate(ctx, "Eloquent JavaScript", "", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := repo.FindOrCreate(ctx, "You Don't Know JS", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, model.ResourceOther, other.Category)

	var count int64
	require.NoError(t, db.Model(&model.Resource{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func createRoadmapGraph(t *testing.T, store *RoadmapGraphStore, userID string) *model.Roadmap {
	t.Helper()
	ctx := context.Background()

	roadmap := &model.Roadmap{UserID: userID, Title: "Full-stack", Difficulty: model.DifficultyIntermediate, Status: model.RoadmapActive}
	require.NoError(t, store.Create(ctx, roadmap))

	milestone := &model.Milestone{RoadmapID: roadmap.ID, Title: "Basics", Position: 0}
	require.NoError(t, store.CreateMilestone(ctx, milestone))
	require.NoError(t, store.CreatePrerequisite(ctx, &model.MilestonePrerequisite{MilestoneID: milestone.ID, Description: "HTML"}))

	for i, title := range []string{"Read", "Build"} {
		task := &model.RoadmapTask{MilestoneID: milestone.ID, Title: title, Type: model.RoadmapTaskReading, Position: i}
		require.NoError(t, store.CreateTask(ctx, task))

		res, err := store.FindOrCreateResource(ctx, "MDN", "https://developer.mozilla.org", model.ResourceDocumentation)
		require.NoError(t, err)
		require.NoError(t, store.LinkTaskResource(ctx, task.ID, res.ID))
	}

	tag, err := store.FindOrCreateTag(ctx, "web")
	require.NoError(t, err)
	require.NoError(t, store.LinkTag(ctx, roadmap.ID, tag.ID))
	// 重复关联被忽略
	require.NoError(t, store.LinkTag(ctx, roadmap.ID, tag.ID))

	return roadmap
}

func newGraphStore(db *gorm.DB) *RoadmapGraphStore {
	return NewRoadmapGraphStore(NewRoadmapRepository(db), NewTagRepository(db), NewResourceRepository(db))
}

func TestRoadmapFindByIDForUserLoadsGraph(t *testing.T) {
	db := newTestDB(t)
	store := newGraphStore(db)
	ctx := context.Background()

	roadmap := createRoadmapGraph(t, store, "user-1")

	loaded, err := store.FindByIDForUser(ctx, roadmap.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, loaded.Milestones, 1)
	require.Len(t, loaded.Milestones[0].Tasks, 2)
	assert.Equal(t, "Read", loaded.Milestones[0].Tasks[0].Title)
	assert.Equal(t, "Build", loaded.Milestones[0].Tasks[1].Title)
	assert.Len(t, loaded.Milestones[0].Prerequisites, 1)
	assert.Len(t, loaded.Tags, 1)

	_, err = store.FindByIDForUser(ctx, roadmap.ID, "someone-else")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoadmapTaskProgressCounts(t *testing.T) {
	db := newTestDB(t)
	store := newGraphStore(db)
	ctx := context.Background()

	roadmap := createRoadmapGraph(t, store, "user-1")
	loaded, err := store.FindByIDForUser(ctx, roadmap.ID, "user-1")
	require.NoError(t, err)

	taskID := loaded.Milestones[0].Tasks[0].ID
	_, err = store.FindTaskInRoadmap(ctx, roadmap.ID, taskID)
	require.NoError(t, err)
	_, err = store.FindTaskInRoadmap(ctx, "missing", taskID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, store.SetTaskCompleted(ctx, taskID, true))

	total, completed, err := store.CountTasks(ctx, roadmap.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), completed)
}

func TestRoadmapDeleteRemovesChildren(t *testing.T) {
	db := newTestDB(t)
	store := newGraphStore(db)
	ctx := context.Background()

	roadmap := createRoadmapGraph(t, store, "user-1")
	require.NoError(t, store.Delete(ctx, roadmap.ID))

	for _, m := range []interface{}{
		&model.Roadmap{}, &model.Milestone{}, &model.RoadmapTask{},
		&model.MilestonePrerequisite{}, &model.RoadmapTag{}, &model.RoadmapTaskResource{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T rows left", m)
	}

	// 共享的标签和资源保留
	var resources int64
	require.NoError(t, db.Model(&model.Resource{}).Count(&resources).Error)
	assert.Equal(t, int64(1), resources)
}

func TestRoadmapSummaryForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoadmapRepository(db)
	ctx := context.Background()

	empty, err := repo.SummaryForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Total)
	assert.Equal(t, 0.0, empty.AverageProgress)

	require.NoError(t, repo.Create(ctx, &model.Roadmap{UserID: "user-1", Title: "A", Status: model.RoadmapActive, Progress: 50}))
	require.NoError(t, repo.Create(ctx, &model.Roadmap{UserID: "user-1", Title: "B", Status: model.RoadmapCompleted, Progress: 100}))
	require.NoError(t, repo.Create(ctx, &model.Roadmap{UserID: "user-2", Title: "C", Status: model.RoadmapActive}))

	summary, err := repo.SummaryForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Total)
	assert.Equal(t, int64(1), summary.Active)
	assert.InDelta(t, 75.0, summary.AverageProgress, 0.001)

	list, err := repo.FindByUserID(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUserTaskFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserTaskRepository(db)
	tags := NewTagRepository(db)
	ctx := context.Background()

	goTag, err := tags.FindOrCreate(ctx, "go")
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	tasks := []*model.UserTask{
		{UserID: "user-1", Title: "Read Go Book", Priority: model.PriorityHigh, Category: model.CategoryDaily, Status: model.TaskTodo, Tags: []model.Tag{*goTag}},
		{UserID: "user-1", Title: "Write notes", Description: "about GOROUTINES", Priority: model.PriorityLow, Category: model.CategoryWeekly, Status: model.TaskInProgress},
		{UserID: "user-1", Title: "Exercise", Priority: model.PriorityMedium, Category: model.CategoryDaily, Status: model.TaskCompleted},
		{UserID: "user-2", Title: "Go elsewhere", Priority: model.PriorityHigh, Category: model.CategoryDaily, Status: model.TaskTodo},
	}
	for i, task := range tasks {
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, task))
	}

	all, err := repo.FindByUser(ctx, "user-1", UserTaskFilter{Priority: "all", Status: "all", Category: "all"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Exercise", all[0].Title)

	found, err := repo.FindByUser(ctx, "user-1", UserTaskFilter{Search: "go"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	high, err := repo.FindByUser(ctx, "user-1", UserTaskFilter{Priority: "high"})
	require.NoError(t, err)
	require.Len(t, high, 1)
	require.Len(t, high[0].Tags, 1)
	assert.Equal(t, "go", high[0].Tags[0].Name)

	weekly, err := repo.FindByUser(ctx, "user-1", UserTaskFilter{Category: "weekly", Status: "in-progress"})
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, "Write notes", weekly[0].Title)

	stats, err := repo.StatsForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, UserTaskStats{Total: 3, Completed: 1, InProgress: 1, Todo: 1}, *stats)
}

func TestUserTaskUpcomingAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserTaskRepository(db)
	ctx := context.Background()

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)
	require.NoError(t, repo.Create(ctx, &model.UserTask{UserID: "user-1", Title: "later", Status: model.TaskTodo, DueDate: &later}))
	require.NoError(t, repo.Create(ctx, &model.UserTask{UserID: "user-1", Title: "soon", Status: model.TaskInProgress, DueDate: &soon}))
	require.NoError(t, repo.Create(ctx, &model.UserTask{UserID: "user-1", Title: "done", Status: model.TaskCompleted, DueDate: &soon}))
	require.NoError(t, repo.Create(ctx, &model.UserTask{UserID: "user-1", Title: "no date", Status: model.TaskTodo}))

	upcoming, err := repo.FindUpcoming(ctx, "user-1", 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "soon", upcoming[0].Title)
	assert.Equal(t, "later", upcoming[1].Title)

	require.NoError(t, repo.Delete(ctx, upcoming[0].ID))
	_, err = repo.FindByIDForUser(ctx, upcoming[0].ID, "user-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserCreateWithProfileSharesID(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := &model.User{Email: "ada@example.com", Password: "hash"}
	require.NoError(t, users.CreateWithProfile(ctx, user, &model.Profile{FullName: "Ada"}))

	profile, err := profiles.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FullName)

	dup := &model.User{Email: "ada@example.com", Password: "hash"}
	err = users.CreateWithProfile(ctx, dup, &model.Profile{})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestQuizAttemptStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizAttemptRepository(db)
	ctx := context.Background()

	count, avg, err := repo.StatsForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, avg)

	require.NoError(t, repo.Create(ctx, &model.QuizAttempt{UserID: "user-1", Score: 8, TotalPoints: 10, Percentage: 80}))
	require.NoError(t, repo.Create(ctx, &model.QuizAttempt{UserID: "user-1", Score: 6, TotalPoints: 10, Percentage: 60}))

	count, avg, err = repo.StatsForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 70.0, avg, 0.001)
}

func TestDashboardCacheWithoutRedisIsNoop(t *testing.T) {
	cache := NewDashboardCache(nil, 0)
	ctx := context.Background()

	assert.Equal(t, 60*time.Second, cache.TTL)
	require.NoError(t, cache.Set(ctx, "user-1", map[string]int{"a": 1}))

	var out map[string]int
	hit, err := cache.Get(ctx, "user-1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cache.Invalidate(ctx, "user-1"))
}
