package app

import (
	"context"
	"learnflow_backend/internal/config"
	"learnflow_backend/internal/controller"
	"learnflow_backend/internal/repository"
	"learnflow_backend/internal/service"
	"learnflow_backend/internal/util"
	"learnflow_backend/pkg/database"
	"learnflow_backend/pkg/logger"
	"learnflow_backend/pkg/monitoring"
	"learnflow_backend/pkg/security"
	"learnflow_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	profile     *repository.ProfileRepository
	tag         *repository.TagRepository
	resource    *repository.ResourceRepository
	roadmap     *repository.RoadmapRepository
	userTask    *repository.UserTaskRepository
	quizAttempt *repository.QuizAttemptRepository
	dashboard   *repository.DashboardCache
}

type services struct {
	ai        *service.AIService
	auth      *service.AuthService
	storage   *service.StorageService
	study     *service.StudyService
	roadmap   *service.RoadmapService
	task      *service.TaskService
	profile   *service.ProfileService
	document  *service.DocumentService
	dashboard *service.DashboardService
}

type controllers struct {
	auth        *controller.AuthController
	generation  *controller.GenerationController
	roadmap     *controller.RoadmapController
	task        *controller.TaskController
	quizAttempt *controller.QuizAttemptController
	profile     *controller.ProfileController
	document    *controller.DocumentController
	dashboard   *controller.DashboardController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 由配置监听器调用，只有 AI 相关配置支持热更新
func (a *App) ReloadConfig(newCfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.Config.AI = newCfg.AI
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(newCfg)
	}
	logger.Log.Info("Config reloaded", zap.String("ai_model", newCfg.AI.Model))
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		profile:     repository.NewProfileRepository(db),
		tag:         repository.NewTagRepository(db),
		resource:    repository.NewResourceRepository(db),
		roadmap:     repository.NewRoadmapRepository(db),
		userTask:    repository.NewUserTaskRepository(db),
		quizAttempt: repository.NewQuizAttemptRepository(db),
		dashboard:   repository.NewDashboardCache(rdb, time.Duration(cfg.Redis.StatsTTL)*time.Second),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.ai.UpdateConfig(newCfg.AI)
	})

	s.auth = service.NewAuthService(repos.user, cfg)
	s.storage = service.NewStorageService(context.Background(), cfg)
	s.study = service.NewStudyService(s.ai, repos.quizAttempt, repos.dashboard)
	s.roadmap = service.NewRoadmapService(
		s.ai,
		repository.NewRoadmapGraphStore(repos.roadmap, repos.tag, repos.resource),
		repos.roadmap,
		repos.dashboard,
	)
	s.task = service.NewTaskService(repos.userTask, repos.tag, repos.dashboard)
	s.profile = service.NewProfileService(repos.profile, s.storage)
	s.document = service.NewDocumentService(s.storage)
	s.dashboard = service.NewDashboardService(repos.roadmap, repos.userTask, repos.quizAttempt, repos.dashboard)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		generation:  controller.NewGenerationController(s.study, s.roadmap),
		roadmap:     controller.NewRoadmapController(s.roadmap),
		task:        controller.NewTaskController(s.task),
		quizAttempt: controller.NewQuizAttemptController(s.study),
		profile:     controller.NewProfileController(s.profile),
		document:    controller.NewDocumentController(s.document),
		dashboard:   controller.NewDashboardController(s.dashboard),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(context.Background(), &cfg.Redis, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learnflow-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
