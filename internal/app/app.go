package app

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"testbot_backend/internal/config"
	"testbot_backend/internal/controller"
	"testbot_backend/internal/repository"
	"testbot_backend/internal/service"
	"testbot_backend/pkg/database"
	"testbot_backend/pkg/logger"
	"testbot_backend/pkg/monitoring"
	"testbot_backend/pkg/security"
	"testbot_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	repos       *repositories
	services    *services
	controllers *controllers
}

type repositories struct {
	session *repository.SessionRepository
	answer  *repository.AnswerRepository
	result  *repository.ResultRepository
	bank    *repository.QuestionBank
}

type services struct {
	test  *service.TestService
	stats *service.StatsService
}

type controllers struct {
	test    *controller.TestController
	stats   *controller.StatsController
	catalog *controller.CatalogController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) (*repositories, error) {
	bank, err := repository.NewQuestionBank(a.Config.Questions, rdb)
	if err != nil {
		return nil, err
	}
	return &repositories{
		session: repository.NewSessionRepository(db),
		answer:  repository.NewAnswerRepository(db),
		result:  repository.NewResultRepository(db),
		bank:    bank,
	}, nil
}

func (a *App) initServices(repos *repositories) *services {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &services{
		test:  service.NewTestService(repos.session, repos.answer, repos.bank, rnd),
		stats: service.NewStatsService(repos.result),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		test:    controller.NewTestController(s.test),
		stats:   controller.NewStatsController(s.stats),
		catalog: controller.NewCatalogController(),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ApplyConfig применяет перечитанную конфигурацию. На лету меняется
// только источник банка вопросов; серверные параметры требуют рестарта.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.repos.bank.Reload(cfg.Questions)
	a.Config.Questions = cfg.Questions
	logger.Log.Info("Config reloaded", zap.String("questions_source", cfg.Questions.Source))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos, err := app.initRepositories(db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize repositories", zap.Error(err))
	}
	app.repos = repos
	app.services = app.initServices(repos)
	app.controllers = app.initControllers(app.services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("testbot-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, app.controllers)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
