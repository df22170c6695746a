package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kidlearn_backend/internal/config"
	"kidlearn_backend/internal/controller"
	"kidlearn_backend/internal/repository"
	"kidlearn_backend/internal/service"
	"kidlearn_backend/pkg/database"
	"kidlearn_backend/pkg/logger"
	"kidlearn_backend/pkg/monitoring"
	"kidlearn_backend/pkg/security"
	"kidlearn_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	repos    *repositories
	services *services
}

type repositories struct {
	parent   *repository.ParentRepository
	child    *repository.ChildRepository
	activity *repository.ActivityRepository
	progress *repository.ProgressRepository
}

type services struct {
	auth     *service.AuthService
	anomaly  *service.AnomalyService
	progress *service.ProgressService
}

type controllers struct {
	auth     *controller.AuthController
	child    *controller.ChildController
	progress *controller.ProgressController
	review   *controller.ReviewController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		parent:   repository.NewParentRepository(db),
		child:    repository.NewChildRepository(db),
		activity: repository.NewActivityRepository(db, rdb),
		progress: repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	mc, err := database.InitMinio(&cfg.Storage)
	if err != nil {
		// The anomaly archive is best effort; the platform runs without it.
		logger.Log.Warn("MinIO unavailable, anomaly archive disabled", zap.Error(err))
		mc = nil
	}

	s.auth = service.NewAuthService(repos.parent, cfg)
	s.anomaly = service.NewAnomalyService(rdb, mc, cfg.Storage.MinioBucket)
	s.progress = service.NewProgressService(repos.child, repos.activity, repos.progress, s.anomaly, cfg.Validation)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		child:    controller.NewChildController(a.repos.child, a.repos.activity),
		progress: controller.NewProgressController(s.progress),
		review:   controller.NewReviewController(s.anomaly),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
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

// ReloadConfig applies a freshly loaded config to the running app.
// Only the validation thresholds are hot-swappable; everything else
// needs a restart.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.services.progress.Engine.SetThresholds(cfg.Validation)
	logger.Log.Info("validation thresholds reloaded")
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

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

	app.repos = app.initRepositories(db, rdb)
	app.services = app.initServices(app.repos, cfg, rdb)
	ctrls := app.initControllers(app.services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("kidlearn-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, cfg)

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
