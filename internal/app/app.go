package app

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/controller"
	"apec_lms_backend/internal/repository"
	"apec_lms_backend/internal/service"
	"apec_lms_backend/pkg/database"
	"apec_lms_backend/pkg/logger"
	"apec_lms_backend/pkg/monitoring"
	"apec_lms_backend/pkg/security"
	"apec_lms_backend/pkg/solana"
	"apec_lms_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	services *services

	stopBackground context.CancelFunc
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	enrollment  *repository.EnrollmentRepository
	certificate *repository.CertificateRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	course      *service.CourseService
	enrollment  *service.EnrollmentService
	quiz        *service.QuizService
	certificate *service.CertificateService
	storage     *service.StorageService
}

type controllers struct {
	auth        *controller.AuthController
	course      *controller.CourseController
	enrollment  *controller.EnrollmentController
	quiz        *controller.QuizController
	educator    *controller.EducatorController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	ledger := solana.NewClient(cfg.Solana.RPCURL, cfg.Solana.Commitment, cfg.Solana.ConfirmTimeout)

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, service.NewRedisNonceStore(rdb), cfg)
	s.user = service.NewUserService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course, cfg, rdb)
	s.enrollment = service.NewEnrollmentService(repos.course, repos.enrollment, ledger, cfg.Solana.ConfirmTimeout)
	s.quiz = service.NewQuizService(repos.course, repos.enrollment)

	certificate, err := service.NewCertificateService(repos.certificate, repos.course, repos.enrollment, ledger, cfg)
	if err != nil {
		return nil, err
	}
	s.certificate = certificate

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		course:      controller.NewCourseController(s.course, s.enrollment, s.storage),
		enrollment:  controller.NewEnrollmentController(s.enrollment, s.quiz),
		quiz:        controller.NewQuizController(s.quiz),
		educator:    controller.NewEducatorController(s.user),
		certificate: controller.NewCertificateController(s.certificate),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the certificate confirmation poller. Certificates
// whose minting transaction was reported but not yet finalized get retried
// until the ledger confirms them.
func (a *App) startBackgroundTasks(s *services) {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopBackground = cancel

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.certificate.ConfirmPending(ctx); err != nil {
					logger.Log.Error("certificate confirmation sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	// Migrations run automatically outside release mode; in release they
	// require the -migrate flag.
	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate)
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

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("apec-lms", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

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

	if a.stopBackground != nil {
		a.stopBackground()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
