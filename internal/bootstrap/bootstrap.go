package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/sapatil2212/edutechunite-sub005/internal/app/auth"
	appControllers "github.com/sapatil2212/edutechunite-sub005/internal/app/controllers"
	appMigrations "github.com/sapatil2212/edutechunite-sub005/internal/app/migrations"
	appRepos "github.com/sapatil2212/edutechunite-sub005/internal/app/repositories"
	appRoutes "github.com/sapatil2212/edutechunite-sub005/internal/app/routes"
	appServices "github.com/sapatil2212/edutechunite-sub005/internal/app/services"
	"github.com/sapatil2212/edutechunite-sub005/internal/config"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
	appMiddleware "github.com/sapatil2212/edutechunite-sub005/internal/middleware"
	pkgAuth "github.com/sapatil2212/edutechunite-sub005/internal/pkg/auth"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/logger"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/notifier"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/numbering"
	"github.com/sapatil2212/edutechunite-sub005/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	ExamService          appServices.ExamService
	ScheduleService      appServices.ScheduleService
	MarksService         appServices.MarksService
	RankService          appServices.RankService
	AnalyticsService     appServices.AnalyticsService
	ReportCardService    appServices.ReportCardService
	HallTicketService    appServices.HallTicketService
	AuthController       *appControllers.AuthController
	ExamController       *appControllers.ExamController
	ScheduleController   *appControllers.ScheduleController
	ResultController     *appControllers.ResultController
	ReportCardController *appControllers.ReportCardController
	HallTicketController *appControllers.HallTicketController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
	Dispatcher           notifier.Dispatcher
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default administrator account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Pool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data after migrations
	if err := seed.CreateDefaultData(context.Background(), database, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.User)

	accessTokenExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		// LoadConfig validates the format, so this is unreachable in practice
		accessTokenExp = time.Hour
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: accessTokenExp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Dispatcher = notifier.NewLogDispatcher(lgr)
	sampler := numbering.NewSampler(nil)

	deps.AuthService = appServices.NewAuthService(deps.Repos.User, deps.JWTService, lgr)
	deps.RankService = appServices.NewRankService(deps.Repos.Result, lgr)
	deps.AnalyticsService = appServices.NewAnalyticsService(
		deps.Repos.Analytics,
		deps.Repos.Result,
		deps.Repos.Schedule,
		deps.Repos.Exam,
		lgr,
	)
	deps.ScheduleService = appServices.NewScheduleService(deps.Repos.Schedule, deps.Repos.Exam, deps.AuthzService, lgr)
	deps.MarksService = appServices.NewMarksService(
		deps.Repos.Result,
		deps.Repos.Exam,
		deps.Repos.Schedule,
		deps.Repos.Student,
		deps.AuthzService,
		lgr,
	)
	deps.ExamService = appServices.NewExamService(
		deps.Repos.Exam,
		deps.Repos.Schedule,
		deps.Repos.Result,
		deps.RankService,
		deps.AnalyticsService,
		deps.AuthzService,
		deps.Dispatcher,
		cfg.Exam.DefaultPassingPercentage,
		cfg.Exam.NotificationsEnabled,
		lgr,
	)
	deps.ReportCardService = appServices.NewReportCardService(
		deps.Repos.ReportCard,
		deps.Repos.Result,
		deps.Repos.Student,
		deps.Repos.Subject,
		deps.Repos.Exam,
		deps.AuthzService,
		lgr,
	)
	deps.HallTicketService = appServices.NewHallTicketService(
		deps.Repos.HallTicket,
		deps.Repos.Exam,
		deps.Repos.Student,
		sampler,
		deps.AuthzService,
		cfg.Exam.TicketPrefixLength,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.Logger)
	deps.ExamController = appControllers.NewExamController(deps.ExamService, deps.AnalyticsService, deps.Logger)
	deps.ScheduleController = appControllers.NewScheduleController(deps.ScheduleService, deps.Logger)
	deps.ResultController = appControllers.NewResultController(deps.MarksService, deps.Logger)
	deps.ReportCardController = appControllers.NewReportCardController(deps.ReportCardService, deps.Logger)
	deps.HallTicketController = appControllers.NewHallTicketController(deps.HallTicketService, deps.Logger)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ExamController,
		deps.ScheduleController,
		deps.ResultController,
		deps.ReportCardController,
		deps.HallTicketController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
