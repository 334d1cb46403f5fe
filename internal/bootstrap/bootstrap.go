package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/devansh/fms/internal/app/auth"
	appControllers "github.com/devansh/fms/internal/app/controllers"
	appMigrations "github.com/devansh/fms/internal/app/migrations"
	appRepos "github.com/devansh/fms/internal/app/repositories"
	appRoutes "github.com/devansh/fms/internal/app/routes"
	appServices "github.com/devansh/fms/internal/app/services"
	"github.com/devansh/fms/internal/config"
	"github.com/devansh/fms/internal/db"
	appMiddleware "github.com/devansh/fms/internal/middleware"
	pkgAuth "github.com/devansh/fms/internal/pkg/auth"
	"github.com/devansh/fms/internal/pkg/email"
	"github.com/devansh/fms/internal/pkg/helpers"
	"github.com/devansh/fms/internal/pkg/logger"
	"github.com/devansh/fms/internal/pkg/ws"
	"github.com/devansh/fms/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	ApprovalService      *appServices.ApprovalService
	AccountService       *appServices.AccountService
	PromotionService     *appServices.PromotionService
	SessionService       *appServices.SessionService
	SubjectService       *appServices.SubjectService
	RosterService        *appServices.RosterService
	FeedbackService      *appServices.FeedbackService
	ReportService        *appServices.ReportService
	AuthController       *appControllers.AuthController
	AdminController      *appControllers.AdminController
	DepartmentController *appControllers.DepartmentController
	TeacherController    *appControllers.TeacherController
	StudentController    *appControllers.StudentController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
	Hub                  *ws.Hub
	WSHandler            *ws.Handler
	Mailer               email.Service
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
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

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

	if err := seed.CreateDefaultAdmin(context.Background(), dbPool, cfg, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to seed default admin, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.AccountRepository)

	deps.Hub = ws.NewHub(lgr)
	go deps.Hub.Run()
	deps.WSHandler = ws.NewHandler(deps.Hub, deps.Repos.AccountRepository, lgr)

	deps.Mailer = email.NewSMTPService(&cfg.SMTP)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.AccountRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		cfg.Auth.Domain,
	)
	deps.ApprovalService = appServices.NewApprovalService(
		deps.Repos.AccountRepository,
		deps.Repos.SessionRepository,
		deps.Repos.TokenRepository,
		deps.Mailer,
	)
	deps.AccountService = appServices.NewAccountService(
		deps.Repos.AccountRepository,
		deps.Repos.SessionRepository,
		deps.Repos.TokenRepository,
		cfg.Auth.Domain,
	)
	deps.PromotionService = appServices.NewPromotionService(deps.Repos.AccountRepository)
	deps.SessionService = appServices.NewSessionService(deps.Repos.SessionRepository)
	deps.SubjectService = appServices.NewSubjectService(deps.Repos.SubjectRepository, deps.Repos.AccountRepository)
	deps.RosterService = appServices.NewRosterService(deps.Repos.RosterRepository)
	deps.FeedbackService = appServices.NewFeedbackService(
		deps.Repos.AccountRepository,
		deps.Repos.SubjectRepository,
		deps.Repos.FeedbackRepository,
		deps.Hub,
	)
	deps.ReportService = appServices.NewReportService(deps.Repos.FeedbackRepository, deps.Repos.AccountRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.AccountRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.AdminController = appControllers.NewAdminController(
		deps.ApprovalService,
		deps.AccountService,
		deps.RosterService,
		deps.ReportService,
		lgr,
	)
	deps.DepartmentController = appControllers.NewDepartmentController(
		deps.AuthzService,
		deps.ApprovalService,
		deps.AccountService,
		deps.SessionService,
		deps.SubjectService,
		deps.PromotionService,
		deps.FeedbackService,
		deps.ReportService,
		deps.Repos.AccountRepository,
		lgr,
	)
	deps.TeacherController = appControllers.NewTeacherController(
		deps.SubjectService,
		deps.FeedbackService,
		deps.ReportService,
		lgr,
	)
	deps.StudentController = appControllers.NewStudentController(deps.FeedbackService, lgr)

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

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.AdminController,
		deps.DepartmentController,
		deps.TeacherController,
		deps.StudentController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}
