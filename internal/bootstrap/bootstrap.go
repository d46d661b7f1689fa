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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/meric/acadbatch/docs" // Import generated swagger docs
	appControllers "github.com/meric/acadbatch/internal/app/controllers"
	appMigrations "github.com/meric/acadbatch/internal/app/migrations"
	appRepos "github.com/meric/acadbatch/internal/app/repositories"
	appRoutes "github.com/meric/acadbatch/internal/app/routes"
	appServices "github.com/meric/acadbatch/internal/app/services"
	"github.com/meric/acadbatch/internal/config"
	"github.com/meric/acadbatch/internal/db"
	appMiddleware "github.com/meric/acadbatch/internal/middleware"
	pkgAuth "github.com/meric/acadbatch/internal/pkg/auth"
	"github.com/meric/acadbatch/internal/pkg/helpers"
	"github.com/meric/acadbatch/internal/pkg/logger"
	"github.com/meric/acadbatch/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	RollService        *appServices.RollService
	EnrollmentService  *appServices.EnrollmentService
	RecordService      *appServices.RecordService
	CatalogService     *appServices.CatalogService
	RollController     *appControllers.RollController
	ElectiveController *appControllers.ElectiveController
	RecordController   *appControllers.RecordController
	CatalogController  *appControllers.CatalogController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	Logger             zerolog.Logger
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
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

	// Keep the database-side elective limit in step with the configuration.
	if err := seed.SyncElectiveLimit(context.Background(), dbPool, cfg.Academic.ElectiveLimit, lgr); err != nil {
		return nil, fmt.Errorf("failed to sync elective limit setting: %w", err)
	}

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Initialize services
	deps.RollService = appServices.NewRollService(deps.Repos.StudentRepository)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.StudentRepository,
		deps.Repos.BatchRepository,
		deps.Repos.SubjectRepository,
		deps.Repos.SelectionRepository,
		cfg.Academic.ElectiveLimit,
	)
	deps.RecordService = appServices.NewRecordService(deps.Repos.RecordRepository)
	deps.CatalogService = appServices.NewCatalogService(appRepos.NewCatalog(deps.Repos))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.RollController = appControllers.NewRollController(deps.RollService)
	deps.ElectiveController = appControllers.NewElectiveController(deps.EnrollmentService)
	deps.RecordController = appControllers.NewRecordController(deps.RecordService)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)

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

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.RollController,
		deps.ElectiveController,
		deps.RecordController,
		deps.CatalogController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
