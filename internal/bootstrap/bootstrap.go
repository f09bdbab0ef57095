package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/unireg/internal/app/controllers"
	appMigrations "github.com/yigit/unireg/internal/app/migrations"
	appRepos "github.com/yigit/unireg/internal/app/repositories"
	appRoutes "github.com/yigit/unireg/internal/app/routes"
	appServices "github.com/yigit/unireg/internal/app/services"
	"github.com/yigit/unireg/internal/config"
	"github.com/yigit/unireg/internal/db"
	appMiddleware "github.com/yigit/unireg/internal/middleware"
	pkgAuth "github.com/yigit/unireg/internal/pkg/auth"
	"github.com/yigit/unireg/internal/pkg/email"
	"github.com/yigit/unireg/internal/pkg/filestorage"
	"github.com/yigit/unireg/internal/pkg/helpers"
	"github.com/yigit/unireg/internal/pkg/kvstore"
	"github.com/yigit/unireg/internal/pkg/logger"
	"github.com/yigit/unireg/internal/pkg/validation"
	"github.com/yigit/unireg/internal/pkg/websocket"
	"github.com/yigit/unireg/internal/seed"
)

// DefaultConfigPath is used when no path is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store      kvstore.Store
	Repos      *appRepos.Repositories
	JWTService *pkgAuth.JWTService
	Hub        *websocket.Hub // nil outside the HTTP server

	CatalogService      *appServices.CatalogService
	CartService         *appServices.CartService
	ScheduleService     *appServices.ScheduleService
	RegistrationService *appServices.RegistrationService
	AuthService         *appServices.AuthService
	PreferenceService   *appServices.PreferenceService
	TranscriptService   *appServices.TranscriptService

	AuthController         *appControllers.AuthController
	CatalogController      *appControllers.CatalogController
	CartController         *appControllers.CartController
	ScheduleController     *appControllers.ScheduleController
	RegistrationController *appControllers.RegistrationController
	ProfileController      *appControllers.ProfileController
	ScheduleSocket         *websocket.Handler
	AuthMiddleware         *appMiddleware.AuthMiddleware

	FileStorage *filestorage.LocalStorage
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStore opens the key-value store selected by the storage driver
func OpenStore(cfg *config.Config, lgr zerolog.Logger) (kvstore.Store, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "memory":
		lgr.Info().Msg("Using in-memory storage, nothing survives a restart")
		return kvstore.NewMemoryStore(), nil
	default:
		store, err := kvstore.OpenBadger(cfg.Storage.Path, lgr)
		if err != nil {
			lgr.Error().Err(err).Str("path", cfg.Storage.Path).Msg("Failed to open badger store")
			return nil, err
		}
		lgr.Info().Str("path", cfg.Storage.Path).Msg("Badger store opened")
		return store, nil
	}
}

// SetupDatabase establishes the catalog database connection and runs migrations.
// It returns nil when the catalog lives in the key-value store.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if !cfg.UsesPostgresCatalog() {
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.Migrate(ctx); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
// pool may be nil for a store-backed catalog and hub nil when nobody listens for pushes.
func BuildDependencies(
	ctx context.Context,
	cfg *config.Config,
	store kvstore.Store,
	pool *pgxpool.Pool,
	hub *websocket.Hub,
	lgr zerolog.Logger,
) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Hub: hub, Logger: lgr}

	var courses appRepos.CourseRepository
	if pool != nil {
		courses = appRepos.NewPostgresCourseRepository(pool, lgr)
	}
	deps.Repos = appRepos.NewRepositories(store, courses)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.ExportPath, cfg.Server.BaseURL, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Services
	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.CourseRepository,
		deps.Repos.DepartmentRepository,
		deps.Repos.RegistrationRepository,
		lgr,
	)
	deps.CartService = appServices.NewCartService(deps.CatalogService, deps.Repos.CartRepository, cfg.Registration.MaxUnits, lgr)

	var publisher appServices.SchedulePublisher
	if hub != nil {
		publisher = hub
	}
	deps.ScheduleService = appServices.NewScheduleService(deps.Repos.CartRepository, publisher, deps.FileStorage, lgr)
	deps.CartService.Subscribe(deps.ScheduleService)

	deps.TranscriptService = appServices.NewTranscriptService(deps.Repos.TranscriptRepository, deps.Repos.StudentRepository, lgr)
	deps.PreferenceService = appServices.NewPreferenceService(deps.Repos.PreferenceRepository)
	deps.AuthService = appServices.NewAuthService(deps.Repos.StudentRepository, deps.Repos.CartRepository, deps.JWTService, lgr)

	roller := appServices.NewRoller(cfg.Simulation.Seed)
	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.Port == 465,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	deps.RegistrationService = appServices.NewRegistrationService(appServices.RegistrationDeps{
		Sessions:      deps.Repos.SessionRepository,
		Registrations: deps.Repos.RegistrationRepository,
		Students:      deps.Repos.StudentRepository,
		Cart:          deps.CartService,
		Transcripts:   deps.TranscriptService,
		Enroller:      deps.CatalogService,
		Payment:       appServices.NewSimulatedPayment(cfg.Simulation.PaymentFailureRate, cfg.Simulation.PaymentLatency, roller),
		Registrar:     appServices.NewSimulatedRegistrar(cfg.Simulation.FinalizeFailureRate, cfg.Simulation.FinalizeLatency, roller),
		Mailer:        mailer,
	}, appServices.RegistrationConfig{
		MinUnits:    cfg.Registration.MinUnits,
		MaxUnits:    cfg.Registration.MaxUnits,
		BaseTuition: cfg.Registration.BaseTuition,
		UnitPrice:   cfg.Registration.UnitPrice,
		Currency:    cfg.Registration.Currency,
		Semester:    cfg.Registration.Semester,
	}, lgr)

	if err := seedData(ctx, cfg, deps); err != nil {
		return nil, err
	}

	// HTTP layer
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.CartController = appControllers.NewCartController(deps.CartService)
	deps.ScheduleController = appControllers.NewScheduleController(deps.ScheduleService)
	deps.RegistrationController = appControllers.NewRegistrationController(deps.RegistrationService)
	deps.ProfileController = appControllers.NewProfileController(deps.PreferenceService, deps.TranscriptService)
	if hub != nil {
		deps.ScheduleSocket = websocket.NewHandler(hub, deps.ScheduleService.Snapshot, lgr)
	}

	return deps, nil
}

// seedData loads the catalog and creates the default records
func seedData(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	samples, err := seed.SampleCourses()
	if err != nil {
		return err
	}

	count, err := deps.CatalogService.Load(ctx, cfg.Catalog.DataFile, samples)
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to load course catalog")
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	deps.Logger.Info().Int("courses", count).Msg("Course catalog ready")

	if err := deps.CatalogService.SeedDepartments(ctx, seed.Departments()); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to seed departments, proceeding anyway...")
	}

	if err := seed.CreateDefaultData(ctx, deps.Repos, deps.Logger); err != nil {
		// Log the error but don't necessarily fail the startup
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
	return nil
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

	validation.RegisterBindings()

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), appMiddleware.Recovery(lgr))

	// Exported schedules
	router.Static(filestorage.URLPrefix, deps.FileStorage.BasePath())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CatalogController,
		deps.CartController,
		deps.ScheduleController,
		deps.RegistrationController,
		deps.ProfileController,
		deps.ScheduleSocket,
		deps.AuthMiddleware,
	)

	appRoutes.SetupSwagger(router)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
