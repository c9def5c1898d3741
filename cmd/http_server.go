package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/absence"
	absencePostgres "github.com/elitehr/elite-time/internal/absence/postgres"
	"github.com/elitehr/elite-time/internal/activity"
	activityPostgres "github.com/elitehr/elite-time/internal/activity/postgres"
	"github.com/elitehr/elite-time/internal/auth"
	authPostgres "github.com/elitehr/elite-time/internal/auth/postgres"
	"github.com/elitehr/elite-time/internal/authz"
	"github.com/elitehr/elite-time/internal/core/events"
	"github.com/elitehr/elite-time/internal/department"
	departmentPostgres "github.com/elitehr/elite-time/internal/department/postgres"
	"github.com/elitehr/elite-time/internal/ldap"
	"github.com/elitehr/elite-time/internal/permission"
	permissionPostgres "github.com/elitehr/elite-time/internal/permission/postgres"
	"github.com/elitehr/elite-time/internal/pointage"
	pointagePostgres "github.com/elitehr/elite-time/internal/pointage/postgres"
	"github.com/elitehr/elite-time/internal/position"
	positionPostgres "github.com/elitehr/elite-time/internal/position/postgres"
	"github.com/elitehr/elite-time/internal/realtime"
	"github.com/elitehr/elite-time/internal/report"
	"github.com/elitehr/elite-time/internal/session"
	sessionPostgres "github.com/elitehr/elite-time/internal/session/postgres"
	"github.com/elitehr/elite-time/internal/settings"
	settingsPostgres "github.com/elitehr/elite-time/internal/settings/postgres"
	"github.com/elitehr/elite-time/internal/transport"
	"github.com/elitehr/elite-time/internal/transport/ratelimit"
	"github.com/elitehr/elite-time/internal/transport/rest"
	"github.com/elitehr/elite-time/internal/transport/swagger"
	"github.com/elitehr/elite-time/internal/user"
	userPostgres "github.com/elitehr/elite-time/internal/user/postgres"
	"github.com/elitehr/elite-time/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API and realtime requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	sqlDB, err := initDB(cfg.Database)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
	if err != nil {
		log.Error("failed to initialize orm", "error", err)
		os.Exit(1)
	}

	if _, err := swagger.LoadSpec(context.Background(), "./api/openapi.yml"); err != nil {
		log.Warn("openapi spec not loadable, docs disabled", "error", err)
	}

	// Repositories.
	userRepo := userPostgres.NewUserRepository(gormDB)
	authRepo := authPostgres.NewRepository(gormDB)
	sessionRepo := sessionPostgres.NewSessionRepository(gormDB)
	permissionRepo := permissionPostgres.NewPermissionRepository(gormDB)
	activityRepo := activityPostgres.NewActivityRepository(gormDB)
	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)
	positionRepo := positionPostgres.NewPositionRepository(gormDB)
	absenceRepo := absencePostgres.NewAbsenceRepository(gormDB)
	pointageRepo := pointagePostgres.NewPointageRepository(gormDB)
	settingsRepo := settingsPostgres.NewSettingsRepository(gormDB)

	// Core services.
	recorder := activity.NewRecorder(activityRepo, log)
	sessionService := session.NewService(sessionRepo, cfg.Security.SessionTTL, log)
	permissionService := permission.NewService(permissionRepo, log)

	var directory ldap.DirectoryClient
	if cfg.LDAP.Configured() {
		directory = ldap.NewClient(cfg.LDAP)
	}

	authService := auth.NewService(authRepo, sessionService, permissionService, recorder, directory, log)

	bus := events.NewEventBus(log)
	hub := realtime.NewHub(log)
	realtime.BridgeEvents(bus, hub, log)

	settingsService := settings.NewService(settingsRepo, recorder, log)
	userService := user.NewService(userRepo, permissionService, sessionService, recorder, cfg.Security.BCryptCost, log)
	departmentService := department.NewService(departmentRepo, recorder, log)
	positionService := position.NewService(positionRepo, recorder, log)
	absenceService := absence.NewService(absenceRepo, recorder, log)
	pointageService := pointage.NewService(pointageRepo, settingsService, bus, recorder, log)

	tokens := report.NewTokenIssuer(cfg.Security.DownloadTokenSecret, cfg.Security.DownloadTokenTTL)
	reportService := report.NewService(pointageService, absenceService, tokens, recorder, log)

	var syncService *ldap.SyncService
	if directory != nil {
		syncService = ldap.NewSyncService(directory, userRepo, settingsService, permissionService, recorder, log)
	}

	guard := authz.NewGuard(authService, log)

	// Handlers.
	base := transport.NewBaseHandler(log)
	handlers := rest.Handlers{
		Auth:       auth.NewHandler(base, authService, sessionService.TTL(), cfg.Server.Production),
		Authz:      authz.NewHandler(base, guard),
		User:       user.NewHandler(base, userService),
		Permission: permission.NewHandler(base, permissionService, userRepo, recorder),
		Department: department.NewHandler(base, departmentService),
		Position:   position.NewHandler(base, positionService),
		Absence:    absence.NewHandler(base, absenceService),
		Pointage:   pointage.NewHandler(base, pointageService),
		Settings:   settings.NewHandler(base, settingsService),
		Activity:   activity.NewHandler(base, recorder),
		Report:     report.NewHandler(base, reportService, tokens),
	}
	if syncService != nil {
		handlers.Ldap = ldap.NewHandler(base, syncService)
	}

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequests:   cfg.RateLimit.MaxRequests,
		Window:        cfg.RateLimit.Window,
		SweepInterval: cfg.RateLimit.SweepInterval,
	})
	defer limiter.Stop()

	socketHandler := realtime.NewSocketHandler("/realtime", hub, authService, log)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB.DB, handlers, limiter, socketHandler, hub, rest.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Production:     cfg.Server.Production,
	}, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
