package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/auth"
	authPostgres "github.com/ptnguyen/fundflow/internal/auth/postgres"
	"github.com/ptnguyen/fundflow/internal/cache"
	"github.com/ptnguyen/fundflow/internal/campaign"
	campaignPostgres "github.com/ptnguyen/fundflow/internal/campaign/postgres"
	"github.com/ptnguyen/fundflow/internal/core/events"
	"github.com/ptnguyen/fundflow/internal/donation"
	donationPostgres "github.com/ptnguyen/fundflow/internal/donation/postgres"
	"github.com/ptnguyen/fundflow/internal/paymentgateway"
	"github.com/ptnguyen/fundflow/internal/storage"
	"github.com/ptnguyen/fundflow/internal/transport/rest"
	"github.com/ptnguyen/fundflow/internal/upload"
	"github.com/ptnguyen/fundflow/internal/user"
	userPostgres "github.com/ptnguyen/fundflow/internal/user/postgres"
	"github.com/ptnguyen/fundflow/internal/withdrawal"
	withdrawalPostgres "github.com/ptnguyen/fundflow/internal/withdrawal/postgres"
	"github.com/ptnguyen/fundflow/internal/ws"
	"github.com/ptnguyen/fundflow/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Cache  *cache.Cache
	Router *chi.Mux
	Hub    *ws.Hub
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	go deps.Hub.Run(runCtx)

	addr := fmt.Sprintf("%s:%d", deps.Config.Server.Host, deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		cancelRun()
		if err := deps.Cache.Close(); err != nil {
			deps.Logger.Error("cache close error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Server.Environment)
	appLogger := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the same connection pool as sqlx
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	cacheClient := cache.New(config.Cache, appLogger)

	objectStorage, err := storage.New(config.Storage, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	if err := objectStorage.EnsureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to provision storage bucket: %w", err)
	}

	gateway := paymentgateway.NewClient(config.Payment, appLogger)
	eventBus := events.NewEventBus(appLogger)

	hub := ws.NewHub(appLogger)
	hub.SubscribeTo(eventBus)

	// Repositories
	campaignRepo := campaignPostgres.NewCampaignRepository(gormDB)
	donationRepo := donationPostgres.NewDonationRepository(gormDB)
	withdrawalRepo := withdrawalPostgres.NewWithdrawalRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	authRepo := authPostgres.NewAuthRepository(db)

	// Services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.JWTSecret,
		config.Security.RefreshSecret,
		config.Security.JWTExpiration,
		config.Security.RefreshExpiration,
	)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BcryptCost)
	userService := user.NewService(userRepo, authService, cacheClient, appLogger)
	campaignService := campaign.NewService(campaignRepo, userRepo, cacheClient, eventBus, appLogger)
	donationService := donation.NewService(donationRepo, campaignRepo, gateway, cacheClient, eventBus, appLogger)
	withdrawalService := withdrawal.NewService(withdrawalRepo, campaignRepo, cacheClient, appLogger)

	// Handlers
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	campaignHandler := campaign.NewHandler(campaignService, config.Server.PublicURL)
	donationHandler := donation.NewHandler(donationService)
	webhookHandler := donation.NewWebhookHandler(donationService)
	withdrawalHandler := withdrawal.NewHandler(withdrawalService)
	uploadHandler := upload.NewHandler(objectStorage)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(
		router,
		db.DB,
		cacheClient,
		authHandler,
		userHandler,
		campaignHandler,
		donationHandler,
		webhookHandler,
		withdrawalHandler,
		uploadHandler,
		hub,
		appLogger,
	)

	return &Dependencies{
		Config: config,
		DB:     db,
		Cache:  cacheClient,
		Router: router,
		Hub:    hub,
		Logger: appLogger,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
