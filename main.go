package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elbasta-backend/config"
	"elbasta-backend/database"
	"elbasta-backend/firebase"
	"elbasta-backend/middleware"
	"elbasta-backend/notify"
	"elbasta-backend/pricing"
	"elbasta-backend/routes"
	"elbasta-backend/store"
	"elbasta-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	envErr := config.LoadEnv()

	logger := newLogger(os.Getenv("APP_ENV") == "production")
	defer logger.Sync()
	if envErr != nil {
		logger.Warn("ignoring .env file", zap.Error(envErr))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.Validate(logger); err != nil {
		logger.Fatal("environment validation failed", zap.Error(err))
	}
	utils.TokenTTL = cfg.TokenTTL

	ctx := context.Background()

	var app *firebase.App
	if cfg.Firebase.Credentials != "" || cfg.Firebase.ProjectID != "" {
		app, err = firebase.NewApp(ctx, firebase.Config{
			Credentials:   cfg.Firebase.Credentials,
			ProjectID:     cfg.Firebase.ProjectID,
			StorageBucket: cfg.Firebase.StorageBucket,
		}, logger)
		if err != nil {
			logger.Error("firebase init failed", zap.Error(err))
		}
	}

	repo, closeStore := openStore(ctx, cfg, app, logger)
	defer closeStore()

	var storage firebase.StorageClient
	if app != nil && cfg.Firebase.StorageBucket != "" {
		bucket, err := app.Storage()
		if err != nil {
			logger.Warn("image uploads disabled", zap.Error(err))
		} else {
			storage = bucket
		}
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Warn("telegram alerts disabled", zap.Error(err))
		} else {
			notifier = tg
			defer tg.Close()
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.UseJSONFieldNames(v)
	}
	r := gin.New()
	r.Use(middleware.Logger(logger), gin.Recovery())

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
	}))

	stopLimiters := routes.SetupRoutes(r, routes.Dependencies{
		Store:             repo,
		Resolver:          pricing.NewResolver(pricing.Point{Lat: cfg.Shop.Latitude, Lon: cfg.Shop.Longitude}),
		Storage:           storage,
		Notifier:          notifier,
		Logger:            logger,
		AdminUsername:     cfg.Admin.Username,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		WhatsAppNumber:    cfg.Shop.WhatsAppNumber,
	})
	defer stopLimiters()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in a goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("store", repo.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}

func newLogger(production bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	return logger
}

// openStore builds the repository named by STORE_DRIVER. Without Firestore
// credentials the in-memory store is used; with STORE_FALLBACK a failing
// primary is backed by an in-memory store.
func openStore(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (store.Repository, func()) {
	memory := func() store.Repository {
		mem := store.NewMemory()
		if cfg.Store.Seed {
			if err := store.Seed(ctx, mem); err != nil {
				logger.Error("failed to seed memory store", zap.Error(err))
			}
		}
		return mem
	}
	withFallback := func(primary store.Repository) store.Repository {
		if !cfg.Store.Fallback {
			return primary
		}
		return store.WithFallback(primary, memory(), logger)
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg.Store.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		return withFallback(store.NewSQL(db)), func() {
			if err := database.Close(db); err != nil {
				logger.Error("error closing database connection", zap.Error(err))
			}
		}

	case config.DriverFirestore:
		if app == nil {
			logger.Warn("firestore credentials absent, using in-memory store")
			return memory(), func() {}
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			logger.Error("firestore unavailable, using in-memory store", zap.Error(err))
			return memory(), func() {}
		}
		return withFallback(store.NewFirestore(client)), func() {
			if err := client.Close(); err != nil {
				logger.Error("error closing firestore client", zap.Error(err))
			}
		}
	}

	return memory(), func() {}
}
