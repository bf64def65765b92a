package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schuldenfrei/internal/clients"
	"schuldenfrei/internal/config"
	"schuldenfrei/internal/logger"
	"schuldenfrei/internal/repository"
	"schuldenfrei/internal/service"
	"schuldenfrei/internal/transport/auth"
	"schuldenfrei/internal/transport/rest"
	"schuldenfrei/internal/transport/websocket"
	"schuldenfrei/pkg/database/postgres"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env or defaults")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lg := logger.New(logger.Config{
		Level: logger.ParseLevel(cfg.LogLevel),
		JSON:  cfg.IsProduction(),
	})
	logger.SetDefault(lg)

	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := mustInitPostgres(ctx, cfg.Postgres)
	defer postgres.Close(db)

	redisClient := mustInitRedis(ctx, cfg.Redis)
	defer redisClient.Close()

	fileStore, localFiles := mustInitStorage(ctx, cfg, lg)

	wsHub := websocket.NewHub(lg)
	go wsHub.Run(ctx)
	wsClient := clients.NewWebSocketClient(wsHub)

	profileRepo := repository.NewProfileRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	agreementRepo := repository.NewAgreementRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	tokenRepo := repository.NewAccessTokenRepository(db)

	budgetSvc := service.NewBudgetService(debtRepo, budgetRepo, lg)
	exportSvc := service.NewExportService(profileRepo, debtRepo, paymentRepo, agreementRepo, redisClient, fileStore, wsClient, lg)

	services := rest.Services{
		Profiles:   service.NewProfileService(profileRepo, debtRepo, paymentRepo, budgetSvc, cfg.FreeDebtLimit, lg),
		Debts:      service.NewDebtService(profileRepo, debtRepo, paymentRepo, cfg.FreeDebtLimit, lg),
		Payments:   service.NewPaymentService(debtRepo, paymentRepo, lg),
		Agreements: service.NewAgreementService(debtRepo, agreementRepo, lg),
		Budget:     budgetSvc,
		Exports:    exportSvc,
		Admin:      service.NewAdminService(profileRepo, debtRepo, paymentRepo, agreementRepo, redisClient, exportSvc, lg),
	}

	loginLimiter := auth.NewRateLimiter(cfg.Admin.LoginBurst, cfg.Admin.LoginWindow)
	defer loginLimiter.Stop()

	var files rest.FileServer
	if localFiles != nil {
		files = localFiles
	}

	handler := rest.NewHandler(services, files, wsHub, auth.NewAdminAuth(cfg.Admin, cfg.IsProduction()), loginLimiter, lg)
	router := handler.InitRouterWithAuth(auth.TokenMiddleware(tokenRepo, lg))

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     rest.CORS(cfg.CORSOrigins)(router),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Run HTTP server in goroutine so we can listen for shutdown signals
	srvErr := make(chan error, 1)
	go func() {
		lg.Info("http server listening", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Export.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	if localFiles != nil {
		go runCleaner(ctx, localFiles, cfg.Export.FileTTL, lg)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			lg.Error("http server failed", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		lg.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Warn("http server shutdown", "err", err)
		}

		// let running exports store their result before redis goes away
		exportSvc.Wait()

		// stops the websocket hub and the cleaner
		cancel()

		lg.Info("shutdown complete")
	}
}

func mustInitPostgres(ctx context.Context, cfg config.PostgresConfig) *sql.DB {
	db, err := postgres.NewPostgresConnection(ctx, postgres.ConnectionInfo{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Username:        cfg.User,
		DBName:          cfg.DBName,
		SSLMode:         cfg.SSLMode,
		Password:        cfg.Password,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		log.Fatalf("postgres init error: %v", err)
	}
	return db
}

func mustInitRedis(ctx context.Context, cfg config.RedisConfig) *clients.RedisClient {
	client, err := clients.NewRedisClient(ctx, clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Prefix:      cfg.Prefix,
	})
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	return client
}

// mustInitStorage returns the export file store. The local client is also
// returned when files are served by this process.
func mustInitStorage(ctx context.Context, cfg config.AppConfig, lg *logger.Logger) (clients.FileStore, *clients.StorageClient) {
	if cfg.Export.Storage == "s3" {
		s3, err := clients.NewS3Client(ctx, clients.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
		})
		if err != nil {
			log.Fatalf("s3 init error: %v", err)
		}
		lg.Info("exports go to object storage", "bucket", cfg.S3.Bucket)
		return s3, nil
	}

	local, err := clients.NewLocalStorage(cfg.Export.Dir, cfg.Export.PublicPrefix, cfg.ExternalURL)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	return local, local
}

// runCleaner deletes local export files older than ttl.
func runCleaner(ctx context.Context, storage *clients.StorageClient, ttl time.Duration, lg *logger.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := storage.CleanupOlderThan(ttl); err != nil {
				lg.Warn("storage cleanup failed", "err", err)
			}
		}
	}
}
