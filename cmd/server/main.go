package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"portfolio-backend-go/internal/config"
	"portfolio-backend-go/internal/db"
	httpapi "portfolio-backend-go/internal/http"
	"portfolio-backend-go/internal/logger"
	"portfolio-backend-go/internal/migrations"
	"portfolio-backend-go/internal/services"
	"portfolio-backend-go/internal/storage"
	"portfolio-backend-go/internal/storage/memory"
	"portfolio-backend-go/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, closeLogs, err := setupLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("logger setup failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLogs()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("storage", zap.Error(err))
	}
	defer store.Close()

	seed := storage.AdminSeed{
		Username:  cfg.AdminUsername,
		Password:  cfg.AdminPassword,
		SiteTitle: cfg.SiteTitle,
	}
	if err := store.InitializeDatabase(ctx, seed); err != nil {
		log.Fatal("initialize database", zap.Error(err))
	}
	if cfg.UsesDevSecret() {
		log.Warn("JWT_SECRET is not set; sessions are signed with the development secret")
	}

	hub := services.NewMetricsHub()
	go hub.Run(ctx)
	history := services.NewMetricsHistory(cfg.MetricsHistorySize)

	server := httpapi.NewServer(store, cfg, log, contactDeliverer(cfg, log), hub, history)
	go metricsLoop(ctx, server)

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func setupLogger(cfg config.Config) (*zap.Logger, func(), error) {
	file, err := logger.OpenDailyFile(cfg.LogDir, cfg.LogRetentionDays)
	if err != nil {
		return nil, nil, err
	}
	out := zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), file)
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, out)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return log, func() {
		_ = log.Sync()
		_ = file.Close()
	}, nil
}

// openStorage picks postgres when DATABASE_URL is set and the in-memory
// store otherwise.
func openStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (storage.Storage, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set; using in-memory storage, data is lost on restart")
		return memory.New(memory.WithSiteTitle(cfg.SiteTitle)), nil
	}
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	applied, err := migrations.Apply(ctx, database, migrations.Files())
	if err != nil {
		database.Close()
		return nil, err
	}
	for _, name := range applied {
		log.Info("migration applied", zap.String("name", name))
	}
	return postgres.New(database, postgres.WithSiteTitle(cfg.SiteTitle)), nil
}

func contactDeliverer(cfg config.Config, log *zap.Logger) services.ContactDeliverer {
	if cfg.ContactAMQPURL == "" {
		return services.LogDeliverer{Log: log}
	}
	log.Info("contact messages are published to AMQP", zap.String("queue", cfg.ContactQueue))
	return services.AMQPDeliverer{URL: cfg.ContactAMQPURL, Queue: cfg.ContactQueue}
}

func metricsLoop(ctx context.Context, server *httpapi.Server) {
	interval := time.Duration(server.Config.MetricsSampleSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sample, err := services.CaptureMetrics(ctx, server.Config.MetricsDiskPath)
			if err != nil {
				server.Log.Warn("metrics capture", zap.Error(err))
				continue
			}
			server.History.Add(sample)
			server.MetricsHub.Broadcast(sample)
		case <-ctx.Done():
			return
		}
	}
}
