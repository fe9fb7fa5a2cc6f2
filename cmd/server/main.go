package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"leximind.com/api/internal/bootstrap"
	"leximind.com/api/internal/config"
	"leximind.com/api/internal/server"
	"leximind.com/api/pkg/database"
	"leximind.com/api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Options{
		DSN:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		Debug:    !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	if err := bootstrap.Seed(ctx, db, bootstrap.Options{
		AdminPassword: cfg.AdminPassword,
		DemoUsers:     cfg.AppEnv == "development",
	}, log); err != nil {
		log.Fatal("seeding failed", "error", err)
	}

	redisClient := connectRedis(ctx, cfg.RedisURL, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv, err := server.NewServer(ctx, cfg, db, redisClient, log)
	if err != nil {
		log.Fatal("server setup failed", "error", err)
	}
	srv.StartJobs(ctx)
	defer srv.Shutdown()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", httpServer.Addr, "env", cfg.AppEnv)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server exited with error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// connectRedis returns nil when redis is not configured or unreachable.
func connectRedis(ctx context.Context, url string, log *logger.Logger) *redis.Client {
	if url == "" {
		log.Warn("REDIS_URL not set, rate limiting and live notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("invalid REDIS_URL, continuing without redis", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, continuing without redis", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
