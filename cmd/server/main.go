package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/backend/internal/cache"
	"taskflow/backend/internal/config"
	"taskflow/backend/internal/database"
	"taskflow/backend/internal/logger"
	"taskflow/backend/internal/repositories"
	"taskflow/backend/internal/server"

	"github.com/gin-gonic/gin"
	gormlogger "gorm.io/gorm/logger"
)

const maintenanceInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("[ERROR] loading configuration: %v", err)
		return err
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := database.NewDatabasePool(poolConfig(cfg))
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Migrate(cfg.GetMigrationURL()); err != nil {
		return err
	}
	logger.Info("database ready", "driver", pool.Driver())

	var redisStore *cache.RedisStore
	if cfg.Redis.Enabled {
		redisStore = cache.NewRedisStore(&cache.CacheConfig{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
	}
	revocations := cache.NewRevocationStore(redisStore, cache.DefaultCircuitBreakerConfig())
	defer revocations.Close()

	api, err := server.New(cfg, pool, revocations)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go server.RunMaintenance(ctx, maintenanceInterval, repositories.NewTokenRepository(pool.DB), revocations)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.GetServerAddr(), "environment", cfg.Server.Environment)
		serverErr <- api.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return err
		}
		return errors.New("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func poolConfig(cfg *config.Config) *database.PoolConfig {
	pc := database.DefaultPoolConfig()
	pc.Driver = cfg.Database.Driver
	pc.DSN = cfg.GetDatabaseDSN()
	pc.MaxOpenConns = cfg.Database.MaxOpenConns
	pc.MaxIdleConns = cfg.Database.MaxIdleConns
	pc.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	pc.ConnMaxIdleTime = cfg.Database.ConnMaxIdleTime
	pc.SlowThreshold = cfg.Database.SlowThreshold
	if cfg.IsProduction() {
		pc.LogLevel = gormlogger.Warn
	}
	return pc
}
