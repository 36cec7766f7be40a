package main

import (
	"testing"
	"time"

	"taskflow/backend/internal/config"
	"taskflow/backend/internal/database"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			SQLitePath:      "data/test.db",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Minute,
			ConnMaxIdleTime: 30 * time.Second,
			SlowThreshold:   time.Second,
		},
	}

	pc := poolConfig(cfg)
	assert.Equal(t, database.DriverSQLite, pc.Driver)
	assert.Equal(t, "data/test.db", pc.DSN)
	assert.Equal(t, 4, pc.MaxOpenConns)
	assert.Equal(t, 2, pc.MaxIdleConns)
	assert.Equal(t, time.Second, pc.SlowThreshold)
	assert.Equal(t, logger.Info, pc.LogLevel)

	cfg.Server.Environment = "production"
	assert.Equal(t, logger.Warn, poolConfig(cfg).LogLevel)
}
