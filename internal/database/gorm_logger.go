package database

import (
	"fmt"

	applog "taskflow/backend/internal/logger"

	"gorm.io/gorm/logger"
)

// slogWriter forwards gorm's printf-style output to the application logger.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	applog.GetLogger().Info(fmt.Sprintf(format, args...), "component", "gorm")
}

func newGormLogger(config *PoolConfig) logger.Interface {
	return logger.New(slogWriter{}, logger.Config{
		SlowThreshold:             config.SlowThreshold,
		LogLevel:                  config.LogLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
