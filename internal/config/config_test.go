package config

import (
	"testing"
	"time"
)

var configEnvVars = []string{
	"HOST", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT", "ENVIRONMENT",
	"DB_DRIVER", "DB_SQLITE_PATH", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME", "DB_SLOW_THRESHOLD",
	"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
	"REDIS_MIN_IDLE_CONNS", "REDIS_MAX_RETRIES", "REDIS_DIAL_TIMEOUT", "REDIS_READ_TIMEOUT", "REDIS_WRITE_TIMEOUT",
	"JWT_SECRET", "JWT_ISSUER", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "BCRYPT_COST",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "RATE_LIMIT_CLEANUP",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
}

// clearEnv blanks every variable LoadConfig reads; getEnv treats an empty
// value as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
	}
}

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with default config, got: %v", err)
	}

	if config.Server.Host != "localhost" {
		t.Errorf("Expected default host 'localhost', got %s", config.Server.Host)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Expected default port '8080', got %s", config.Server.Port)
	}

	if config.Server.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %s", config.Server.Environment)
	}

	if config.Database.Driver != "postgres" {
		t.Errorf("Expected default DB driver 'postgres', got %s", config.Database.Driver)
	}

	if config.Database.Name != "taskflow" {
		t.Errorf("Expected default DB name 'taskflow', got %s", config.Database.Name)
	}

	if config.Database.MaxOpenConns != 25 {
		t.Errorf("Expected default max open conns 25, got %d", config.Database.MaxOpenConns)
	}

	if config.Redis.Enabled {
		t.Error("Expected Redis to be disabled by default")
	}

	if config.Redis.Port != "6379" {
		t.Errorf("Expected default Redis port '6379', got %s", config.Redis.Port)
	}

	if config.Auth.AccessTokenTTL != time.Hour {
		t.Errorf("Expected default access token TTL 1h, got %v", config.Auth.AccessTokenTTL)
	}

	if config.Auth.Issuer != "taskflow-backend" {
		t.Errorf("Expected default issuer 'taskflow-backend', got %s", config.Auth.Issuer)
	}

	if config.Auth.BCryptCost != 10 {
		t.Errorf("Expected default bcrypt cost 10, got %d", config.Auth.BCryptCost)
	}

	if !config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be enabled by default")
	}

	if len(config.CORS.AllowedOrigins) != 1 || config.CORS.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("Unexpected default CORS origins: %v", config.CORS.AllowedOrigins)
	}

	if config.Log.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %s", config.Log.Output)
	}
}

func TestLoadConfig_CustomEnvironment(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{
		"HOST":                 "0.0.0.0",
		"PORT":                 "9000",
		"ENVIRONMENT":          "production",
		"DB_DRIVER":            "SQLite",
		"DB_SQLITE_PATH":       "/var/lib/taskflow/app.db",
		"DB_MAX_OPEN_CONNS":    "50",
		"REDIS_ENABLED":        "true",
		"REDIS_HOST":           "redis.example.com",
		"REDIS_DB":             "1",
		"JWT_SECRET":           "super-secret-key",
		"RATE_LIMIT_ENABLED":   "false",
		"RATE_LIMIT_RPM":       "200",
		"READ_TIMEOUT":         "45s",
		"ACCESS_TOKEN_TTL":     "30m",
		"REFRESH_TOKEN_TTL":    "720h",
		"CORS_ALLOWED_ORIGINS": "https://app.example.com, https://admin.example.com",
	})

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with custom config, got: %v", err)
	}

	if config.Server.Port != "9000" {
		t.Errorf("Expected port '9000', got %s", config.Server.Port)
	}

	if config.Database.Driver != "sqlite" {
		t.Errorf("Expected driver to be normalized to 'sqlite', got %s", config.Database.Driver)
	}

	if config.GetDatabaseDSN() != "/var/lib/taskflow/app.db" {
		t.Errorf("Expected sqlite DSN to be the file path, got %s", config.GetDatabaseDSN())
	}

	if config.Database.MaxOpenConns != 50 {
		t.Errorf("Expected max open conns 50, got %d", config.Database.MaxOpenConns)
	}

	if !config.Redis.Enabled || config.Redis.DB != 1 {
		t.Errorf("Expected Redis enabled on DB 1, got enabled=%v db=%d", config.Redis.Enabled, config.Redis.DB)
	}

	if config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be disabled")
	}

	if config.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Expected read timeout 45s, got %v", config.Server.ReadTimeout)
	}

	if config.Auth.AccessTokenTTL != 30*time.Minute {
		t.Errorf("Expected access token TTL 30m, got %v", config.Auth.AccessTokenTTL)
	}

	if config.Auth.RefreshTokenTTL != 720*time.Hour {
		t.Errorf("Expected refresh token TTL 720h, got %v", config.Auth.RefreshTokenTTL)
	}

	if len(config.CORS.AllowedOrigins) != 2 || config.CORS.AllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("Unexpected CORS origins: %v", config.CORS.AllowedOrigins)
	}
}

func TestLoadConfig_ProductionValidation(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  "secure-jwt-secret",
	})

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error for missing database password in production")
	}

	if err.Error() != "database password is required in production" {
		t.Errorf("Expected specific error message, got: %v", err)
	}
}

func TestLoadConfig_ProductionJWTValidation(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{
		"ENVIRONMENT": "production",
		"DB_PASSWORD": "secure-db-password",
	})

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error for default JWT secret in production")
	}

	if err.Error() != "JWT secret must be set in production" {
		t.Errorf("Expected specific error message, got: %v", err)
	}
}

func TestLoadConfig_UnsupportedDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for unsupported database driver")
	}
}

func TestConfig_GetDatabaseDSN(t *testing.T) {
	config := &Config{
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
			SSLMode:  "require",
		},
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require"
	actual := config.GetDatabaseDSN()

	if actual != expected {
		t.Errorf("Expected DSN '%s', got '%s'", expected, actual)
	}
}

func TestConfig_GetMigrationURL(t *testing.T) {
	config := &Config{
		Database: DatabaseConfig{
			Host:     "db",
			Port:     "5432",
			User:     "app",
			Password: "p@ss word",
			Name:     "taskflow",
			SSLMode:  "disable",
		},
	}

	expected := "pgx5://app:p%40ss%20word@db:5432/taskflow?sslmode=disable"
	if actual := config.GetMigrationURL(); actual != expected {
		t.Errorf("Expected migration URL '%s', got '%s'", expected, actual)
	}
}

func TestConfig_Addrs(t *testing.T) {
	config := &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: "9000"},
		Redis:  RedisConfig{Host: "redis.example.com", Port: "6380"},
	}

	if addr := config.GetServerAddr(); addr != "0.0.0.0:9000" {
		t.Errorf("Expected server addr '0.0.0.0:9000', got '%s'", addr)
	}

	if addr := config.GetRedisAddr(); addr != "redis.example.com:6380" {
		t.Errorf("Expected Redis addr 'redis.example.com:6380', got '%s'", addr)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		environment string
		expected    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}

	for _, test := range tests {
		config := &Config{Server: ServerConfig{Environment: test.environment}}

		if actual := config.IsProduction(); actual != test.expected {
			t.Errorf("For environment '%s', expected IsProduction() = %v, got %v",
				test.environment, test.expected, actual)
		}
	}
}

func TestGetEnvAsInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "")
	if result := getEnvAsInt(key, 42); result != 42 {
		t.Errorf("Expected default value 42, got %d", result)
	}

	t.Setenv(key, "100")
	if result := getEnvAsInt(key, 42); result != 100 {
		t.Errorf("Expected env value 100, got %d", result)
	}

	t.Setenv(key, "not-a-number")
	if result := getEnvAsInt(key, 42); result != 42 {
		t.Errorf("Expected default value 42 for invalid int, got %d", result)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	testCases := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
		{"invalid", true},
	}

	for _, tc := range testCases {
		t.Setenv(key, tc.value)
		if result := getEnvAsBool(key, true); result != tc.expected {
			t.Errorf("For value '%s', expected %v, got %v", tc.value, tc.expected, result)
		}
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"

	t.Setenv(key, "5m")
	if result := getEnvAsDuration(key, time.Second); result != 5*time.Minute {
		t.Errorf("Expected env value 5m, got %v", result)
	}

	t.Setenv(key, "not-a-duration")
	if result := getEnvAsDuration(key, time.Second); result != time.Second {
		t.Errorf("Expected default value for invalid duration, got %v", result)
	}
}

func TestGetEnvAsSlice(t *testing.T) {
	key := "TEST_SLICE_VAR"

	t.Setenv(key, " a , ,b ")
	result := getEnvAsSlice(key, []string{"x"})
	if len(result) != 2 || result[0] != "a" || result[1] != "b" {
		t.Errorf("Expected [a b], got %v", result)
	}

	t.Setenv(key, " , ")
	result = getEnvAsSlice(key, []string{"x"})
	if len(result) != 1 || result[0] != "x" {
		t.Errorf("Expected default for blank list, got %v", result)
	}
}

func BenchmarkGetDatabaseDSN(b *testing.B) {
	config := &Config{
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     "5432",
			User:     "user",
			Password: "password",
			Name:     "database",
			SSLMode:  "disable",
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = config.GetDatabaseDSN()
	}
}
