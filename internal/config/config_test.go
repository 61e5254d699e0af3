package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
  debug: true
  log_level: debug
database:
  url: postgres://localhost/quiz_test?sslmode=disable
redis:
  enabled: true
  addr: localhost:6380
quiz:
  question_pool_size: 7
  leaderboard_limit: 25
`)
	t.Setenv("QUIZ_CONFIG_FILE", path)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost/quiz_test?sslmode=disable", cfg.Database.URL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, 7, cfg.Quiz.QuestionPoolSize)
	assert.Equal(t, 25, cfg.Quiz.LeaderboardLimit)
}

func TestNewConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  url: postgres://localhost/quiz_test?sslmode=disable
`)
	t.Setenv("QUIZ_CONFIG_FILE", path)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, DefaultMaxOpenConns, cfg.Database.MaxOpenConns)
	assert.Equal(t, DefaultMaxIdleConns, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, DefaultQuestionPoolSize, cfg.Quiz.QuestionPoolSize)
	assert.Equal(t, DefaultLeaderboardLimit, cfg.Quiz.LeaderboardLimit)
	assert.Equal(t, "grpc", cfg.OpenTelemetry.Protocol)
	assert.Equal(t, 1.0, cfg.OpenTelemetry.SamplingRate)
	assert.False(t, cfg.Redis.Enabled)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "8080"
database:
  url: postgres://localhost/from_file?sslmode=disable
`)
	t.Setenv("QUIZ_CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://localhost/from_env?sslmode=disable")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("QUIZ_QUESTION_POOL_SIZE", "11")
	t.Setenv("SERVER_CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/from_env?sslmode=disable", cfg.Database.URL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 11, cfg.Quiz.QuestionPoolSize)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
}

func TestNewConfig_MissingDatabaseURL(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "8080"
`)
	t.Setenv("QUIZ_CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.Database.URL = "postgres://localhost/quiz?sslmode=disable"
	assert.NoError(t, cfg.Validate())
}
