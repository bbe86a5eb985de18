package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-with-32-chars!!!"

func TestLoad_DefaultsWithEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, "gpt-4", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 0.7, cfg.Coach.Temperature)
	assert.Equal(t, 500, cfg.Coach.ChatMaxTokens)
	assert.Equal(t, 1000, cfg.Coach.PlanMaxTokens)
	assert.Equal(t, 7*24*time.Hour, cfg.Coach.ProgressWindow)
	assert.Equal(t, 10, cfg.Coach.HistoryMessages)
	assert.Zero(t, cfg.Database.Port)
	assert.Greater(t, cfg.Coach.LockTTL, cfg.LLM.Timeout)
}

func TestLoad_MongoDefaultPort(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_DRIVER", "mongodb")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URL", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.DSN())
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SECRET_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Database: config.DatabaseConfig{Driver: "sqlite"},
			Auth:     config.AuthConfig{JWTSecret: testSecret, AccessTokenTTL: 30 * time.Minute},
			LLM:      config.LLMConfig{Timeout: time.Minute},
			Coach:    config.CoachConfig{MaxContextChars: 4000},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"valid", func(c *config.Config) {}, false},
		{"short secret", func(c *config.Config) { c.Auth.JWTSecret = "your-secret-key" }, true},
		{"unknown driver", func(c *config.Config) { c.Database.Driver = "oracle" }, true},
		{"zero ttl", func(c *config.Config) { c.Auth.AccessTokenTTL = 0 }, true},
		{"zero context cap", func(c *config.Config) { c.Coach.MaxContextChars = 0 }, true},
		{"zero llm timeout", func(c *config.Config) { c.LLM.Timeout = 0 }, true},
		{"lock ttl ignored without redis", func(c *config.Config) { c.Coach.LockTTL = time.Second }, false},
		{"lock ttl shorter than llm timeout", func(c *config.Config) {
			c.Redis.Enabled = true
			c.Coach.LockTTL = 30 * time.Second
		}, true},
		{"lock ttl equal to llm timeout", func(c *config.Config) {
			c.Redis.Enabled = true
			c.Coach.LockTTL = time.Minute
		}, true},
		{"lock ttl outlives llm timeout", func(c *config.Config) {
			c.Redis.Enabled = true
			c.Coach.LockTTL = 90 * time.Second
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := config.DatabaseConfig{Driver: "postgres", User: "u", Password: "p", Host: "db", Port: 5432, Database: "fit", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/fit?sslmode=disable", pg.DSN())

	mongo := config.DatabaseConfig{Driver: "mongodb", Host: "localhost", Port: 27017}
	assert.Equal(t, "mongodb://localhost:27017", mongo.DSN())

	mysql := config.DatabaseConfig{Driver: "mysql", User: "u", Password: "p", Host: "db", Port: 3306, Database: "fit"}
	assert.Equal(t, "u:p@tcp(db:3306)/fit", mysql.DSN())

	mongoDefault := config.DatabaseConfig{Driver: "mongodb", Host: "localhost"}
	assert.Equal(t, "mongodb://localhost:27017", mongoDefault.DSN())

	mysqlDefault := config.DatabaseConfig{Driver: "mysql", User: "u", Password: "p", Host: "db", Database: "fit"}
	assert.Equal(t, "u:p@tcp(db:3306)/fit", mysqlDefault.DSN())

	pgDefault := config.DatabaseConfig{Driver: "postgres", User: "u", Password: "p", Host: "db", Database: "fit", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/fit?sslmode=disable", pgDefault.DSN())

	override := config.DatabaseConfig{Driver: "postgres", URL: "postgres://elsewhere/fit"}
	assert.Equal(t, "postgres://elsewhere/fit", override.DSN())
}
