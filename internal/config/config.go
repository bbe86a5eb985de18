package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

// minSecretLength is the HS256 key size
const minSecretLength = 32

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Coach    CoachConfig    `mapstructure:"coach"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects and configures the persistence backend.
// Driver is one of postgres, mongodb, sqlite or mysql.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	URL            string `mapstructure:"url"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Database       string `mapstructure:"database"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConns       int32  `mapstructure:"max_conns"`
	MinConns       int32  `mapstructure:"min_conns"`
	MigrationsPath string `mapstructure:"migrations_path"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

// defaultPorts are used when database.port is unset
var defaultPorts = map[string]int{
	"postgres": 5432,
	"mongodb":  27017,
	"mysql":    3306,
}

// DSN returns the connection string for the configured driver.
// An explicit URL always wins. A zero port means the driver's default.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Port == 0 {
		c.Port = defaultPorts[c.Driver]
		if c.Port == 0 {
			c.Port = defaultPorts["postgres"]
		}
	}
	switch c.Driver {
	case "mongodb":
		if c.User != "" && c.Password != "" {
			return fmt.Sprintf("mongodb://%s:%s@%s:%d", c.User, c.Password, c.Host, c.Port)
		}
		return fmt.Sprintf("mongodb://%s:%d", c.Host, c.Port)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", c.User, c.Password, c.Host, c.Port, c.Database)
	case "sqlite":
		return c.Database
	default:
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
		)
	}
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
}

type LLMConfig struct {
	DefaultProvider string          `mapstructure:"default_provider"`
	Timeout         time.Duration   `mapstructure:"timeout"`
	OpenAI          OpenAIConfig    `mapstructure:"openai"`
	Anthropic       AnthropicConfig `mapstructure:"anthropic"`
	Ollama          OllamaConfig    `mapstructure:"ollama"`
	DeepSeek        DeepSeekConfig  `mapstructure:"deepseek"`
	Gemini          GeminiConfig    `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

type DeepSeekConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CoachConfig holds the generation parameters and context bounds
type CoachConfig struct {
	Temperature     float64       `mapstructure:"temperature"`
	ChatMaxTokens   int           `mapstructure:"chat_max_tokens"`
	PlanMaxTokens   int           `mapstructure:"plan_max_tokens"`
	ProgressWindow  time.Duration `mapstructure:"progress_window"`
	HistoryMessages int           `mapstructure:"history_messages"`
	MaxContextChars int           `mapstructure:"max_context_chars"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   string        `mapstructure:"file"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file path
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the server must not start with.
// There is no fallback signing secret.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) must be set")
	}
	if len(c.Auth.JWTSecret) < minSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", minSecretLength)
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return errors.New("auth.access_token_ttl must be positive")
	}

	switch c.Database.Driver {
	case "postgres", "mongodb", "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.Coach.MaxContextChars <= 0 {
		return errors.New("coach.max_context_chars must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	// A lock that expires mid-call lets a second generation run concurrently.
	if c.Redis.Enabled && c.Coach.LockTTL <= c.LLM.Timeout {
		return fmt.Errorf("coach.lock_ttl (%s) must exceed llm.timeout (%s)", c.Coach.LockTTL, c.LLM.Timeout)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "fitness")
	v.SetDefault("database.database", "fitness_ai")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.migrations_path", "file://migrations")
	v.SetDefault("database.auto_migrate", false)

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Auth
	v.SetDefault("auth.access_token_ttl", "30m")
	v.SetDefault("auth.issuer", "fitness-coach")

	// LLM
	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.openai.model", "gpt-4")
	v.SetDefault("llm.ollama.default_model", "llama3")

	// Coach
	v.SetDefault("coach.temperature", 0.7)
	v.SetDefault("coach.chat_max_tokens", 500)
	v.SetDefault("coach.plan_max_tokens", 1000)
	v.SetDefault("coach.progress_window", "168h") // 7 days
	v.SetDefault("coach.history_messages", 10)
	v.SetDefault("coach.max_context_chars", 4000)
	v.SetDefault("coach.lock_ttl", "90s")

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 60)
	v.SetDefault("security.rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_age", "168h")
}

func bindEnvVars(v *viper.Viper) {
	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.url", "DATABASE_URL", "MONGODB_URL")
	v.BindEnv("database.password", "POSTGRES_PASSWORD")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET", "SECRET_KEY")

	// LLM API Keys
	v.BindEnv("llm.default_provider", "LLM_PROVIDER")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.deepseek.api_key", "DEEPSEEK_API_KEY")
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.ollama.host", "OLLAMA_HOST")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.file", "LOG_FILE")
}
