package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"quiz-ai/internal/domain"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	RetryPolicyUniform  = "uniform"
	RetryPolicyFailFast = "fail_fast"

	DriverSQLite = "sqlite"
	DriverOracle = "oracle"
)

type Config struct {
	Env    string
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Logger LoggerConfig
	LLM    LLMConfig
	Retry  RetryConfig
	Batch  BatchConfig
	JWT    JWTConfig
	Quota  QuotaConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
}

type DBConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig configures the generative backend. Per-tier values are keyed by
// the tier name ("standard", "high").
type LLMConfig struct {
	Provider        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OllamaServerURL string
	Models          map[string]string
	MaxTokens       map[string]int
	Temperature     float64
	TopP            float64
	Timeout         time.Duration
	Language        string
}

type RetryConfig struct {
	MaxAttempts int
	BackoffBase time.Duration
	// MaxBackoff caps a single wait; zero disables the cap.
	MaxBackoff time.Duration
	Policy     string
}

type BatchConfig struct {
	Pacing      time.Duration
	Concurrency int
	MaxCount    int
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

// QuotaConfig limits how many items one user may generate per window.
// A zero limit disables the quota.
type QuotaConfig struct {
	GenerationsPerWindow int64
	Window               time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.allow_origins", "http://localhost:3000")
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.dsn", "file:quiz.db?_pragma=foreign_keys(1)")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("logger.level", "info")
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.ollama_server_url", "http://localhost:11434")
	v.SetDefault("llm.models.standard", "gpt-3.5-turbo")
	v.SetDefault("llm.models.high", "gpt-4o")
	v.SetDefault("llm.max_tokens.standard", 650)
	v.SetDefault("llm.max_tokens.high", 800)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 1.0)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.language", "Japanese")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff_base", "1s")
	v.SetDefault("retry.max_backoff", "30s")
	v.SetDefault("retry.policy", RetryPolicyUniform)
	v.SetDefault("batch.pacing", "1500ms")
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("batch.max_count", 10)
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("quota.generations_per_window", 50)
	v.SetDefault("quota.window", "1h")
}

// LoadConfig reads config.yaml from the working directory or ./config and
// lets environment variables override any key (llm.openai_api_key ->
// LLM_OPENAI_API_KEY). A missing file is not an error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	// The credential names used by the original deployment.
	_ = v.BindEnv("llm.openai_api_key", "LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("jwt.secret_key", "JWT_SECRET_KEY", "JWT_SECRET")
	_ = v.BindEnv("db.dsn", "DB_DSN", "DATABASE_PATH")

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	env := v.GetString("env")
	return &Config{
		Env: env,
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			AllowOrigins: v.GetString("server.allow_origins"),
		},
		DB: DBConfig{
			Driver: v.GetString("db.driver"),
			DSN:    v.GetString("db.dsn"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   env,
		},
		LLM: LLMConfig{
			Provider:        v.GetString("llm.provider"),
			OpenAIAPIKey:    v.GetString("llm.openai_api_key"),
			OpenAIBaseURL:   v.GetString("llm.openai_base_url"),
			OllamaServerURL: v.GetString("llm.ollama_server_url"),
			Models: map[string]string{
				"standard": v.GetString("llm.models.standard"),
				"high":     v.GetString("llm.models.high"),
			},
			MaxTokens: map[string]int{
				"standard": v.GetInt("llm.max_tokens.standard"),
				"high":     v.GetInt("llm.max_tokens.high"),
			},
			Temperature: v.GetFloat64("llm.temperature"),
			TopP:        v.GetFloat64("llm.top_p"),
			Timeout:     v.GetDuration("llm.timeout"),
			Language:    v.GetString("llm.language"),
		},
		Retry: RetryConfig{
			MaxAttempts: v.GetInt("retry.max_attempts"),
			BackoffBase: v.GetDuration("retry.backoff_base"),
			MaxBackoff:  v.GetDuration("retry.max_backoff"),
			Policy:      v.GetString("retry.policy"),
		},
		Batch: BatchConfig{
			Pacing:      v.GetDuration("batch.pacing"),
			Concurrency: v.GetInt("batch.concurrency"),
			MaxCount:    v.GetInt("batch.max_count"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
			TTL:       v.GetDuration("jwt.ttl"),
		},
		Quota: QuotaConfig{
			GenerationsPerWindow: v.GetInt64("quota.generations_per_window"),
			Window:               v.GetDuration("quota.window"),
		},
	}
}

// Validate reports configuration problems that must stop the process.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderOllama:
		if c.LLM.OllamaServerURL == "" {
			return errors.New("llm.ollama_server_url is required for the ollama provider")
		}
	default:
		return fmt.Errorf("unknown llm provider: %q", c.LLM.Provider)
	}

	switch c.Retry.Policy {
	case RetryPolicyUniform, RetryPolicyFailFast:
	default:
		return fmt.Errorf("unknown retry policy: %q", c.Retry.Policy)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Batch.MaxCount < 1 || c.Batch.MaxCount > domain.MaxBatchCount {
		return fmt.Errorf("batch.max_count must be between 1 and %d, got %d", domain.MaxBatchCount, c.Batch.MaxCount)
	}

	switch c.DB.Driver {
	case DriverSQLite, DriverOracle:
	default:
		return fmt.Errorf("unsupported db driver: %q", c.DB.Driver)
	}

	if c.JWT.SecretKey == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Env == "production" && len(c.JWT.SecretKey) < 32 {
		return errors.New("production requires a JWT secret of at least 32 characters")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
