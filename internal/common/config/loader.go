// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider ids accepted in providers.order.
const (
	ProviderGemini       = "gemini"
	ProviderGroqLlama70B = "groq_llama_70b"
	ProviderGroqLlama8B  = "groq_llama_8b"
	ProviderGroqMixtral  = "groq_mixtral"
	ProviderMistral      = "mistral"
)

// DefaultProviderOrder is the fallback sequence used when none is configured.
var DefaultProviderOrder = []string{
	ProviderGemini, ProviderGroqLlama70B, ProviderGroqLlama8B, ProviderGroqMixtral, ProviderMistral,
}

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "eduai-nanolez")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 180000)
	v.SetDefault("server.allowed_origin", "*")

	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("providers.gemini.model", "gemini-2.5-flash-preview-09-2025")
	v.SetDefault("providers.groq.api_key", "")
	v.SetDefault("providers.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("providers.groq.models.llama_70b", "llama-3.1-70b-versatile")
	v.SetDefault("providers.groq.models.llama_8b", "llama-3.1-8b-instant")
	v.SetDefault("providers.groq.models.mixtral", "mixtral-8x7b-32768")
	v.SetDefault("providers.mistral.api_key", "")
	v.SetDefault("providers.mistral.base_url", "https://api.mistral.ai/v1")
	v.SetDefault("providers.mistral.model", "mistral-large-latest")
	v.SetDefault("providers.order", DefaultProviderOrder)
	v.SetDefault("providers.max_retries", 3)
	v.SetDefault("providers.retry_delays", []int{1000, 2000, 4000})
	v.SetDefault("providers.connect_timeout", 30000)
	v.SetDefault("providers.request_timeout", 60000)
	v.SetDefault("providers.temperature", 0.7)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window", 5000)
	v.SetDefault("rate_limit.store", "memory")
	v.SetDefault("rate_limit.key_prefix", "ratelimit:")
	v.SetDefault("rate_limit.require_user_id", false)

	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.postgres.enabled", false)
	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")

	v.SetDefault("camunda.enabled", false)
	v.SetDefault("camunda.broker_address", "")

	v.SetDefault("generation.fallback_templates", false)
	v.SetDefault("registry.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig falls back to the conventional environment variable
// names when the structured keys are still empty.
func overrideEmptyConfig(cfg *Config) {
	fill := func(dst *string, envKey string) {
		if *dst == "" {
			if val := os.Getenv(envKey); val != "" {
				*dst = val
			}
		}
	}

	fill(&cfg.Providers.Gemini.APIKey, "GEMINI_API_KEY")
	fill(&cfg.Providers.Groq.APIKey, "GROQ_API_KEY")
	fill(&cfg.Providers.Mistral.APIKey, "MISTRAL_API_KEY")

	fill(&cfg.Database.Postgres.Host, "DB_HOST")
	fill(&cfg.Database.Postgres.Database, "DB_NAME")
	fill(&cfg.Database.Postgres.User, "DB_USER")
	fill(&cfg.Database.Postgres.Password, "DB_PASS")
	fill(&cfg.Database.Redis.Address, "REDIS_ADDRESS")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if len(cfg.Providers.Order) == 0 {
		cfg.Providers.Order = append([]string(nil), DefaultProviderOrder...)
	}
	if cfg.Providers.MaxRetries <= 0 {
		cfg.Providers.MaxRetries = 3
	}
	if len(cfg.Providers.RetryDelays) == 0 {
		cfg.Providers.RetryDelays = []int{1000, 2000, 4000}
	}
	if cfg.Providers.ConnectTimeout == 0 {
		cfg.Providers.ConnectTimeout = 30000
	}
	if cfg.Providers.RequestTimeout == 0 {
		cfg.Providers.RequestTimeout = 60000
	}

	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = 5000
	}
	if cfg.RateLimit.Store == "" {
		cfg.RateLimit.Store = "memory"
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 5
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 180000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = cfg.Camunda.MaxJobsActive
		}
		if worker.Timeout == 0 {
			worker.Timeout = cfg.Camunda.Timeout
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 1
		}
		cfg.Workers[key] = worker
	}
}

func validateConfig(cfg *Config) error {
	known := map[string]bool{}
	for _, id := range DefaultProviderOrder {
		known[id] = true
	}
	for _, id := range cfg.Providers.Order {
		if !known[id] {
			return fmt.Errorf("providers.order: unknown provider %q", id)
		}
	}
	if len(cfg.Providers.RetryDelays) < cfg.Providers.MaxRetries-1 {
		return fmt.Errorf("providers.retry_delays needs at least %d entries", cfg.Providers.MaxRetries-1)
	}

	switch cfg.RateLimit.Store {
	case "memory":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required when rate_limit.store is redis")
		}
	default:
		return fmt.Errorf("rate_limit.store must be memory or redis, got %q", cfg.RateLimit.Store)
	}

	if cfg.Database.Postgres.Enabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	}

	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: cfg.Camunda.MaxJobsActive,
		Timeout:       cfg.Camunda.Timeout,
		MaxRetries:    1,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
