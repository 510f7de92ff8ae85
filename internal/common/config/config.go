// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Server     ServerConfig            `mapstructure:"server"`
	Providers  ProvidersConfig         `mapstructure:"providers"`
	RateLimit  RateLimitConfig         `mapstructure:"rate_limit"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Generation GenerationConfig        `mapstructure:"generation"`
	Registry   RegistryConfig          `mapstructure:"registry"`
	Logging    LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address       string `mapstructure:"address"`
	ReadTimeout   int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout  int    `mapstructure:"write_timeout"` // milliseconds
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// ProvidersConfig describes the AI providers and the retry policy applied to each.
type ProvidersConfig struct {
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Groq    GroqConfig    `mapstructure:"groq"`
	Mistral MistralConfig `mapstructure:"mistral"`

	// Order lists provider ids in fallback priority.
	Order          []string `mapstructure:"order"`
	MaxRetries     int      `mapstructure:"max_retries"`
	RetryDelays    []int    `mapstructure:"retry_delays"`    // milliseconds, indexed by attempt
	ConnectTimeout int      `mapstructure:"connect_timeout"` // milliseconds
	RequestTimeout int      `mapstructure:"request_timeout"` // milliseconds
	Temperature    float64  `mapstructure:"temperature"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type GroqConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Models  struct {
		Llama70B string `mapstructure:"llama_70b"`
		Llama8B  string `mapstructure:"llama_8b"`
		Mixtral  string `mapstructure:"mixtral"`
	} `mapstructure:"models"`
}

type MistralConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type RateLimitConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Window        int    `mapstructure:"window"` // milliseconds
	Store         string `mapstructure:"store"`  // memory | redis
	KeyPrefix     string `mapstructure:"key_prefix"`
	RequireUserID bool   `mapstructure:"require_user_id"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CamundaConfig enables the optional Zeebe job transport for the actions.
type CamundaConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	BrokerAddress string `mapstructure:"broker_address"`
	MaxJobsActive int    `mapstructure:"max_jobs_active"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
}

// WorkerConfig holds the settings applicable to every action worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type GenerationConfig struct {
	// FallbackTemplates makes roadmap and article generation answer with a
	// template document when every provider is exhausted.
	FallbackTemplates bool `mapstructure:"fallback_templates"`
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
