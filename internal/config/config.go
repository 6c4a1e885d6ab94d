package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Model  ModelConfig
	Vision VisionConfig
	Budget BudgetConfig
	Period PeriodConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for the document store.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// ModelConfig holds settings for the external document model.
type ModelConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxTokens    int    `mapstructure:"max_tokens"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	CallTimeout  int    `mapstructure:"call_timeout_secs"` // per-call budget inside a job
}

// VisionConfig holds PDF rasterization settings.
type VisionConfig struct {
	PdftoppmPath string `mapstructure:"pdftoppm_path"`
	DPI          int    `mapstructure:"dpi"`
	MaxPages     int    `mapstructure:"max_pages"`
}

// BudgetConfig holds token budget estimation settings for batch mode.
type BudgetConfig struct {
	TokenCeiling   int `mapstructure:"token_ceiling"`
	TokensPerImage int `mapstructure:"tokens_per_image"`
}

// PeriodConfig holds period-analyzer settings.
type PeriodConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the DEALDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEALDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 50)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "dealdesk")
	v.SetDefault("db.password", "dealdesk_secret")
	v.SetDefault("db.name", "dealdesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "dealdesk-uploads")
	v.SetDefault("s3.endpoint", "")

	// Model defaults
	v.SetDefault("model.provider", "claude")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("model.max_tokens", 16384)
	v.SetDefault("model.timeout_secs", 300)
	v.SetDefault("model.call_timeout_secs", 180)

	// Vision defaults
	v.SetDefault("vision.pdftoppm_path", "pdftoppm")
	v.SetDefault("vision.dpi", 200)
	v.SetDefault("vision.max_pages", 10)

	// Budget defaults
	v.SetDefault("budget.token_ceiling", 150000)
	v.SetDefault("budget.tokens_per_image", 1500)

	// Period analyzer defaults
	v.SetDefault("period.enabled", true)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Vision.MaxPages <= 0 {
		cfg.Vision.MaxPages = 10
	}
	if cfg.Budget.TokenCeiling <= 0 {
		cfg.Budget.TokenCeiling = 150000
	}
	return &cfg, nil
}
