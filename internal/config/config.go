package config

import (
	"fmt"
	"time"

	"kidlearn_backend/internal/validation"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Storage    StorageConfig         `mapstructure:"storage"`
	Tracing    TracingConfig         `mapstructure:"tracing"`
	Redis      RedisConfig
	CORS       CORSConfig            `mapstructure:"cors"`
	RateLimit  RateLimitConfig       `mapstructure:"rate_limit"`
	Validation validation.Thresholds `mapstructure:"validation"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("KIDLEARN")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Validation thresholds default to the shipped policy; the config
	// file only needs the values being tuned.
	defaults := validation.DefaultThresholds()
	viper.SetDefault("validation.max_time_spent_seconds", defaults.MaxTimeSpentSeconds)
	viper.SetDefault("validation.max_paused_duration_seconds", defaults.MaxPausedDurationSeconds)
	viper.SetDefault("validation.max_focus_events", defaults.MaxFocusEvents)
	viper.SetDefault("validation.max_difficulty_adjustments", defaults.MaxDifficultyAdjustments)
	viper.SetDefault("validation.max_help_requests", defaults.MaxHelpRequests)
	viper.SetDefault("validation.max_interaction_events", defaults.MaxInteractionEvents)
	viper.SetDefault("validation.max_help_requests_count", defaults.MaxHelpRequestsCount)
	viper.SetDefault("validation.max_pause_count", defaults.MaxPauseCount)
	viper.SetDefault("validation.max_resume_count", defaults.MaxResumeCount)
	viper.SetDefault("validation.score_regression_limit", defaults.ScoreRegressionLimit)
	viper.SetDefault("validation.min_time_ratio", defaults.MinTimeRatio)
	viper.SetDefault("validation.max_time_ratio", defaults.MaxTimeRatio)
	viper.SetDefault("validation.time_drift_fraction", defaults.TimeDriftFraction)
	viper.SetDefault("validation.min_time_drift_seconds", defaults.MinTimeDriftSeconds)
	viper.SetDefault("validation.help_count_tolerance", defaults.HelpCountTolerance)
	viper.SetDefault("validation.help_penalty_per_request", defaults.HelpPenaltyPerRequest)
	viper.SetDefault("validation.help_penalty_cap", defaults.HelpPenaltyCap)
	viper.SetDefault("validation.help_score_tolerance", defaults.HelpScoreTolerance)
	viper.SetDefault("validation.quick_completion_seconds", defaults.QuickCompletionSeconds)
	viper.SetDefault("validation.suspicious_score", defaults.SuspiciousScore)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}
