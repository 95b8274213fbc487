package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Database    DatabaseConfig   `json:"database"`
	JWTSecret   string           `json:"jwt_secret"`
	Port        int              `json:"port"`
	LogConfig   logger.LogConfig `json:"log_config"`
	FileStore   FileStoreConfig  `json:"file_store"`
	AI          AIConfig         `json:"ai"`
	Quota       QuotaConfig      `json:"quota"`
	Retention   RetentionConfig  `json:"retention"`
	CORSOrigins []string         `json:"cors_origins"`
	// Minimum seconds between summarize requests from the same caller, 0 = off.
	RateLimitSeconds int `json:"rate_limit_seconds"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Provider string      `json:"provider"`
	Data     interface{} `json:"data"`
	Model    string      `json:"model"`
	// Request deadlines for the summary and insight completion calls.
	TimeoutSeconds        int `json:"timeout_seconds"`
	InsightTimeoutSeconds int `json:"insight_timeout_seconds"`
	MaxInputChars         int `json:"max_input_chars"`
}

type QuotaConfig struct {
	// Plans with tier_rank >= InsightMinTier get key insights on every summary.
	InsightMinTier int `json:"insight_min_tier"`
}

type RetentionConfig struct {
	// Days to keep raw uploaded PDFs. <= 0 keeps them forever.
	Days     int    `json:"days"`
	CronSpec string `json:"cron_spec"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.AI.InsightTimeoutSeconds == 0 {
		cfg.AI.InsightTimeoutSeconds = 30
	}
	if cfg.AI.MaxInputChars == 0 {
		cfg.AI.MaxInputChars = 15000
	}
	if cfg.Quota.InsightMinTier == 0 {
		cfg.Quota.InsightMinTier = 2
	}
	if cfg.Retention.CronSpec == "" {
		cfg.Retention.CronSpec = "0 3 * * *"
	}
	return &cfg, nil
}
