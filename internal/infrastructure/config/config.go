package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 儲存後端
const (
	StorageBackendGCS = "gcs"
	StorageBackendS3  = "s3"
)

// Config 應用配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	AI       AIConfig       `mapstructure:"ai"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Image    ImageConfig    `mapstructure:"image"`
	LogLevel string         `mapstructure:"log_level"`
	LogFile  string         `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// AIConfig 多模態模型設定（OpenAI 相容 chat completions）
type AIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	// Timeout 為 0 時不設逾時
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig 圖片暫存設定
type StorageConfig struct {
	Backend string    `mapstructure:"backend"`
	GCS     GCSConfig `mapstructure:"gcs"`
	S3      S3Config  `mapstructure:"s3"`
}

// GCSConfig Google Cloud Storage 設定
type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// S3Config S3 / R2 設定
type S3Config struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	PublicACL     bool   `mapstructure:"public_acl"`
}

// DatabaseConfig 資料庫設定
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// CacheConfig 目錄查詢快取設定
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 為選用
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"server.port":                  "PORT",
		"ai.api_key":                   "OPENAI_API_KEY",
		"ai.base_url":                  "OPENAI_BASE_URL",
		"ai.model":                     "OPENAI_MODEL",
		"storage.backend":              "STORAGE_BACKEND",
		"storage.gcs.bucket":           "GCS_BUCKET_NAME",
		"storage.gcs.credentials_file": "GOOGLE_APPLICATION_CREDENTIALS",
		"storage.s3.bucket":            "S3_BUCKET",
		"storage.s3.region":            "S3_REGION",
		"storage.s3.endpoint":          "S3_ENDPOINT",
		"storage.s3.access_key":        "S3_ACCESS_KEY",
		"storage.s3.secret_key":        "S3_SECRET_KEY",
		"storage.s3.public_base_url":   "S3_PUBLIC_BASE_URL",
		"database.url":                 "DATABASE_URL",
		"cache.enabled":                "CACHE_ENABLED",
		"cache.redis_addr":             "REDIS_ADDR",
		"log_level":                    "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "food-detection-api")

	// 伺服器設定
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 12<<20)

	// AI 設定
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-4o")
	v.SetDefault("ai.timeout", "0s")

	// 儲存設定
	v.SetDefault("storage.backend", StorageBackendGCS)
	v.SetDefault("storage.s3.region", "auto")
	v.SetDefault("storage.s3.public_acl", false)

	// 資料庫設定
	v.SetDefault("database.max_conns", 10)

	// 快取設定
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", "10m")

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 10<<20) // 10MB

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "logs/app.log")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return errors.New("server port is required")
	}
	if config.AI.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	if config.AI.Model == "" {
		return errors.New("AI model is required")
	}
	if config.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	switch config.Storage.Backend {
	case StorageBackendGCS:
		if config.Storage.GCS.Bucket == "" {
			return errors.New("GCS_BUCKET_NAME is required for gcs storage")
		}
	case StorageBackendS3:
		if config.Storage.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}

	if config.Cache.Enabled {
		if config.Cache.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when cache is enabled")
		}
		if config.Cache.TTL <= 0 {
			return errors.New("invalid cache ttl")
		}
	}

	if config.Image.MaxSizeBytes <= 0 {
		return errors.New("invalid image max size")
	}

	return nil
}
