package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"carscout/models"
	"carscout/storage"
)

type Config struct {
	DatabaseURL string
	DBPath      string
	LogLevel    string
	LogPath     string

	Scheduler SchedulerConfig
	Walker    WalkerConfig
	Fetcher   FetcherConfig
	Backoff   BackoffConfig
	Media     MediaConfig

	ProxyURL string
	S3       storage.S3Config

	Brands []models.Brand
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type WalkerConfig struct {
	MinDelay     time.Duration
	MaxDelay     time.Duration
	ReadyTimeout time.Duration
	Headless     bool
}

type FetcherConfig struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	RotateEvery int
}

type BackoffConfig struct {
	MaxAttempts int
	MaxElapsed  time.Duration
	BaseDelay   time.Duration
	Factor      float64
}

type MediaConfig struct {
	Enabled   bool
	BatchSize int
	Interval  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBPath:      getEnv("DB_PATH", "carscout.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogPath:     getEnv("LOG_PATH", "carscout.log"),
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SCRAPE_CRON"),
		},
		Walker: WalkerConfig{
			MinDelay:     getEnvDurationMS("PAGE_MIN_DELAY_MS", 1000),
			MaxDelay:     getEnvDurationMS("PAGE_MAX_DELAY_MS", 3000),
			ReadyTimeout: getEnvDurationMS("PAGE_READY_TIMEOUT_MS", 15000),
			Headless:     getEnv("HEADLESS", "true") == "true",
		},
		Fetcher: FetcherConfig{
			MinDelay:    getEnvDurationMS("DETAIL_MIN_DELAY_MS", 500),
			MaxDelay:    getEnvDurationMS("DETAIL_MAX_DELAY_MS", 1500),
			RotateEvery: getEnvInt("SESSION_ROTATE_EVERY", 500),
		},
		Backoff: BackoffConfig{
			MaxAttempts: getEnvInt("BACKOFF_MAX_ATTEMPTS", 3),
			MaxElapsed:  getEnvDurationMS("BACKOFF_MAX_ELAPSED_MS", 60000),
			BaseDelay:   getEnvDurationMS("BACKOFF_BASE_DELAY_MS", 1000),
			Factor:      getEnvFloat("BACKOFF_FACTOR", 2.0),
		},
		Media: MediaConfig{
			Enabled:   os.Getenv("S3_BUCKET") != "",
			BatchSize: getEnvInt("MEDIA_BATCH_SIZE", 50),
			Interval:  getEnvDurationMS("MEDIA_INTERVAL_MS", 300000),
		},
		ProxyURL: os.Getenv("PROXY_URL"),
		S3: storage.S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
	}

	if interval := os.Getenv("SCRAPE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	brands, err := loadBrands(getEnv("BRANDS_FILE", "config/brands.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.Brands = brands

	return cfg, nil
}

// loadBrands reads the brand seed list. A missing file is not an error so a
// fresh checkout can still start; the walk simply has nothing to do.
func loadBrands(path string) ([]models.Brand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read brands file: %w", err)
	}

	var seed struct {
		Brands []models.Brand `yaml:"brands"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse brands file: %w", err)
	}
	return seed.Brands, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDurationMS(key string, defaultMS int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMS)) * time.Millisecond
}
