package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/feichai0017/document-printer/internal/printer"
	"github.com/feichai0017/document-printer/pkg/logger"
)

const envPrefix = "DP_"

var (
	appOnce   sync.Once
	appConfig *Config
	appErr    error
)

type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Printer printer.Config `yaml:"printer"`
	Redis   RedisConfig    `yaml:"redis"`
	Queue   QueueConfig    `yaml:"queue"`
	Storage StorageConfig  `yaml:"storage"`
	Log     logger.Config  `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxUploadSize   int64         `yaml:"max_upload_size"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type QueueConfig struct {
	Concurrency int            `yaml:"concurrency"`
	MaxRetry    int            `yaml:"max_retry"`
	StatusTTL   time.Duration  `yaml:"status_ttl"`
	Queues      map[string]int `yaml:"queues"`
}

type StorageConfig struct {
	Adapter string      `yaml:"adapter"` // local | s3 | minio
	Local   LocalConfig `yaml:"local"`
	S3      S3Config    `yaml:"s3"`
	Minio   MinioConfig `yaml:"minio"`

	// 未完成任务遗留的 spool 文件保留时长
	Retention       time.Duration `yaml:"retention"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

type LocalConfig struct {
	BasePath string `yaml:"base_path"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadSize:   50 * 1024 * 1024, // 50MB
			ShutdownTimeout: 5 * time.Second,
		},
		Printer: printer.DefaultConfig(),
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Queue: QueueConfig{
			Concurrency: 10,
			MaxRetry:    3,
			StatusTTL:   24 * time.Hour,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
		Storage: StorageConfig{
			Adapter: "local",
			Local:   LocalConfig{BasePath: "spool"},

			Retention:       24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Log: logger.Config{
			Level:       "info",
			Encoding:    "console",
			OutputPaths: []string{"stdout"},
			ErrorPaths:  []string{"stderr"},
		},
	}
}

// Load reads the YAML file at path (optional when empty), then the .env file
// next to it, then DP_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		loadDotEnv(filepath.Join(filepath.Dir(path), ".env"))
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// GetConfig 进程内只加载一次配置，路径来自 DP_CONFIG，默认 config.yaml
func GetConfig() (*Config, error) {
	appOnce.Do(func() {
		// 先加载项目根目录的 .env
		_, filename, _, _ := runtime.Caller(0)
		loadDotEnv(filepath.Join(filepath.Dir(filepath.Dir(filename)), ".env"))

		path := os.Getenv(envPrefix + "CONFIG")
		if path == "" {
			if _, err := os.Stat("config.yaml"); err == nil {
				path = "config.yaml"
			}
		}
		appConfig, appErr = Load(path)
	})
	return appConfig, appErr
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load %s: %v", path, err)
	}
}

// Validate checks the configuration and fills derived defaults.
func Validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if cfg.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("invalid max upload size: %d", cfg.Server.MaxUploadSize)
	}
	if cfg.Printer.InitDelay < 0 || cfg.Printer.PrintDelay < 0 {
		return fmt.Errorf("printer delays must not be negative")
	}
	if cfg.Queue.Concurrency <= 0 {
		cfg.Queue.Concurrency = 10
	}
	if cfg.Queue.MaxRetry < 0 {
		cfg.Queue.MaxRetry = 3
	}
	if len(cfg.Queue.Queues) == 0 {
		cfg.Queue.Queues = Default().Queue.Queues
	}

	if cfg.Storage.Retention <= 0 || cfg.Storage.CleanupInterval <= 0 {
		return fmt.Errorf("storage retention and cleanup_interval must be positive")
	}

	switch cfg.Storage.Adapter {
	case "local":
		if cfg.Storage.Local.BasePath == "" {
			return fmt.Errorf("local storage base_path is required")
		}
	case "s3":
		if cfg.Storage.S3.BucketName == "" {
			return fmt.Errorf("s3 bucket is required")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("s3 region is required")
		}
	case "minio":
		if cfg.Storage.Minio.Endpoint == "" || cfg.Storage.Minio.BucketName == "" {
			return fmt.Errorf("minio endpoint and bucket are required")
		}
	default:
		return fmt.Errorf("invalid storage adapter: %s (must be 'local', 's3' or 'minio')", cfg.Storage.Adapter)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(envPrefix + "SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(envPrefix + "REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv(envPrefix + "REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv(envPrefix + "STORAGE_ADAPTER"); v != "" {
		cfg.Storage.Adapter = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	durations := map[string]*time.Duration{
		envPrefix + "PRINTER_INIT_DELAY":  &cfg.Printer.InitDelay,
		envPrefix + "PRINTER_PRINT_DELAY": &cfg.Printer.PrintDelay,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if v := os.Getenv(envPrefix + "QUEUE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sQUEUE_CONCURRENCY: %w", envPrefix, err)
		}
		cfg.Queue.Concurrency = n
	}

	cfg.Storage.S3.applyEnv()
	cfg.Storage.Minio.applyEnv()
	return nil
}
