package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG data directory.
const AppName = "karte"

// Storage backends.
const (
	StorageFS    = "fs"
	StorageMinio = "minio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Timezone  string          `yaml:"timezone"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path sends logs to a size-capped file instead of stdout.
	Path string `yaml:"path"`
}

// AuthConfig enables bearer-token auth on /api and /mcp when Token is set.
type AuthConfig struct {
	Token string `yaml:"token"`
}

type StorageConfig struct {
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	Minio   MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	UseSSL          bool   `yaml:"use_ssl"`
}

type DashboardConfig struct {
	HorizonDays int `yaml:"horizon_days"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		DB: DBConfig{
			Path: filepath.Join(dataDir, "karte.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Backend: StorageFS,
			Dir:     filepath.Join(dataDir, "attachments"),
			Minio: MinioConfig{
				Bucket: "karte-attachments",
			},
		},
		Dashboard: DashboardConfig{
			HorizonDays: 7,
		},
		Timezone: "Asia/Tokyo",
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("KARTE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"KARTE_SERVER_HOST":             &cfg.Server.Host,
		"KARTE_DB_PATH":                 &cfg.DB.Path,
		"KARTE_LOG_LEVEL":               &cfg.Log.Level,
		"KARTE_LOG_PATH":                &cfg.Log.Path,
		"KARTE_AUTH_TOKEN":              &cfg.Auth.Token,
		"KARTE_STORAGE_BACKEND":         &cfg.Storage.Backend,
		"KARTE_STORAGE_DIR":             &cfg.Storage.Dir,
		"KARTE_MINIO_ENDPOINT":          &cfg.Storage.Minio.Endpoint,
		"KARTE_MINIO_ACCESS_KEY_ID":     &cfg.Storage.Minio.AccessKeyID,
		"KARTE_MINIO_SECRET_ACCESS_KEY": &cfg.Storage.Minio.SecretAccessKey,
		"KARTE_MINIO_BUCKET":            &cfg.Storage.Minio.Bucket,
		"KARTE_TIMEZONE":                &cfg.Timezone,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"KARTE_SERVER_PORT":            &cfg.Server.Port,
		"KARTE_DASHBOARD_HORIZON_DAYS": &cfg.Dashboard.HorizonDays,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("KARTE_MINIO_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid KARTE_MINIO_USE_SSL: %w", err)
		}
		cfg.Storage.Minio.UseSSL = b
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db path is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Storage.Backend {
	case StorageFS:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for the fs backend")
		}
	case StorageMinio:
		if c.Storage.Minio.Endpoint == "" || c.Storage.Minio.Bucket == "" {
			return fmt.Errorf("minio endpoint and bucket are required for the minio backend")
		}
	default:
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}
	if c.Dashboard.HorizonDays <= 0 {
		return fmt.Errorf("dashboard horizon must be positive, got %d", c.Dashboard.HorizonDays)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured time zone. Validate guarantees it loads.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
