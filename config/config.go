package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Frontend FrontendConfig `yaml:"frontend"`
	CORS     CORSConfig     `yaml:"cors"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenDays int    `yaml:"token_days"`
}

// TokenTTL is how long an access token stays valid.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenDays) * 24 * time.Hour
}

type FrontendConfig struct {
	BaseURL string `yaml:"base_url"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type StorageConfig struct {
	Type          string `yaml:"type"` // inline, local, s3
	LocalPath     string `yaml:"local_path"`
	PublicBaseURL string `yaml:"public_base_url"`
	S3Bucket      string `yaml:"s3_bucket"`
	S3Region      string `yaml:"s3_region"`
	AWSAccessKey  string `yaml:"-"`
	AWSSecretKey  string `yaml:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", Mode: "debug"},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "menu.db"},
		Auth:     AuthConfig{JWTSecret: "change-me", TokenDays: 7},
		Frontend: FrontendConfig{BaseURL: "http://localhost:5173"},
		Storage:  StorageConfig{Type: "inline", LocalPath: "./storage/assets", S3Region: "us-east-1"},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads .env (if present), then the YAML file at path (if non-empty), then
// environment variables. Later sources win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("MENU_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.Frontend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Frontend.BaseURL), "/")
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = defaultOrigins(cfg.Frontend.BaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.Mode = getEnv("GIN_MODE", cfg.Server.Mode)
	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DATABASE_URL", cfg.Database.DSN)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	if days, err := strconv.Atoi(getEnv("JWT_EXP_DAYS", "")); err == nil {
		cfg.Auth.TokenDays = days
	}
	cfg.Frontend.BaseURL = getEnv("FRONTEND_BASE_URL", cfg.Frontend.BaseURL)
	if origins := getEnv("CORS_ALLOW_ORIGINS", ""); origins != "" {
		cfg.CORS.AllowOrigins = splitList(origins)
	}
	cfg.Storage.Type = getEnv("STORAGE_TYPE", cfg.Storage.Type)
	cfg.Storage.LocalPath = getEnv("STORAGE_LOCAL_PATH", cfg.Storage.LocalPath)
	cfg.Storage.PublicBaseURL = getEnv("STORAGE_PUBLIC_BASE_URL", cfg.Storage.PublicBaseURL)
	cfg.Storage.S3Bucket = getEnv("AWS_S3_BUCKET", cfg.Storage.S3Bucket)
	cfg.Storage.S3Region = getEnv("AWS_REGION", cfg.Storage.S3Region)
	cfg.Storage.AWSAccessKey = getEnv("AWS_ACCESS_KEY_ID", cfg.Storage.AWSAccessKey)
	cfg.Storage.AWSSecretKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.Storage.AWSSecretKey)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode: %q", c.Server.Mode)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}
	switch c.Storage.Type {
	case "inline", "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("storage type s3 requires AWS_S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}
	if c.Auth.TokenDays <= 0 {
		return fmt.Errorf("auth.token_days must be positive, got %d", c.Auth.TokenDays)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

func defaultOrigins(frontend string) []string {
	origins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if frontend != "" && frontend != origins[0] && frontend != origins[1] {
		origins = append([]string{frontend}, origins...)
	}
	return origins
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
