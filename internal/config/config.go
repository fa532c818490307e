// Package config provides application configuration management with support for
// command-line flags, environment variables, .env files and an optional TOML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Media storage backends.
const (
	MediaBackendFilesystem = "filesystem"
	MediaBackendS3         = "s3"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Auth      AuthConfig
	Media     MediaConfig
	ShortLink ShortLinkConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig locates on-disk state: database, auth key, search index and local media.
type DataConfig struct {
	BasePath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	PublicURL    string // absolute base for image and short-link URLs
	FrontendURL  string // short links redirect to {FrontendURL}/recipes/{id}
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	TokenDuration  time.Duration
	LoginRateLimit float64 // requests per second per client IP
	LoginBurst     int
}

// MediaConfig selects and configures image storage.
type MediaConfig struct {
	Backend      string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string // for S3-compatible services; empty means AWS
	S3AccessKey  string
	S3SecretKey  string
	S3PublicURL  string
	MaxImageSize int  // decoded bytes
	AvatarSize   uint // longest side in pixels
}

// ShortLinkConfig configures short-link resolution.
type ShortLinkConfig struct {
	CacheSize int
}

// DatabasePath returns the sqlite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.BasePath, "foodgram.db")
}

// MediaPath returns the directory used by the filesystem media backend.
func (c *Config) MediaPath() string {
	return filepath.Join(c.Data.BasePath, "media")
}

// MediaURL returns the public URL prefix for filesystem media.
func (c *Config) MediaURL() string {
	return strings.TrimRight(c.Server.PublicURL, "/") + "/media"
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. TOML config file.
// 5. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("foodgram", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for database, keys, search index and media")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	publicURL := fs.String("public-url", "", "Public base URL of this server")
	frontendURL := fs.String("frontend-url", "", "Base URL of the web frontend (default: public URL)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	tokenDuration := fs.String("token-duration", "", "Auth token lifetime (default: 720h)")

	mediaBackend := fs.String("media-backend", "", "Image storage backend: filesystem or s3")
	maxImageSize := fs.String("max-image-size", "", "Maximum decoded image size in bytes (default: 5242880)")

	envFile := fs.String("env-file", ".env", "Path to .env file")
	configFile := fs.String("config", "", "Path to TOML config file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := loadEnvFile(*envFile); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	file, err := loadFileConfig(getConfigValue(*configFile, "CONFIG_FILE", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", orDefault(file.App.Environment, "development")),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", orDefault(file.Logger.Level, "info")),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", file.Data.BasePath),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", orDefault(file.Server.Port, "8080")),
			PublicURL:   getConfigValue(*publicURL, "PUBLIC_URL", file.Server.PublicURL),
			FrontendURL: getConfigValue(*frontendURL, "FRONTEND_URL", file.Server.FrontendURL),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", strings.Join(file.Server.CORSOrigins, ","))),
		},
		Media: MediaConfig{
			Backend:     getConfigValue(*mediaBackend, "MEDIA_BACKEND", orDefault(file.Media.Backend, MediaBackendFilesystem)),
			S3Bucket:    getConfigValue("", "S3_BUCKET", file.Media.S3Bucket),
			S3Region:    getConfigValue("", "S3_REGION", file.Media.S3Region),
			S3Endpoint:  getConfigValue("", "S3_ENDPOINT", file.Media.S3Endpoint),
			S3AccessKey: getConfigValue("", "S3_ACCESS_KEY", file.Media.S3AccessKey),
			S3SecretKey: getConfigValue("", "S3_SECRET_KEY", file.Media.S3SecretKey),
			S3PublicURL: getConfigValue("", "S3_PUBLIC_URL", file.Media.S3PublicURL),
		},
	}

	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = "http://localhost:" + cfg.Server.Port
	}
	cfg.Server.PublicURL = strings.TrimRight(cfg.Server.PublicURL, "/")
	if cfg.Server.FrontendURL == "" {
		cfg.Server.FrontendURL = cfg.Server.PublicURL
	}
	cfg.Server.FrontendURL = strings.TrimRight(cfg.Server.FrontendURL, "/")

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fileVal  string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", file.Server.ReadTimeout, "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", file.Server.WriteTimeout, "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", file.Server.IdleTimeout, "60s"},
		{&cfg.Auth.TokenDuration, *tokenDuration, "AUTH_TOKEN_DURATION", file.Auth.TokenDuration, "720h"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, orDefault(d.fileVal, d.fallback))
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), raw, err)
		}
		*d.dst = parsed
	}

	if cfg.Auth.LoginRateLimit, err = getFloatConfigValue("", "AUTH_LOGIN_RATE_LIMIT", orFloat(file.Auth.LoginRateLimit, 0.5)); err != nil {
		return nil, err
	}
	if cfg.Auth.LoginBurst, err = getIntConfigValue("", "AUTH_LOGIN_BURST", orInt(file.Auth.LoginBurst, 5)); err != nil {
		return nil, err
	}
	if cfg.Media.MaxImageSize, err = getIntConfigValue(*maxImageSize, "MEDIA_MAX_IMAGE_SIZE", orInt(file.Media.MaxImageSize, 5<<20)); err != nil {
		return nil, err
	}
	avatarSize, err := getIntConfigValue("", "MEDIA_AVATAR_SIZE", orInt(file.Media.AvatarSize, 256))
	if err != nil {
		return nil, err
	}
	if avatarSize < 0 {
		return nil, fmt.Errorf("invalid media_avatar_size %d", avatarSize)
	}
	cfg.Media.AvatarSize = uint(avatarSize)
	if cfg.ShortLink.CacheSize, err = getIntConfigValue("", "SHORTLINK_CACHE_SIZE", orInt(file.ShortLink.CacheSize, 1024)); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	for name, raw := range map[string]string{"public url": c.Server.PublicURL, "frontend url": c.Server.FrontendURL} {
		if err := validateAbsoluteURL(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if c.Auth.TokenDuration <= 0 {
		return errors.New("auth token duration must be positive")
	}
	if c.Auth.LoginRateLimit <= 0 || c.Auth.LoginBurst < 1 {
		return errors.New("login rate limit and burst must be positive")
	}

	switch c.Media.Backend {
	case MediaBackendFilesystem:
	case MediaBackendS3:
		if c.Media.S3Bucket == "" || c.Media.S3Region == "" {
			return errors.New("s3 media backend requires S3_BUCKET and S3_REGION")
		}
	default:
		return fmt.Errorf("invalid media backend: %s (must be filesystem or s3)", c.Media.Backend)
	}

	if c.Media.MaxImageSize <= 0 {
		return errors.New("max image size must be positive")
	}
	if c.ShortLink.CacheSize <= 0 {
		return errors.New("short link cache size must be positive")
	}

	return nil
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data directory to ~/Foodgram/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Foodgram", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return v, nil
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return v, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads variables from a .env file without overriding ones already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}
