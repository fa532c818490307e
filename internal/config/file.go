package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config in TOML form. Durations are Go duration strings.
//
//	[server]
//	port = "8080"
//	public_url = "https://foodgram.example.com"
//	cors_origins = ["https://foodgram.example.com"]
//
//	[media]
//	backend = "s3"
//	s3_bucket = "foodgram-media"
type fileConfig struct {
	App struct {
		Environment string `toml:"environment"`
	} `toml:"app"`
	Logger struct {
		Level string `toml:"level"`
	} `toml:"logger"`
	Data struct {
		BasePath string `toml:"base_path"`
	} `toml:"data"`
	Server struct {
		Port         string   `toml:"port"`
		PublicURL    string   `toml:"public_url"`
		FrontendURL  string   `toml:"frontend_url"`
		ReadTimeout  string   `toml:"read_timeout"`
		WriteTimeout string   `toml:"write_timeout"`
		IdleTimeout  string   `toml:"idle_timeout"`
		CORSOrigins  []string `toml:"cors_origins"`
	} `toml:"server"`
	Auth struct {
		TokenDuration  string  `toml:"token_duration"`
		LoginRateLimit float64 `toml:"login_rate_limit"`
		LoginBurst     int     `toml:"login_burst"`
	} `toml:"auth"`
	Media struct {
		Backend      string `toml:"backend"`
		S3Bucket     string `toml:"s3_bucket"`
		S3Region     string `toml:"s3_region"`
		S3Endpoint   string `toml:"s3_endpoint"`
		S3AccessKey  string `toml:"s3_access_key"`
		S3SecretKey  string `toml:"s3_secret_key"`
		S3PublicURL  string `toml:"s3_public_url"`
		MaxImageSize int    `toml:"max_image_size"`
		AvatarSize   int    `toml:"avatar_size"`
	} `toml:"media"`
	ShortLink struct {
		CacheSize int `toml:"cache_size"`
	} `toml:"short_link"`
}

// loadFileConfig reads the TOML file at path. An empty path yields an empty config.
// Unknown keys are rejected so typos do not pass silently.
func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path) //#nosec G304 -- config path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}
