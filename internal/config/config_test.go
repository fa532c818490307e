package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/var/lib/foodgram"},
		Server: ServerConfig{
			Port:        "8080",
			PublicURL:   "http://localhost:8080",
			FrontendURL: "http://localhost:3000",
		},
		Auth:      AuthConfig{TokenDuration: time.Hour, LoginRateLimit: 1, LoginBurst: 5},
		Media:     MediaConfig{Backend: MediaBackendFilesystem, MaxImageSize: 1 << 20, AvatarSize: 256},
		ShortLink: ShortLinkConfig{CacheSize: 16},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"WARN", true},
		{"error", true},
		{"trace", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }},
		{"relative public url", func(c *Config) { c.Server.PublicURL = "localhost:8080" }},
		{"frontend url without host", func(c *Config) { c.Server.FrontendURL = "https://" }},
		{"zero token duration", func(c *Config) { c.Auth.TokenDuration = 0 }},
		{"zero login burst", func(c *Config) { c.Auth.LoginBurst = 0 }},
		{"unknown media backend", func(c *Config) { c.Media.Backend = "ftp" }},
		{"s3 without bucket", func(c *Config) { c.Media.Backend = MediaBackendS3; c.Media.S3Region = "eu-west-1" }},
		{"zero image size", func(c *Config) { c.Media.MaxImageSize = 0 }},
		{"zero cache size", func(c *Config) { c.ShortLink.CacheSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_S3(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Backend = MediaBackendS3
	cfg.Media.S3Bucket = "foodgram-media"
	cfg.Media.S3Region = "eu-west-1"

	assert.NoError(t, cfg.Validate())
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, filepath.Join("/var/lib/foodgram", "foodgram.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/var/lib/foodgram", "media"), cfg.MediaPath())
	assert.Equal(t, "http://localhost:8080/media", cfg.MediaURL())
}

func TestExpandDataPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.expandDataPath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "Foodgram", "data"), cfg.Data.BasePath)
}

func TestExpandDataPath_TildeExpansion(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "~/foodgram"}}
	require.NoError(t, cfg.expandDataPath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "foodgram"), cfg.Data.BasePath)
}

func TestExpandDataPath_RelativePath(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "data"}}
	require.NoError(t, cfg.expandDataPath())

	assert.True(t, filepath.IsAbs(cfg.Data.BasePath))
	assert.Equal(t, "data", filepath.Base(cfg.Data.BasePath))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("FOODGRAM_TEST_VALUE", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "FOODGRAM_TEST_VALUE", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "FOODGRAM_TEST_VALUE", "default"))
	assert.Equal(t, "default", getConfigValue("", "FOODGRAM_TEST_UNSET", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("FOODGRAM_TEST_INT", "42")
	v, err := getIntConfigValue("", "FOODGRAM_TEST_INT", 1)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	t.Setenv("FOODGRAM_TEST_INT", "forty-two")
	_, err = getIntConfigValue("", "FOODGRAM_TEST_INT", 1)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitList(""))
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig([]string{"-data-path", dir, "-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, dir, cfg.Data.BasePath)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.PublicURL)
	assert.Equal(t, cfg.Server.PublicURL, cfg.Server.FrontendURL)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, MediaBackendFilesystem, cfg.Media.Backend)
	assert.Equal(t, 5<<20, cfg.Media.MaxImageSize)
	assert.Equal(t, uint(256), cfg.Media.AvatarSize)
	assert.Equal(t, 1024, cfg.ShortLink.CacheSize)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "foodgram.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[server]
port = "7000"
public_url = "https://file.example"
frontend_url = "https://app.example/"
cors_origins = ["https://app.example"]

[logger]
level = "warn"

[short_link]
cache_size = 64
`), 0o600))

	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("SERVER_PORT=7100\nLOG_LEVEL=error\n"), 0o600))

	// .env must not override the process environment.
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig([]string{
		"-data-path", dir,
		"-env-file", envPath,
		"-config", tomlPath,
		"-public-url", "https://flag.example/",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example", cfg.Server.PublicURL)
	assert.Equal(t, "https://app.example", cfg.Server.FrontendURL)
	assert.Equal(t, "7100", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, []string{"https://app.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 64, cfg.ShortLink.CacheSize)

	// godotenv exported SERVER_PORT into the process; clear it for other tests.
	t.Setenv("SERVER_PORT", "")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig([]string{"-data-path", dir, "-env-file", "", "-token-duration", "soon"})
	assert.Error(t, err)
}

func TestLoadConfig_UnknownTOMLKey(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "foodgram.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[server]\nprot = \"1\"\n"), 0o600))

	_, err := LoadConfig([]string{"-data-path", dir, "-env-file", "", "-config", tomlPath})
	assert.Error(t, err)
}

func TestLoadConfig_MissingTOMLFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig([]string{"-data-path", dir, "-env-file", "", "-config", filepath.Join(dir, "nope.toml")})
	assert.Error(t, err)
}

func TestLoadEnvFile_MissingIsIgnored(t *testing.T) {
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	assert.NoError(t, loadEnvFile(""))
}
