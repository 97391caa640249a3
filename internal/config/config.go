// Package config loads eduplayctl settings from a YAML file, environment
// variables and defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
)

const (
	// DirName is the console home directory under the user's home.
	DirName = ".eduplay"
	// FileName is the config file inside the console home.
	FileName = "config.yaml"

	EnvConfig = "EDUPLAY_CONFIG"
	EnvHome   = "EDUPLAY_HOME"
)

// Config is the root console configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
	MockServer MockServerConfig `yaml:"mock_server"`
}

// APIConfig locates the admin API.
type APIConfig struct {
	URL string `yaml:"url" env:"EDUPLAY_API_URL" env-default:"http://localhost:8000/api"`
}

// OutputConfig controls how CLI results are printed.
type OutputConfig struct {
	Format  string `yaml:"format"   env:"EDUPLAY_FORMAT"   env-default:"text"`
	NoColor bool   `yaml:"no_color" env:"EDUPLAY_NO_COLOR" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"EDUPLAY_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"EDUPLAY_LOG_FORMAT" env-default:"text"`
	// File receives the terminal console's log; relative paths are under
	// the console home.
	File string `yaml:"file" env:"EDUPLAY_LOG_FILE" env-default:"console.log"`
}

// MockServerConfig configures `eduplayctl mock-server`.
type MockServerConfig struct {
	Addr            string        `yaml:"addr"             env:"EDUPLAY_MOCK_ADDR"             env-default:"127.0.0.1:8000"`
	Secret          string        `yaml:"secret"           env:"EDUPLAY_MOCK_SECRET"           env-default:"eduplay-mock-secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"        env:"EDUPLAY_MOCK_TOKEN_TTL"        env-default:"24h"`
	Seed            bool          `yaml:"seed"             env:"EDUPLAY_MOCK_SEED"             env-default:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"EDUPLAY_MOCK_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

var (
	formats   = []string{"text", "json", "yaml"}
	logLevels = []string{"debug", "info", "warn", "warning", "error"}
)

// Home returns the console home directory: EDUPLAY_HOME, or ~/.eduplay.
func Home() (string, error) {
	if h := os.Getenv(EnvHome); h != "" {
		return h, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", conerr.Wrap(conerr.ErrCodeDirectoryFailed, "failed to get home directory", err)
	}
	return filepath.Join(userHome, DirName), nil
}

// ResolvePath picks the config file: the explicit path, then EDUPLAY_CONFIG,
// then config.yaml in home. The flag reports whether the path was chosen
// by the operator, in which case it must exist.
func ResolvePath(explicit, home string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p, true
	}
	return filepath.Join(home, FileName), false
}

// Load reads configuration. Priority: ENV > YAML > defaults.
// A missing default file falls back to ENV and defaults only.
func Load(path string, explicit bool) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, conerr.NewConfigLoadError(path, err)
		}
	} else if explicit {
		return nil, conerr.NewConfigLoadError(path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, conerr.NewConfigLoadError(path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	return &Config{
		API:    APIConfig{URL: "http://localhost:8000/api"},
		Output: OutputConfig{Format: "text"},
		Log:    LogConfig{Level: "warn", Format: "text", File: "console.log"},
		MockServer: MockServerConfig{
			Addr:            "127.0.0.1:8000",
			Secret:          "eduplay-mock-secret",
			TokenTTL:        24 * time.Hour,
			Seed:            true,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	var errs []string

	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api.url %q must be an absolute http(s) URL", c.API.URL))
	}
	if !slices.Contains(formats, strings.ToLower(c.Output.Format)) {
		errs = append(errs, fmt.Sprintf("output.format %q must be one of %s", c.Output.Format, strings.Join(formats, ", ")))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Sprintf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	if c.MockServer.TokenTTL <= 0 {
		errs = append(errs, "mock_server.token_ttl must be positive")
	}

	if len(errs) > 0 {
		return conerr.New(conerr.ErrCodeConfigInvalid, "invalid configuration: "+strings.Join(errs, "; ")).
			WithSuggestion("Run 'eduplayctl config view' to inspect the effective configuration")
	}
	return nil
}

// LogPath resolves the console log file against home.
func (c *Config) LogPath(home string) string {
	if c.Log.File == "" || filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(home, c.Log.File)
}

// Save writes c as YAML with owner-only permissions.
func Save(c *Config, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return conerr.Wrap(conerr.ErrCodeConfigInvalid, "failed to marshal config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return conerr.Wrap(conerr.ErrCodeDirectoryFailed, "failed to create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return conerr.Wrap(conerr.ErrCodeFileWriteFailed, "failed to write config", err)
	}
	return nil
}
