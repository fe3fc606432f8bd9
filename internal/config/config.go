package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds runtime settings for the ResumeLens client. The bearer token is
// produced by an external provider; this layer only reads it.
type Config struct {
	BaseURL  string `toml:"base_url"`
	Token    string `toml:"token"`
	LogFile  string `toml:"log_file"`
	StartDir string `toml:"start_dir"`
}

const defaultConfigTOML = `# ResumeLens client configuration.
# RESUMELENS_BASE_URL and RESUMELENS_TOKEN environment variables override
# the values below.

base_url = "http://localhost:8000"
token = ""
log_file = ""
start_dir = ""
`

// Dir returns the directory for resumelens config files, using
// XDG_CONFIG_HOME or falling back to the platform default.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "resumelens"), nil
}

// Path returns the full path to the config.toml file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, creating it with defaults if missing, then
// applies environment overrides.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(defaults()), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at an explicit path. A missing file is created
// with the default contents so the user has something to edit.
func LoadFile(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return applyEnv(defaults()), fmt.Errorf("create config dir: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); wErr != nil {
			return applyEnv(defaults()), fmt.Errorf("write default config: %w", wErr)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return applyEnv(defaults()), fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return applyEnv(defaults()), err
	}
	return applyEnv(cfg), nil
}

// Parse decodes TOML bytes into a Config, filling defaults for blank fields.
func Parse(data []byte) (Config, error) {
	cfg := defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return defaults(), fmt.Errorf("parse config.toml: %w", err)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaults().BaseURL
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		BaseURL: "http://localhost:8000",
	}
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv("RESUMELENS_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("RESUMELENS_TOKEN")); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("RESUMELENS_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	return cfg
}
