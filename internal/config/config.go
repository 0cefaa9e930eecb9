package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Worker pool size for parallel fetches (<= 0 means one per CPU)
	Workers int

	// Timeout for a single HTTP request (0 = none)
	HTTPTimeout time.Duration

	// Directory for saved tables when a bare file name is given
	DataDir string

	// Last.fm API settings
	LastFM LastFMConfig

	// Echo Nest API settings
	EchoNest EchoNestConfig
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey    string
	User      string
	PageLimit int
	BaseURL   string // empty uses the public API
}

// EchoNestConfig holds Echo Nest specific configuration
type EchoNestConfig struct {
	APIKey         string
	BaseURL        string // empty uses the public API
	Pause          time.Duration
	PausePlacement string // "after" or "before"
	StudioOnly     bool
	CallsPerMinute int
}

// Credential environment variables read in addition to SCROBBLEMOOD_*.
const (
	EnvLastFMAPIKey   = "LASTFM_API_KEY"
	EnvLastFMUser     = "LASTFM_USER_NAME"
	EnvEchoNestAPIKey = "ECHONEST_API_KEY"
)

// Load reads configuration from .env, config file and environment
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return load(viper.New(), getConfigDir(), ".")
}

// loadDotEnv copies variables from a .env file into the process
// environment without overriding ones already set. A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func load(v *viper.Viper, configPaths ...string) (*Config, error) {
	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	// Set defaults
	v.SetDefault("workers", 0)
	v.SetDefault("http_timeout", "60s")
	v.SetDefault("data_dir", ".")
	v.SetDefault("lastfm.page_limit", 500)
	v.SetDefault("lastfm.base_url", "")
	v.SetDefault("echonest.base_url", "")
	v.SetDefault("echonest.pause", "30s")
	v.SetDefault("echonest.pause_placement", "after")
	v.SetDefault("echonest.studio_only", true)
	v.SetDefault("echonest.calls_per_minute", 0)

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Read from environment variables
	v.SetEnvPrefix("SCROBBLEMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials also come from their conventional variable names
	_ = v.BindEnv("lastfm.api_key", "SCROBBLEMOOD_LASTFM_API_KEY", EnvLastFMAPIKey)
	_ = v.BindEnv("lastfm.user", "SCROBBLEMOOD_LASTFM_USER", EnvLastFMUser)
	_ = v.BindEnv("echonest.api_key", "SCROBBLEMOOD_ECHONEST_API_KEY", EnvEchoNestAPIKey)

	// Map config to struct
	cfg := &Config{
		Workers:     v.GetInt("workers"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		DataDir:     v.GetString("data_dir"),
		LastFM: LastFMConfig{
			APIKey:    v.GetString("lastfm.api_key"),
			User:      v.GetString("lastfm.user"),
			PageLimit: v.GetInt("lastfm.page_limit"),
			BaseURL:   v.GetString("lastfm.base_url"),
		},
		EchoNest: EchoNestConfig{
			APIKey:         v.GetString("echonest.api_key"),
			BaseURL:        v.GetString("echonest.base_url"),
			Pause:          v.GetDuration("echonest.pause"),
			PausePlacement: v.GetString("echonest.pause_placement"),
			StudioOnly:     v.GetBool("echonest.studio_only"),
			CallsPerMinute: v.GetInt("echonest.calls_per_minute"),
		},
	}

	if cfg.EchoNest.Pause < 0 {
		return nil, fmt.Errorf("echonest.pause must not be negative, got %s", cfg.EchoNest.Pause)
	}

	return cfg, nil
}

// RequireLastFM checks the settings needed to read listening history
func (c *Config) RequireLastFM() error {
	var missing []string
	if c.LastFM.APIKey == "" {
		missing = append(missing, EnvLastFMAPIKey)
	}
	if c.LastFM.User == "" {
		missing = append(missing, EnvLastFMUser)
	}
	if len(missing) > 0 {
		return fmt.Errorf("Last.fm not configured: set %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequireEchoNest checks the settings needed to query Echo Nest
func (c *Config) RequireEchoNest() error {
	if c.EchoNest.APIKey == "" {
		return fmt.Errorf("Echo Nest not configured: set %s", EnvEchoNestAPIKey)
	}
	return nil
}

// ResolvePath places bare file names inside DataDir
func (c *Config) ResolvePath(name string) string {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// getConfigDir returns the configuration directory path
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(homeDir, ".config", "scrobblemood")
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	configDir := getConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.saveTo(filepath.Join(configDir, "config.yaml"))
}

func (c *Config) saveTo(configFile string) error {
	v := viper.New()

	// Set values in viper
	v.Set("workers", c.Workers)
	v.Set("http_timeout", c.HTTPTimeout.String())
	v.Set("data_dir", c.DataDir)
	v.Set("lastfm.api_key", c.LastFM.APIKey)
	v.Set("lastfm.user", c.LastFM.User)
	v.Set("lastfm.page_limit", c.LastFM.PageLimit)
	v.Set("lastfm.base_url", c.LastFM.BaseURL)
	v.Set("echonest.api_key", c.EchoNest.APIKey)
	v.Set("echonest.base_url", c.EchoNest.BaseURL)
	v.Set("echonest.pause", c.EchoNest.Pause.String())
	v.Set("echonest.pause_placement", c.EchoNest.PausePlacement)
	v.Set("echonest.studio_only", c.EchoNest.StudioOnly)
	v.Set("echonest.calls_per_minute", c.EchoNest.CallsPerMinute)

	// Write to file
	return v.WriteConfigAs(configFile)
}
