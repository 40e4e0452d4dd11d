package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all scenename settings.
type Config struct {
	WorkerCount   int  `toml:"worker_count"`
	EnableFFProbe bool `toml:"enable_ffprobe"`

	Sonarr  ArrConfig     `toml:"sonarr"`
	Radarr  ArrConfig     `toml:"radarr"`
	TVDB    LookupConfig  `toml:"tvdb"`
	OMDb    LookupConfig  `toml:"omdb"`
	TMDB    LookupConfig  `toml:"tmdb"`
	Cache   CacheConfig   `toml:"cache"`
	Log     LogConfig     `toml:"log"`
	Session SessionConfig `toml:"session"`
}

// ArrConfig configures a Sonarr or Radarr backend.
type ArrConfig struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// APIVersion is "v3" for current releases. An empty value targets the
	// unversioned legacy API.
	APIVersion *string `toml:"api_version,omitempty"`
}

// LookupConfig configures an identifier lookup service.
type LookupConfig struct {
	Enabled  bool   `toml:"enabled"`
	APIKey   string `toml:"api_key"`
	Language string `toml:"language,omitempty"`
}

// CacheConfig controls the backend list cache.
type CacheConfig struct {
	Enabled       bool   `toml:"enabled"`
	DurationHours int    `toml:"duration_hours"`
	File          string `toml:"file"`
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
}

// SessionConfig controls the session audit log.
type SessionConfig struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		WorkerCount: 4,
		Sonarr: ArrConfig{
			BaseURL:        "http://127.0.0.1:8989/",
			TimeoutSeconds: 10,
		},
		Radarr: ArrConfig{
			BaseURL:        "http://127.0.0.1:7878/",
			TimeoutSeconds: 10,
		},
		TMDB: LookupConfig{Language: "en-US"},
		Cache: CacheConfig{
			Enabled:       true,
			DurationHours: 24,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Session: SessionConfig{
			Enabled:       true,
			RetentionDays: 30,
		},
	}
}

// Dir returns the directory holding the config, cache and logs.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".scenename"), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path. A missing file yields the
// defaults.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	// Keys absent from the file keep their default values
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults replaces values explicitly set to zero with their defaults.
func (cfg *Config) fillDefaults() {
	defaults := DefaultConfig()
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = defaults.WorkerCount
	}
	for _, pair := range []struct{ cfg, def *ArrConfig }{
		{&cfg.Sonarr, &defaults.Sonarr},
		{&cfg.Radarr, &defaults.Radarr},
	} {
		if pair.cfg.BaseURL == "" {
			pair.cfg.BaseURL = pair.def.BaseURL
		}
		if pair.cfg.TimeoutSeconds == 0 {
			pair.cfg.TimeoutSeconds = pair.def.TimeoutSeconds
		}
	}
	if cfg.TMDB.Language == "" {
		cfg.TMDB.Language = defaults.TMDB.Language
	}
	if cfg.Cache.DurationHours == 0 {
		cfg.Cache.DurationHours = defaults.Cache.DurationHours
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.MaxSize == 0 {
		cfg.Log.MaxSize = defaults.Log.MaxSize
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = defaults.Log.MaxBackups
	}
	if cfg.Log.MaxAge == 0 {
		cfg.Log.MaxAge = defaults.Log.MaxAge
	}
	if cfg.Session.RetentionDays == 0 {
		cfg.Session.RetentionDays = defaults.Session.RetentionDays
	}
}

// Save writes the configuration to the default path.
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveFile(path)
}

// SaveFile writes the configuration to path as TOML.
func (cfg *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (cfg *Config) Validate() error {
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker_count must be at least 1, got %d", cfg.WorkerCount)
	}

	for name, arr := range map[string]ArrConfig{"sonarr": cfg.Sonarr, "radarr": cfg.Radarr} {
		if !arr.Enabled {
			continue
		}
		if strings.TrimSpace(arr.APIKey) == "" {
			return fmt.Errorf("%s: api_key is required when enabled", name)
		}
		u, err := url.Parse(strings.TrimSpace(arr.BaseURL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s: invalid base_url %q", name, arr.BaseURL)
		}
		if arr.TimeoutSeconds < 0 {
			return fmt.Errorf("%s: timeout_seconds must not be negative", name)
		}
	}

	for name, lookup := range map[string]LookupConfig{"tvdb": cfg.TVDB, "omdb": cfg.OMDb, "tmdb": cfg.TMDB} {
		if lookup.Enabled && strings.TrimSpace(lookup.APIKey) == "" {
			return fmt.Errorf("%s: api_key is required when enabled", name)
		}
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}

	return nil
}

// CacheDuration returns the list cache lifetime.
func (cfg *Config) CacheDuration() time.Duration {
	return time.Duration(cfg.Cache.DurationHours) * time.Hour
}

// CacheFile returns the cache persistence file, defaulting to cache.gob in
// the config directory.
func (cfg *Config) CacheFile() (string, error) {
	if cfg.Cache.File != "" {
		return cfg.Cache.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.gob"), nil
}

// ProviderConfig converts backend settings into the map accepted by
// provider.Provider.Configure.
func (a ArrConfig) ProviderConfig() map[string]interface{} {
	m := map[string]interface{}{
		"base_url": a.BaseURL,
		"api_key":  a.APIKey,
		"timeout":  a.TimeoutSeconds,
	}
	if a.APIVersion != nil {
		m["api_version"] = *a.APIVersion
	}
	return m
}
