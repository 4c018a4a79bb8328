package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/waabox/ingestwatch/internal/domain"
)

// ProbeConfig holds connection settings for the healthcheck endpoints.
type ProbeConfig struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// NamingConfig controls how the processed output name is derived from the uploaded name.
type NamingConfig struct {
	StripSuffix  string `toml:"strip_suffix"`
	MarkerSuffix string `toml:"marker_suffix"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// StageConfig is one entry of the tracked stage list.
type StageConfig struct {
	Key  string `toml:"key"`
	Name string `toml:"name"`
}

// Config holds all ingestwatch configuration.
type Config struct {
	Probe          ProbeConfig   `toml:"probe"`
	PollIntervalMS int           `toml:"poll_interval_ms"`
	Naming         NamingConfig  `toml:"naming"`
	Log            LogConfig     `toml:"log"`
	Stages         []StageConfig `toml:"stages"`
}

const (
	defaultBaseURL      = "http://localhost:4000/api"
	defaultPollInterval = 3 * time.Second
	defaultStripSuffix  = ".pdf"
	defaultMarkerSuffix = "_searchable.pdf"
)

// Default returns a config with every default filled in explicitly.
func Default() Config {
	cfg := Config{
		Probe:          ProbeConfig{BaseURL: defaultBaseURL},
		PollIntervalMS: int(defaultPollInterval / time.Millisecond),
		Naming:         NamingConfig{StripSuffix: defaultStripSuffix, MarkerSuffix: defaultMarkerSuffix},
		Log:            LogConfig{Level: "info", Format: "console"},
	}
	for _, s := range domain.DefaultStages() {
		cfg.Stages = append(cfg.Stages, StageConfig{Key: string(s.Key), Name: s.DisplayName})
	}
	return cfg
}

// BaseURLOrDefault returns Probe.BaseURL if set, otherwise the local backend URL.
func (c Config) BaseURLOrDefault() string {
	if c.Probe.BaseURL != "" {
		return c.Probe.BaseURL
	}
	return defaultBaseURL
}

// PollIntervalOrDefault returns PollIntervalMS as a duration if set, otherwise three seconds.
func (c Config) PollIntervalOrDefault() time.Duration {
	if c.PollIntervalMS > 0 {
		return time.Duration(c.PollIntervalMS) * time.Millisecond
	}
	return defaultPollInterval
}

// ProbeTimeout returns the per-request timeout; zero means none.
func (c Config) ProbeTimeout() time.Duration {
	if c.Probe.TimeoutSeconds > 0 {
		return time.Duration(c.Probe.TimeoutSeconds) * time.Second
	}
	return 0
}

// NamingOrDefault returns the suffix pair, falling back to ".pdf" -> "_searchable.pdf".
// The suffixes are defaulted together so a half-configured pair never applies.
func (c Config) NamingOrDefault() NamingConfig {
	if c.Naming.StripSuffix == "" && c.Naming.MarkerSuffix == "" {
		return NamingConfig{StripSuffix: defaultStripSuffix, MarkerSuffix: defaultMarkerSuffix}
	}
	return c.Naming
}

// StageList converts the configured stages into domain stages.
// An empty list yields domain.DefaultStages. Entries without a name are labelled with their key.
func (c Config) StageList() ([]domain.Stage, error) {
	if len(c.Stages) == 0 {
		return domain.DefaultStages(), nil
	}
	stages := make([]domain.Stage, 0, len(c.Stages))
	seen := make(map[domain.StageKey]bool, len(c.Stages))
	for i, sc := range c.Stages {
		key, err := domain.ParseStageKey(sc.Key)
		if err != nil {
			return nil, fmt.Errorf("stages[%d]: %w", i, err)
		}
		if seen[key] {
			return nil, fmt.Errorf("stages[%d]: duplicate stage %q", i, key)
		}
		seen[key] = true
		name := sc.Name
		if name == "" {
			name = string(key)
		}
		stages = append(stages, domain.NewStage(key, name))
	}
	return stages, nil
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values:
//   - INGESTWATCH_BASE_URL  overrides probe.base_url
//   - INGESTWATCH_TOKEN     overrides probe.token
//   - INGESTWATCH_LOG_LEVEL overrides log.level
func LoadFrom(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// DefaultConfigPath returns the default path for the ingestwatch config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return home + "/.config/ingestwatch/config.toml"
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INGESTWATCH_BASE_URL"); v != "" {
		cfg.Probe.BaseURL = v
	}
	if v := os.Getenv("INGESTWATCH_TOKEN"); v != "" {
		cfg.Probe.Token = v
	}
	if v := os.Getenv("INGESTWATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Save writes cfg to the given TOML file path, creating parent directories as needed.
// Existing file contents are overwritten. Permissions on the written file are 0600.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}
