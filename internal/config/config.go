package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/awiw642/dmp-packing-service/internal/packing"
)

const (
	defaultPort           = "8001"
	defaultHistoryDBPath  = "data/history.db"
	defaultHistoryLimit   = 50
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	HistoryDBPath        string
	HistoryLimit         int
	CustomContainers     []packing.ContainerSpec
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string          `yaml:"port"`
	HistoryDB            string          `yaml:"history_db"`
	HistoryLimit         int             `yaml:"history_limit"`
	Containers           []yamlContainer `yaml:"containers"`
	ShutdownGracePeriod  string          `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string          `yaml:"read_header_timeout"`
	WriteTimeout         string          `yaml:"write_timeout"`
	IdleTimeout          string          `yaml:"idle_timeout"`
	EnableRequestLogging bool            `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit   `yaml:"rate_limit"`
}

// yamlContainer represents one custom container entry in YAML.
type yamlContainer struct {
	Type      string  `yaml:"type"`
	WidthCm   float64 `yaml:"width_cm"`
	HeightCm  float64 `yaml:"height_cm"`
	DepthCm   float64 `yaml:"depth_cm"`
	CBM       float64 `yaml:"cbm"`
	MaxWeight float64 `yaml:"max_weight_kg"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	HistoryDBPath  *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, err
		}
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		HistoryDBPath:        defaultHistoryDBPath,
		HistoryLimit:         defaultHistoryLimit,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.HistoryDB != "" {
		cfg.HistoryDBPath = yamlCfg.HistoryDB
	}

	if yamlCfg.HistoryLimit > 0 {
		cfg.HistoryLimit = yamlCfg.HistoryLimit
	}

	for _, c := range yamlCfg.Containers {
		if c.Type == "" || c.WidthCm <= 0 || c.HeightCm <= 0 || c.DepthCm <= 0 || c.MaxWeight <= 0 {
			return fmt.Errorf("invalid container entry %q in YAML config", c.Type)
		}
		cfg.CustomContainers = append(cfg.CustomContainers, packing.ContainerSpec{
			Type:      c.Type,
			Width:     c.WidthCm,
			Height:    c.HeightCm,
			Depth:     c.DepthCm,
			CBM:       c.CBM,
			MaxWeight: c.MaxWeight,
		})
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	// An explicitly empty HISTORY_DB_PATH disables history.
	if path, ok := os.LookupEnv("HISTORY_DB_PATH"); ok {
		cfg.HistoryDBPath = strings.TrimSpace(path)
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.HistoryDBPath != nil {
		cfg.HistoryDBPath = *overrides.HistoryDBPath
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive")
	}
	return nil
}
