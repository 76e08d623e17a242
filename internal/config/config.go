// Package config loads the server configuration from an optional YAML file,
// applies environment overrides, and validates the result. Every field has
// a default, so the server runs with no config file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the root configuration for the monitoring server
type Config struct {
	Listen   string   `yaml:"listen" validate:"required"`
	Database Database `yaml:"database"`
	Polling  Polling  `yaml:"polling"`
	SNMP     SNMP     `yaml:"snmp"`

	// Fleet optionally replaces the built-in engine seed. Rows given here
	// are upserted into the registry at startup.
	Fleet []EngineSeed `yaml:"fleet" validate:"dive"`
}

// Database holds registry storage settings
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Polling holds poll loop timing
type Polling struct {
	IntervalSeconds float64 `yaml:"interval_seconds" validate:"gt=0"`
	BackoffSeconds  float64 `yaml:"backoff_seconds" validate:"gt=0"`
}

// SNMP holds real-query settings
type SNMP struct {
	TimeoutMillis int `yaml:"timeout_ms" validate:"gt=0"`
}

// EngineSeed describes one engine to place in the registry
type EngineSeed struct {
	ID              string  `yaml:"id" validate:"required"`
	Host            string  `yaml:"host"`
	Port            uint16  `yaml:"port" validate:"required"`
	Community       string  `yaml:"community"`
	BaseTemperature float64 `yaml:"base_temperature" validate:"required"`
	BaseRPM         float64 `yaml:"base_rpm" validate:"required"`
	BaseCurrent     float64 `yaml:"base_current" validate:"required"`
	BasePower       float64 `yaml:"base_power" validate:"required"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Listen:   ":8080",
		Database: Database{Path: "./engines.db"},
		Polling: Polling{
			IntervalSeconds: 2,
			BackoffSeconds:  5,
		},
		SNMP: SNMP{TimeoutMillis: 500},
	}
}

// Load reads the configuration file at path, or returns defaults when path
// is empty. Unknown YAML keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
}

// PollInterval returns the poll cycle interval
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Polling.IntervalSeconds * float64(time.Second))
}

// PollBackoff returns the post-error cycle delay
func (c *Config) PollBackoff() time.Duration {
	return time.Duration(c.Polling.BackoffSeconds * float64(time.Second))
}

// SNMPTimeout returns the per-query timeout
func (c *Config) SNMPTimeout() time.Duration {
	return time.Duration(c.SNMP.TimeoutMillis) * time.Millisecond
}

// FleetSeed converts configured fleet entries to registry rows
func (c *Config) FleetSeed() []models.Engine {
	rows := make([]models.Engine, 0, len(c.Fleet))
	for _, seed := range c.Fleet {
		host := seed.Host
		if host == "" {
			host = "127.0.0.1"
		}
		community := seed.Community
		if community == "" {
			community = "public"
		}
		rows = append(rows, models.Engine{
			ID:              seed.ID,
			Host:            host,
			Port:            seed.Port,
			Community:       community,
			BaseTemperature: seed.BaseTemperature,
			BaseRPM:         seed.BaseRPM,
			BaseCurrent:     seed.BaseCurrent,
			BasePower:       seed.BasePower,
		})
	}
	return rows
}
