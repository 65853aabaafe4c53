// Package common provides shared utilities for annscreen
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/annscreen/internal/models"
)

// Config holds all configuration for annscreen
type Config struct {
	Environment string        `toml:"environment"`
	Storage     StorageConfig `toml:"storage"`
	Screen      ScreenConfig  `toml:"screen"`
	Logging     LoggingConfig `toml:"logging"`
}

// StorageConfig holds the BadgerHold data directory.
type StorageConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ScreenConfig is the configuration surface for the criteria evaluator. All
// screen parameters are plain values here, never defaults baked into logic.
type ScreenConfig struct {
	Horizon       int         `toml:"horizon"`
	Anchor        string      `toml:"anchor"` // "global" | "per_entity"
	AnchorYear    int         `toml:"anchor_year"`
	PreferredForm string      `toml:"preferred_form"`
	Sort          string      `toml:"sort"` // "growth" | "identifier"
	Rules         RulesConfig `toml:"rules"`
}

// RulesConfig holds the clause lists of the active rule set.
type RulesConfig struct {
	Name        string             `toml:"name"`
	Positive    []models.CountRule `toml:"positive"`
	Negative    []models.CountRule `toml:"negative"`
	Improvement []models.CountRule `toml:"improvement"`
	Growth      *models.GrowthRule `toml:"growth"`
}

// RuleSet converts the screen configuration into a validated rule set.
func (c *ScreenConfig) RuleSet() (*models.RuleSet, error) {
	rs := &models.RuleSet{
		Name:          c.Rules.Name,
		Horizon:       c.Horizon,
		Anchor:        models.AnchorPolicy(c.Anchor),
		AnchorYear:    c.AnchorYear,
		PreferredForm: c.PreferredForm,
		Sort:          models.SortPolicy(c.Sort),
		Positive:      c.Rules.Positive,
		Negative:      c.Rules.Negative,
		Improvement:   c.Rules.Improvement,
		Growth:        c.Rules.Growth,
	}
	if rs.Sort == "" {
		rs.Sort = models.SortByGrowth
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid screen configuration: %w", err)
	}
	return rs, nil
}

// NewDefaultConfig returns a Config with sensible defaults: the EBITDA+FCF
// quality screen the project ships with.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Path: "data/annscreen",
		},
		Screen: ScreenConfig{
			Horizon:       5,
			Anchor:        string(models.AnchorPerEntity),
			PreferredForm: "10-K",
			Sort:          string(models.SortByGrowth),
			Rules: RulesConfig{
				Name: "ebitda-fcf-growth",
				Positive: []models.CountRule{
					{Metric: models.MetricEBITDA, MinYears: 3},
					{Metric: models.MetricFreeCashFlow, MinYears: 3},
				},
				Growth: &models.GrowthRule{
					Metric:     models.MetricEBITDA,
					MinCAGRPct: 15.0,
				},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ANNSCREEN_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("ANNSCREEN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("ANNSCREEN_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if v := os.Getenv("ANNSCREEN_HORIZON"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Screen.Horizon = n
		}
	}

	if v := os.Getenv("ANNSCREEN_ANCHOR"); v != "" {
		config.Screen.Anchor = strings.ToLower(v)
	}

	if v := os.Getenv("ANNSCREEN_PREFERRED_FORM"); v != "" {
		config.Screen.PreferredForm = strings.ToUpper(v)
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
