package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable, e.g. IRON_INPUT_CAPACITY.
const EnvPrefix = "IRON"

// Config represents the complete application configuration
type Config struct {
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes the readings file
type InputConfig struct {
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	Capacity  int    `yaml:"capacity" envconfig:"CAPACITY" validate:"min=1"`
}

// ReportConfig controls the statistics and rendered reports
type ReportConfig struct {
	MedianMode string  `yaml:"median_mode" envconfig:"MEDIAN_MODE" validate:"oneof=positional sorted"`
	Title      string  `yaml:"title" envconfig:"TITLE" validate:"required"`
	PlotWidth  float64 `yaml:"plot_width" envconfig:"PLOT_WIDTH" validate:"gt=0"`
	PlotHeight float64 `yaml:"plot_height" envconfig:"PLOT_HEIGHT" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input: InputConfig{
			Delimiter: ",",
			Capacity:  100,
		},
		Report: ReportConfig{
			MedianMode: "positional",
			Title:      "Blood Iron Readings",
			PlotWidth:  800,
			PlotHeight: 400,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then IRON_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// No `default` tags: unset variables leave the file/default values alone
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays the YAML document at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
