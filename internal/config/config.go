package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a selang run.
// Values are populated from .selang.yaml, SELANG_* env vars, and CLI flags.
type Config struct {
	SEDir      string `mapstructure:"se_dir"`
	TestDir    string `mapstructure:"test_dir"`
	Overwrite  bool   `mapstructure:"overwrite"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	ClingoPath string `mapstructure:"clingo_path"`
	Color      bool   `mapstructure:"color"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("se_dir", "")
	viper.SetDefault("test_dir", ".")
	viper.SetDefault("overwrite", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("clingo_path", "clingo")
	viper.SetDefault("color", true)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("invalid log_format %q: want text or json", cfg.LogFormat)
	}
	return cfg, nil
}
