package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/opener/internal/burden"
	"github.com/dotcommander/opener/internal/candidate"
	"github.com/dotcommander/opener/internal/gaps"
	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/spoiler"
)

// EnvPrefix namespaces environment overrides, e.g. OPENER_CANDIDATE_MIN_WORDS.
const EnvPrefix = "OPENER_"

type Config struct {
	Candidate candidate.Config `yaml:"candidate" envPrefix:"CANDIDATE_"`
	Spoiler   spoiler.Weights  `yaml:"spoiler" envPrefix:"SPOILER_"`
	Gaps      gaps.Config      `yaml:"gaps" envPrefix:"GAPS_"`
	Burden    burden.Config    `yaml:"burden" envPrefix:"BURDEN_"`
	Decision  Decision         `yaml:"decision" envPrefix:"DECISION_"`
	Limits    Limits           `yaml:"limits" envPrefix:"LIMITS_"`
	Paths     PathsConfig      `yaml:"paths" envPrefix:"PATHS_"`
	Log       LogConfig        `yaml:"log" envPrefix:"LOG_"`
}

type PathsConfig struct {
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR" validate:"required"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=text json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Candidate: candidate.DefaultConfig(),
		Spoiler:   spoiler.DefaultWeights(),
		Gaps:      gaps.DefaultConfig(),
		Burden:    burden.DefaultConfig(),
		Decision:  DefaultDecision(),
		Limits:    DefaultLimits(),
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads .env, the YAML file at path (or the default location), then
// OPENER_* overrides, and validates the result. A missing file at the default
// location is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = getConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(expandTilde(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv("OPENER_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "opener", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "opener", "config.yaml")
}

func defaultOutputDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "opener")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "opener")
}

// expandTilde expands a leading ~/ to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate fills path defaults and checks every threshold. Failures wrap
// manuscript.ErrThresholdMisconfiguration.
func (c *Config) Validate() error {
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = defaultOutputDir()
	} else {
		c.Paths.OutputDir = expandTilde(c.Paths.OutputDir)
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", manuscript.ErrThresholdMisconfiguration, err)
	}
	return nil
}
