package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/michaelschiller-mdm-solutions/campaign-pool-engine/pkg/core/model"
)

// Config represents the application configuration
type Config struct {
	DatabaseURL            string `yaml:"databaseURL" validate:"required"`
	DefaultStrategy        string `yaml:"defaultStrategy,omitempty" validate:"omitempty,oneof=random balanced manual"`
	DefaultTimeHorizonDays int    `yaml:"defaultTimeHorizonDays,omitempty" validate:"omitempty,min=1"`
	MetricsListenAddr      string `yaml:"metricsListenAddr,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from pool_engine_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile("")
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadWithEnv loads the configuration for a named environment. It prefers
// pool_engine_config.<env>.yaml and falls back to the unsuffixed file.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// DATABASE_URL takes precedence over the file so deployments can keep
	// credentials out of the yaml
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = string(model.StrategyRandom)
	}
	if cfg.DefaultTimeHorizonDays == 0 {
		cfg.DefaultTimeHorizonDays = 30
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for the config file in current directory and home
// directory, preferring an environment-suffixed variant when env is set
func findConfigFile(env string) (string, error) {
	candidates := []string{"pool_engine_config.yaml"}
	if env != "" {
		candidates = []string{
			fmt.Sprintf("pool_engine_config.%s.yaml", env),
			"pool_engine_config.yaml",
		}
	}

	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, name := range candidates {
		homeConfigPath := filepath.Join(homeDir, name)
		if _, err := os.Stat(homeConfigPath); err == nil {
			return homeConfigPath, nil
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
