package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/texarc/texarc/internal/cache"
)

type Config struct {
	Alignment int    `mapstructure:"alignment"`
	CachePath string `mapstructure:"cache_path"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	// Set defaults
	viper.SetDefault("alignment", 4)
	viper.SetDefault("cache_path", cache.DefaultPath())
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")

	// Config file handling
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName("texarc")
		viper.SetConfigType("yaml")
	}

	// Read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateAlignment(cfg.Alignment); err != nil {
		return nil, fmt.Errorf("invalid alignment configuration: %w", err)
	}

	return &cfg, nil
}

// validateAlignment rejects alignments the data-file layout cannot honor.
// The format constant is 4; other powers of two are accepted for
// experimenting against reference archives.
func validateAlignment(alignment int) error {
	if alignment < 1 {
		return fmt.Errorf("alignment %d must be at least 1", alignment)
	}
	if alignment&(alignment-1) != 0 {
		return fmt.Errorf("alignment %d must be a power of two", alignment)
	}
	return nil
}
