// Package config loads application configuration with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	LogPath   string   `mapstructure:"log_path"`
	Time      uint64   `mapstructure:"time"`
	Apps      []string `mapstructure:"apps"`
	PluginDir string   `mapstructure:"plugin_dir"`
	WebAddr   string   `mapstructure:"web_addr"`
	PlotPath  string   `mapstructure:"plot_path"`
}

// LoadConfig loads configuration from the specified path or the default
// location (~/.rest-reminder/config.toml). A missing config file is not
// an error; the defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_path", defaultLogPath())
	v.SetDefault("time", uint64(3600))
	v.SetDefault("apps", []string{"idea64.exe", "rustrover64.exe"})
	v.SetDefault("plugin_dir", "plugins")
	v.SetDefault("web_addr", "127.0.0.1:60606")
	v.SetDefault("plot_path", "plot.png")

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, ".rest-reminder", "config.toml")
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func defaultLogPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "focus_log.txt"
	}
	return filepath.Join(homeDir, "focus_log.txt")
}
