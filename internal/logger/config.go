package logger

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns console-only text logging at INFO
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/wfcgen.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from a YAML file
// and applies environment variable overrides
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			// Pre-seed with defaults so absent keys keep them
			loggingConfig := LoggingConfig{Logging: config}
			if err := yaml.Unmarshal(data, &loggingConfig); err != nil {
				return config, err
			}
			config = mergeConfig(config, loggingConfig.Logging)
		} else if !os.IsNotExist(err) {
			return config, err
		}
	}

	applyEnv(&config)
	return config, nil
}

// mergeConfig fills empty or non-positive loaded values from defaults
func mergeConfig(defaults, loaded Config) Config {
	out := loaded
	if out.Level == "" {
		out.Level = defaults.Level
	}
	if out.ConsoleFormat == "" {
		out.ConsoleFormat = defaults.ConsoleFormat
	}
	if out.FilePath == "" {
		out.FilePath = defaults.FilePath
	}
	if out.FileFormat == "" {
		out.FileFormat = defaults.FileFormat
	}
	if out.FileMaxSizeMB <= 0 {
		out.FileMaxSizeMB = defaults.FileMaxSizeMB
	}
	if out.FileMaxBackups <= 0 {
		out.FileMaxBackups = defaults.FileMaxBackups
	}
	if out.FileMaxAgeDays <= 0 {
		out.FileMaxAgeDays = defaults.FileMaxAgeDays
	}
	return out
}

// applyEnv applies WFC_LOG_* overrides
func applyEnv(config *Config) {
	if level := os.Getenv("WFC_LOG_LEVEL"); level != "" {
		config.Level = level
	}

	if format := os.Getenv("WFC_LOG_FORMAT"); format != "" {
		config.ConsoleFormat = format
	}

	if fileEnabled := os.Getenv("WFC_LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			config.FileEnabled = enabled
		}
	}

	if filePath := os.Getenv("WFC_LOG_FILE_PATH"); filePath != "" {
		config.FilePath = filePath
	}
}
