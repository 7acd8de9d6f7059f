package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/logger"
)

// Config represents the complete configuration for myfind
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Walk   WalkConfig   `mapstructure:"walk"`
	Output OutputConfig `mapstructure:"output"`
}

// LogConfig controls the structured logger on stderr
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`

	// Format is text or json
	Format string `mapstructure:"format"`

	File LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables rotating file logs when Path is set
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// WalkConfig controls traversal behaviour
type WalkConfig struct {
	// OnStatError is fatal (abort the run) or warn (skip the entry)
	OnStatError string `mapstructure:"on_stat_error"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	// NameWidth is the field width of plain output
	NameWidth int `mapstructure:"name_width"`

	// Color is auto, always or never; it applies to diagnostics only
	Color string `mapstructure:"color"`
}

// Default returns the configuration used when no file or env is present
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
			File: LogFileConfig{
				MaxSizeMB:  10,
				MaxAgeDays: 7,
				MaxBackups: 3,
			},
		},
		Walk:   WalkConfig{OnStatError: "fatal"},
		Output: OutputConfig{NameWidth: 40, Color: "auto"},
	}
}

// Validate checks that every value is one the tool understands
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: invalid log level: %s", domain.ErrConfigInvalid, c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: invalid log format: %s", domain.ErrConfigInvalid, c.Log.Format)
	}

	if c.Log.File.Path != "" && c.Log.File.MaxSizeMB < 0 {
		return fmt.Errorf("%w: log.file.max_size_mb cannot be negative", domain.ErrConfigInvalid)
	}

	switch strings.ToLower(c.Walk.OnStatError) {
	case "fatal", "warn":
	default:
		return fmt.Errorf("%w: walk.on_stat_error must be fatal or warn, got: %s", domain.ErrConfigInvalid, c.Walk.OnStatError)
	}

	if c.Output.NameWidth < 1 {
		return fmt.Errorf("%w: output.name_width must be positive, got: %d", domain.ErrConfigInvalid, c.Output.NameWidth)
	}

	switch strings.ToLower(c.Output.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: output.color must be auto, always or never, got: %s", domain.ErrConfigInvalid, c.Output.Color)
	}

	return nil
}

// LoggerConfig converts the log section into a logger configuration.
// stderr receives console output; a set file path adds rotating file output.
func (c *Config) LoggerConfig(stderr io.Writer) logger.Config {
	cfg := logger.Config{
		Level:   logger.ParseLevel(c.Log.Level),
		Format:  logger.ParseFormat(c.Log.Format),
		Outputs: []logger.OutputConfig{{Type: logger.OutputStderr, Writer: stderr}},
	}

	if c.Log.File.Path != "" {
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputFile})
		cfg.File = logger.FileConfig{
			Enabled:    true,
			Path:       c.Log.File.Path,
			MaxSizeMB:  c.Log.File.MaxSizeMB,
			MaxAgeDays: c.Log.File.MaxAgeDays,
			MaxBackups: c.Log.File.MaxBackups,
			Compress:   c.Log.File.Compress,
		}
	}

	return cfg
}
