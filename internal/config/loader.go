package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Ning0612/myfind/internal/domain"
)

const (
	// EnvPrefix prefixes every environment override, e.g. MYFIND_LOG_LEVEL
	EnvPrefix = "MYFIND"

	// EnvConfigFile names an explicit config file
	EnvConfigFile = "MYFIND_CONFIG"
)

// DefaultConfigPaths returns the default paths to search for myfind.yaml
func DefaultConfigPaths() []string {
	paths := []string{"."}

	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "myfind"))
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "myfind"))
	}

	return paths
}

// Load reads configuration from path, or from MYFIND_CONFIG, or from the
// default search paths. A missing file is only an error when a path was
// given explicitly; otherwise defaults and environment overrides apply.
func Load(path string) (*Config, error) {
	v := newViper()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}

	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("myfind")
		v.SetConfigType("yaml")
		for _, p := range DefaultConfigPaths() {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// no file in the search paths
		case explicit && os.IsNotExist(err):
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		default:
			return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
		}
	}

	return decode(v)
}

// LoadFromString parses configuration from a YAML string
func LoadFromString(yamlContent string) (*Config, error) {
	v := newViper()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(strings.NewReader(yamlContent)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}

	return decode(v)
}

// newViper returns a viper instance with defaults and env overrides bound
func newViper() *viper.Viper {
	v := viper.New()

	def := Default()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file.path", def.Log.File.Path)
	v.SetDefault("log.file.max_size_mb", def.Log.File.MaxSizeMB)
	v.SetDefault("log.file.max_age_days", def.Log.File.MaxAgeDays)
	v.SetDefault("log.file.max_backups", def.Log.File.MaxBackups)
	v.SetDefault("log.file.compress", def.Log.File.Compress)
	v.SetDefault("walk.on_stat_error", def.Walk.OnStatError)
	v.SetDefault("output.name_width", def.Output.NameWidth)
	v.SetDefault("output.color", def.Output.Color)

	// MYFIND_LOG_FILE is accepted as a short form of MYFIND_LOG_FILE_PATH
	_ = v.BindEnv("log.file.path", EnvPrefix+"_LOG_FILE_PATH", EnvPrefix+"_LOG_FILE")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
