package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/logger"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadFromString(t *testing.T) {
	cfg, err := LoadFromString(`
log:
  level: debug
  format: json
  file:
    path: /tmp/myfind.log
    max_backups: 5
walk:
  on_stat_error: warn
output:
  name_width: 60
  color: never
`)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Log.File.Path != "/tmp/myfind.log" || cfg.Log.File.MaxBackups != 5 {
		t.Errorf("unexpected log file config: %+v", cfg.Log.File)
	}
	if cfg.Log.File.MaxSizeMB != 10 {
		t.Errorf("expected default max_size_mb 10, got %d", cfg.Log.File.MaxSizeMB)
	}
	if cfg.Walk.OnStatError != "warn" {
		t.Errorf("expected warn, got %s", cfg.Walk.OnStatError)
	}
	if cfg.Output.NameWidth != 60 || cfg.Output.Color != "never" {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
}

func TestLoadFromString_Defaults(t *testing.T) {
	cfg, err := LoadFromString("{}")
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromString_Invalid(t *testing.T) {
	tests := map[string]string{
		"log level":   "log:\n  level: loud\n",
		"log format":  "log:\n  format: xml\n",
		"stat policy": "walk:\n  on_stat_error: ignore\n",
		"name width":  "output:\n  name_width: 0\n",
		"color":       "output:\n  color: rainbow\n",
		"bad yaml":    "log: [",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromString(content)
			if !errors.Is(err, domain.ErrConfigInvalid) {
				t.Errorf("expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvConfigFile, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Walk.OnStatError != "fatal" {
		t.Errorf("expected default fatal, got %s", cfg.Walk.OnStatError)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "myfind.yaml")
	if err := os.WriteFile(path, []byte("output:\n  name_width: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.NameWidth != 12 {
		t.Errorf("expected 12, got %d", cfg.Output.NameWidth)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, domain.ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "myfind.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MYFIND_LOG_LEVEL", "debug")
	t.Setenv("MYFIND_WALK_ON_STAT_ERROR", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("env override not applied to log.level: %s", cfg.Log.Level)
	}
	if cfg.Walk.OnStatError != "warn" {
		t.Errorf("env override not applied to walk.on_stat_error: %s", cfg.Walk.OnStatError)
	}
}

func TestDefaultConfigPaths(t *testing.T) {
	paths := DefaultConfigPaths()
	if len(paths) == 0 || paths[0] != "." {
		t.Errorf("expected current directory first, got %v", paths)
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	lc := cfg.LoggerConfig(os.Stderr)
	if lc.Level != logger.LevelDebug || lc.Format != logger.FormatJSON {
		t.Errorf("unexpected logger config: %+v", lc)
	}
	if len(lc.Outputs) != 1 || lc.Outputs[0].Type != logger.OutputStderr {
		t.Errorf("expected a single stderr output, got %+v", lc.Outputs)
	}
	if lc.File.Enabled {
		t.Error("file output should be disabled without a path")
	}

	cfg.Log.File.Path = filepath.Join(t.TempDir(), "myfind.log")
	lc = cfg.LoggerConfig(os.Stderr)
	if len(lc.Outputs) != 2 || lc.Outputs[1].Type != logger.OutputFile {
		t.Errorf("expected stderr and file outputs, got %+v", lc.Outputs)
	}
	if !lc.File.Enabled || lc.File.MaxSizeMB != 10 {
		t.Errorf("unexpected file config: %+v", lc.File)
	}
}

func TestLoad_LogFileShortEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "myfind.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MYFIND_LOG_FILE", "/var/tmp/myfind.log")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.File.Path != "/var/tmp/myfind.log" {
		t.Errorf("expected MYFIND_LOG_FILE to set log.file.path, got %q", cfg.Log.File.Path)
	}
}
