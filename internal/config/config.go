package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines the service configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	DataDir         string        `yaml:"data_dir"`
	DatabaseFile    string        `yaml:"database_file"`
	BackupDir       string        `yaml:"backup_dir"`
	AuthFile        string        `yaml:"auth_file"`
	RetentionDays   int           `yaml:"retention_days"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Debug           bool          `yaml:"debug"`
}

// ConfigDefault is the default config. The listen address matches the
// published container contract: port 8501 on all interfaces.
var ConfigDefault = Config{
	Addr:            "0.0.0.0:8501",
	DataDir:         "data",
	DatabaseFile:    "grid_assessment.db",
	BackupDir:       "backups",
	AuthFile:        "config.yaml",
	RetentionDays:   30,
	CleanupInterval: 24 * time.Hour,
}

// Helper function to set default values
func configDefault(config ...Config) Config {
	// Return default config if nothing provided
	if len(config) < 1 {
		return ConfigDefault
	}

	// Override default config
	cfg := config[0]

	if cfg.Addr == "" {
		cfg.Addr = ConfigDefault.Addr
	}

	if cfg.DataDir == "" {
		cfg.DataDir = ConfigDefault.DataDir
	}

	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = ConfigDefault.DatabaseFile
	}

	if cfg.BackupDir == "" {
		cfg.BackupDir = ConfigDefault.BackupDir
	}

	if cfg.AuthFile == "" {
		cfg.AuthFile = ConfigDefault.AuthFile
	}

	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = ConfigDefault.RetentionDays
	}

	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = ConfigDefault.CleanupInterval
	}

	return cfg
}

// New builds a Config from optional overrides, filling in defaults.
func New(config ...Config) Config {
	return configDefault(config...)
}

// Load reads the config file at path (missing file means defaults), then
// applies environment overrides.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg = applyEnv(cfg)
	return configDefault(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("GRIDASSESS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("GRIDASSESS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GRIDASSESS_DATABASE_FILE"); v != "" {
		cfg.DatabaseFile = v
	}
	if v := os.Getenv("GRIDASSESS_BACKUP_DIR"); v != "" {
		cfg.BackupDir = v
	}
	if v := os.Getenv("GRIDASSESS_AUTH_FILE"); v != "" {
		cfg.AuthFile = v
	}
	if v := os.Getenv("GRIDASSESS_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.RetentionDays = days
		}
	}
	if v := os.Getenv("GRIDASSESS_DEBUG"); v != "" {
		cfg.Debug = v == "1" || v == "true"
	}
	return cfg
}

// DatabasePath is the full path of the SQLite file.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}
