// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Study   StudyConfig   `toml:"study"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// StudyConfig maps study and history settings.
type StudyConfig struct {
	Shuffle       *bool   `toml:"shuffle"`
	DefaultPeriod *string `toml:"default-period"`
	CurveWindow   *int    `toml:"curve-window"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	DBPath    *string `toml:"db"`
	RoutePath *string `toml:"route-file"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Path  *string `toml:"path"`
	Debug *bool   `toml:"debug"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
