// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test TestConfig `toml:"test"`
	Log  LogConfig  `toml:"log"`
}

// TestConfig maps typing test settings. Nil fields were not set in the file.
type TestConfig struct {
	Mode      *string  `toml:"mode"`
	Seconds   *int     `toml:"time"`
	Words     *int     `toml:"words"`
	WordsFile *string  `toml:"words-file"`
	CapsPct   *float64 `toml:"caps"`
	PunctPct  *float64 `toml:"punct"`
	PunctSet  *string  `toml:"punct-set"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
