package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LoadFileConfig reads config.toml from path.
// A missing file is not an error: the defaults are returned instead.
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := DefaultFileConfig()
	path = ExpandPath(path)

	if !FileExists(path) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// CreateDefaultConfig writes the commented template to path unless a file is already there.
// Reports whether a file was written.
func CreateDefaultConfig(path string) (bool, error) {
	path = ExpandPath(path)
	if FileExists(path) {
		return false, nil
	}

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateConfigTemplate()), 0600); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}

	return true, nil
}

// WriteEffective encodes cfg in config.toml layout
func WriteEffective(w io.Writer, cfg *Config) error {
	fc := FileConfig{
		Server: ServerConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout.String(),
		},
		UI: UIConfig{
			ShowTimestamps: cfg.ShowTimestamps,
		},
	}

	if err := toml.NewEncoder(w).Encode(fc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
