package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/piwi3910/PagePack/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.pagepack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pagepack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// SaveConfig persists a Config to the given path as TOML.
// It creates any missing parent directories automatically.
func SaveConfig(path string, config model.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadConfig reads a Config from the given path. Keys missing from the file
// keep their default values. If the file does not exist, it returns
// DefaultConfig with no error.
func LoadConfig(path string) (model.Config, error) {
	config := model.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return model.Config{}, err
	}

	md, err := toml.Decode(string(data), &config)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return model.Config{}, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	if len(config.Extensions) == 0 {
		config.Extensions = model.DefaultConfig().Extensions
	}
	return config, nil
}
