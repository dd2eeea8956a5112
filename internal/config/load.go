package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML config file and merges it over the defaults.
// Only keys present in the file override the default values, so a minimal
// file like `server: ipa.example.org` is a complete configuration.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  cfg,
		TagName: "yaml",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile returns the default config file path if it exists in the
// working directory.
func FindConfigFile() (string, error) {
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return "", fmt.Errorf("%s not found in current directory", DefaultConfigFile)
	}
	return DefaultConfigFile, nil
}

// Load resolves the configuration for a provisioning run. When path is empty
// the default config file is used if present, otherwise pure defaults. The
// bind password is read from IPA_PASSWORD and never from disk.
func Load(path string) (*Config, error) {
	var cfg *Config

	if path == "" {
		if found, err := FindConfigFile(); err == nil {
			path = found
		}
	}

	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = Default()
	}

	if cfg.BindUser == "" {
		cfg.BindUser = DefaultBindUser
	}
	if user := os.Getenv("IPA_USER"); user != "" {
		cfg.BindUser = user
	}
	cfg.BindPassword = os.Getenv("IPA_PASSWORD")

	return cfg, nil
}

// WriteFile marshals the configuration to YAML at the given path. Used by
// `portalctl init` to persist wizard output. Mode 0600 because the file may
// name security-sensitive infrastructure.
func WriteFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
