package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileHeader is written at the top of saved config files.
const fileHeader = "# leafmerge configuration\n# Command-line flags override every value below.\n"

// LoadConfigFile reads a YAML config file over the defaults and records
// its path in ConfigPath. Unknown keys are an error. An empty file yields
// the defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ConfigPath = path
	return cfg, nil
}

// SearchPaths lists the config file locations in lookup order: the
// working directory, then ~/.leafmerge, then /etc/leafmerge.
func SearchPaths() []string {
	paths := []string{"./leafmerge.yaml", "./leafmerge.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".leafmerge")
		paths = append(paths, filepath.Join(dir, "config.yaml"), filepath.Join(dir, "config.yml"))
	}
	return append(paths, "/etc/leafmerge/config.yaml", "/etc/leafmerge/config.yml")
}

// FindConfigFile returns the first regular file among SearchPaths, or ""
// when there is none.
func FindConfigFile() string {
	for _, path := range SearchPaths() {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// SaveConfigFile writes cfg as YAML, creating parent directories.
// Command-line-only fields are not saved.
func SaveConfigFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
