package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in defaults matching a Streamlit-style application.
const (
	DefaultPort     = 8503
	DefaultManifest = "requirements.txt"
	DefaultProbe    = "streamlit"
	DefaultCommand  = "streamlit run app.py"
	DefaultLogFile  = "streamlit.log"
	DefaultGrace    = 5
)

// Config holds the launcher settings for a project.
type Config struct {
	Name         string `yaml:"name,omitempty"`
	Command      string `yaml:"command,omitempty"`
	Manifest     string `yaml:"manifest,omitempty"`
	Probe        string `yaml:"probe,omitempty"`
	LogFile      string `yaml:"log,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	GraceSeconds int    `yaml:"grace_seconds,omitempty"`
}

// Default returns a config populated with the built-in defaults.
func Default() Config {
	return Config{
		Command:      DefaultCommand,
		Manifest:     DefaultManifest,
		Probe:        DefaultProbe,
		LogFile:      DefaultLogFile,
		Port:         DefaultPort,
		GraceSeconds: DefaultGrace,
	}
}

// Load reads the YAML configuration at path. A missing file is not an
// error: the defaults are returned so a project can launch with zero
// configuration.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	// Unmarshal over the defaults so fields absent from the file keep
	// their default values.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the config for values the launcher cannot work with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Command == "" {
		return fmt.Errorf("no run command configured")
	}
	if c.Manifest == "" {
		return fmt.Errorf("no dependency manifest configured")
	}
	if c.GraceSeconds < 0 {
		return fmt.Errorf("grace_seconds must not be negative")
	}
	return nil
}

// Write writes the config as a YAML file.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
