package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
	"github.com/patchpilot/iconkit/icns"
)

const appName = "iconkit"

var (
	homePath       string
	configHomePath string
	stateHomePath  string
)

type Config struct {
	// Edge length of the rendered master icon in pixels
	Size *int `yaml:"size,omitempty" json:"size,omitempty"`
	// Icon colors as #rrggbb
	Palette *Palette `yaml:"palette,omitempty" json:"palette,omitempty"`
	// icns tag table; replaces the default table when set
	Icons []icns.Entry `yaml:"icons,omitempty" json:"icons,omitempty"`
	// Largest perceptual hash distance between a rendition and the master; negative disables the check
	VerifyThreshold *int `yaml:"verifyThreshold,omitempty" json:"verifyThreshold,omitempty"`
}

type Palette struct {
	Top         string `yaml:"top,omitempty" json:"top,omitempty"`
	Bottom      string `yaml:"bottom,omitempty" json:"bottom,omitempty"`
	Ring        string `yaml:"ring,omitempty" json:"ring,omitempty"`
	Patch       string `yaml:"patch,omitempty" json:"patch,omitempty"`
	PatchAccent string `yaml:"patchAccent,omitempty" json:"patchAccent,omitempty"`
	Sparkle     string `yaml:"sparkle,omitempty" json:"sparkle,omitempty"`
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/iconkit/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/iconkit/config.yml
// If no config file is found, it returns an empty Config struct.
func Load(profile string) (*Config, error) {
	p := Path(profile)
	if p == "" {
		return &Config{}, nil
	}
	return LoadFile(p)
}

// Path returns the config file Load would read, or an empty string.
func Path(profile string) string {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			p := basePath + ext
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p
			}
		}
	}
	return ""
}

// LoadFile loads the configuration from path. Environment variables are expanded.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Icons) > 0 {
		if err := icns.ValidateTable(cfg.Icons); err != nil {
			return nil, fmt.Errorf("invalid icons: %w", err)
		}
	}
	return cfg, nil
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, appName)
	} else {
		configHomePath = filepath.Join(homePath, ".config", appName)
	}
	return configHomePath
}

// StateHomePath returns the path to the state home directory.
func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, appName)
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", appName)
	}
	return stateHomePath
}
