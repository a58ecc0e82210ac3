package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigNames are the file names searched for, in order, when no config
// path is given.
var ConfigNames = []string{"inn.toml", "inn.yaml", "inn.yml"}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings shared by the inn commands.
type Config struct {
	CC         string   `toml:"cc" yaml:"cc"`
	CFlags     []string `toml:"cflags" yaml:"cflags"`
	OutDir     string   `toml:"out_dir" yaml:"out_dir"`
	Color      string   `toml:"color" yaml:"color"`
	MinVersion string   `toml:"min_version" yaml:"min_version"`
	IndentSize int      `toml:"indent_size" yaml:"indent_size"`
	UseTabs    bool     `toml:"use_tabs" yaml:"use_tabs"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		CC:         "cc",
		Color:      ColorAuto,
		IndentSize: 4,
	}
}

// FindConfig returns the first of ConfigNames present in dir, or "".
func FindConfig(dir string) string {
	for _, name := range ConfigNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults. INN_CC overrides the configured compiler.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := decodeConfig(configPath, data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
			config.Path = configPath
		}
	}

	if cc := os.Getenv("INN_CC"); cc != "" {
		config.CC = cc
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeConfig(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), config)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	}
	return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
}

// Validate checks field values and the min_version constraint.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	if c.IndentSize < 0 {
		return fmt.Errorf("invalid indent_size %d", c.IndentSize)
	}
	return CheckVersion(c.MinVersion)
}

// Encode renders the configuration in the format named by ext.
func (c *Config) Encode(ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".toml", "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".yaml", ".yml", "yaml", "yml":
		return yaml.Marshal(c)
	}
	return nil, fmt.Errorf("unsupported config format %q", ext)
}

// SaveConfig saves configuration to file, choosing the format by extension.
func (c *Config) SaveConfig(configPath string) error {
	data, err := c.Encode(filepath.Ext(configPath))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ColorEnabled resolves the colour mode for output on fd. NO_COLOR turns
// auto mode off.
func (c *Config) ColorEnabled(fd uintptr) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return os.Getenv("NO_COLOR") == "" && IsTerminal(fd)
}
