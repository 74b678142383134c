// Package config loads malfs settings and the required build-root
// environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
	"github.com/DrMatrix007/matrix-alfs/internal/output"
	"github.com/DrMatrix007/matrix-alfs/internal/partition"
)

// BuildRootEnv names the variable holding the LFS mount point.
const BuildRootEnv = "LFS"

// Environment overrides (highest precedence).
const (
	EnvListCommand = "MALFS_LIST_COMMAND"
	EnvLogLevel    = "MALFS_LOG_LEVEL"
	EnvColor       = "MALFS_COLOR"
	EnvNoColor     = "NO_COLOR"
)

// Config represents the complete malfs configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Partitions PartitionsConfig `yaml:"partitions" json:"partitions"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Verify     VerifyConfig     `yaml:"verify" json:"verify"`
}

// PartitionsConfig configures partition listing.
type PartitionsConfig struct {
	// ListCommand is the shell pipeline printing one line per partition.
	ListCommand string `yaml:"list_command" json:"list_command"`
}

// OutputConfig configures console output.
type OutputConfig struct {
	// Color is auto, always or never.
	Color string `yaml:"color" json:"color"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" json:"level"`
}

// VerifyConfig configures host verification.
type VerifyConfig struct {
	// SkipBuildRoot disables the free space check on $LFS.
	SkipBuildRoot bool `yaml:"skip_build_root" json:"skip_build_root"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Partitions: PartitionsConfig{
			ListCommand: partition.DefaultListCommand,
		},
		Output: OutputConfig{
			Color: string(output.ColorAuto),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file,
// looking variables up through getenv. It follows the XDG Base Directory
// specification:
//   - $XDG_CONFIG_HOME/malfs/config.yaml (if XDG_CONFIG_HOME is set)
//   - $HOME/.config/malfs/config.yaml (default)
//
// It returns "" when neither variable is set.
func GetUserConfigPath(getenv func(string) string) string {
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "malfs", "config.yaml")
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "malfs", "config.yaml")
	}
	return ""
}

// Load loads configuration. It applies, in order of increasing precedence:
//  1. Hardcoded defaults
//  2. The file at path, or the user config file when path is empty
//  3. Environment variables (MALFS_*, NO_COLOR)
//
// An explicit path must exist; a missing user config file is fine.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	} else if userPath := GetUserConfigPath(getenv); userPath != "" && fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return alfserrors.New(alfserrors.ErrCodeConfigRead,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return alfserrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Partitions.ListCommand != "" {
		c.Partitions.ListCommand = other.Partitions.ListCommand
	}
	if other.Output.Color != "" {
		c.Output.Color = other.Output.Color
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Verify.SkipBuildRoot {
		c.Verify.SkipBuildRoot = true
	}
}

// applyEnvOverrides applies MALFS_* variables. NO_COLOR, when set to
// anything, forces color off unless MALFS_COLOR says otherwise.
func (c *Config) applyEnvOverrides(getenv func(string) string) {
	if v := getenv(EnvListCommand); v != "" {
		c.Partitions.ListCommand = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if getenv(EnvNoColor) != "" {
		c.Output.Color = string(output.ColorNever)
	}
	if v := getenv(EnvColor); v != "" {
		c.Output.Color = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := output.ParseColorMode(c.Output.Color); err != nil {
		return alfserrors.ConfigError(fmt.Sprintf("output.color: %v", err), err)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return alfserrors.ConfigError(
			fmt.Sprintf("logging.level: invalid level %q (want debug, info, warn or error)", c.Logging.Level), nil)
	}

	if strings.TrimSpace(c.Partitions.ListCommand) == "" {
		return alfserrors.ConfigError("partitions.list_command must not be empty", nil)
	}
	return nil
}

// ColorMode returns the validated output color mode.
func (c *Config) ColorMode() output.ColorMode {
	mode, err := output.ParseColorMode(c.Output.Color)
	if err != nil {
		return output.ColorAuto
	}
	return mode
}

// BuildRoot reads the required LFS variable. An unset or empty value is
// a fatal error.
func BuildRoot(getenv func(string) string) (string, error) {
	root := getenv(BuildRootEnv)
	if root == "" {
		return "", alfserrors.EnvMissing(BuildRootEnv)
	}
	return root, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
