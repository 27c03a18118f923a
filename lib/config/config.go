// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when no --config flag is
// given.
const EnvironmentVariable = "MOONPHASE_CONFIG"

// Config is the configuration of the moon phase service.
type Config struct {
	// Mount configures the FUSE filesystem that exposes the device.
	Mount MountConfig `yaml:"mount"`

	// Document configures the served document.
	Document DocumentConfig `yaml:"document"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`
}

// MountConfig configures the FUSE mount.
type MountConfig struct {
	// Mountpoint is the directory the filesystem is mounted on.
	// Default: ${XDG_RUNTIME_DIR:-/tmp}/moonphase
	Mountpoint string `yaml:"mountpoint"`

	// FileName is the name of the device file in the mount root.
	// Default: moonphase
	FileName string `yaml:"file_name"`

	// Mode is the octal permission mode of the device file.
	// Default: "0666"
	Mode string `yaml:"mode"`

	// AllowOther lets other users open the device file. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool `yaml:"allow_other"`
}

// DocumentConfig configures the served document.
type DocumentConfig struct {
	// MaxSize is the ceiling on the rendered document in bytes.
	// Default: 10240
	MaxSize int `yaml:"max_size"`

	// ArtFile replaces the compiled-in art with the contents of this
	// file. Empty uses the compiled-in art.
	ArtFile string `yaml:"art_file"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Format is json or text.
	// Default: json
	Format string `yaml:"format"`
}

// Default returns the default configuration. These defaults are the
// base the config file is merged onto.
func Default() *Config {
	return &Config{
		Mount: MountConfig{
			Mountpoint: "${XDG_RUNTIME_DIR:-/tmp}/moonphase",
			FileName:   "moonphase",
			Mode:       "0666",
		},
		Document: DocumentConfig{
			MaxSize: 10240,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from the file named by MOONPHASE_CONFIG.
// It fails if the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your moonphase.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, on top of
// Default, and expands variables in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.ExpandVariables()
	return cfg, nil
}

// loadFile merges a single YAML file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// ExpandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields.
func (c *Config) ExpandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Mount.Mountpoint = expandVars(c.Mount.Mountpoint, vars)
	c.Document.ArtFile = expandVars(c.Document.ArtFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// FileMode parses Mount.Mode as octal permission bits.
func (c *Config) FileMode() (uint32, error) {
	mode, err := strconv.ParseUint(c.Mount.Mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("mount.mode %q is not an octal mode: %w", c.Mount.Mode, err)
	}
	if mode == 0 || mode > 0o777 {
		return 0, fmt.Errorf("mount.mode %q must be between 0001 and 0777", c.Mount.Mode)
	}
	return uint32(mode), nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Validate checks the configuration for errors and reports all of
// them.
func (c *Config) Validate() error {
	var errs []error

	if c.Mount.Mountpoint == "" {
		errs = append(errs, fmt.Errorf("mount.mountpoint is required"))
	}

	switch {
	case c.Mount.FileName == "":
		errs = append(errs, fmt.Errorf("mount.file_name is required"))
	case strings.ContainsRune(c.Mount.FileName, '/'), c.Mount.FileName == ".", c.Mount.FileName == "..":
		errs = append(errs, fmt.Errorf("mount.file_name %q is not a plain file name", c.Mount.FileName))
	}

	if _, err := c.FileMode(); err != nil {
		errs = append(errs, err)
	}

	if c.Document.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("document.max_size must be positive, got %d", c.Document.MaxSize))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	formats := []string{"json", "text"}
	if !contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
