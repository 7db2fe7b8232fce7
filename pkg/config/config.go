// Package config provides configuration management for refetch. It handles
// loading, validating and saving the YAML configuration that names the
// tracked files, their source URLs and the application settings.
package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/refetch/pkg/errors"
	"github.com/glorpus-work/refetch/pkg/fsutil"
	"github.com/glorpus-work/refetch/pkg/model"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Tracked files, in the order they are reconciled and reported.
	Files []*FileConfig `yaml:"files"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// FileConfig is one tracked file: a logical name (relative path under the
// base directory) and its source URL.
type FileConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Settings represents general application settings.
type Settings struct {
	// Directory settings. Relative paths are resolved against the working
	// directory at load time.
	BaseDir  string `yaml:"base_dir,omitempty"`  // where the tracked files live
	StateDir string `yaml:"state_dir,omitempty"` // registry and conflict cache
	HooksDir string `yaml:"hooks_dir,omitempty"` // optional tengo hook scripts

	// Network settings
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent_syncs"`
	UserAgent     string        `yaml:"user_agent,omitempty"`

	// Digest settings
	DigestAlgorithm string `yaml:"digest_algorithm"`

	// Output settings
	LogLevel string `yaml:"log_level"`          // error, warn, info, debug
	LogFile  string `yaml:"log_file,omitempty"` // optional rotating log file
}

// Default configuration values.
const (
	// DefaultConfigFile is the config file looked up in the working directory.
	DefaultConfigFile = ".refetch.yaml"

	// DefaultStateDir holds the registry and conflict cache.
	DefaultStateDir = ".refetch"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxConcurrent is the default maximum number of concurrent fetches.
	DefaultMaxConcurrent = 5

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults and no
// tracked files.
func DefaultConfig() *Config {
	return &Config{
		Files: []*FileConfig{},
		Settings: Settings{
			BaseDir:         ".",
			StateDir:        DefaultStateDir,
			HTTPTimeout:     DefaultHTTPTimeout,
			MaxConcurrent:   DefaultMaxConcurrent,
			DigestAlgorithm: "sha256",
			LogLevel:        "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration, matching a directory that tracks nothing yet.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	_ = encoder.Close()

	return fsutil.WriteFileAtomic(absPath, []byte(buf.String()), fsutil.FileModeDefault)
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Files == nil {
		c.Files = []*FileConfig{}
	}
	if c.Settings.BaseDir == "" {
		c.Settings.BaseDir = defaults.Settings.BaseDir
	}
	if c.Settings.StateDir == "" {
		c.Settings.StateDir = defaults.Settings.StateDir
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.DigestAlgorithm == "" {
		c.Settings.DigestAlgorithm = defaults.Settings.DigestAlgorithm
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateFiles(c.Files); err != nil {
		return err
	}
	if c.Settings.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent_syncs cannot be negative")
	}
	if c.Settings.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout cannot be negative")
	}
	return nil
}

func validateFiles(files []*FileConfig) error {
	names := make(map[string]bool, len(files))
	for i, f := range files {
		if f == nil {
			return fmt.Errorf("file entry %d is empty", i)
		}
		if f.Name == "" {
			return fmt.Errorf("file entry %d has no name", i)
		}
		if names[f.Name] {
			return fmt.Errorf("duplicate file name: %s", f.Name)
		}
		names[f.Name] = true

		if filepath.IsAbs(f.Name) {
			return fmt.Errorf("file name must be relative: %s", f.Name)
		}
		clean := filepath.Clean(f.Name)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("file name escapes the base directory: %s", f.Name)
		}

		if f.URL == "" {
			return fmt.Errorf("file %s has no url", f.Name)
		}
		u, err := url.Parse(f.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("file %s has an invalid url: %s", f.Name, f.URL)
		}
	}
	return nil
}

// Entries converts the tracked file list into model entries with parsed
// URLs, in configuration order.
func (c *Config) Entries() ([]model.FileEntry, error) {
	entries := make([]model.FileEntry, 0, len(c.Files))
	for _, f := range c.Files {
		u, err := url.Parse(f.URL)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrConfigValidation, "invalid url for %s: %v", f.Name, err)
		}
		entries = append(entries, model.FileEntry{Name: f.Name, URL: u})
	}
	return entries, nil
}

// RegistryPath returns the location of the digest registry.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Settings.StateDir, "state.json")
}

// ConflictCacheDir returns the conflict cache directory.
func (c *Config) ConflictCacheDir() string {
	return filepath.Join(c.Settings.StateDir, "cache")
}
