// Package config provides configuration types, defaults and policy file
// loading for webmverify.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"

	"github.com/five82/webmverify/internal/errors"
)

// Default constants
const (
	// DefaultMinEncoderVersion is the oldest accepted libavformat release.
	DefaultMinEncoderVersion = "61.7.100"

	// DefaultTruePeakMax is the highest accepted true peak in dBTP. An
	// earlier revision of the standard allowed -0.5.
	DefaultTruePeakMax = -1.0

	// DefaultJobs is the number of files verified at once.
	DefaultJobs = 1

	// DefaultLogLevel is the log level used when none is given.
	DefaultLogLevel = "info"

	// DefaultFormat is the report format used when none is given.
	DefaultFormat = FormatText

	// ProjectConfigName is looked up in the working directory.
	ProjectConfigName = "webmverify.toml"

	// UserConfigPath is looked up when no project config exists.
	UserConfigPath = "~/.config/webmverify/config.toml"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LogLevels lists the accepted log level names.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Formats lists the accepted report formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Policy holds the thresholds that have changed between revisions of the
// encoding standard.
type Policy struct {
	MinEncoderVersion string  `toml:"min_encoder_version"`
	TruePeakMax       float64 `toml:"true_peak_max"`
}

// Config holds all configuration for a verification run.
type Config struct {
	// Rule groups to run; empty means all.
	Groups []string `toml:"groups"`
	// Files verified concurrently; 0 means one per logical CPU.
	Jobs     int    `toml:"jobs"`
	LogLevel string `toml:"log_level"`
	Format   string `toml:"format"`
	TempDir  string `toml:"temp_dir"` // Optional, defaults to the system temp dir

	Policy Policy `toml:"policy"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Jobs:     DefaultJobs,
		LogLevel: DefaultLogLevel,
		Format:   DefaultFormat,
		Policy:   DefaultPolicy(),
	}
}

// DefaultPolicy returns the current thresholds of the standard.
func DefaultPolicy() Policy {
	return Policy{
		MinEncoderVersion: DefaultMinEncoderVersion,
		TruePeakMax:       DefaultTruePeakMax,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("%w: must be >= 0, got %d", ErrInvalidJobs, c.Jobs)
	}

	if !slices.Contains(LogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: '%s', valid options: %s", ErrInvalidLogLevel, c.LogLevel, strings.Join(LogLevels, ", "))
	}

	if !slices.Contains(Formats, strings.ToLower(c.Format)) {
		return fmt.Errorf("%w: '%s', valid options: %s", ErrInvalidFormat, c.Format, strings.Join(Formats, ", "))
	}

	return c.Policy.Validate()
}

// Validate checks the policy thresholds.
func (p Policy) Validate() error {
	if !semver.IsValid("v" + p.MinEncoderVersion) {
		return fmt.Errorf("%w: '%s'", ErrInvalidEncoderVersion, p.MinEncoderVersion)
	}
	if p.TruePeakMax > 0 {
		return fmt.Errorf("%w: must be <= 0 dBTP, got %.2f", ErrInvalidTruePeak, p.TruePeakMax)
	}
	return nil
}

// Load reads the policy file and returns the resulting configuration along
// with the path consulted and whether it existed. An explicit path must
// exist; the default locations are optional.
func Load(path string) (*Config, string, bool, error) {
	cfg := NewConfig()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, errors.NewConfigError("open config", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, "", false, errors.NewConfigError(fmt.Sprintf("parse config %s", resolvedPath), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, errors.NewConfigError(resolvedPath, err)
	}

	return cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", false, errors.NewConfigError(fmt.Sprintf("config %s", expanded), err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(ProjectConfigName)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	userPath, err := expandPath(UserConfigPath)
	if err != nil {
		// No home directory means there is no user config to read.
		return "", false, nil
	}
	info, err := os.Stat(userPath)
	switch {
	case err == nil && !info.IsDir():
		return userPath, true, nil
	case err == nil, stderrors.Is(err, fs.ErrNotExist):
		return userPath, false, nil
	default:
		return "", false, errors.NewConfigError(fmt.Sprintf("stat config %s", userPath), err)
	}
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return filepath.Abs(path)
}
