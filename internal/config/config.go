// Package config loads harness configuration.
//
// The format-code table and the divergence sentinel are reverse-engineered
// constants of an undocumented ABI; both are kept overridable here so they
// can be corrected against a real target library without a rebuild.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/audlab/audparity/internal/errors"
	"github.com/audlab/audparity/internal/parity"
	"github.com/audlab/audparity/internal/session"
)

// DefaultFileName is the config file looked up in the working directory
// when --config is not given.
const DefaultFileName = ".audparity.yaml"

// Config is the complete harness configuration.
type Config struct {
	// Formats overrides individual entries of the built-in extension
	// table, e.g. ".wav": 9. Defaults are kept for extensions not listed.
	Formats map[string]int32 `yaml:"formats"`

	// DivergenceSentinel is the open return code treated as "original
	// requires a hosting context".
	DivergenceSentinel int32 `yaml:"divergence_sentinel"`

	// InitMagic is the handshake constant for the single-call init.
	InitMagic uint32 `yaml:"init_magic"`

	// ChallengeInit switches the original library's run to the
	// three-phase handshake.
	ChallengeInit bool `yaml:"challenge_init"`

	// ResultsPath, when set, is where the run's results JSON is written
	// in addition to stdout.
	ResultsPath string `yaml:"results_path"`

	// HistoryPath, when set, is the SQLite run-history database.
	HistoryPath string `yaml:"history_path"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DivergenceSentinel: parity.DefaultDivergenceSentinel,
		InitMagic:          session.Magic,
		LogLevel:           "info",
	}
}

// Load reads the config at path, overlaying it on the defaults. An empty
// path falls back to DefaultFileName when that file exists; a missing
// default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, apperrors.New(apperrors.ErrCodeConfigNotFound,
			fmt.Sprintf("cannot read config %s", path), err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperrors.ConfigError(
			fmt.Sprintf("cannot parse config %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the harness cannot act on.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return apperrors.ConfigError(
			fmt.Sprintf("unknown log_level %q", c.LogLevel), nil)
	}
	if c.InitMagic == 0 {
		return apperrors.ConfigError("init_magic must be nonzero", nil)
	}
	for ext, code := range c.Formats {
		if code < 0 {
			return apperrors.ConfigError(
				fmt.Sprintf("format code for %q must be >= 0", ext), nil)
		}
	}
	return nil
}
