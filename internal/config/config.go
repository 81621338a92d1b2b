// Package config provides configuration management for the pitchgrid tools.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pitchgrid/pitchgrid/internal/pitch"
)

// Config holds all runtime settings for the pitchgrid CLI.
// Precedence: CLI flags > environment variables > config file > defaults
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string

	// LogFormat selects console or json log output
	LogFormat string

	// DebugImage is an optional output path for the annotated debug render
	// (empty disables rendering)
	DebugImage string

	// Tunables is the analysis knob set, stock defaults overlaid with any
	// configured overrides
	Tunables pitch.Tunables
}

// Load reads configuration from multiple sources and returns a Config.
// Sources are checked in this order: CLI flags > env vars > config file >
// defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PITCHGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	tun := pitch.DefaultTunables()
	tun.Sync.Linear = v.GetBool("linear-sync")
	tun.Sync.DMGap = v.GetInt("dm-gap")
	tun.Decide.AllProp = v.GetBool("all-prop")
	tun.Decide.WholeDocFixed = v.GetBool("whole-doc-fixed")
	tun.Decide.LegacyGate = v.GetBool("legacy-gate")
	tun.Vote.VetoPower = v.GetInt("veto-power")
	tun.Vote.SimilarityTol = v.GetFloat64("similarity-tol")
	tun.Vote.DebugBlockStats = v.GetBool("debug-block-stats")

	config := &Config{
		LogLevel:   v.GetString("log-level"),
		LogFormat:  v.GetString("log-format"),
		DebugImage: v.GetString("debug-image"),
		Tunables:   tun,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// setDefaults sets default configuration values from the stock tunables
func setDefaults(v *viper.Viper) {
	tun := pitch.DefaultTunables()

	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "console")
	v.SetDefault("debug-image", "")

	v.SetDefault("linear-sync", tun.Sync.Linear)
	v.SetDefault("dm-gap", tun.Sync.DMGap)
	v.SetDefault("all-prop", tun.Decide.AllProp)
	v.SetDefault("whole-doc-fixed", tun.Decide.WholeDocFixed)
	v.SetDefault("legacy-gate", tun.Decide.LegacyGate)
	v.SetDefault("veto-power", tun.Vote.VetoPower)
	v.SetDefault("similarity-tol", tun.Vote.SimilarityTol)
	v.SetDefault("debug-block-stats", tun.Vote.DebugBlockStats)
}

// Validate checks that the configuration is valid and internally consistent
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log-level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log-format %q, must be console or json", c.LogFormat)
	}

	if c.Tunables.Vote.VetoPower < 1 {
		return fmt.Errorf("veto-power must be at least 1, got %d", c.Tunables.Vote.VetoPower)
	}
	if c.Tunables.Vote.SimilarityTol <= 0 || c.Tunables.Vote.SimilarityTol >= 1 {
		return fmt.Errorf("similarity-tol must be in (0, 1), got %f", c.Tunables.Vote.SimilarityTol)
	}
	if c.Tunables.Sync.DMGap < 0 {
		return fmt.Errorf("dm-gap must be non-negative, got %d", c.Tunables.Sync.DMGap)
	}
	return nil
}
