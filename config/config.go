// Package config loads application settings from defaults, an optional YAML
// file, and POLICYFEED_* environment variables, in that precedence order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// OutputConfig controls the published payload.
type OutputConfig struct {
	Path     string `mapstructure:"path"`
	MaxItems int    `mapstructure:"max_items"`
	PageSize int    `mapstructure:"page_size"`
	MaxPages int    `mapstructure:"max_pages"`
}

// FetchConfig controls feed retrieval.
type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	WindowDays   int           `mapstructure:"window_days"`
	MaxFeedPages int           `mapstructure:"max_feed_pages"`
	UserAgent    string        `mapstructure:"user_agent"`
	ProbePages   bool          `mapstructure:"probe_pages"`
}

// SourcesConfig controls the feed list.
type SourcesConfig struct {
	// Feeds replaces the built-in list entirely when set.
	Feeds []string `mapstructure:"feeds"`
	// ExtraFile points at a curated plain-text URL list merged on top.
	ExtraFile string `mapstructure:"extra_file"`
}

// RulesConfig points at an optional YAML ruleset override.
type RulesConfig struct {
	File string `mapstructure:"file"`
}

// StateConfig controls the fetch-state database. An empty path disables it.
type StateConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls logging.
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Config is the full application configuration.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Sources SourcesConfig `mapstructure:"sources"`
	Rules   RulesConfig   `mapstructure:"rules"`
	State   StateConfig   `mapstructure:"state"`
	Log     LogConfig     `mapstructure:"log"`
}

// Load reads configuration. cfgFile, when non-empty, names an explicit file
// that must exist; otherwise policyfeed.yaml is looked for in the working
// directory and ~/.policyfeed, and its absence is fine.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("output.path", "data/policyNews.json")
	v.SetDefault("output.max_items", 30)
	v.SetDefault("output.page_size", 30)
	v.SetDefault("output.max_pages", 1)
	v.SetDefault("fetch.timeout", "20s")
	v.SetDefault("fetch.window_days", 45)
	v.SetDefault("fetch.max_feed_pages", 1)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.probe_pages", false)
	v.SetDefault("sources.feeds", []string{})
	v.SetDefault("sources.extra_file", "")
	v.SetDefault("rules.file", "")
	v.SetDefault("state.path", "")
	v.SetDefault("log.debug", false)

	v.SetEnvPrefix("POLICYFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("policyfeed")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.policyfeed")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Output.Path == "" {
		return errors.New("output.path must not be empty")
	}
	if c.Output.MaxItems < 1 {
		return errors.New("output.max_items must be at least 1")
	}
	if c.Output.PageSize < 1 {
		return errors.New("output.page_size must be at least 1")
	}
	if c.Output.MaxPages < 1 {
		return errors.New("output.max_pages must be at least 1")
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be positive")
	}
	if c.Fetch.WindowDays < 1 {
		return errors.New("fetch.window_days must be at least 1")
	}
	if c.Fetch.MaxFeedPages < 1 {
		return errors.New("fetch.max_feed_pages must be at least 1")
	}
	return nil
}
