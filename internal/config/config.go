// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is the root holding the week directories and the season directory.
	DataDir string `koanf:"data_dir"`

	// Categories is a comma-separated list of player categories to load.
	Categories string `koanf:"categories"`

	// WeekDirPrefix and SeasonDir name the directories under DataDir.
	WeekDirPrefix string `koanf:"week_dir_prefix"`
	SeasonDir     string `koanf:"season_dir"`

	// MatchMode is substring, substring_fold or exact.
	MatchMode string `koanf:"match_mode"`

	// LoadWorkers bounds concurrent file parsing during a load.
	LoadWorkers int `koanf:"load_workers"`

	// MaxResultLimit caps n/top_n query parameters on the HTTP API.
	MaxResultLimit int `koanf:"max_result_limit"`

	// MCPEnabled mounts the MCP tool server at MCPPath.
	MCPEnabled bool   `koanf:"mcp_enabled"`
	MCPPath    string `koanf:"mcp_path"`

	// Query defaults used when a request omits the parameter.
	DefaultTopN       int     `koanf:"default_top_n"`
	DefaultMinGames   int     `koanf:"default_min_games"`
	ValueMinGames     int     `koanf:"value_min_games"`
	VolatilityTopN    int     `koanf:"volatility_top_n"`
	BreakoutThreshold float64 `koanf:"breakout_threshold"`
	TrendRecentWeeks  int     `koanf:"trend_recent_weeks"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DataDir:           "data",
		Categories:        "QB,RB,WR,TE",
		WeekDirPrefix:     "Week",
		SeasonDir:         "Full Season",
		MatchMode:         identity.MatchSubstring.String(),
		LoadWorkers:       4,
		MaxResultLimit:    100,
		MCPEnabled:        true,
		MCPPath:           "/mcp",
		DefaultTopN:       10,
		DefaultMinGames:   3,
		ValueMinGames:     5,
		VolatilityTopN:    20,
		BreakoutThreshold: 0.5,
		TrendRecentWeeks:  3,
	}
}

// CategoryList parses Categories.
func (c *Config) CategoryList() ([]model.Category, error) {
	var out []model.Category
	seen := make(map[model.Category]bool)
	for _, part := range strings.Split(c.Categories, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		cat, err := model.ParseCategory(part)
		if err != nil {
			return nil, err
		}
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: categories must not be empty", ErrInvalidConfig)
	}
	return out, nil
}

// Mode parses MatchMode.
func (c *Config) Mode() (identity.MatchMode, error) {
	m, err := identity.ParseMatchMode(c.MatchMode)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return m, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.WeekDirPrefix == "" || c.SeasonDir == "" {
		return fmt.Errorf("%w: week_dir_prefix and season_dir must not be empty", ErrInvalidConfig)
	}
	if _, err := c.CategoryList(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.LoadWorkers < 1 || c.MaxResultLimit < 1 {
		return fmt.Errorf("%w: load_workers and max_result_limit must be positive", ErrInvalidConfig)
	}
	if c.MCPEnabled && !strings.HasPrefix(c.MCPPath, "/") {
		return fmt.Errorf("%w: mcp_path must start with /", ErrInvalidConfig)
	}
	if c.DefaultTopN < 1 || c.VolatilityTopN < 1 || c.TrendRecentWeeks < 1 {
		return fmt.Errorf("%w: default_top_n, volatility_top_n and trend_recent_weeks must be positive", ErrInvalidConfig)
	}
	if c.DefaultMinGames < 0 || c.ValueMinGames < 0 || c.BreakoutThreshold < 0 {
		return fmt.Errorf("%w: min games and breakout_threshold must not be negative", ErrInvalidConfig)
	}
	return nil
}
