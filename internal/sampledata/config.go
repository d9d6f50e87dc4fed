package sampledata

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/okian/rosterlens/pkg/logger"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Defaults used when a Config field is left zero.
const (
	DefaultWeeks              = 6
	DefaultPlayersPerCategory = 24
	DefaultSeed               = 2024
	DefaultWorkers            = 4
	DefaultWeekPrefix         = "Week"
	DefaultSeasonDir          = "Full Season"

	maxWeeks              = 18
	maxPlayersPerCategory = len(firstNames) * len(lastNames)
)

// ErrInvalidConfig is returned when a Config cannot produce a data tree.
var ErrInvalidConfig = errors.New("invalid sample data config")

// Config describes the data tree to generate.
type Config struct {
	Root               string           // directory that receives the week and season folders
	Weeks              int              // number of weekly snapshots
	PlayersPerCategory int              // rows per category table
	Categories         []model.Category // categories to write; defaults to QB, RB, WR, TE
	Seed               uint64           // same seed, same tree
	Format             string           // csv or xlsx
	WeekPrefix         string
	SeasonDir          string
	Workers            int           // concurrent file writers
	Logger             logger.Logger // progress output; discarded when nil
}

func (c *Config) applyDefaults() {
	if c.Weeks == 0 {
		c.Weeks = DefaultWeeks
	}
	if c.PlayersPerCategory == 0 {
		c.PlayersPerCategory = DefaultPlayersPerCategory
	}
	if len(c.Categories) == 0 {
		c.Categories = slices.Clone(model.DefaultCategories)
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Format == "" {
		c.Format = FormatCSV
	}
	if c.WeekPrefix == "" {
		c.WeekPrefix = DefaultWeekPrefix
	}
	if c.SeasonDir == "" {
		c.SeasonDir = DefaultSeasonDir
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Logger == nil {
		c.Logger, _ = logger.New(logger.WithWriter(io.Discard))
	}
}

func (c *Config) validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: root directory is required", ErrInvalidConfig)
	}
	if c.Weeks < 1 || c.Weeks > maxWeeks {
		return fmt.Errorf("%w: weeks must be between 1 and %d, got %d", ErrInvalidConfig, maxWeeks, c.Weeks)
	}
	if c.PlayersPerCategory < 1 || c.PlayersPerCategory > maxPlayersPerCategory {
		return fmt.Errorf("%w: players per category must be between 1 and %d, got %d",
			ErrInvalidConfig, maxPlayersPerCategory, c.PlayersPerCategory)
	}
	if c.Format != FormatCSV && c.Format != FormatXLSX {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	return nil
}

// Stats summarizes a generation run.
type Stats struct {
	RunID        string
	Root         string
	Files        int
	Rows         int
	WeeksWritten int
}
