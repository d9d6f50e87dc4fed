package sampledata

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/okian/rosterlens/pkg/logger"
)

// Generate writes a synthetic season under cfg.Root: one folder per week
// plus the season folder, each holding a table per category. The same
// Config always produces the same files.
func Generate(ctx context.Context, cfg Config) (*Stats, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	stats := &Stats{RunID: uuid.NewString(), Root: cfg.Root, WeeksWritten: cfg.Weeks}
	log := cfg.Logger
	log.Info(ctx, "generating sample data",
		logger.String("runID", stats.RunID),
		logger.String("root", cfg.Root),
		logger.Int("weeks", cfg.Weeks),
		logger.Int("playersPerCategory", cfg.PlayersPerCategory),
		logger.String("format", cfg.Format))

	s := build(&cfg)

	type job struct {
		dir  string
		cat  model.Category
		rows []line
	}
	jobs := make([]job, 0, (cfg.Weeks+1)*len(cfg.Categories))
	for _, w := range s.weeks {
		dir := filepath.Join(cfg.Root, fmt.Sprintf("%s %d", cfg.WeekPrefix, w))
		for _, cat := range cfg.Categories {
			jobs = append(jobs, job{dir: dir, cat: cat, rows: s.weekly[w][cat]})
		}
	}
	seasonDir := filepath.Join(cfg.Root, cfg.SeasonDir)
	for _, cat := range cfg.Categories {
		jobs = append(jobs, job{dir: seasonDir, cat: cat, rows: s.totals[cat]})
	}

	var files, rows atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("context cancelled during generation: %w", err)
			}
			path, err := writeTable(j.dir, j.cat, cfg.Format, j.rows)
			if err != nil {
				return err
			}
			files.Add(1)
			rows.Add(int64(len(j.rows)))
			log.Debug(gctx, "table written", logger.String("path", path), logger.Int("rows", len(j.rows)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Files = int(files.Load())
	stats.Rows = int(rows.Load())
	log.Info(ctx, "sample data generated",
		logger.String("runID", stats.RunID),
		logger.Int("files", stats.Files),
		logger.Int("rows", stats.Rows),
		logger.Duration("duration", time.Since(start)))
	return stats, nil
}
