package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/okian/rosterlens/internal/sampledata"
	"github.com/okian/rosterlens/pkg/logger"
)

const defaultTimeout = 2 * time.Minute

func main() {
	var (
		root       = flag.String("out", "data", "Directory that receives the generated week and season folders")
		weeks      = flag.Int("weeks", sampledata.DefaultWeeks, "Number of weekly snapshots")
		players    = flag.Int("players", sampledata.DefaultPlayersPerCategory, "Players per category table")
		categories = flag.String("categories", "QB,RB,WR,TE", "Comma-separated categories")
		seed       = flag.Uint64("seed", sampledata.DefaultSeed, "Random seed; the same seed yields the same files")
		format     = flag.String("format", sampledata.FormatCSV, "Output format: csv or xlsx")
		workers    = flag.Int("workers", sampledata.DefaultWorkers, "Concurrent file writers")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	cats, err := parseCategories(*categories)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	stats, err := sampledata.Generate(ctx, sampledata.Config{
		Root:               *root,
		Weeks:              *weeks,
		PlayersPerCategory: *players,
		Categories:         cats,
		Seed:               *seed,
		Format:             *format,
		Workers:            *workers,
		Logger:             logger.Get(),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "generation failed:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d files (%d rows) under %s\n", stats.Files, stats.Rows, stats.Root)
}

func parseCategories(s string) ([]model.Category, error) {
	var out []model.Category
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := model.ParseCategory(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
