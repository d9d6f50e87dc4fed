// Package service wires the table store and the analytics engine into the
// operations the HTTP and MCP adapters expose.
package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	repository "github.com/okian/rosterlens/internal/adapters/repository"
	"github.com/okian/rosterlens/internal/adapters/source"
	"github.com/okian/rosterlens/internal/domain/analytics"
	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/okian/rosterlens/pkg/logger"
	"github.com/okian/rosterlens/pkg/metrics"
)

// Service owns the store and answers analytics queries against its
// current snapshot.
type Service struct {
	mu sync.RWMutex

	store *repository.MemoryStore

	// Configuration
	dataDir     string
	categories  []model.Category
	weekPrefix  string
	seasonDir   string
	matchMode   identity.MatchMode
	loadWorkers int
	params      analytics.Params

	// State
	started    bool
	lastReload *repository.ReloadReport

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDataDir sets the root that holds the week and season folders.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithCategories restricts loading to the given categories.
func WithCategories(categories []model.Category) Option {
	return func(s *Service) {
		if len(categories) > 0 {
			s.categories = slices.Clone(categories)
		}
	}
}

// WithWeekDirPrefix sets the folder prefix that marks a week unit.
func WithWeekDirPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.weekPrefix = prefix
		}
	}
}

// WithSeasonDir sets the folder holding the season tables.
func WithSeasonDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.seasonDir = dir
		}
	}
}

// WithMatchMode sets how player names are matched across weekly tables.
func WithMatchMode(mode identity.MatchMode) Option {
	return func(s *Service) {
		s.matchMode = mode
	}
}

// WithLoadWorkers bounds concurrent file parsing during a load.
func WithLoadWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.loadWorkers = n
		}
	}
}

// WithParams replaces the query defaults. Start from analytics.DefaultParams
// to override only some of them; zero values are kept as given.
func WithParams(p analytics.Params) Option {
	return func(s *Service) {
		s.params = p
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:     "data",
		categories:  slices.Clone(model.DefaultCategories),
		weekPrefix:  "Week",
		seasonDir:   "Full Season",
		matchMode:   identity.MatchSubstring,
		loadWorkers: 4,
		params:      analytics.DefaultParams(),
		logger:      nil, // replaced when the service starts
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the store and performs the initial load. It fails only when
// neither the season nor the weekly tables could be loaded.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting analytics service...",
		logger.String("dataDir", s.dataDir),
		logger.String("matchMode", s.matchMode.String()))

	s.store = repository.NewMemoryStore(
		repository.WithLogger(s.logger.Named("repository")),
		repository.WithMatchMode(s.matchMode),
		repository.WithLoadWorkers(s.loadWorkers),
		repository.WithDiscovery(
			source.WithCategories(s.categories),
			source.WithWeekPrefix(s.weekPrefix),
			source.WithSeasonDir(s.seasonDir),
		),
	)
	s.started = true
	s.mu.Unlock()

	report, err := s.Reload(ctx)
	if err != nil {
		s.mu.Lock()
		s.started = false
		s.store = nil
		s.mu.Unlock()
		return err
	}

	s.logger.Info(ctx, "analytics service started",
		logger.Int("errors", len(report.Errors)),
		logger.Int("warnings", len(report.Warnings)))
	return nil
}

// Stop marks the service stopped. The current snapshot is dropped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping analytics service...")
	s.started = false
	s.store = nil
	s.logger.Info(context.Background(), "analytics service stopped")
}

// Reload re-reads the season and weekly tables from the data directory and
// publishes them as one snapshot. A half that fails keeps its previous
// tables; an error is returned only when both halves fail.
func (s *Service) Reload(ctx context.Context) (repository.ReloadReport, error) {
	store, err := s.currentStore()
	if err != nil {
		return repository.ReloadReport{}, err
	}

	report, err := store.Reload(ctx, s.dataDir)

	s.mu.Lock()
	s.lastReload = &report
	s.mu.Unlock()

	return report, err
}

// Params returns the query defaults.
func (s *Service) Params() analytics.Params { return s.params }

func (s *Service) currentStore() (*repository.MemoryStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// observe runs fn against an engine over the current snapshot and records
// the query outcome and latency.
func observe[T any](ctx context.Context, s *Service, op string, fn func(*analytics.Engine, *repository.Snapshot) (T, error)) (T, error) {
	start := time.Now()
	var out T
	store, err := s.currentStore()
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		snap := store.Snapshot()
		out, err = fn(analytics.New(snap, snap.Players()), snap)
	}

	outcome := Outcome(err)
	metrics.RecordQuery(op, outcome)
	metrics.RecordQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
	if outcome == metrics.OutcomeError {
		s.log().Warn(ctx, "query failed", logger.String("op", op), logger.Error(err))
	}
	return out, err
}

// Outcome classifies err for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case model.IsEmpty(err):
		return metrics.OutcomeEmpty
	case errors.Is(err, model.ErrInvalidArgument):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// Table returns the season table when week is empty, otherwise the weekly table.
func (s *Service) Table(ctx context.Context, week string, category model.Category) (*model.Table, error) {
	store, err := s.currentStore()
	if err != nil {
		return nil, err
	}
	return observe(ctx, s, "table", func(*analytics.Engine, *repository.Snapshot) (*model.Table, error) {
		return store.Table(ctx, week, category)
	})
}

// TopPerformers ranks one table by fantasy points.
func (s *Service) TopPerformers(ctx context.Context, category model.Category, week string, n int) ([]analytics.Performer, error) {
	return observe(ctx, s, "top_performers", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.Performer, error) {
		return e.TopPerformers(category, week, n)
	})
}

// Consistency ranks players by weekly consistency.
func (s *Service) Consistency(ctx context.Context, category model.Category, minGames int) ([]analytics.ConsistencyRow, error) {
	return observe(ctx, s, "consistency", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.ConsistencyRow, error) {
		return e.Consistency(category, minGames)
	})
}

// Volatility ranks season top performers by coefficient of variation.
func (s *Service) Volatility(ctx context.Context, category model.Category, topN int) ([]analytics.VolatilityRow, error) {
	return observe(ctx, s, "volatility", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.VolatilityRow, error) {
		return e.Volatility(category, topN)
	})
}

// Value ranks players by per-game output relative to roster share.
func (s *Service) Value(ctx context.Context, category model.Category, minGames int) ([]analytics.ValueRow, error) {
	return observe(ctx, s, "value", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.ValueRow, error) {
		return e.Value(category, minGames)
	})
}

// Breakout lists players whose season average beats their early baseline.
func (s *Service) Breakout(ctx context.Context, category model.Category, threshold float64) ([]analytics.BreakoutRow, error) {
	return observe(ctx, s, "breakout", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.BreakoutRow, error) {
		return e.Breakout(category, threshold)
	})
}

// Trend lists players trending up over the most recent weeks.
func (s *Service) Trend(ctx context.Context, category model.Category, recentWeeks int) ([]analytics.TrendRow, error) {
	return observe(ctx, s, "trend", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.TrendRow, error) {
		return e.Trend(category, recentWeeks)
	})
}

// WeeklySummary returns the top n of every category for one week.
func (s *Service) WeeklySummary(ctx context.Context, week string, n int) ([]analytics.CategoryLeaders, error) {
	return observe(ctx, s, "weekly_summary", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.CategoryLeaders, error) {
		return e.WeeklySummary(week, n)
	})
}

// WeeklyLeaders returns the top n of one category for every week.
func (s *Service) WeeklyLeaders(ctx context.Context, category model.Category, n int) ([]analytics.WeekLeaders, error) {
	return observe(ctx, s, "weekly_leaders", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.WeekLeaders, error) {
		return e.WeeklyLeaders(category, n)
	})
}

// WeeklySeries returns per-week points for the season leaders of a category.
func (s *Service) WeeklySeries(ctx context.Context, category model.Category, topN int) (*analytics.Series, error) {
	return observe(ctx, s, "weekly_series", func(e *analytics.Engine, _ *repository.Snapshot) (*analytics.Series, error) {
		return e.WeeklySeries(category, topN)
	})
}

// SearchPlayers finds season rows whose label contains term.
func (s *Service) SearchPlayers(ctx context.Context, term string) ([]analytics.SearchHit, error) {
	return observe(ctx, s, "search_players", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.SearchHit, error) {
		return e.SearchPlayers(term)
	})
}

// WindowTotals aggregates players over the selected weeks.
func (s *Service) WindowTotals(ctx context.Context, category model.Category, weeks []string) ([]analytics.WindowRow, error) {
	return observe(ctx, s, "window_totals", func(e *analytics.Engine, _ *repository.Snapshot) ([]analytics.WindowRow, error) {
		return e.WindowTotals(category, weeks)
	})
}

// Weeks lists the loaded week labels in chronological order.
func (s *Service) Weeks(ctx context.Context) ([]string, error) {
	return observe(ctx, s, "weeks", func(_ *analytics.Engine, snap *repository.Snapshot) ([]string, error) {
		weeks := snap.Weeks()
		out := make([]string, len(weeks))
		for i, w := range weeks {
			out[i] = w.Label
		}
		return out, nil
	})
}

// Ambiguities lists the player lookups that matched more than one row in a
// week. An empty category returns all of them.
func (s *Service) Ambiguities(ctx context.Context, category model.Category) ([]identity.Ambiguity, error) {
	return observe(ctx, s, "ambiguities", func(_ *analytics.Engine, snap *repository.Snapshot) ([]identity.Ambiguity, error) {
		return snap.Players().Ambiguities(category), nil
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"dataDir":     s.dataDir,
		"matchMode":   s.matchMode.String(),
		"loadWorkers": s.loadWorkers,
	}

	if s.started && s.store != nil {
		st := s.store.Snapshot().Stats()
		stats["snapshot"] = st
		metrics.UpdateSnapshotSize(st.WeeklyTables+st.SeasonTables, st.Rows, len(st.Weeks))
		metrics.UpdateIdentityAmbiguities(st.Ambiguities)
	}
	if s.lastReload != nil {
		stats["lastReload"] = s.lastReload
	}
	return stats
}
