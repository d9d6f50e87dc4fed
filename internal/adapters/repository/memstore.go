package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/rosterlens/internal/adapters/source"
	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/okian/rosterlens/pkg/logger"
	"github.com/okian/rosterlens/pkg/metrics"
)

const defaultLoadWorkers = 4

// MemoryStore keeps the current Snapshot behind an atomic pointer. Loads are
// serialized and build a complete new Snapshot before swapping it in, so
// readers never observe a partially loaded state and never take a lock.
type MemoryStore struct {
	log       logger.Logger
	matchMode identity.MatchMode
	workers   int
	discovery []source.Option

	loadMu  sync.Mutex
	current atomic.Pointer[Snapshot]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		matchMode: identity.MatchSubstring,
		workers:   defaultLoadWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log, _ = logger.New(logger.WithWriter(io.Discard))
	}

	empty := &Snapshot{
		ID:         uuid.NewString(),
		LoadedAt:   time.Now(),
		categories: source.NewDiscovery("", s.discovery...).Categories(),
		weekly:     map[int]map[model.Category]*model.Table{},
		season:     map[model.Category]*model.Table{},
	}
	empty.players = identity.Build(empty, identity.WithMatchMode(s.matchMode))
	s.current.Store(empty)
	return s
}

// Snapshot returns the current snapshot.
func (s *MemoryStore) Snapshot() *Snapshot { return s.current.Load() }

// Table implements Store.Table.
func (s *MemoryStore) Table(_ context.Context, week string, category model.Category) (*model.Table, error) {
	snap := s.current.Load()
	if week == "" {
		if t, ok := snap.Season(category); ok {
			return t, nil
		}
		return nil, fmt.Errorf("%w: no season table for %s", model.ErrEmptyResult, category)
	}

	w, err := model.ParseWeekKey(week)
	if err != nil {
		return nil, err
	}
	if t, ok := snap.Weekly(w, category); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: no table for %s/%s", model.ErrEmptyResult, week, category)
}

type parseJob struct {
	path  string
	scope model.Scope
}

// half is one parsed side of a snapshot, weekly or season, ready to be
// combined with the other side.
type half struct {
	kind       Kind
	start      time.Time
	categories []model.Category
	tables     []*model.Table
	warnings   []error

	weeks  []model.WeekKey
	weekly map[int]map[model.Category]*model.Table
	season map[model.Category]*model.Table
}

// LoadWeekly implements Store.LoadWeekly.
func (s *MemoryStore) LoadWeekly(ctx context.Context, root string) (LoadReport, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	h, err := s.readWeekly(ctx, root)
	if err != nil {
		return LoadReport{}, s.loadFailed(ctx, KindWeekly, err)
	}
	return s.publish(ctx, root, h, nil)[0], nil
}

// LoadSeason implements Store.LoadSeason.
func (s *MemoryStore) LoadSeason(ctx context.Context, root string) (LoadReport, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	h, err := s.readSeason(ctx, root)
	if err != nil {
		return LoadReport{}, s.loadFailed(ctx, KindSeason, err)
	}
	return s.publish(ctx, root, nil, h)[0], nil
}

// Reload implements Store.Reload. Both halves are parsed before a single
// snapshot is published; a half that fails keeps its previous tables.
func (s *MemoryStore) Reload(ctx context.Context, root string) (ReloadReport, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	var report ReloadReport

	season, seasonErr := s.readSeason(ctx, root)
	if seasonErr != nil {
		seasonErr = s.loadFailed(ctx, KindSeason, seasonErr)
		report.Errors = append(report.Errors, seasonErr.Error())
	}
	weekly, weeklyErr := s.readWeekly(ctx, root)
	if weeklyErr != nil {
		weeklyErr = s.loadFailed(ctx, KindWeekly, weeklyErr)
		report.Errors = append(report.Errors, weeklyErr.Error())
	}
	if seasonErr != nil && weeklyErr != nil {
		return report, errors.Join(seasonErr, weeklyErr)
	}

	for _, r := range s.publish(ctx, root, weekly, season) {
		switch r.Kind {
		case KindSeason:
			report.Season = &r
		case KindWeekly:
			report.Weekly = &r
		}
		report.Warnings = append(report.Warnings, r.WarningMessages()...)
	}
	for _, a := range s.current.Load().players.Ambiguities("") {
		report.Warnings = append(report.Warnings, a.String())
	}
	return report, nil
}

func (s *MemoryStore) readWeekly(ctx context.Context, root string) (*half, error) {
	start := time.Now()
	d := source.NewDiscovery(root, s.discovery...)
	units, warnings, err := d.Weeks()
	if err == nil && len(units) == 0 {
		err = fmt.Errorf("%w under %s", ErrNoSources, root)
	}
	if err != nil {
		return nil, err
	}

	var (
		jobs  []parseJob
		weeks = make([]model.WeekKey, 0, len(units))
	)
	for _, u := range units {
		week := u.Week
		weeks = append(weeks, week)
		for _, c := range d.Categories() {
			if path, ok := u.Files[c]; ok {
				jobs = append(jobs, parseJob{path: path, scope: model.Scope{Week: &week, Category: c}})
			}
		}
	}

	tables, parseWarnings, err := s.parseAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	weekly := make(map[int]map[model.Category]*model.Table, len(weeks))
	for _, w := range weeks {
		weekly[w.Ordinal] = make(map[model.Category]*model.Table)
	}
	for _, t := range tables {
		weekly[t.Scope.Week.Ordinal][t.Scope.Category] = t
	}
	return &half{
		kind:       KindWeekly,
		start:      start,
		categories: d.Categories(),
		tables:     tables,
		warnings:   append(warnings, parseWarnings...),
		weeks:      weeks,
		weekly:     weekly,
	}, nil
}

func (s *MemoryStore) readSeason(ctx context.Context, root string) (*half, error) {
	start := time.Now()
	d := source.NewDiscovery(root, s.discovery...)
	files, err := d.Season()
	if err == nil && len(files) == 0 {
		err = fmt.Errorf("%w under %s", ErrNoSources, root)
	}
	if err != nil {
		return nil, err
	}

	var jobs []parseJob
	for _, c := range d.Categories() {
		if path, ok := files[c]; ok {
			jobs = append(jobs, parseJob{path: path, scope: model.Scope{Category: c}})
		}
	}

	tables, warnings, err := s.parseAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	season := make(map[model.Category]*model.Table, len(tables))
	for _, t := range tables {
		season[t.Scope.Category] = t
	}
	return &half{
		kind:       KindSeason,
		start:      start,
		categories: d.Categories(),
		tables:     tables,
		warnings:   warnings,
		season:     season,
	}, nil
}

// parseAll parses jobs concurrently. Results keep job order. A file that
// fails to parse is reported as a warning and left out.
func (s *MemoryStore) parseAll(ctx context.Context, jobs []parseJob) ([]*model.Table, []error, error) {
	parsed := make([]*model.Table, len(jobs))
	warns := make([][]error, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, w, err := source.ParseFile(job.path, job.scope)
			warns[i] = w
			if err != nil {
				warns[i] = append(warns[i], err)
				return nil
			}
			parsed[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		tables   []*model.Table
		warnings []error
	)
	for i := range jobs {
		warnings = append(warnings, warns[i]...)
		if parsed[i] != nil {
			tables = append(tables, parsed[i])
		}
	}
	return tables, warnings, nil
}

// publish combines the loaded halves with the current snapshot, builds the
// player index and swaps the result in. A nil half keeps the previous tables.
// It returns one report per loaded half, weekly first.
func (s *MemoryStore) publish(ctx context.Context, root string, weekly, season *half) []LoadReport {
	prev := s.current.Load()
	next := &Snapshot{
		ID:             uuid.NewString(),
		categories:     prev.categories,
		weeks:          prev.weeks,
		weekly:         prev.weekly,
		season:         prev.season,
		weeklyWarnings: prev.weeklyWarnings,
		seasonWarnings: prev.seasonWarnings,
	}
	var halves []*half
	if weekly != nil {
		next.categories, next.weeks, next.weekly = weekly.categories, weekly.weeks, weekly.weekly
		next.weeklyWarnings = weekly.warnings
		halves = append(halves, weekly)
	}
	if season != nil {
		next.categories, next.season = season.categories, season.season
		next.seasonWarnings = season.warnings
		halves = append(halves, season)
	}
	next.LoadedAt = time.Now()
	next.players = identity.Build(next, identity.WithMatchMode(s.matchMode))
	s.current.Store(next)

	ambiguities := next.players.Ambiguities("")
	for _, a := range ambiguities {
		s.log.Warn(ctx, "ambiguous player match",
			logger.String("snapshot_id", next.ID),
			logger.String("scope", a.Week+"/"+string(a.Category)),
			logger.String("path", next.weeklySource(a.Week, a.Category)),
			logger.String("name", a.Name),
			logger.String("chosen", a.Chosen),
			logger.Int("candidates", len(a.Candidates)),
		)
	}

	reports := make([]LoadReport, 0, len(halves))
	for _, h := range halves {
		rows := 0
		for _, t := range h.tables {
			rows += t.Len()
		}
		report := LoadReport{
			SnapshotID:  next.ID,
			Kind:        h.kind,
			Root:        root,
			Tables:      len(h.tables),
			Rows:        rows,
			Weeks:       len(next.weeks),
			Ambiguities: len(ambiguities),
			Duration:    time.Since(h.start),
			Warnings:    h.warnings,
		}
		reports = append(reports, report)

		for _, w := range h.warnings {
			s.log.Warn(ctx, "load warning",
				logger.String("snapshot_id", next.ID),
				logger.String("kind", string(h.kind)),
				logger.String("scope", warningScope(w)),
				logger.String("path", warningPath(w)),
				logger.Error(w),
			)
		}
		s.log.Info(ctx, "snapshot published",
			logger.String("snapshot_id", report.SnapshotID),
			logger.String("kind", string(h.kind)),
			logger.String("root", root),
			logger.Int("tables", report.Tables),
			logger.Int("rows", report.Rows),
			logger.Int("warnings", len(h.warnings)),
			logger.Int("ambiguities", report.Ambiguities),
			logger.Duration("took", report.Duration),
		)

		metrics.RecordLoad(string(h.kind), metrics.OutcomeOK)
		metrics.RecordLoadDuration(string(h.kind), float64(report.Duration.Milliseconds()))
		metrics.RecordLoadWarnings(string(h.kind), len(h.warnings))
	}

	st := next.Stats()
	metrics.RecordSnapshotPublished(float64(next.LoadedAt.Unix()))
	metrics.UpdateSnapshotSize(st.WeeklyTables+st.SeasonTables, st.Rows, len(st.Weeks))
	metrics.UpdateIdentityAmbiguities(len(ambiguities))
	return reports
}

// warningPath returns the source file a load warning refers to, if known.
func warningPath(err error) string {
	var pe *model.ParseError
	if errors.As(err, &pe) {
		return pe.Path
	}
	return ""
}

// warningScope returns the table scope a load warning refers to, if known.
func warningScope(err error) string {
	var mc *model.MissingColumnError
	if errors.As(err, &mc) {
		return mc.Scope.String()
	}
	return ""
}

func (s *MemoryStore) loadFailed(ctx context.Context, kind Kind, err error) error {
	metrics.RecordLoad(string(kind), metrics.OutcomeError)
	metrics.RecordErrorByComponent("repository", "load_"+string(kind))
	s.log.Error(ctx, "load failed", logger.String("kind", string(kind)), logger.Error(err))
	return fmt.Errorf("load %s: %w", kind, err)
}
