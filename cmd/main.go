package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/rosterlens/internal/adapters/http/api"
	"github.com/okian/rosterlens/internal/adapters/http/site"
	"github.com/okian/rosterlens/internal/adapters/http/swagger"
	"github.com/okian/rosterlens/internal/adapters/mcp"
	service "github.com/okian/rosterlens/internal/app"
	"github.com/okian/rosterlens/internal/config"
	"github.com/okian/rosterlens/internal/domain/analytics"
	"github.com/okian/rosterlens/pkg/logger"
	"github.com/okian/rosterlens/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 15 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, log)
	if err != nil {
		log.Error(ctx, "invalid service configuration", logger.Error(err))
		os.Exit(1)
	}
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("data_dir", cfg.DataDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
}

// newService builds the service from configuration.
func newService(cfg *config.Config, log logger.Logger) (*service.Service, error) {
	categories, err := cfg.CategoryList()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	return service.New(
		service.WithLogger(log),
		service.WithDataDir(cfg.DataDir),
		service.WithCategories(categories),
		service.WithWeekDirPrefix(cfg.WeekDirPrefix),
		service.WithSeasonDir(cfg.SeasonDir),
		service.WithMatchMode(mode),
		service.WithLoadWorkers(cfg.LoadWorkers),
		service.WithParams(paramsFromConfig(cfg)),
	), nil
}

// paramsFromConfig maps the configured query defaults onto analytics parameters.
func paramsFromConfig(cfg *config.Config) analytics.Params {
	p := analytics.DefaultParams()
	p.TopN = cfg.DefaultTopN
	p.MinGames = cfg.DefaultMinGames
	p.ValueMinGames = cfg.ValueMinGames
	p.VolatilityTopN = cfg.VolatilityTopN
	p.BreakoutThreshold = cfg.BreakoutThreshold
	p.TrendRecentWeeks = cfg.TrendRecentWeeks
	p.MaxLimit = cfg.MaxResultLimit
	return p
}

// newMux registers the API, documentation, site and MCP routes.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	api.NewServer(svc).Register(ctx, mux)
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	if cfg.MCPEnabled {
		tools := mcp.NewServer(svc, mcp.WithLogger(log))
		mux.Handle(cfg.MCPPath, tools.Handler())
		mux.HandleFunc("GET "+cfg.MCPPath+"/tools", tools.ToolsHandler())
		log.Info(ctx, "MCP tools mounted", logger.String("path", cfg.MCPPath), logger.Int("tools", len(tools.Tools())))
	}
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes the snapshot gauges from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
