// Package daemon runs siteconf in watch mode: it monitors the configuration
// and content tree, rebuilds the site through the external engine, and
// records every run in metrics, history, and an optional event stream.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roadtodev/siteconf/internal/config"
	"github.com/roadtodev/siteconf/internal/engine"
	"github.com/roadtodev/siteconf/internal/events"
	"github.com/roadtodev/siteconf/internal/history"
	"github.com/roadtodev/siteconf/internal/metrics"
)

// Run triggers.
const (
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// Daemon coordinates the watcher, scheduler, and engine runs.
type Daemon struct {
	configPath string

	mu  sync.RWMutex
	cfg *config.Config

	recorder  metrics.Recorder
	store     *history.Store
	publisher *events.Publisher

	watcher   *ConfigWatcher
	scheduler *Scheduler
	adminSrv  *http.Server

	runMu sync.Mutex // serializes engine runs
}

// New creates a daemon for the configuration at configPath. The config must
// carry a daemon section.
func New(configPath string, cfg *config.Config) (*Daemon, error) {
	if cfg.Daemon == nil {
		return nil, errors.New("configuration has no daemon section")
	}

	d := &Daemon{
		configPath: configPath,
		cfg:        cfg,
		recorder:   metrics.NoopRecorder{},
	}

	store, err := history.NewStore(cfg.Daemon.HistoryPath)
	if err != nil {
		return nil, err
	}
	d.store = store

	if cfg.Daemon.Events != nil {
		publisher, err := events.NewPublisher(cfg.Daemon.Events)
		if err != nil {
			// Event publishing is best effort; the daemon still runs.
			slog.Warn("Run events disabled", "error", err)
		} else {
			d.publisher = publisher
		}
	}

	return d, nil
}

// GetConfig returns the current configuration.
func (d *Daemon) GetConfig() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// ReloadConfig swaps in a validated configuration. Daemon-level settings
// (ports, history path) require a restart and are rejected when changed.
func (d *Daemon) ReloadConfig(newCfg *config.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if newCfg.Daemon == nil {
		return errors.New("new configuration removed the daemon section; restart required")
	}
	if newCfg.Daemon.AdminAddr != d.cfg.Daemon.AdminAddr ||
		newCfg.Daemon.HistoryPath != d.cfg.Daemon.HistoryPath {
		return errors.New("daemon address or history path change requires restart")
	}

	d.cfg = newCfg
	return nil
}

// Run starts the daemon and blocks until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	cfg := d.GetConfig()

	// Metrics are exposed on the admin endpoint.
	recorder := metrics.NewPrometheusRecorder(nil)
	d.recorder = recorder

	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	d.adminSrv = &http.Server{Addr: cfg.Daemon.AdminAddr, Handler: mux}
	go func() {
		slog.Info("Admin endpoint listening", "addr", cfg.Daemon.AdminAddr)
		if err := d.adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Admin endpoint failed", "error", err)
		}
	}()

	contentPath := ""
	if cfg.Daemon.WatchContent {
		contentPath = cfg.Content.Path
	}
	watcher, err := NewConfigWatcher(d.configPath, contentPath, d)
	if err != nil {
		return err
	}
	d.watcher = watcher
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	scheduler, err := NewScheduler(d)
	if err != nil {
		return err
	}
	d.scheduler = scheduler
	if cfg.Daemon.RebuildInterval != "" {
		interval, err := time.ParseDuration(cfg.Daemon.RebuildInterval)
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePeriodicRun(ctx, interval); err != nil {
			return err
		}
	}
	scheduler.Start()

	// Initial run so the output is fresh before the first change arrives.
	d.ExecuteRun(ctx, TriggerManual)

	<-ctx.Done()
	return d.shutdown()
}

func (d *Daemon) shutdown() error {
	slog.Info("Shutting down daemon")

	var firstErr error
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.scheduler != nil {
		if err := d.scheduler.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.adminSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.adminSrv.Shutdown(shutdownCtx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.publisher != nil {
		if err := d.publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ExecuteRun performs one engine run and records it everywhere configured.
func (d *Daemon) ExecuteRun(ctx context.Context, trigger string) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	cfg := d.GetConfig()
	runID := uuid.NewString()
	slog.Info("Executing engine run", "run_id", runID, "trigger", trigger)

	result := engine.NewRunner(cfg).Run(ctx)

	outcome := metrics.OutcomeSuccess
	errText := ""
	switch {
	case result.Err != nil && ctx.Err() != nil:
		outcome = metrics.OutcomeCanceled
		errText = result.Err.Error()
	case result.Err != nil:
		outcome = metrics.OutcomeFailed
		errText = result.Err.Error()
	}

	d.recorder.ObserveRunDuration(result.Duration)
	d.recorder.IncRunOutcome(outcome)

	if err := d.store.Append(ctx, history.Run{
		RunID:    runID,
		Trigger:  trigger,
		Outcome:  string(outcome),
		Error:    errText,
		Duration: result.Duration,
	}); err != nil {
		slog.Error("Failed to record run history", "run_id", runID, "error", err)
	}

	if d.publisher != nil {
		if err := d.publisher.PublishRun(&events.RunEvent{
			RunID:     runID,
			Trigger:   trigger,
			Outcome:   string(outcome),
			Error:     errText,
			DurationS: result.Duration.Seconds(),
		}); err != nil {
			slog.Error("Failed to publish run event", "run_id", runID, "error", err)
		}
	}

	if result.Err != nil {
		slog.Error("Engine run finished", "run_id", runID, "outcome", outcome, "error", result.Err)
	} else {
		slog.Info("Engine run finished", "run_id", runID, "outcome", outcome, "duration", result.Duration)
	}
}
