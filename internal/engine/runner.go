package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/roadtodev/siteconf/internal/config"
)

// Runner invokes the external generator binary.
type Runner struct {
	cfg *config.Config
}

// NewRunner creates a runner bound to the loaded configuration.
func NewRunner(cfg *config.Config) *Runner { return &Runner{cfg: cfg} }

// RunResult summarizes one engine invocation.
type RunResult struct {
	Command  string
	Duration time.Duration
	Err      error
}

// Available reports whether the configured engine binary is on PATH.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.cfg.Engine.Command)
	return err == nil
}

// Run writes the settings file and executes the engine against the content
// path. The engine's stdout/stderr stream through unchanged.
func (r *Runner) Run(ctx context.Context) RunResult {
	start := time.Now()

	if err := WriteSettings(r.cfg); err != nil {
		return RunResult{Command: r.cfg.Engine.Command, Duration: time.Since(start), Err: err}
	}

	args := append([]string{}, r.cfg.Engine.Args...)
	args = append(args, "--settings", r.cfg.Engine.SettingsPath, r.cfg.Content.Path)

	cmd := exec.CommandContext(ctx, r.cfg.Engine.Command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Info("Running site engine", "command", r.cfg.Engine.Command, "settings", r.cfg.Engine.SettingsPath)
	err := cmd.Run()
	if err != nil {
		err = fmt.Errorf("engine command failed: %w", err)
	}
	return RunResult{Command: r.cfg.Engine.Command, Duration: time.Since(start), Err: err}
}
