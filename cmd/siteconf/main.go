package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/roadtodev/siteconf/internal/config"
	"github.com/roadtodev/siteconf/internal/daemon"
	"github.com/roadtodev/siteconf/internal/engine"
	"github.com/roadtodev/siteconf/internal/fetch"
	"github.com/roadtodev/siteconf/internal/history"
	"github.com/roadtodev/siteconf/internal/lint"
	"github.com/roadtodev/siteconf/internal/plugins"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"siteconf.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Validate struct {
		SkipPlugins bool `help:"Skip checking that enabled plugins exist on disk"`
	} `cmd:"" help:"Load and validate the configuration"`

	Emit struct {
		Output string `short:"o" help:"Write settings to this path instead of the configured one"`
	} `cmd:"" help:"Emit the engine settings file from the configuration"`

	Lint struct {
		Root string `help:"Site root directory" default:"."`
	} `cmd:"" help:"Check configuration consistency against the content tree"`

	Fetch struct {
		Force bool `help:"Re-clone even if the target directory exists"`
	} `cmd:"" help:"Install the configured theme and plugins from their git repos"`

	Build struct{} `cmd:"" help:"Run the external engine once"`

	Daemon struct{} `cmd:"" help:"Watch the configuration and content, rebuilding on change"`

	History struct {
		Limit int    `short:"n" help:"Number of runs to show" default:"20"`
		Run   string `help:"Show only the run with this run ID"`
	} `cmd:"" help:"Show recent engine runs recorded by the daemon"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	switch kctx.Command() {
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Failed to initialize configuration", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Created configuration file: %s\n", CLI.Config)

	case "validate":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Configuration invalid", "error", err)
			os.Exit(1)
		}
		if !CLI.Validate.SkipPlugins {
			if err := plugins.CheckAll(cfg); err != nil {
				slog.Error("Configuration invalid", "error", err)
				os.Exit(1)
			}
		}
		fmt.Println("Configuration is valid")

	case "emit":
		runEmit()

	case "lint":
		runLint()

	case "fetch":
		runFetch()

	case "build":
		runBuild()

	case "daemon":
		runDaemon()

	case "history":
		runHistory()

	default:
		slog.Error("Unknown command", "command", kctx.Command())
		os.Exit(1)
	}
}

func runEmit() {
	cfg := mustLoad()
	if CLI.Emit.Output != "" {
		cfg.Engine.SettingsPath = CLI.Emit.Output
	}
	if err := engine.WriteSettings(cfg); err != nil {
		slog.Error("Failed to emit settings", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote engine settings: %s\n", cfg.Engine.SettingsPath)
}

func runLint() {
	cfg := mustLoad()
	linter := lint.NewLinter(cfg, CLI.Lint.Root)
	result, err := linter.Run()
	if err != nil {
		slog.Error("Lint failed", "error", err)
		os.Exit(1)
	}
	for _, issue := range result.Issues {
		fmt.Printf("%s [%s] %s: %s\n", issue.Severity, issue.Rule, issue.Path, issue.Message)
	}
	fmt.Printf("Scanned %d content files, found %d issues\n", result.FilesTotal, len(result.Issues))
	if result.HasErrors() {
		os.Exit(1)
	}
}

func runFetch() {
	cfg := mustLoad()
	fetcher := fetch.NewFetcher(cfg)
	fetcher.Force = CLI.Fetch.Force
	if err := fetcher.FetchAll(); err != nil {
		slog.Error("Fetch failed", "error", err)
		os.Exit(1)
	}
}

func runBuild() {
	cfg := mustLoad()
	runner := engine.NewRunner(cfg)
	if !runner.Available() {
		slog.Error("Engine binary not found on PATH", "command", cfg.Engine.Command)
		os.Exit(1)
	}
	result := runner.Run(context.Background())
	if result.Err != nil {
		slog.Error("Build failed", "error", result.Err)
		os.Exit(1)
	}
	slog.Info("Build finished", "duration", result.Duration)
}

func runDaemon() {
	cfg := mustLoad()
	d, err := daemon.New(CLI.Config, cfg)
	if err != nil {
		slog.Error("Failed to start daemon", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		slog.Error("Daemon exited with error", "error", err)
		os.Exit(1)
	}
}

func runHistory() {
	cfg := mustLoad()
	if cfg.Daemon == nil {
		slog.Error("No daemon section configured; no history available")
		os.Exit(1)
	}
	store, err := history.NewStore(cfg.Daemon.HistoryPath)
	if err != nil {
		slog.Error("Failed to open history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var runs []history.Run
	if CLI.History.Run != "" {
		runs, err = store.ByRunID(context.Background(), CLI.History.Run)
	} else {
		runs, err = store.Recent(context.Background(), CLI.History.Limit)
	}
	if err != nil {
		slog.Error("Failed to query history", "error", err)
		os.Exit(1)
	}
	for _, run := range runs {
		line := fmt.Sprintf("%s  %-8s %-8s %s (%s)",
			run.Timestamp.Format("2006-01-02 15:04:05"), run.Trigger, run.Outcome, run.RunID, run.Duration)
		if run.Error != "" {
			line += "  " + run.Error
		}
		fmt.Println(line)
	}
}

func mustLoad() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}
