/*
Package app provides the application container and orchestration for the
unifmt tool. It wires configuration resolution, file discovery, the
formatting backend and the scheduler together, and handles graceful
shutdown.

Usage:

	application := app.New(cfg)
	defer application.Shutdown()
	if err := application.Run(patterns, options); err != nil {
	    os.Exit(1)
	}
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/unifmt/unifmt/internal/config"
	"github.com/unifmt/unifmt/pkg/backend"
	"github.com/unifmt/unifmt/pkg/discovery"
	"github.com/unifmt/unifmt/pkg/fmtconfig"
	"github.com/unifmt/unifmt/pkg/logger"
	"github.com/unifmt/unifmt/pkg/output"
	"github.com/unifmt/unifmt/pkg/progress"
	"github.com/unifmt/unifmt/pkg/scheduler"
)

// RunOptions defines the options for one formatting run
type RunOptions struct {
	// ConfigPath is an explicit configuration file path (empty to discover)
	ConfigPath string

	// Excludes are CLI-supplied exclude glob patterns
	Excludes []string

	// Overrides is the CLI option layer merged over the configuration file
	Overrides map[string]any
}

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger
	fs     afero.Fs

	formatter output.Formatter
	progress  progress.Progress

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	done   chan struct{}
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config: cfg,
		fs:     afero.NewOsFs(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	a.log = logger.New(logger.Config{
		Verbosity: cfg.Verbose,
		Output:    os.Stderr,
	})

	a.formatter = output.NewFormatter(output.Config{
		Format:     output.Format(cfg.Report),
		WithColors: !cfg.NoColor,
	}, a.log)

	if a.progressEnabled() {
		a.progress = progress.New(progress.Config{
			RefreshRate: 100 * time.Millisecond,
		}, a.log)
	}

	a.setupSignalHandling()

	a.log.WithFields(logger.Fields{
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Debug("Application initialized")

	return a
}

func (a *App) progressEnabled() bool {
	return !a.config.NoProgress && progress.IsSupportedTerminal(os.Stderr)
}

// Run executes one formatting run over the given patterns.
func (a *App) Run(patterns []string, opts *RunOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	configPath, found := fmtconfig.FindConfigPath(a.fs, cwd, opts.ConfigPath)
	if found {
		a.log.WithFields(logger.Fields{"path": configPath}).Debug("Using configuration file")
	} else {
		configPath = ""
		a.log.Debug("No configuration file found, using defaults")
	}

	resolver, err := fmtconfig.NewResolver(a.fs, configPath, a.log)
	if err != nil {
		return err
	}
	resolver.ApplyOverrides(opts.Overrides)

	ignores, err := resolver.ValidateAndCache()
	if err != nil {
		return err
	}

	// Configured ignore patterns and CLI excludes share one exclusion pass.
	excludes := append(append([]string{}, opts.Excludes...), ignores...)
	files, err := discovery.Discover(a.fs, cwd, patterns, excludes, a.log)
	if err != nil {
		return err
	}

	composite := backend.NewComposite(backend.CompositeConfig{
		Threads: a.config.Workers,
	}, nil, nil, a.log)

	runner := scheduler.NewRunner(a.fs, cwd, resolver, composite, ignores, scheduler.Config{
		Workers:   a.config.Workers,
		RateLimit: a.config.RateLimit,
	}, a.log)

	if a.progress != nil {
		a.progress.Start(len(files), "Formatting")
		runner.OnResult = func(res scheduler.FileResult) {
			a.progress.Advance(res.Path)
		}
	}

	report, err := runner.Run(a.ctx, files)
	if a.progress != nil {
		a.progress.Stop()
	}
	if err != nil {
		return err
	}

	rendered, err := a.formatter.Format(report)
	if err != nil {
		return fmt.Errorf("report formatting failed: %w", err)
	}
	fmt.Fprint(os.Stdout, rendered)

	if report.Failed() {
		if scheduler.IsCancelled(report.HardError) {
			return errors.New("run interrupted")
		}
		return report.HardError
	}
	return nil
}

// Shutdown performs a graceful shutdown of the application
func (a *App) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.done:
		return
	default:
	}

	a.cancel()
	if a.progress != nil {
		a.progress.Stop()
	}
	close(a.done)

	a.log.Debug("Shutdown complete")
}
