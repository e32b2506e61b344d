/*
Package scheduler runs one bounded file-formatting task per discovered file
and aggregates the outcomes.

Tasks start immediately and block on admission inside the worker pool; the
concurrency bound is run-wide. A soft failure (I/O error, unsupported type,
recoverable backend diagnostic) is logged as a warning and does not affect
other tasks. A hard failure (structural parse failure or task panic) cancels
every not-yet-completed task; the run then drains all outstanding tasks,
including cancelled ones, before returning. Writes already applied for other
files are not rolled back.
*/
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/unifmt/unifmt/pkg/backend"
	"github.com/unifmt/unifmt/pkg/discovery"
	"github.com/unifmt/unifmt/pkg/fmtconfig"
	"github.com/unifmt/unifmt/pkg/logger"
	"github.com/unifmt/unifmt/pkg/strategy"
	"github.com/unifmt/unifmt/pkg/worker"
)

// Config holds the run-wide scheduling knobs.
type Config struct {
	// Workers bounds how many file tasks run simultaneously.
	Workers int

	// RateLimit caps task starts per second (0 for unlimited).
	RateLimit int
}

// Runner executes one formatting run over a set of discovered files.
type Runner struct {
	fs       afero.Fs
	cwd      string
	resolver *fmtconfig.Resolver
	backend  backend.Formatter
	ignores  []string
	config   Config
	log      logger.Logger

	// OnResult, if set, is invoked once per finished file, from the task's
	// goroutine. Implementations must be safe for concurrent use.
	OnResult func(FileResult)
}

// NewRunner wires a runner. The resolver must already be validated; ignores
// are the patterns returned by its validation pass.
func NewRunner(fs afero.Fs, cwd string, resolver *fmtconfig.Resolver, formatter backend.Formatter, ignores []string, config Config, log logger.Logger) *Runner {
	return &Runner{
		fs:       fs,
		cwd:      cwd,
		resolver: resolver,
		backend:  formatter,
		ignores:  ignores,
		config:   config,
		log:      log,
	}
}

// Run processes every file under the configured concurrency bound and
// returns the aggregated report. The returned error covers setup problems
// only; formatting failures are reported through Report.HardError.
func (r *Runner) Run(ctx context.Context, files []discovery.File) (*Report, error) {
	if !r.resolver.Validated() {
		return nil, fmtconfig.ErrNotValidated
	}

	pool, err := worker.NewPool(worker.Config{
		Slots:     r.config.Workers,
		RateLimit: r.config.RateLimit,
	})
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if err := pool.Start(runCtx); err != nil {
		return nil, err
	}

	start := time.Now()
	results := make(chan FileResult, len(files))

	for i, file := range files {
		file := file
		err := pool.Go(worker.Task{
			ID: i,
			Execute: func(taskCtx context.Context) {
				res := r.processFile(taskCtx, file)
				if res.Outcome == OutcomeHardFailed {
					cancel(fmt.Errorf("%s: %s", res.Path, res.Message))
				}
				// A soft failure from a task that was already in flight
				// when cancellation began is not worth a warning; count
				// the file as cancelled instead.
				if res.Outcome == OutcomeSoftFailed && runCtx.Err() != nil {
					res = FileResult{Path: res.Path, Outcome: OutcomeCancelled}
				}
				if r.OnResult != nil {
					r.OnResult(res)
				}
				results <- res
			},
		})
		if err != nil {
			return nil, err
		}
	}

	// Drain everything, cancelled tasks included, before reporting.
	pool.Wait()
	close(results)

	report := &Report{Duration: time.Since(start)}
	hardFailures := 0
	for res := range results {
		if res.Outcome == OutcomeHardFailed {
			hardFailures++
		}
		report.add(res)
	}

	if hardFailures > 0 || runCtx.Err() != nil {
		// Exactly one cause is retained: the first cancel call wins. A run
		// interrupted from outside carries the parent's cancellation cause.
		report.HardError = context.Cause(runCtx)
	}

	r.log.WithFields(logger.Fields{
		"formatted": report.Formatted,
		"unchanged": report.Unchanged,
		"skipped":   report.Skipped,
		"warnings":  len(report.Warnings),
		"cancelled": report.Cancelled,
		"duration":  report.Duration.String(),
	}).Info("Run complete")

	return report, nil
}

// processFile is the per-file task body. Every exit path yields a result; a
// panic is converted into a hard failure.
func (r *Runner) processFile(ctx context.Context, file discovery.File) (res FileResult) {
	defer func() {
		if p := recover(); p != nil {
			res = FileResult{
				Path:    file.Path,
				Outcome: OutcomeHardFailed,
				Message: fmt.Sprintf("task panicked: %v", p),
			}
		}
	}()

	if ctx.Err() != nil {
		return FileResult{Path: file.Path, Outcome: OutcomeCancelled}
	}

	data, err := afero.ReadFile(r.fs, file.Path)
	if err != nil {
		r.log.WithFields(logger.Fields{
			"path":  file.Path,
			"error": err.Error(),
		}).Warn("Failed to read file")
		return FileResult{Path: file.Path, Outcome: OutcomeSoftFailed, Message: err.Error()}
	}

	// Invalid byte sequences are replaced, not rejected.
	source := strings.ToValidUTF8(string(data), "�")
	if len(source) == 0 {
		return FileResult{Path: file.Path, Outcome: OutcomeSkipped}
	}

	if discovery.Excluded(file.Path, r.cwd, r.ignores) {
		return FileResult{Path: file.Path, Outcome: OutcomeSkipped}
	}

	st, ok := strategy.Classify(file.Path)
	if !ok {
		if file.Explicit {
			r.log.WithFields(logger.Fields{"path": file.Path}).Warn("Unsupported file type")
			return FileResult{Path: file.Path, Outcome: OutcomeSoftFailed, Message: "unsupported file type"}
		}
		return FileResult{Path: file.Path, Outcome: OutcomeSkipped}
	}

	opts, err := r.resolver.Resolve(st)
	if err != nil {
		return FileResult{Path: file.Path, Outcome: OutcomeHardFailed, Message: err.Error()}
	}

	result := r.backend.Format(ctx, st, source, opts)
	if result.Failed() {
		message := diagnosticSummary(result.Diagnostics)
		if result.ParseFailed() {
			return FileResult{Path: file.Path, Outcome: OutcomeHardFailed, Message: message}
		}
		r.log.WithFields(logger.Fields{
			"path":  file.Path,
			"error": message,
		}).Warn("Formatting failed")
		return FileResult{Path: file.Path, Outcome: OutcomeSoftFailed, Message: message}
	}

	if !result.Changed {
		return FileResult{Path: file.Path, Outcome: OutcomeUnchanged}
	}

	if err := r.writeBack(file.Path, result.Code); err != nil {
		r.log.WithFields(logger.Fields{
			"path":  file.Path,
			"error": err.Error(),
		}).Warn("Failed to write file")
		return FileResult{Path: file.Path, Outcome: OutcomeSoftFailed, Message: err.Error()}
	}

	r.log.WithFields(logger.Fields{"path": file.Path}).Debug("Formatted")
	return FileResult{Path: file.Path, Outcome: OutcomeFormatted}
}

func (r *Runner) writeBack(path, code string) error {
	mode := os.FileMode(0o644)
	if info, err := r.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return afero.WriteFile(r.fs, path, []byte(code), mode)
}

func diagnosticSummary(diags []backend.Diagnostic) string {
	messages := make([]string, len(diags))
	for i, d := range diags {
		messages[i] = d.Message
	}
	return strings.Join(messages, "; ")
}

// IsCancelled reports whether err stems from run cancellation rather than a
// formatting failure.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
