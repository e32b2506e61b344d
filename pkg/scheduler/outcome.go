package scheduler

import "time"

// Outcome classifies how a single file's task ended.
type Outcome int

const (
	// OutcomeFormatted means the file changed and was written back.
	OutcomeFormatted Outcome = iota

	// OutcomeUnchanged means the file was already formatted; no write.
	OutcomeUnchanged

	// OutcomeSkipped means the file was silently skipped (empty content,
	// ignore rule, or unsupported type matched by a glob).
	OutcomeSkipped

	// OutcomeSoftFailed means a recoverable per-file problem; the file is
	// left unmodified and the run continues.
	OutcomeSoftFailed

	// OutcomeHardFailed means a structural parse failure or task panic;
	// remaining work is cancelled.
	OutcomeHardFailed

	// OutcomeCancelled means the task observed cancellation before doing
	// its work.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFormatted:
		return "formatted"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSoftFailed:
		return "soft-failed"
	case OutcomeHardFailed:
		return "hard-failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// FileResult is the outcome of one file's task.
type FileResult struct {
	Path    string
	Outcome Outcome

	// Message carries the warning or error text for failed outcomes.
	Message string
}

// Report aggregates the outcomes of a whole run.
type Report struct {
	Formatted int
	Unchanged int
	Skipped   int
	Cancelled int

	// Warnings holds one entry per soft failure.
	Warnings []string

	// HardError is the first observed hard-failure cause, nil on success.
	HardError error

	Duration time.Duration
}

// Failed reports whether the run must exit unsuccessfully. Soft failures
// alone never fail a run.
func (r *Report) Failed() bool {
	return r.HardError != nil
}

func (r *Report) add(res FileResult) {
	switch res.Outcome {
	case OutcomeFormatted:
		r.Formatted++
	case OutcomeUnchanged:
		r.Unchanged++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeCancelled:
		r.Cancelled++
	case OutcomeSoftFailed:
		r.Warnings = append(r.Warnings, res.Path+": "+res.Message)
	}
}
