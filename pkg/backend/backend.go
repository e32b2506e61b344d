/*
Package backend performs the per-file format work behind a single boundary.

A Formatter receives one file's strategy, source text and resolved options
and returns a Result: either the (possibly unchanged) formatted text, or a
list of diagnostics. A diagnostic tagged as a parse failure means the source
could not be read into a valid structure at all and is treated by the caller
as a hard failure; every other diagnostic is soft.

The default implementation is a Composite: TOML and the JSON family are
formatted natively, the primary syntax language goes through a pluggable
SyntaxPrinter, and everything else is delegated through an external Bridge.
*/
package backend

import (
	"context"

	"github.com/unifmt/unifmt/pkg/fmtconfig"
	"github.com/unifmt/unifmt/pkg/strategy"
)

// DiagnosticKind classifies a formatting diagnostic.
type DiagnosticKind int

const (
	// DiagGeneric covers recoverable per-file problems: missing backend,
	// unsupported parser, internal formatter errors.
	DiagGeneric DiagnosticKind = iota

	// DiagParse means the source is structurally unparsable.
	DiagParse
)

// Diagnostic is one problem reported by a formatting attempt.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
}

// Result is the outcome of one Format call. Either Code is valid, or
// Diagnostics is non-empty.
type Result struct {
	// Changed reports whether Code differs from the input source.
	Changed bool

	// Code is the formatted text. Only meaningful when Diagnostics is empty.
	Code string

	// Diagnostics is non-empty when formatting failed.
	Diagnostics []Diagnostic
}

// Failed reports whether the format attempt produced any diagnostics.
func (r Result) Failed() bool {
	return len(r.Diagnostics) > 0
}

// ParseFailed reports whether any diagnostic is a structural parse failure.
func (r Result) ParseFailed() bool {
	for _, d := range r.Diagnostics {
		if d.Kind == DiagParse {
			return true
		}
	}
	return false
}

func failure(kind DiagnosticKind, message string) Result {
	return Result{Diagnostics: []Diagnostic{{Kind: kind, Message: message}}}
}

// Formatter is the formatting boundary the scheduler calls, exactly once per
// file per run.
type Formatter interface {
	Format(ctx context.Context, st strategy.Strategy, source string, opts fmtconfig.ResolvedOptions) Result
}

// SyntaxPrinter formats primary-language source in process. Implementations
// return a *ParseError when the source cannot be parsed, and any other error
// for recoverable problems.
type SyntaxPrinter interface {
	Print(ctx context.Context, dialect strategy.SyntaxDialect, source string, opts fmtconfig.SyntaxOptions) (string, error)
}

// ParseError marks a structural parse failure reported by a printer or
// bridge.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}
