package backend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/unifmt/unifmt/pkg/fmtconfig"
	"github.com/unifmt/unifmt/pkg/logger"
	"github.com/unifmt/unifmt/pkg/strategy"
)

// CompositeConfig holds configuration shared by the composite's backends.
type CompositeConfig struct {
	// Threads is passed to the external bridge initializer.
	Threads int
}

// Composite routes each strategy family to its backend: the syntax printer,
// the native TOML and JSON formatters, or the external bridge.
type Composite struct {
	config  CompositeConfig
	printer SyntaxPrinter
	bridge  *bridgeState
	log     logger.Logger
}

// NewComposite assembles the default formatter. Both printer and bridge may
// be nil; files whose strategy needs the missing collaborator fail softly.
func NewComposite(config CompositeConfig, printer SyntaxPrinter, bridge *Bridge, log logger.Logger) *Composite {
	return &Composite{
		config:  config,
		printer: printer,
		bridge:  newBridgeState(bridge),
		log:     log,
	}
}

// Format implements Formatter.
func (c *Composite) Format(ctx context.Context, st strategy.Strategy, source string, opts fmtconfig.ResolvedOptions) Result {
	var formatted string
	var err error

	switch st.Kind {
	case strategy.KindSyntax:
		if c.printer == nil {
			return failure(DiagGeneric, fmt.Sprintf("no syntax formatter available for %s", st.Path))
		}
		formatted, err = c.printer.Print(ctx, st.Dialect, source, opts.Syntax)
	case strategy.KindTOML:
		formatted, err = formatTOML(source, opts.TOML)
	case strategy.KindJSON:
		formatted, err = formatJSON(source, st.JSONDialect, opts.JSON)
	case strategy.KindManifest:
		formatted, err = c.formatManifest(st, source, opts)
	case strategy.KindExternal:
		formatted, err = c.formatExternal(st, source, opts)
	default:
		return failure(DiagGeneric, fmt.Sprintf("unknown strategy kind %v for %s", st.Kind, st.Path))
	}

	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return failure(DiagParse, fmt.Sprintf("%s: %s", st.Path, parseErr.Message))
		}
		return failure(DiagGeneric, fmt.Sprintf("%s: %v", st.Path, err))
	}

	formatted = applyFinalNewline(formatted, opts.InsertFinalNewline)

	return Result{
		Changed: formatted != source,
		Code:    formatted,
	}
}

// FormatEmbedded formats a fragment embedded in primary-language source by
// delegating to the bridge. Printers use this when embedded language
// formatting is enabled.
func (c *Composite) FormatEmbedded(tag, code string, options map[string]any) (string, error) {
	if !c.bridge.available() {
		return "", fmt.Errorf("no external formatter available for embedded %s", tag)
	}
	if err := c.bridge.ensureInit(c.config.Threads); err != nil {
		return "", err
	}
	return c.bridge.bridge.FormatEmbedded(options, tag, code)
}

func (c *Composite) formatManifest(st strategy.Strategy, source string, opts fmtconfig.ResolvedOptions) (string, error) {
	if opts.SortManifestKeys {
		sorted, err := sortManifest(source)
		if err != nil {
			return "", err
		}
		source = sorted
	}
	return c.delegate(st, source, opts)
}

func (c *Composite) formatExternal(st strategy.Strategy, source string, opts fmtconfig.ResolvedOptions) (string, error) {
	return c.delegate(st, source, opts)
}

func (c *Composite) delegate(st strategy.Strategy, source string, opts fmtconfig.ResolvedOptions) (string, error) {
	if !c.bridge.available() {
		return "", fmt.Errorf("no external formatter available for parser %q", st.Parser)
	}
	return c.bridge.formatFile(c.config.Threads, opts.External, st.Parser, filepath.Base(st.Path), source)
}

// applyFinalNewline enforces the insertFinalNewline flag uniformly after
// every backend. Formatters guarantee a trailing newline; disabling the flag
// trims it.
func applyFinalNewline(code string, insert bool) string {
	if insert {
		if code != "" && !strings.HasSuffix(code, "\n") {
			return code + "\n"
		}
		return code
	}
	return strings.TrimRight(code, "\r\n")
}
