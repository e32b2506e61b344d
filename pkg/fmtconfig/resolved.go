package fmtconfig

import (
	"strings"

	"github.com/unifmt/unifmt/pkg/strategy"
)

// SyntaxOptions is the option set handed to the syntax printer.
type SyntaxOptions struct {
	IndentStyle      IndentStyle
	IndentWidth      int
	LineEnding       LineEnding
	LineWidth        int
	QuoteStyle       QuoteStyle
	JSXQuoteStyle    QuoteStyle
	Semicolons       Semicolons
	TrailingCommas   TrailingCommas
	ArrowParentheses ArrowParens
	BracketSpacing   bool
	BracketSameLine  bool
	QuoteProperties  QuoteProperties
	Embedded         EmbeddedFormatting
}

// TOMLOptions is the option set for the native TOML formatter.
type TOMLOptions struct {
	ColumnWidth        int
	IndentString       string
	ArrayTrailingComma bool
	CRLF               bool
	TrailingNewline    bool
}

// JSONOptions is the option set for the native JSON-family formatter.
type JSONOptions struct {
	IndentWidth     int
	UseTabs         bool
	LineEnding      string
	TrailingCommas  bool
	QuoteProperties QuoteProperties
}

// ResolvedOptions carries the final option values for one file. Exactly one
// family is populated, selected by Kind, plus the flags applied uniformly
// after formatting.
type ResolvedOptions struct {
	Kind strategy.Kind

	// Syntax is populated for KindSyntax.
	Syntax SyntaxOptions

	// TOML is populated for KindTOML.
	TOML TOMLOptions

	// JSON is populated for KindJSON.
	JSON JSONOptions

	// External is the delegated backend's view of the configuration. It is
	// populated for KindSyntax (embedded fragments), KindExternal and
	// KindManifest.
	External map[string]any

	// SortManifestKeys is populated for KindManifest.
	SortManifestKeys bool

	// InsertFinalNewline is resolved once per configuration load and applied
	// to every formatted file.
	InsertFinalNewline bool
}

func resolveSyntax(opts Options) SyntaxOptions {
	return SyntaxOptions{
		IndentStyle:      opts.IndentStyle,
		IndentWidth:      opts.IndentWidth,
		LineEnding:       opts.LineEnding,
		LineWidth:        opts.LineWidth,
		QuoteStyle:       opts.QuoteStyle,
		JSXQuoteStyle:    opts.JSXQuoteStyle,
		Semicolons:       opts.Semicolons,
		TrailingCommas:   opts.TrailingCommas,
		ArrowParentheses: opts.ArrowParentheses,
		BracketSpacing:   opts.BracketSpacing,
		BracketSameLine:  opts.BracketSameLine,
		QuoteProperties:  opts.QuoteProperties,
		Embedded:         opts.Embedded,
	}
}

// resolveTOML derives TOML formatter options from the shared option set, the
// same way the delegated backend's TOML plugin would interpret them.
func resolveTOML(opts Options) TOMLOptions {
	indent := strings.Repeat(" ", opts.IndentWidth)
	if opts.IndentStyle == IndentTab {
		indent = "\t"
	}
	return TOMLOptions{
		ColumnWidth:        opts.LineWidth,
		IndentString:       indent,
		ArrayTrailingComma: opts.TrailingCommas != TrailingCommasNone,
		CRLF:               opts.LineEnding == LineEndingCRLF,
		// Every formatter guarantees a trailing newline; the final-newline
		// flag trims it afterwards when disabled.
		TrailingNewline: true,
	}
}

func resolveJSON(opts Options) JSONOptions {
	return JSONOptions{
		IndentWidth:     opts.IndentWidth,
		UseTabs:         opts.IndentStyle == IndentTab,
		LineEnding:      opts.LineEnding.Chars(),
		TrailingCommas:  opts.TrailingCommas != TrailingCommasNone,
		QuoteProperties: opts.QuoteProperties,
	}
}

// externalView re-expresses the resolved options in the shape the delegated
// backend expects, so both formatting paths see the same effective settings.
// Keys already present in the raw configuration are preserved unless a
// resolved value overrides them.
func externalView(opts Options, raw map[string]any) map[string]any {
	view := make(map[string]any, len(raw)+12)
	for k, v := range raw {
		view[k] = v
	}

	view["tabWidth"] = opts.IndentWidth
	view["useTabs"] = opts.IndentStyle == IndentTab
	view["printWidth"] = opts.LineWidth
	view["endOfLine"] = string(opts.LineEnding)
	view["semi"] = opts.Semicolons == SemicolonsAlways
	view["singleQuote"] = opts.QuoteStyle == QuoteSingle
	view["jsxSingleQuote"] = opts.JSXQuoteStyle == QuoteSingle
	view["trailingComma"] = string(opts.TrailingCommas)
	view["bracketSpacing"] = opts.BracketSpacing
	view["bracketSameLine"] = opts.BracketSameLine
	view["embeddedLanguageFormatting"] = string(opts.Embedded)

	switch opts.ArrowParentheses {
	case ArrowParensAsNeeded:
		view["arrowParens"] = "avoid"
	default:
		view["arrowParens"] = "always"
	}

	switch opts.QuoteProperties {
	case QuotePropsConsistent:
		view["quoteProps"] = "consistent"
	case QuotePropsPreserve:
		view["quoteProps"] = "preserve"
	default:
		view["quoteProps"] = "as-needed"
	}

	return view
}
