package fmtconfig

import (
	"fmt"
)

// IndentStyle selects the indentation character.
type IndentStyle string

const (
	IndentSpace IndentStyle = "space"
	IndentTab   IndentStyle = "tab"
)

// LineEnding selects the line terminator written by every formatter.
type LineEnding string

const (
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
	LineEndingCR   LineEnding = "cr"
)

// Chars returns the literal line terminator.
func (e LineEnding) Chars() string {
	switch e {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// QuoteStyle selects the preferred string quote character.
type QuoteStyle string

const (
	QuoteDouble QuoteStyle = "double"
	QuoteSingle QuoteStyle = "single"
)

// Semicolons controls statement terminator emission.
type Semicolons string

const (
	SemicolonsAlways   Semicolons = "always"
	SemicolonsAsNeeded Semicolons = "as-needed"
)

// TrailingCommas controls trailing comma emission in multi-line constructs.
type TrailingCommas string

const (
	TrailingCommasAll  TrailingCommas = "all"
	TrailingCommasES5  TrailingCommas = "es5"
	TrailingCommasNone TrailingCommas = "none"
)

// ArrowParens controls parentheses around single arrow function parameters.
type ArrowParens string

const (
	ArrowParensAlways   ArrowParens = "always"
	ArrowParensAsNeeded ArrowParens = "as-needed"
)

// QuoteProperties controls quoting of object property names.
type QuoteProperties string

const (
	QuotePropsAsNeeded   QuoteProperties = "as-needed"
	QuotePropsConsistent QuoteProperties = "consistent"
	QuotePropsPreserve   QuoteProperties = "preserve"
)

// EmbeddedFormatting controls formatting of embedded language fragments.
type EmbeddedFormatting string

const (
	EmbeddedAuto EmbeddedFormatting = "auto"
	EmbeddedOff  EmbeddedFormatting = "off"
)

// Options is the typed, validated option set a configuration file or CLI
// override layer deserializes into. Zero values are never used directly;
// DefaultOptions supplies the built-in layer.
type Options struct {
	IndentStyle        IndentStyle
	IndentWidth        int
	LineEnding         LineEnding
	LineWidth          int
	QuoteStyle         QuoteStyle
	JSXQuoteStyle      QuoteStyle
	Semicolons         Semicolons
	TrailingCommas     TrailingCommas
	ArrowParentheses   ArrowParens
	BracketSpacing     bool
	BracketSameLine    bool
	QuoteProperties    QuoteProperties
	Embedded           EmbeddedFormatting
	InsertFinalNewline bool
	SortPackageJSON    bool
	IgnorePatterns     []string
}

// DefaultOptions returns the built-in option layer.
func DefaultOptions() Options {
	return Options{
		IndentStyle:        IndentSpace,
		IndentWidth:        2,
		LineEnding:         LineEndingLF,
		LineWidth:          80,
		QuoteStyle:         QuoteDouble,
		JSXQuoteStyle:      QuoteDouble,
		Semicolons:         SemicolonsAlways,
		TrailingCommas:     TrailingCommasAll,
		ArrowParentheses:   ArrowParensAlways,
		BracketSpacing:     true,
		BracketSameLine:    false,
		QuoteProperties:    QuotePropsAsNeeded,
		Embedded:           EmbeddedAuto,
		InsertFinalNewline: true,
		SortPackageJSON:    true,
		IgnorePatterns:     nil,
	}
}

// decodeOptions overlays the recognized keys of raw onto the defaults.
// Unrecognized keys are ignored; a recognized key with an invalid value is a
// hard configuration error.
func decodeOptions(raw map[string]any) (Options, error) {
	opts := DefaultOptions()

	var err error
	for key, value := range raw {
		switch key {
		case "indentStyle":
			err = decodeEnum(key, value, (*string)(&opts.IndentStyle),
				string(IndentSpace), string(IndentTab))
		case "indentWidth":
			err = decodeInt(key, value, &opts.IndentWidth, 0, 24)
		case "lineEnding":
			err = decodeEnum(key, value, (*string)(&opts.LineEnding),
				string(LineEndingLF), string(LineEndingCRLF), string(LineEndingCR))
		case "lineWidth":
			err = decodeInt(key, value, &opts.LineWidth, 1, 320)
		case "quoteStyle":
			err = decodeEnum(key, value, (*string)(&opts.QuoteStyle),
				string(QuoteDouble), string(QuoteSingle))
		case "jsxQuoteStyle":
			err = decodeEnum(key, value, (*string)(&opts.JSXQuoteStyle),
				string(QuoteDouble), string(QuoteSingle))
		case "semicolons":
			err = decodeEnum(key, value, (*string)(&opts.Semicolons),
				string(SemicolonsAlways), string(SemicolonsAsNeeded))
		case "trailingCommas":
			err = decodeEnum(key, value, (*string)(&opts.TrailingCommas),
				string(TrailingCommasAll), string(TrailingCommasES5), string(TrailingCommasNone))
		case "arrowParentheses":
			err = decodeEnum(key, value, (*string)(&opts.ArrowParentheses),
				string(ArrowParensAlways), string(ArrowParensAsNeeded))
		case "bracketSpacing":
			err = decodeBool(key, value, &opts.BracketSpacing)
		case "bracketSameLine":
			err = decodeBool(key, value, &opts.BracketSameLine)
		case "quoteProperties":
			err = decodeEnum(key, value, (*string)(&opts.QuoteProperties),
				string(QuotePropsAsNeeded), string(QuotePropsConsistent), string(QuotePropsPreserve))
		case "embeddedLanguageFormatting":
			err = decodeEnum(key, value, (*string)(&opts.Embedded),
				string(EmbeddedAuto), string(EmbeddedOff))
		case "insertFinalNewline":
			err = decodeBool(key, value, &opts.InsertFinalNewline)
		case "sortPackageJson":
			err = decodeBool(key, value, &opts.SortPackageJSON)
		case "ignorePatterns":
			err = decodeStrings(key, value, &opts.IgnorePatterns)
		default:
			// Unknown keys are tolerated so a config file may carry options
			// for delegated backends this tool does not interpret.
		}
		if err != nil {
			return Options{}, err
		}
	}

	return opts, nil
}

func decodeEnum(key string, value any, dst *string, allowed ...string) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("option %q: expected string, got %T", key, value)
	}
	for _, a := range allowed {
		if s == a {
			*dst = s
			return nil
		}
	}
	return fmt.Errorf("option %q: invalid value %q (allowed: %v)", key, s, allowed)
}

func decodeInt(key string, value any, dst *int, min, max int) error {
	// JSON numbers arrive as float64.
	f, ok := value.(float64)
	if !ok || f != float64(int(f)) {
		return fmt.Errorf("option %q: expected integer, got %v", key, value)
	}
	n := int(f)
	if n < min || n > max {
		return fmt.Errorf("option %q: %d out of range [%d, %d]", key, n, min, max)
	}
	*dst = n
	return nil
}

func decodeBool(key string, value any, dst *bool) error {
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("option %q: expected boolean, got %T", key, value)
	}
	*dst = b
	return nil
}

func decodeStrings(key string, value any, dst *[]string) error {
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("option %q: expected array of strings, got %T", key, value)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return fmt.Errorf("option %q: expected array of strings, got element %T", key, item)
		}
		out = append(out, s)
	}
	*dst = out
	return nil
}
