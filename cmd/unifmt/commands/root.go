/*
Package commands implements the CLI command structure for unifmt. The root
command is the format action itself: it takes path or glob patterns,
discovers the files behind them, and rewrites them in place.
*/
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unifmt/unifmt/cmd/unifmt/app"
	"github.com/unifmt/unifmt/internal/config"
)

// styleFlags collects the formatting-style flags. Only flags the user
// actually set become overrides, so config file values keep their
// precedence over defaults.
type styleFlags struct {
	indentStyle     string
	indentWidth     int
	lineEnding      string
	lineWidth       int
	quoteStyle      string
	jsxQuoteStyle   string
	semicolons      string
	trailingCommas  string
	arrowParens     string
	bracketSpacing  bool
	bracketSameLine bool
	quoteProperties string
	embedded        string
	finalNewline    bool
	sortPackageJSON bool
}

// overrideKeys maps each style flag to its configuration key.
var overrideKeys = map[string]string{
	"indent-style":                 "indentStyle",
	"indent-width":                 "indentWidth",
	"line-ending":                  "lineEnding",
	"line-width":                   "lineWidth",
	"quote-style":                  "quoteStyle",
	"jsx-quote-style":              "jsxQuoteStyle",
	"semicolons":                   "semicolons",
	"trailing-commas":              "trailingCommas",
	"arrow-parentheses":            "arrowParentheses",
	"bracket-spacing":              "bracketSpacing",
	"bracket-same-line":            "bracketSameLine",
	"quote-properties":             "quoteProperties",
	"embedded-language-formatting": "embeddedLanguageFormatting",
	"insert-final-newline":         "insertFinalNewline",
	"sort-package-json":            "sortPackageJson",
}

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	var (
		verbosity  int
		noProgress bool
		noColor    bool

		configPath string
		threads    int
		rateLimit  int
		excludes   []string
		report     string

		style styleFlags
	)

	rootCmd := &cobra.Command{
		Use:   "unifmt [flags] <pattern>...",
		Short: "A multi-format source code formatter",
		Long: `unifmt rewrites source files in place: JavaScript/TypeScript family
sources, TOML, the JSON family, and (through an external formatter bridge)
markdown, YAML, CSS, HTML and more.

Configuration is read from the nearest ` + "`.unifmtrc.json`" + ` or
` + "`.unifmtrc.jsonc`" + ` up the directory tree; command-line flags override
file values, which override built-in defaults.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("thread") {
				cfg.Workers = threads
			}
			if cmd.Flags().Changed("rate-limit") {
				cfg.RateLimit = rateLimit
			}
			if cmd.Flags().Changed("report") {
				cfg.Report = report
			}
			cfg.Verbose = verbosity
			cfg.NoProgress = cfg.NoProgress || noProgress
			cfg.NoColor = cfg.NoColor || noColor
			if err := cfg.Validate(); err != nil {
				return err
			}

			application := app.New(&cfg)
			defer application.Shutdown()

			return application.Run(args, &app.RunOptions{
				ConfigPath: configPath,
				Excludes:   excludes,
				Overrides:  collectOverrides(cmd, &style),
			})
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"verbose output (can be used multiple times)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false,
		"disable the progress display")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")

	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "",
		"path to the configuration file")
	flags.IntVarP(&threads, "thread", "t", 0,
		"number of concurrent file tasks (default: CPU count)")
	flags.IntVar(&rateLimit, "rate-limit", 0,
		"maximum task starts per second (0 for unlimited)")
	flags.StringArrayVarP(&excludes, "exclude", "x", nil,
		"glob patterns to exclude (repeatable)")
	flags.StringVar(&report, "report", "text",
		"report format: text|json|yaml")

	flags.StringVar(&style.indentStyle, "indent-style", "space",
		"indentation style: space|tab")
	flags.IntVar(&style.indentWidth, "indent-width", 2,
		"spaces per indentation level")
	flags.StringVar(&style.lineEnding, "line-ending", "lf",
		"line ending: lf|crlf|cr")
	flags.IntVar(&style.lineWidth, "line-width", 80,
		"preferred maximum line width")
	flags.StringVar(&style.quoteStyle, "quote-style", "double",
		"string quote style: double|single")
	flags.StringVar(&style.jsxQuoteStyle, "jsx-quote-style", "double",
		"JSX attribute quote style: double|single")
	flags.StringVar(&style.semicolons, "semicolons", "always",
		"semicolon emission: always|as-needed")
	flags.StringVar(&style.trailingCommas, "trailing-commas", "all",
		"trailing commas in multi-line constructs: all|es5|none")
	flags.StringVar(&style.arrowParens, "arrow-parentheses", "always",
		"parentheses around single arrow parameters: always|as-needed")
	flags.BoolVar(&style.bracketSpacing, "bracket-spacing", true,
		"spaces between brackets in object literals")
	flags.BoolVar(&style.bracketSameLine, "bracket-same-line", false,
		"put the closing > of a multi-line element on the last line")
	flags.StringVar(&style.quoteProperties, "quote-properties", "as-needed",
		"object property quoting: as-needed|consistent|preserve")
	flags.StringVar(&style.embedded, "embedded-language-formatting", "auto",
		"format embedded language fragments: auto|off")
	flags.BoolVar(&style.finalNewline, "insert-final-newline", true,
		"end every formatted file with a newline")
	flags.BoolVar(&style.sortPackageJSON, "sort-package-json", true,
		"sort package.json keys before formatting")

	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// collectOverrides turns explicitly set style flags into a configuration
// override layer. Integers are stored as float64, matching how JSON numbers
// arrive from a config file.
func collectOverrides(cmd *cobra.Command, style *styleFlags) map[string]any {
	values := map[string]any{
		"indent-style":                 style.indentStyle,
		"indent-width":                 float64(style.indentWidth),
		"line-ending":                  style.lineEnding,
		"line-width":                   float64(style.lineWidth),
		"quote-style":                  style.quoteStyle,
		"jsx-quote-style":              style.jsxQuoteStyle,
		"semicolons":                   style.semicolons,
		"trailing-commas":              style.trailingCommas,
		"arrow-parentheses":            style.arrowParens,
		"bracket-spacing":              style.bracketSpacing,
		"bracket-same-line":            style.bracketSameLine,
		"quote-properties":             style.quoteProperties,
		"embedded-language-formatting": style.embedded,
		"insert-final-newline":         style.finalNewline,
		"sort-package-json":            style.sortPackageJSON,
	}

	overrides := make(map[string]any)
	for flagName, key := range overrideKeys {
		if cmd.Flags().Changed(flagName) {
			overrides[key] = values[flagName]
		}
	}
	return overrides
}
