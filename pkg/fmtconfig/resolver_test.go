package fmtconfig

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifmt/unifmt/pkg/logger"
	"github.com/unifmt/unifmt/pkg/strategy"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func TestFindConfigPath(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		cwd      string
		explicit string
		wantPath string
		wantOK   bool
	}{
		{
			name:     "explicit absolute path wins",
			files:    map[string]string{"/repo/.unifmtrc.json": "{}"},
			cwd:      "/repo",
			explicit: "/etc/unifmt.json",
			wantPath: "/etc/unifmt.json",
			wantOK:   true,
		},
		{
			name:     "explicit relative path joined to cwd",
			cwd:      "/repo",
			explicit: "conf/rc.json",
			wantPath: "/repo/conf/rc.json",
			wantOK:   true,
		},
		{
			name:     "found in cwd",
			files:    map[string]string{"/repo/.unifmtrc.json": "{}"},
			cwd:      "/repo",
			wantPath: "/repo/.unifmtrc.json",
			wantOK:   true,
		},
		{
			name:     "found in ancestor",
			files:    map[string]string{"/repo/.unifmtrc.jsonc": "{}"},
			cwd:      "/repo/src/deep",
			wantPath: "/repo/.unifmtrc.jsonc",
			wantOK:   true,
		},
		{
			name: "strict json preferred over jsonc at same level",
			files: map[string]string{
				"/repo/.unifmtrc.json":  "{}",
				"/repo/.unifmtrc.jsonc": "{}",
			},
			cwd:      "/repo",
			wantPath: "/repo/.unifmtrc.json",
			wantOK:   true,
		},
		{
			name: "nearer jsonc beats farther json",
			files: map[string]string{
				"/repo/src/.unifmtrc.jsonc": "{}",
				"/repo/.unifmtrc.json":      "{}",
			},
			cwd:      "/repo/src",
			wantPath: "/repo/src/.unifmtrc.jsonc",
			wantOK:   true,
		},
		{
			name:   "nothing found",
			cwd:    "/repo",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			for path, content := range tt.files {
				writeFile(t, fsys, path, content)
			}

			path, ok := FindConfigPath(fsys, tt.cwd, tt.explicit)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestNewResolverLoadErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	log := logger.Nop()

	t.Run("missing explicit config", func(t *testing.T) {
		_, err := NewResolver(fsys, "/repo/.unifmtrc.json", log)
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		writeFile(t, fsys, "/repo/.unifmtrc.json", "{not json")
		_, err := NewResolver(fsys, "/repo/.unifmtrc.json", log)
		require.Error(t, err)
	})

	t.Run("comments tolerated", func(t *testing.T) {
		writeFile(t, fsys, "/repo/.unifmtrc.jsonc", `{
			// two space indent
			"indentWidth": 2,
		}`)
		r, err := NewResolver(fsys, "/repo/.unifmtrc.jsonc", log)
		require.NoError(t, err)
		_, err = r.ValidateAndCache()
		require.NoError(t, err)
	})

	t.Run("empty path yields empty config", func(t *testing.T) {
		r, err := NewResolver(fsys, "", log)
		require.NoError(t, err)
		_, err = r.ValidateAndCache()
		require.NoError(t, err)
		opts, err := r.Options()
		require.NoError(t, err)
		assert.Equal(t, DefaultOptions(), opts)
	})
}

func TestValidateAndCache(t *testing.T) {
	log := logger.Nop()

	t.Run("defaults applied for unset fields", func(t *testing.T) {
		r := NewResolverFromValue(map[string]any{"indentWidth": float64(4)}, log)
		_, err := r.ValidateAndCache()
		require.NoError(t, err)

		opts, err := r.Options()
		require.NoError(t, err)
		assert.Equal(t, 4, opts.IndentWidth)
		assert.Equal(t, 80, opts.LineWidth)
		assert.Equal(t, IndentSpace, opts.IndentStyle)
		assert.True(t, opts.InsertFinalNewline)
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		r := NewResolverFromValue(map[string]any{"pluginSearchDirs": []any{"./plugins"}}, log)
		_, err := r.ValidateAndCache()
		require.NoError(t, err)
	})

	t.Run("invalid recognized value fails", func(t *testing.T) {
		r := NewResolverFromValue(map[string]any{"indentStyle": "banana"}, log)
		_, err := r.ValidateAndCache()
		require.Error(t, err)
	})

	t.Run("out of range width fails", func(t *testing.T) {
		r := NewResolverFromValue(map[string]any{"lineWidth": float64(500)}, log)
		_, err := r.ValidateAndCache()
		require.Error(t, err)
	})

	t.Run("ignore patterns returned", func(t *testing.T) {
		r := NewResolverFromValue(map[string]any{
			"ignorePatterns": []any{"**/dist/**", "**/vendor/**"},
		}, log)
		ignores, err := r.ValidateAndCache()
		require.NoError(t, err)
		assert.Equal(t, []string{"**/dist/**", "**/vendor/**"}, ignores)
	})

	t.Run("second call fails", func(t *testing.T) {
		r := NewResolverFromValue(nil, log)
		_, err := r.ValidateAndCache()
		require.NoError(t, err)
		_, err = r.ValidateAndCache()
		assert.ErrorIs(t, err, ErrAlreadyValidated)
	})
}

func TestResolveBeforeValidateFailsFast(t *testing.T) {
	r := NewResolverFromValue(nil, logger.Nop())

	_, err := r.Resolve(strategy.Strategy{Kind: strategy.KindTOML, Path: "a.toml"})
	assert.ErrorIs(t, err, ErrNotValidated)
}

func TestResolvePrecedence(t *testing.T) {
	// Config file sets indentWidth 2, the CLI overrides with 4.
	r := NewResolverFromValue(map[string]any{"indentWidth": float64(2)}, logger.Nop())
	r.ApplyOverrides(map[string]any{"indentWidth": float64(4)})

	_, err := r.ValidateAndCache()
	require.NoError(t, err)

	resolved, err := r.Resolve(strategy.Strategy{Kind: strategy.KindSyntax, Path: "a.ts"})
	require.NoError(t, err)
	assert.Equal(t, 4, resolved.Syntax.IndentWidth)
}

func TestResolvePerStrategy(t *testing.T) {
	r := NewResolverFromValue(map[string]any{
		"indentStyle":    "tab",
		"indentWidth":    float64(4),
		"lineWidth":      float64(100),
		"lineEnding":     "crlf",
		"trailingCommas": "none",
		"quoteStyle":     "single",
	}, logger.Nop())
	_, err := r.ValidateAndCache()
	require.NoError(t, err)

	t.Run("syntax", func(t *testing.T) {
		resolved, err := r.Resolve(strategy.Strategy{Kind: strategy.KindSyntax, Path: "a.ts"})
		require.NoError(t, err)
		assert.Equal(t, strategy.KindSyntax, resolved.Kind)
		assert.Equal(t, IndentTab, resolved.Syntax.IndentStyle)
		assert.Equal(t, QuoteSingle, resolved.Syntax.QuoteStyle)
		require.NotNil(t, resolved.External)
		assert.Equal(t, true, resolved.External["useTabs"])
	})

	t.Run("toml derived from shared options", func(t *testing.T) {
		resolved, err := r.Resolve(strategy.Strategy{Kind: strategy.KindTOML, Path: "a.toml"})
		require.NoError(t, err)
		assert.Equal(t, 100, resolved.TOML.ColumnWidth)
		assert.Equal(t, "\t", resolved.TOML.IndentString)
		assert.False(t, resolved.TOML.ArrayTrailingComma)
		assert.True(t, resolved.TOML.CRLF)
		assert.True(t, resolved.TOML.TrailingNewline)
	})

	t.Run("json family", func(t *testing.T) {
		resolved, err := r.Resolve(strategy.Strategy{
			Kind: strategy.KindJSON, Path: "a.json5", JSONDialect: strategy.JSON5,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, resolved.JSON.IndentWidth)
		assert.True(t, resolved.JSON.UseTabs)
		assert.Equal(t, "\r\n", resolved.JSON.LineEnding)
		assert.False(t, resolved.JSON.TrailingCommas)
	})

	t.Run("external carries backend view", func(t *testing.T) {
		resolved, err := r.Resolve(strategy.Strategy{
			Kind: strategy.KindExternal, Path: "a.md", Parser: "markdown",
		})
		require.NoError(t, err)
		require.NotNil(t, resolved.External)
		assert.Equal(t, 4, resolved.External["tabWidth"])
		assert.Equal(t, 100, resolved.External["printWidth"])
		assert.Equal(t, true, resolved.External["singleQuote"])
		assert.Equal(t, "crlf", resolved.External["endOfLine"])
	})

	t.Run("manifest carries sort flag", func(t *testing.T) {
		resolved, err := r.Resolve(strategy.Strategy{
			Kind: strategy.KindManifest, Path: "package.json", Parser: "json-stringify",
		})
		require.NoError(t, err)
		assert.True(t, resolved.SortManifestKeys)
		require.NotNil(t, resolved.External)
	})
}

func TestExternalViewPreservesRawKeys(t *testing.T) {
	// Keys this tool does not interpret still reach the delegated backend.
	r := NewResolverFromValue(map[string]any{
		"proseWrap":   "always",
		"indentWidth": float64(4),
	}, logger.Nop())
	_, err := r.ValidateAndCache()
	require.NoError(t, err)

	resolved, err := r.Resolve(strategy.Strategy{Kind: strategy.KindExternal, Path: "a.md", Parser: "markdown"})
	require.NoError(t, err)
	assert.Equal(t, "always", resolved.External["proseWrap"])
	assert.Equal(t, 4, resolved.External["tabWidth"])
}
