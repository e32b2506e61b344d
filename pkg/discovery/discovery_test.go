package discovery

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifmt/unifmt/pkg/logger"
)

func testFs(t *testing.T, paths ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fsys, p, []byte("x"), 0o644))
	}
	return fsys
}

func paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		patterns []string
		excludes []string
		want     []string
	}{
		{
			name:     "recursive glob",
			files:    []string{"/repo/a.ts", "/repo/src/b.ts", "/repo/src/deep/c.ts", "/repo/src/d.css"},
			patterns: []string{"**/*.ts"},
			want:     []string{"/repo/a.ts", "/repo/src/b.ts", "/repo/src/deep/c.ts"},
		},
		{
			name:     "literal directory collects everything below it",
			files:    []string{"/repo/src/b.ts", "/repo/src/d.css", "/repo/other.ts"},
			patterns: []string{"src"},
			want:     []string{"/repo/src/b.ts", "/repo/src/d.css"},
		},
		{
			name:     "overlapping patterns deduplicate",
			files:    []string{"/repo/src/b.ts"},
			patterns: []string{"**/*.ts", "src/b.ts", "src/**"},
			want:     []string{"/repo/src/b.ts"},
		},
		{
			name:     "exclude glob removes matches",
			files:    []string{"/repo/a.ts", "/repo/dist/b.ts", "/repo/dist/deep/c.ts"},
			patterns: []string{"**/*.ts"},
			excludes: []string{"**/dist/**"},
			want:     []string{"/repo/a.ts"},
		},
		{
			name:     "wildcard-free exclude removes a subtree",
			files:    []string{"/repo/a.ts", "/repo/vendor/b.ts"},
			patterns: []string{"**/*.ts"},
			excludes: []string{"vendor"},
			want:     []string{"/repo/a.ts"},
		},
		{
			name:     "glob root walks deepest existing ancestor",
			files:    []string{"/repo/src/b.ts"},
			patterns: []string{"missing/../src/*.ts"},
			want:     []string{"/repo/src/b.ts"},
		},
		{
			name:     "absolute pattern",
			files:    []string{"/repo/a.ts", "/elsewhere/b.ts"},
			patterns: []string{"/elsewhere/b.ts"},
			want:     []string{"/elsewhere/b.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testFs(t, tt.files...)
			files, err := Discover(fsys, "/repo", tt.patterns, tt.excludes, logger.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(files))
		})
	}
}

func TestDiscoverExplicitFlag(t *testing.T) {
	fsys := testFs(t, "/repo/a.ts", "/repo/b.ts")

	files, err := Discover(fsys, "/repo", []string{"a.ts", "*.ts"}, nil, logger.Nop())
	require.NoError(t, err)
	require.Len(t, files, 2)

	byPath := map[string]bool{}
	for _, f := range files {
		byPath[f.Path] = f.Explicit
	}
	assert.True(t, byPath["/repo/a.ts"], "exact pattern marks the file explicit")
	assert.False(t, byPath["/repo/b.ts"], "glob matches are not explicit")
}

func TestDiscoverFatalErrors(t *testing.T) {
	fsys := testFs(t, "/repo/a.ts")

	t.Run("no patterns", func(t *testing.T) {
		_, err := Discover(fsys, "/repo", nil, nil, logger.Nop())
		assert.ErrorIs(t, err, ErrNoPatterns)
	})

	t.Run("nothing matched", func(t *testing.T) {
		_, err := Discover(fsys, "/repo", []string{"**/*.rs"}, nil, logger.Nop())
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	t.Run("everything excluded", func(t *testing.T) {
		_, err := Discover(fsys, "/repo", []string{"**/*.ts"}, []string{"**/*.ts"}, logger.Nop())
		assert.ErrorIs(t, err, ErrNoFiles)
	})
}

// Configured ignore patterns are merged into the exclude list by the caller;
// they must behave exactly like CLI excludes, including making the run fatal
// when nothing survives them.
func TestDiscoverConfiguredIgnoresJoinExcludes(t *testing.T) {
	fsys := testFs(t, "/repo/src/a.ts", "/repo/dist/b.ts")

	cliExcludes := []string{"**/dist/**"}
	configuredIgnores := []string{"**/a.ts"}
	merged := append(append([]string{}, cliExcludes...), configuredIgnores...)

	t.Run("both sources exclude", func(t *testing.T) {
		excludes := append(append([]string{}, cliExcludes...), "**/missing/**")
		files, err := Discover(fsys, "/repo", []string{"**/*.ts"}, excludes, logger.Nop())
		require.NoError(t, err)
		assert.Equal(t, []string{"/repo/src/a.ts"}, paths(files))
	})

	t.Run("nothing survives the merged list", func(t *testing.T) {
		_, err := Discover(fsys, "/repo", []string{"**/*.ts"}, merged, logger.Nop())
		assert.ErrorIs(t, err, ErrNoFiles)
	})
}

func TestDiscoverSkipsMissingLiteralPattern(t *testing.T) {
	fsys := testFs(t, "/repo/a.ts")

	// One pattern points nowhere; discovery warns and carries on.
	files, err := Discover(fsys, "/repo", []string{"gone.ts", "a.ts"}, nil, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"/repo/a.ts"}, paths(files))
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		{"relative glob", "/repo/dist/a.js", []string{"**/dist/**"}, true},
		{"no match", "/repo/src/a.js", []string{"**/dist/**"}, false},
		{"subtree by name", "/repo/node_modules/x/a.js", []string{"node_modules"}, true},
		{"exact file", "/repo/a.js", []string{"a.js"}, true},
		{"empty patterns", "/repo/a.js", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excluded(tt.path, "/repo", tt.patterns))
		})
	}
}
