/*
Package fmtconfig loads and resolves formatter configuration.

Configuration comes from a JSON document named .unifmtrc.json or
.unifmtrc.jsonc (the latter tolerates comments; both are comment-stripped
before parsing), discovered by walking from the working directory upward, or
from an explicit path override.

A Resolver is a two-phase object: it is constructed with the raw
configuration tree, validated exactly once with ValidateAndCache, and only
then queried per file with Resolve. Resolving before validation is a
programmer error and fails fast, never silently falling back to defaults.

	resolver, err := fmtconfig.NewResolver(fsys, path, log)
	...
	ignores, err := resolver.ValidateAndCache()
	...
	opts, err := resolver.Resolve(st)
*/
package fmtconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tailscale/hujson"

	"github.com/unifmt/unifmt/pkg/logger"
	"github.com/unifmt/unifmt/pkg/strategy"
)

// Recognized configuration file names. The strict-JSON variant wins when
// both exist in the same directory.
const (
	ConfigFilenameJSON  = ".unifmtrc.json"
	ConfigFilenameJSONC = ".unifmtrc.jsonc"
)

// ErrNotValidated is returned by Resolve when ValidateAndCache has not been
// called. It indicates a bug in the caller, not a user error.
var ErrNotValidated = errors.New("fmtconfig: Resolve called before ValidateAndCache")

// ErrAlreadyValidated is returned when ValidateAndCache is called twice.
var ErrAlreadyValidated = errors.New("fmtconfig: ValidateAndCache called twice")

// FindConfigPath locates the configuration file. An explicit path wins
// (relative paths are joined to cwd, existence is checked later at load
// time); otherwise cwd and its ancestors are searched. Returns false when
// nothing was found and no explicit path was given.
func FindConfigPath(fsys afero.Fs, cwd, explicit string) (string, bool) {
	if explicit != "" {
		if filepath.IsAbs(explicit) {
			return explicit, true
		}
		return filepath.Join(cwd, explicit), true
	}

	dir := cwd
	for {
		for _, name := range []string{ConfigFilenameJSON, ConfigFilenameJSONC} {
			candidate := filepath.Join(dir, name)
			if ok, _ := afero.Exists(fsys, candidate); ok {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

type cachedOptions struct {
	options  Options
	external map[string]any
}

// Resolver derives every per-file option set from a single raw JSON tree.
// After ValidateAndCache it is read-only and safe for concurrent use.
type Resolver struct {
	log logger.Logger

	raw    map[string]any
	cached *cachedOptions
}

// NewResolver loads the configuration file at path. An empty path yields an
// empty configuration. A non-empty path must exist and parse: a missing or
// malformed config file is a fatal configuration error.
func NewResolver(fsys afero.Fs, path string, log logger.Logger) (*Resolver, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		// Both filename variants tolerate comments and trailing commas;
		// standardize to plain JSON before decoding.
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := json.Unmarshal(standardized, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}

		log.WithFields(logger.Fields{
			"path": path,
			"keys": len(raw),
		}).Debug("Loaded configuration file")
	}

	return &Resolver{log: log, raw: raw}, nil
}

// NewResolverFromValue builds a resolver from an in-memory configuration
// tree, bypassing file loading.
func NewResolverFromValue(raw map[string]any, log logger.Logger) *Resolver {
	if raw == nil {
		raw = map[string]any{}
	}
	return &Resolver{log: log, raw: raw}
}

// ApplyOverrides merges an override layer (typically CLI flags) over the raw
// tree. Overrides win over file values, which win over defaults. Must be
// called before ValidateAndCache.
func (r *Resolver) ApplyOverrides(overrides map[string]any) {
	for key, value := range overrides {
		r.raw[key] = value
	}
}

// ValidateAndCache deserializes the raw tree into the typed option set,
// applying defaults for unset fields, and caches the result together with
// the delegated backend's options view. It returns the validated ignore
// patterns so file discovery can apply them alongside CLI excludes.
//
// It must be called exactly once before any Resolve call.
func (r *Resolver) ValidateAndCache() ([]string, error) {
	if r.cached != nil {
		return nil, ErrAlreadyValidated
	}

	opts, err := decodeOptions(r.raw)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	r.cached = &cachedOptions{
		options:  opts,
		external: externalView(opts, r.raw),
	}

	r.log.WithFields(logger.Fields{
		"indentStyle":    opts.IndentStyle,
		"indentWidth":    opts.IndentWidth,
		"lineWidth":      opts.LineWidth,
		"ignorePatterns": len(opts.IgnorePatterns),
	}).Debug("Validated configuration")

	return opts.IgnorePatterns, nil
}

// Validated reports whether ValidateAndCache has completed.
func (r *Resolver) Validated() bool {
	return r.cached != nil
}

// Options returns the cached validated option set.
func (r *Resolver) Options() (Options, error) {
	if r.cached == nil {
		return Options{}, ErrNotValidated
	}
	return r.cached.options, nil
}

// Resolve projects the cached validated state into the option shape the
// strategy's backend expects. It never re-parses configuration.
func (r *Resolver) Resolve(st strategy.Strategy) (ResolvedOptions, error) {
	if r.cached == nil {
		return ResolvedOptions{}, ErrNotValidated
	}

	opts := r.cached.options
	resolved := ResolvedOptions{
		Kind:               st.Kind,
		InsertFinalNewline: opts.InsertFinalNewline,
	}

	switch st.Kind {
	case strategy.KindSyntax:
		resolved.Syntax = resolveSyntax(opts)
		resolved.External = r.cached.external
	case strategy.KindTOML:
		resolved.TOML = resolveTOML(opts)
	case strategy.KindJSON:
		resolved.JSON = resolveJSON(opts)
	case strategy.KindExternal:
		resolved.External = r.cached.external
	case strategy.KindManifest:
		resolved.External = r.cached.external
		resolved.SortManifestKeys = opts.SortPackageJSON
	default:
		return ResolvedOptions{}, fmt.Errorf("fmtconfig: unknown strategy kind %v", st.Kind)
	}

	return resolved, nil
}
