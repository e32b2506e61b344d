/*
Package strategy classifies file paths into formatting strategies.

Classification is a pure function of the file name: the same path always
yields the same strategy. Rules are evaluated in a fixed order and the first
match wins, because several rules deliberately shadow more general ones
(the Angular template suffix is checked before the generic HTML extension,
and package.json is reserved before the generic JSON rules run).

Basic usage:

	st, ok := strategy.Classify("/repo/src/index.ts")
	if !ok {
	    // unsupported file type
	}
	switch st.Kind {
	case strategy.KindSyntax:
	    ...
	}
*/
package strategy

import (
	"path/filepath"
	"strings"
)

// Kind identifies the formatting strategy family for a file.
type Kind int

const (
	// KindSyntax is source code formatted by the in-process syntax formatter.
	KindSyntax Kind = iota

	// KindTOML is a TOML file formatted by the native TOML formatter.
	KindTOML

	// KindJSON is a JSON/JSON5/JSONC file formatted by the native JSON formatter.
	KindJSON

	// KindExternal is a file delegated to the external formatter bridge.
	KindExternal

	// KindManifest is package.json: optionally key-sorted, then delegated.
	KindManifest
)

// String returns the strategy kind name.
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindTOML:
		return "toml"
	case KindJSON:
		return "json"
	case KindExternal:
		return "external"
	case KindManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// SyntaxDialect is the dialect of the primary syntax language.
type SyntaxDialect string

const (
	DialectJS  SyntaxDialect = "js"
	DialectJSX SyntaxDialect = "jsx"
	DialectTS  SyntaxDialect = "ts"
	DialectTSX SyntaxDialect = "tsx"
)

// JSONDialect distinguishes the members of the JSON family.
type JSONDialect string

const (
	JSONStandard JSONDialect = "json"
	JSON5        JSONDialect = "json5"
	JSONC        JSONDialect = "jsonc"
)

// Strategy describes how a single file must be formatted. Exactly one family
// of fields is meaningful, selected by Kind.
type Strategy struct {
	// Kind selects the formatting strategy family.
	Kind Kind

	// Path is the file the strategy was derived from.
	Path string

	// Dialect is set for KindSyntax.
	Dialect SyntaxDialect

	// JSONDialect is set for KindJSON.
	JSONDialect JSONDialect

	// Parser is the external backend parser name for KindExternal and
	// KindManifest.
	Parser string
}

// Classify maps a file path to its formatting strategy. It returns false for
// unsupported file types; those files are skipped by the pipeline.
//
// The rule order is load-bearing and must not be rearranged: syntax sources,
// then excluded lock-file names, then TOML, then the JSON family (with
// package.json reserved), then the package.json manifest, then the external
// parser lookup.
func Classify(path string) (Strategy, bool) {
	fileName := filepath.Base(path)
	ext := extension(fileName)

	if dialect, ok := syntaxDialect(fileName, ext); ok {
		return Strategy{Kind: KindSyntax, Path: path, Dialect: dialect}, true
	}

	if _, excluded := excludedFilenames[fileName]; excluded {
		return Strategy{}, false
	}

	if isTOMLFile(fileName) {
		return Strategy{Kind: KindTOML, Path: path}, true
	}

	if dialect, ok := jsonDialect(fileName, ext); ok {
		return Strategy{Kind: KindJSON, Path: path, JSONDialect: dialect}, true
	}

	if fileName == ManifestFilename {
		return Strategy{Kind: KindManifest, Path: path, Parser: "json-stringify"}, true
	}

	if parser, ok := externalParser(fileName, ext); ok {
		return Strategy{Kind: KindExternal, Path: path, Parser: parser}, true
	}

	return Strategy{}, false
}

// IsExcludedFilename reports whether the file name is on the lock-file
// exclusion list. Excluded names never classify, regardless of extension.
func IsExcludedFilename(path string) bool {
	_, ok := excludedFilenames[filepath.Base(path)]
	return ok
}

// ManifestFilename is the package manifest reserved from the generic JSON
// rules and handled by the manifest strategy.
const ManifestFilename = "package.json"

// extension returns the file extension without the leading dot, or "".
func extension(fileName string) string {
	ext := filepath.Ext(fileName)
	return strings.TrimPrefix(ext, ".")
}

func syntaxDialect(fileName, ext string) (SyntaxDialect, bool) {
	// Declaration files carry a double extension and format as TS.
	if strings.HasSuffix(fileName, ".d.ts") || strings.HasSuffix(fileName, ".d.mts") ||
		strings.HasSuffix(fileName, ".d.cts") {
		return DialectTS, true
	}

	switch ext {
	case "js", "mjs", "cjs":
		return DialectJS, true
	case "jsx":
		return DialectJSX, true
	case "ts", "mts", "cts":
		return DialectTS, true
	case "tsx":
		return DialectTSX, true
	}
	return "", false
}

func isTOMLFile(fileName string) bool {
	if _, ok := tomlFilenames[fileName]; ok {
		return true
	}
	return strings.HasSuffix(fileName, ".toml") || strings.HasSuffix(fileName, ".toml.example")
}

// jsonDialect returns the JSON family dialect for the file, if any.
// package.json is excluded here; it is claimed by the manifest rule.
func jsonDialect(fileName, ext string) (JSONDialect, bool) {
	if fileName == ManifestFilename {
		return "", false
	}

	if ext == "json5" {
		return JSON5, true
	}
	if _, ok := jsoncExtensions[ext]; ok {
		return JSONC, true
	}
	if _, ok := jsonExtensions[ext]; ok {
		return JSONStandard, true
	}
	if _, ok := jsonFilenames[fileName]; ok {
		return JSONStandard, true
	}
	return "", false
}

// externalParser returns the delegated backend parser name, if the file type
// is supported by the external formatter.
func externalParser(fileName, ext string) (string, bool) {
	// JSON family synonyms handled by the delegated backend.
	if fileName == "composer.json" || ext == "importmap" {
		return "json-stringify", true
	}
	if _, ok := jsonFilenames[fileName]; ok {
		return "json", true
	}
	if _, ok := jsonExtensions[ext]; ok {
		return "json", true
	}
	if _, ok := jsoncExtensions[ext]; ok {
		return "jsonc", true
	}
	if ext == "json5" {
		return "json5", true
	}

	if _, ok := yamlFilenames[fileName]; ok {
		return "yaml", true
	}
	if _, ok := yamlExtensions[ext]; ok {
		return "yaml", true
	}

	if _, ok := markdownFilenames[fileName]; ok {
		return "markdown", true
	}
	if _, ok := markdownExtensions[ext]; ok {
		return "markdown", true
	}
	if ext == "mdx" {
		return "mdx", true
	}

	// Suffix rule must run before the generic HTML extension rule.
	if strings.HasSuffix(fileName, ".component.html") {
		return "angular", true
	}
	if _, ok := htmlExtensions[ext]; ok {
		return "html", true
	}
	if ext == "vue" {
		return "vue", true
	}
	if ext == "mjml" {
		return "mjml", true
	}

	if _, ok := cssExtensions[ext]; ok {
		return "css", true
	}
	if ext == "less" {
		return "less", true
	}
	if ext == "scss" {
		return "scss", true
	}

	if _, ok := graphqlExtensions[ext]; ok {
		return "graphql", true
	}
	if _, ok := handlebarsExtensions[ext]; ok {
		return "glimmer", true
	}

	return "", false
}
