package strategy

// Membership tables for the classification rules. The contents mirror the
// file types the delegated backend advertises support for, plus the lock
// files that must never be reformatted.

var excludedFilenames = set(
	// JSON and YAML lock files
	"package-lock.json",
	"pnpm-lock.yaml",
	"yarn.lock",
	"MODULE.bazel.lock",
	"bun.lock",
	"deno.lock",
	"composer.lock",
	"Package.resolved",
	"Pipfile.lock",
	"flake.lock",
	"mcmod.info",
	// TOML lock files
	"Cargo.lock",
	"Gopkg.lock",
	"pdm.lock",
	"poetry.lock",
	"uv.lock",
)

var tomlFilenames = set(
	"Pipfile",
	"Cargo.toml.orig",
)

var jsonExtensions = set(
	"json",
	"4DForm",
	"4DProject",
	"avsc",
	"geojson",
	"gltf",
	"har",
	"ice",
	"JSON-tmLanguage",
	"json.example",
	"mcmeta",
	"sarif",
	"tact",
	"tfstate",
	"tfstate.backup",
	"topojson",
	"webapp",
	"webmanifest",
	"yy",
	"yyp",
)

var jsonFilenames = set(
	".all-contributorsrc",
	".arcconfig",
	".auto-changelog",
	".c8rc",
	".htmlhintrc",
	".imgbotconfig",
	".nycrc",
	".tern-config",
	".tern-project",
	".watchmanconfig",
	".babelrc",
	".jscsrc",
	".jshintrc",
	".jslintrc",
	".swcrc",
)

var jsoncExtensions = set(
	"jsonc",
	"code-snippets",
	"code-workspace",
	"sublime-build",
	"sublime-color-scheme",
	"sublime-commands",
	"sublime-completions",
	"sublime-keymap",
	"sublime-macro",
	"sublime-menu",
	"sublime-mousemap",
	"sublime-project",
	"sublime-settings",
	"sublime-theme",
	"sublime-workspace",
	"sublime_metrics",
	"sublime_session",
)

var htmlExtensions = set(
	"html",
	"hta",
	"htm",
	"inc",
	"xht",
	"xhtml",
)

var cssExtensions = set(
	"css",
	"wxss",
	"pcss",
	"postcss",
)

var graphqlExtensions = set(
	"graphql",
	"gql",
	"graphqls",
)

var handlebarsExtensions = set(
	"handlebars",
	"hbs",
)

var markdownFilenames = set(
	"contents.lr",
	"README",
)

var markdownExtensions = set(
	"md",
	"livemd",
	"markdown",
	"mdown",
	"mdwn",
	"mkd",
	"mkdn",
	"mkdown",
	"ronn",
	"scd",
	"workbook",
)

var yamlFilenames = set(
	".clang-format",
	".clang-tidy",
	".clangd",
	".gemrc",
	"CITATION.cff",
	"glide.lock",
	"pixi.lock",
	".prettierrc",
	".stylelintrc",
	".lintstagedrc",
)

var yamlExtensions = set(
	"yml",
	"mir",
	"reek",
	"rviz",
	"sublime-syntax",
	"syntax",
	"yaml",
	"yaml-tmlanguage",
)

func set(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}
