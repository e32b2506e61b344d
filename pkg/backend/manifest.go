package backend

import (
	"encoding/json"
	"sort"

	"github.com/iancoleman/orderedmap"
)

// manifestKeyOrder is the conventional top-level ordering for package
// manifests. Keys not listed here sort after the known ones,
// alphabetically.
var manifestKeyOrder = []string{
	"name",
	"version",
	"private",
	"description",
	"keywords",
	"homepage",
	"bugs",
	"repository",
	"funding",
	"license",
	"author",
	"contributors",
	"sideEffects",
	"type",
	"exports",
	"main",
	"module",
	"browser",
	"types",
	"typesVersions",
	"bin",
	"man",
	"files",
	"workspaces",
	"scripts",
	"config",
	"dependencies",
	"devDependencies",
	"peerDependencies",
	"peerDependenciesMeta",
	"optionalDependencies",
	"bundledDependencies",
	"overrides",
	"resolutions",
	"engines",
	"os",
	"cpu",
	"publishConfig",
	"packageManager",
}

var manifestKeyRank = func() map[string]int {
	ranks := make(map[string]int, len(manifestKeyOrder))
	for i, key := range manifestKeyOrder {
		ranks[key] = i
	}
	return ranks
}()

// dependencyFields are the manifest sections whose entries sort
// alphabetically.
var dependencyFields = []string{
	"dependencies",
	"devDependencies",
	"peerDependencies",
	"optionalDependencies",
}

// sortManifest reorders the top-level keys of a package manifest into the
// conventional order and sorts each dependency section alphabetically. The
// result is compact JSON; pretty-printing is the delegated backend's job.
func sortManifest(source string) (string, error) {
	manifest := orderedmap.New()
	if err := json.Unmarshal([]byte(source), manifest); err != nil {
		return "", &ParseError{Message: err.Error()}
	}

	manifest.SortKeys(func(keys []string) {
		sort.SliceStable(keys, func(i, j int) bool {
			ri, iKnown := manifestKeyRank[keys[i]]
			rj, jKnown := manifestKeyRank[keys[j]]
			switch {
			case iKnown && jKnown:
				return ri < rj
			case iKnown:
				return true
			case jKnown:
				return false
			default:
				return keys[i] < keys[j]
			}
		})
	})

	for _, field := range dependencyFields {
		value, ok := manifest.Get(field)
		if !ok {
			continue
		}
		deps, ok := value.(orderedmap.OrderedMap)
		if !ok {
			continue
		}
		deps.SortKeys(sort.Strings)
		manifest.Set(field, deps)
	}

	sorted, err := json.Marshal(manifest)
	if err != nil {
		return "", err
	}
	return string(sorted), nil
}
