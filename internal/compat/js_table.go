package compat

type JSFeature uint8

const (
	// "var { a, b } = c"
	ObjectDestructuring JSFeature = 1 << iota
)

func (features JSFeature) Has(feature JSFeature) bool {
	return (features & feature) != 0
}

var jsTable = map[JSFeature]map[Engine][]versionRange{
	ObjectDestructuring: {
		Chrome:   {{start: v{51, 0, 0}}},
		Edge:     {{start: v{15, 0, 0}}},
		ES:       {{start: v{2015, 0, 0}}},
		Electron: {{start: v{1, 2, 0}}},
		Firefox:  {{start: v{53, 0, 0}}},
		IOS:      {{start: v{10, 0, 0}}},
		Node:     {{start: v{6, 5, 0}}},
		Opera:    {{start: v{38, 0, 0}}},
		Safari:   {{start: v{10, 0, 0}}},
		Samsung:  {{start: v{5, 0, 0}}},
	},
}

// Return all features that are not available in at least one environment.
// An engine the table does not list lacks the feature. No constraints at all
// means every feature is available.
func UnsupportedJSFeatures(constraints map[Engine][]int) (unsupported JSFeature) {
	for feature, engines := range jsTable {
		for engine, version := range constraints {
			if versionRanges, ok := engines[engine]; !ok || !isVersionSupported(versionRanges, version) {
				unsupported |= feature
			}
		}
	}
	return
}
