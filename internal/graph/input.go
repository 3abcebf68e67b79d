package graph

// The code in this file represents the data that passes from the bundle graph
// builder to the linker. None of it changes while a bundle is being linked.

type AssetMeta struct {
	IsEntry    bool
	IsIsolated bool
}

type Asset struct {
	ID       string
	FilePath string

	// The synthesized top-level variable that holds this asset's exports
	// object in the merged program, usually "$<id>$exports"
	ExportsIdentifier string

	// The asset assigns to "module.exports" or "exports" instead of using
	// export statements
	IsCommonJS bool

	Meta AssetMeta
}

// One "imported as local" pair. Imported is "default", "*" or a name.
type ExternalSpecifier struct {
	Imported string
	Local    string
}

// A module that is not bundled and stays an import in the output, like
// "lodash" when building for node
type ExternalModule struct {
	Source string

	// In source order. Each imported name appears at most once.
	Specifiers []ExternalSpecifier

	IsCommonJS bool
}

func (m *ExternalModule) Specifier(imported string) (string, bool) {
	for _, s := range m.Specifiers {
		if s.Imported == imported {
			return s.Local, true
		}
	}
	return "", false
}
