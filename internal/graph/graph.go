package graph

import (
	"path/filepath"
	"strings"

	"github.com/hoistjs/hoist/internal/config"
	"github.com/hoistjs/hoist/internal/js_ast"
)

type Bundle struct {
	ID       string
	Type     string
	FilePath string
	Env      config.Environment

	// In the order they were merged into the program
	Assets []*Asset

	// The asset whose exports become the bundle's exports. This is nil for
	// bundles that only hold shared code.
	MainEntry *Asset
}

// One symbol exported by an entry asset, after following re-exports. Symbol
// is the top-level identifier that holds the value in the merged program and
// is empty when the export could not be resolved, in which case Asset is the
// asset where the lookup failed.
type ExportedSymbol struct {
	ExportSymbol string
	Symbol       string
	Asset        *Asset
}

// The queries the linker makes about the bundle graph
type BundleGraph interface {
	HasParentBundleOfType(bundle *Bundle, bundleType string) bool
	GetChildBundles(bundle *Bundle) []*Bundle
	GetSiblingBundles(bundle *Bundle) []*Bundle
	GetExportedSymbols(asset *Asset) []ExportedSymbol
}

// An in-memory bundle graph. Edges are kept in insertion order so that every
// query answers in a deterministic order.
type Graph struct {
	Bundles []*Bundle

	parents  map[*Bundle][]*Bundle
	children map[*Bundle][]*Bundle
	siblings map[*Bundle][]*Bundle
	exports  map[*Asset][]ExportedSymbol
}

func NewGraph() *Graph {
	return &Graph{
		parents:  make(map[*Bundle][]*Bundle),
		children: make(map[*Bundle][]*Bundle),
		siblings: make(map[*Bundle][]*Bundle),
		exports:  make(map[*Asset][]ExportedSymbol),
	}
}

func (g *Graph) AddBundle(bundle *Bundle) {
	g.Bundles = append(g.Bundles, bundle)
}

// Records that "parent" loads "child" at runtime
func (g *Graph) AddChild(parent *Bundle, child *Bundle) {
	g.children[parent] = append(g.children[parent], child)
	g.parents[child] = append(g.parents[child], parent)
}

// Records that two bundles are always loaded together
func (g *Graph) AddSibling(a *Bundle, b *Bundle) {
	g.siblings[a] = append(g.siblings[a], b)
	g.siblings[b] = append(g.siblings[b], a)
}

func (g *Graph) SetExportedSymbols(asset *Asset, symbols []ExportedSymbol) {
	g.exports[asset] = symbols
}

func (g *Graph) HasParentBundleOfType(bundle *Bundle, bundleType string) bool {
	for _, parent := range g.parents[bundle] {
		if parent.Type == bundleType {
			return true
		}
	}
	return false
}

func (g *Graph) GetChildBundles(bundle *Bundle) []*Bundle {
	return g.children[bundle]
}

func (g *Graph) GetSiblingBundles(bundle *Bundle) []*Bundle {
	return g.siblings[bundle]
}

func (g *Graph) GetExportedSymbols(asset *Asset) []ExportedSymbol {
	return g.exports[asset]
}

// Builds a synthesized top-level name such as "$a1$export$foo". The default
// export keeps its name as is.
func GetName(asset *Asset, kind string, rest ...string) string {
	sb := strings.Builder{}
	sb.WriteByte('$')
	sb.WriteString(js_ast.ToIdentifierSuffix(asset.ID))
	sb.WriteByte('$')
	sb.WriteString(kind)
	for _, name := range rest {
		sb.WriteByte('$')
		if name == "default" {
			sb.WriteString(name)
		} else {
			sb.WriteString(js_ast.ToIdentifier(name))
		}
	}
	return sb.String()
}

func ExportsName(asset *Asset) string {
	return GetName(asset, "exports")
}

func ExportName(asset *Asset, name string) string {
	return GetName(asset, "export", name)
}

// A bundle is an entry if nothing written in JavaScript loads it, like a
// bundle referenced from an HTML page, or if it runs in its own global scope
func IsEntry(bundle *Bundle, bundleGraph BundleGraph) bool {
	return !bundleGraph.HasParentBundleOfType(bundle, "js") || bundle.Env.IsIsolated()
}

// A bundle is potentially referenced if any child or sibling JavaScript
// bundle can share its module registry
func IsReferenced(bundle *Bundle, bundleGraph BundleGraph) bool {
	related := append(append([]*Bundle{}, bundleGraph.GetChildBundles(bundle)...), bundleGraph.GetSiblingBundles(bundle)...)
	for _, other := range related {
		if other.Type == "js" && (!other.Env.IsIsolated() || bundle.Env.IsIsolated()) {
			return true
		}
	}
	return false
}

// The path to "to" relative to the directory of "from", always with forward
// slashes and a leading "./" or "../" so it cannot be mistaken for a package
func RelativeBundlePath(from *Bundle, to *Bundle) string {
	rel, err := filepath.Rel(filepath.Dir(from.FilePath), to.FilePath)
	if err != nil {
		rel = to.FilePath
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "./") && !strings.HasPrefix(rel, "../") && !strings.HasPrefix(rel, "/") {
		rel = "./" + rel
	}
	return rel
}
