package linker

import (
	"fmt"

	"github.com/hoistjs/hoist/internal/config"
	"github.com/hoistjs/hoist/internal/graph"
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/renamer"
	"github.com/hoistjs/hoist/internal/scope"
)

// The code generation that depends on how bundles load each other. Imports
// are generated first and exports last, and each call rewrites the program
// in place through the symbol table.
type OutputFormat interface {
	// Makes the exports identifiers of "assets", which live in "bundle", visible
	// to the bundle "from" that is being linked
	GenerateBundleImports(from *graph.Bundle, bundle *graph.Bundle, assets []*graph.Asset)

	GenerateExternalImport(bundle *graph.Bundle, external *graph.ExternalModule) error

	// Exposes the main entry's exports and the exports objects of assets that
	// other bundles read. The returned set must survive tree shaking.
	GenerateExports(referencedAssets []*graph.Asset, replacements map[string]string) (ExportedSet, error)
}

func (c *linkerContext) formatFor(format config.Format) OutputFormat {
	switch format {
	case config.FormatCommonJS:
		return &commonJSFormat{c}
	case config.FormatESModule:
		return &esModuleFormat{c}
	case config.FormatGlobal:
		return &globalFormat{c}
	}
	panic(fmt.Sprintf("Internal error: unknown output format %d", format))
}

func (c *linkerContext) require(path string) js_ast.Index {
	return c.ast.Call(c.ast.Ident("require"), c.ast.Str(path))
}

func exportsIdentifier(asset *graph.Asset) string {
	if asset.ExportsIdentifier != "" {
		return asset.ExportsIdentifier
	}
	return graph.ExportsName(asset)
}

// The physical binding of an export after merging
func resolveSymbol(symbol string, replacements map[string]string) string {
	if replacement, ok := replacements[symbol]; ok && replacement != "" {
		return replacement
	}
	return symbol
}

// One export of the main entry together with the binding that holds it
type resolvedSymbol struct {
	exportName string
	binding    *scope.Binding
}

// Looks up every export of the entry before anything is renamed, since
// renaming one export's binding can give it the name another export refers
// to. Bindings are looked up once and followed by identity afterward.
func (c *linkerContext) resolveExportedSymbols(entry *graph.Asset, replacements map[string]string) ([]resolvedSymbol, error) {
	var symbols []resolvedSymbol
	for _, symbol := range c.bundleGraph.GetExportedSymbols(entry) {
		if symbol.Symbol == "" {
			return nil, c.unresolvedExport(entry, symbol)
		}
		b := c.scope.Lookup(resolveSymbol(symbol.Symbol, replacements))
		if b == nil {
			return nil, c.unresolvedExport(entry, symbol)
		}
		symbols = append(symbols, resolvedSymbol{exportName: symbol.ExportSymbol, binding: b})
	}
	return symbols, nil
}

// Prepares "name" for "owner" to take. Whatever else is bound to it, like an
// import that happens to have the name an export needs, is renamed out of the
// way. Returns false when the binding can't have the name: it isn't an
// identifier, a nested scope declares it, or the program reads it as a global.
func (c *linkerContext) claimName(name string, owner *scope.Binding) bool {
	if !js_ast.IsIdentifier(name) || !c.scope.CanBind(name) {
		return false
	}
	if other := c.scope.Lookup(name); other != nil && other != owner {
		if _, err := renamer.Rename(c.scope, name, ""); err != nil {
			panic("Internal error: " + err.Error())
		}
	}
	return true
}
