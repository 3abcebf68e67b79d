package linker

import (
	"github.com/hoistjs/hoist/internal/graph"
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/internal/renamer"
	"github.com/hoistjs/hoist/internal/runtime"
	"github.com/hoistjs/hoist/internal/scope"
	"go.uber.org/zap"
)

type esModuleFormat struct {
	c *linkerContext
}

func (c *linkerContext) importItem(kind js_ast.ImportKind, alias string, local string) js_ast.Index {
	return c.ast.Add(logger.Loc{}, &js_ast.ImportItem{Kind: kind, Alias: alias, Binding: c.ast.BIdent(local)})
}

func (c *linkerContext) importStmt(source string, items []js_ast.Index) js_ast.Index {
	return c.ast.Add(logger.Loc{}, &js_ast.SImport{Items: items, Source: source})
}

func (f *esModuleFormat) GenerateBundleImports(from *graph.Bundle, bundle *graph.Bundle, assets []*graph.Asset) {
	c := f.c
	items := make([]js_ast.Index, 0, len(assets))
	for _, asset := range assets {
		id := exportsIdentifier(asset)
		items = append(items, c.importItem(js_ast.ImportNamed, id, id))
	}
	c.prepend(c.importStmt(graph.RelativeBundlePath(from, bundle), items))
}

func (f *esModuleFormat) GenerateExternalImport(bundle *graph.Bundle, external *graph.ExternalModule) error {
	c := f.c
	var named []js_ast.Index
	for _, s := range external.Specifiers {
		if s.Imported != "*" && s.Imported != "default" {
			named = append(named, c.importItem(js_ast.ImportNamed, s.Imported, s.Local))
		}
	}
	namespace, hasNamespace := external.Specifier("*")
	defaultLocal, hasDefault := external.Specifier("default")

	if external.IsCommonJS && (hasNamespace || hasDefault) {
		// The default import of a CommonJS module is its "module.exports"
		// object, which is also its namespace. The real default export is
		// read off that object.
		module := namespace
		if !hasNamespace {
			module = renamer.GenerateUID(c.scope, external.Source)
		}
		items := append([]js_ast.Index{c.importItem(js_ast.ImportDefault, "default", module)}, named...)
		c.prepend(c.importStmt(external.Source, items))
		if hasDefault {
			value := c.ast.Call(c.ast.Ident(runtime.InteropDefault), c.ast.Ident(module))
			c.prepend(c.ast.Local(js_ast.LocalVar, c.ast.BIdent(defaultLocal), value))
		}
		return nil
	}

	// Namespace and named imports can't share a statement, but either can
	// share one with the default import
	var stmts []js_ast.Index
	if hasNamespace {
		var items []js_ast.Index
		if hasDefault {
			items = append(items, c.importItem(js_ast.ImportDefault, "default", defaultLocal))
		}
		items = append(items, c.importItem(js_ast.ImportNamespace, "*", namespace))
		stmts = append(stmts, c.importStmt(external.Source, items))
	} else if hasDefault {
		named = append([]js_ast.Index{c.importItem(js_ast.ImportDefault, "default", defaultLocal)}, named...)
	}

	if len(named) > 0 || len(stmts) == 0 {
		stmts = append(stmts, c.importStmt(external.Source, named))
	}

	c.prepend(stmts...)
	return nil
}

// How one binding is exported. A binding can be exported under more than
// one name, and "default" is tracked apart from the rest because it is not
// a live binding.
type esExport struct {
	names     []string
	isDefault bool
	handled   bool

	// Set when the binding can be renamed to the first name
	canTakeName bool
}

func (f *esModuleFormat) GenerateExports(referencedAssets []*graph.Asset, replacements map[string]string) (ExportedSet, error) {
	c := f.c
	exports := make(map[*scope.Binding]*esExport)
	var order []*scope.Binding

	add := func(b *scope.Binding, name string) {
		e := exports[b]
		if e == nil {
			e = &esExport{}
			exports[b] = e
			order = append(order, b)
		}
		if name == "default" {
			e.isDefault = true
			return
		}
		if len(e.names) == 0 {
			e.canTakeName = c.claimName(name, b)
		}
		e.names = append(e.names, name)
	}

	if entry := c.bundle.MainEntry; entry != nil {
		symbols, err := c.resolveExportedSymbols(entry, replacements)
		if err != nil {
			return ExportedSet{}, err
		}
		for _, symbol := range symbols {
			name := symbol.exportName

			// A CommonJS entry's "module.exports" becomes the default export
			if name == "*" {
				name = "default"
			}

			add(symbol.binding, name)
		}
	}

	for _, asset := range referencedAssets {
		id := exportsIdentifier(asset)
		if b := c.scope.Lookup(id); b != nil {
			add(b, id)
		} else {
			Logger().Debug("Referenced asset has no exports object", zap.String("asset", asset.ID))
		}
	}

	exported := ExportedSet{}

	for _, stmt := range append([]js_ast.Index{}, c.ast.Stmts...) {
		f.exportDeclaration(stmt, exports, &exported)
	}

	// Bindings declared somewhere other than a top-level statement, like a
	// "var" inside a block, are exported at the end
	for _, b := range order {
		e := exports[b]
		if e.handled {
			continue
		}
		e.handled = true
		f.renameToExport(b, e)
		var stmts []js_ast.Index
		if len(e.names) > 0 {
			stmts = append(stmts, f.exportClause(b.Name, e.names))
		}
		if e.isDefault {
			stmts = append(stmts, c.ast.Add(logger.Loc{}, &js_ast.SExportDefault{Value: c.ast.Ident(b.Name)}))
		}
		c.appendStmts(stmts...)
		exported.Add(b.Name)
	}

	return exported, nil
}

// Exports the names a top-level declaration introduces, in the most direct
// way the declaration allows
func (f *esModuleFormat) exportDeclaration(stmt js_ast.Index, exports map[*scope.Binding]*esExport, exported *ExportedSet) {
	c := f.c
	switch s := c.ast.Data(stmt).(type) {
	case *js_ast.SLocal:
		if s.IsExport {
			return
		}
	case *js_ast.SFunction:
		if s.IsExport {
			return
		}
	case *js_ast.SClass:
		if s.IsExport {
			return
		}
	case *js_ast.SImport:
	default:
		return
	}

	ids := c.ast.DeclaredIdentifiers(stmt)
	if len(ids) == 0 {
		return
	}

	var bindings []*scope.Binding
	allNamed := true
	for _, id := range ids {
		name, _ := c.ast.IdentifierName(id)
		b := c.scope.Lookup(name)
		if b == nil || b.Identifier != id {
			// A redeclaration of a binding declared earlier
			allNamed = false
			continue
		}
		e := exports[b]
		if e == nil || e.handled {
			allNamed = false
			continue
		}
		bindings = append(bindings, b)
		if e.isDefault || len(e.names) != 1 || !e.canTakeName {
			allNamed = false
		}
	}
	if len(bindings) == 0 {
		return
	}

	_, isImport := c.ast.Data(stmt).(*js_ast.SImport)
	_, isLocal := c.ast.Data(stmt).(*js_ast.SLocal)

	// "export let a = 1, b = 2;"
	if allNamed && !isImport {
		switch s := c.ast.Data(stmt).(type) {
		case *js_ast.SLocal:
			s.IsExport = true
		case *js_ast.SFunction:
			s.IsExport = true
		case *js_ast.SClass:
			s.IsExport = true
		}
		for _, b := range bindings {
			e := exports[b]
			e.handled = true
			f.renameToExport(b, e)
			exported.Add(b.Name)
		}
		return
	}

	// "export default function f() {}"
	if len(ids) == 1 && len(bindings) == 1 && !isLocal && !isImport {
		if e := exports[bindings[0]]; e.isDefault && len(e.names) == 0 {
			e.handled = true
			loc := c.ast.Node(stmt).Loc
			placeholder := c.ast.Add(loc, &js_ast.SEmpty{})
			c.ast.ReplaceChild(stmt, placeholder)
			wrapper := c.ast.Add(loc, &js_ast.SExportDefault{Value: stmt})
			c.ast.ReplaceChild(placeholder, wrapper)
			exported.Add(bindings[0].Name)
			return
		}
	}

	var names []js_ast.Index
	for _, b := range bindings {
		e := exports[b]
		e.handled = true
		f.renameToExport(b, e)
		exported.Add(b.Name)
		for _, name := range e.names {
			names = append(names, c.clauseItem(b.Name, name))
		}

		// The default export is not live, so it has to come after the last
		// write at the top level
		if e.isDefault {
			anchor := stmt
			for _, site := range b.ConstantViolations {
				if top := c.ast.TopLevelStmt(site); c.ast.TopLevelPosition(top) > c.ast.TopLevelPosition(anchor) {
					anchor = top
				}
			}
			c.scope.InsertAfter(anchor, c.ast.Add(logger.Loc{}, &js_ast.SExportDefault{Value: c.ast.Ident(b.Name)}))
		}
	}
	if len(names) > 0 {
		c.scope.InsertAfter(stmt, c.ast.Add(logger.Loc{}, &js_ast.SExportClause{Items: names}))
	}
}

// Gives a binding the first name it is exported under, as long as nothing
// else in the program would end up referring to it
func (f *esModuleFormat) renameToExport(b *scope.Binding, e *esExport) {
	if !e.canTakeName {
		return
	}
	if _, err := renamer.Rename(f.c.scope, b.Name, e.names[0]); err != nil {
		panic("Internal error: " + err.Error())
	}
}

func (c *linkerContext) clauseItem(local string, alias string) js_ast.Index {
	return c.ast.Add(logger.Loc{}, &js_ast.ClauseItem{Name: c.ast.Ident(local), Alias: alias})
}

func (f *esModuleFormat) exportClause(local string, names []string) js_ast.Index {
	c := f.c
	items := make([]js_ast.Index, len(names))
	for i, name := range names {
		items[i] = c.clauseItem(local, name)
	}
	return c.ast.Add(logger.Loc{}, &js_ast.SExportClause{Items: items})
}
