package linker

import (
	"github.com/hoistjs/hoist/internal/graph"
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/renamer"
	"github.com/hoistjs/hoist/internal/runtime"
	"github.com/hoistjs/hoist/internal/scope"
	"go.uber.org/zap"
)

type commonJSFormat struct {
	c *linkerContext
}

func (f *commonJSFormat) GenerateBundleImports(from *graph.Bundle, bundle *graph.Bundle, assets []*graph.Asset) {
	c := f.c
	call := c.require(graph.RelativeBundlePath(from, bundle))

	if len(assets) == 0 {
		c.prepend(c.ast.ExprStmt(call))
		return
	}

	specifiers := make([]specifier, len(assets))
	for i, asset := range assets {
		id := exportsIdentifier(asset)
		specifiers[i] = specifier{key: id, local: id}
	}
	c.prepend(c.generateDestructuringAssignment(from.Env, specifiers, call)...)
}

func (f *commonJSFormat) GenerateExternalImport(bundle *graph.Bundle, external *graph.ExternalModule) error {
	c := f.c
	var named []specifier
	namespace, hasNamespace := external.Specifier("*")
	defaultLocal, hasDefault := external.Specifier("default")
	for _, s := range external.Specifiers {
		if s.Imported != "*" && s.Imported != "default" {
			named = append(named, specifier{key: s.Imported, local: s.Local})
		}
	}

	categories := 0
	for _, has := range []bool{hasNamespace, hasDefault, len(named) > 0} {
		if has {
			categories++
		}
	}

	if categories == 0 {
		c.prepend(c.ast.ExprStmt(c.require(external.Source)))
		return nil
	}

	// Namespace, default and named imports can't share one "require()" call.
	// With more than one kind, the module object goes in a temporary first.
	module := func() js_ast.Index { return c.require(external.Source) }
	if categories > 1 {
		temp := renamer.GenerateUID(c.scope, external.Source)
		c.prepend(c.ast.Local(js_ast.LocalVar, c.ast.BIdent(temp), module()))
		module = func() js_ast.Index { return c.ast.Ident(temp) }
	}

	if hasNamespace {
		value := module()
		if !external.IsCommonJS {
			value = c.ast.Call(c.ast.Ident(runtime.ExportWildcard), c.ast.EmptyObject(), value)
		}
		c.prepend(c.ast.Local(js_ast.LocalVar, c.ast.BIdent(namespace), value))
	}

	if hasDefault {
		value := c.ast.Call(c.ast.Ident(runtime.InteropDefault), module())
		c.prepend(c.ast.Local(js_ast.LocalVar, c.ast.BIdent(defaultLocal), value))
	}

	if len(named) > 0 {
		c.prepend(c.generateDestructuringAssignment(bundle.Env, named, module())...)
	}

	Logger().Debug("Imported external module",
		zap.String("source", external.Source),
		zap.Int("categories", categories))
	return nil
}

func (f *commonJSFormat) GenerateExports(referencedAssets []*graph.Asset, replacements map[string]string) (ExportedSet, error) {
	c := f.c
	exported := ExportedSet{}
	var stmts []js_ast.Index

	for _, asset := range referencedAssets {
		id := exportsIdentifier(asset)
		exported.Add(id)
		stmts = append(stmts, c.ast.ExprStmt(c.exportAssignment(id, id)))
	}

	if entry := c.bundle.MainEntry; entry != nil {
		if entry.IsCommonJS {
			id := exportsIdentifier(entry)
			if b := c.scope.Lookup(id); b != nil {
				if !exported.Has(id) && f.canReplaceExportsObject(b) {
					// The object never escapes under another name, so the one the
					// CommonJS host provides can take its place
					for _, ref := range b.References {
						c.ast.SetIdentifierName(ref, "exports")
					}
					c.scope.RemoveNode(b.Declaration)
					if err := c.scope.Remove(id); err != nil {
						panic("Internal error: " + err.Error())
					}
					exported.Add("exports")
					Logger().Debug("Replaced exports object", zap.String("name", id))
				} else {
					exported.Add(id)
					stmts = append(stmts, c.ast.ExprStmt(c.ast.Assign(
						c.ast.Dot(c.ast.Ident("module"), "exports"), c.ast.Ident(id))))
				}
			}
		} else {
			symbols, err := c.resolveExportedSymbols(entry, replacements)
			if err != nil {
				return ExportedSet{}, err
			}
			ids := make(map[*scope.Binding]string)
			for _, symbol := range symbols {
				exported.Add(f.exportSymbol(symbol, ids))
			}
		}
	}

	c.appendStmts(stmts...)
	return exported, nil
}

// Only an empty object literal that is never reassigned and whose name
// can't be captured by a nested "exports" can be swapped for the real one
func (f *commonJSFormat) canReplaceExportsObject(b *scope.Binding) bool {
	c := f.c
	if !b.Constant || c.scope.Has("exports") || c.scope.HasNestedDeclaration("exports") {
		return false
	}
	decl, ok := c.ast.Data(b.Declaration).(*js_ast.Decl)
	if !ok {
		return false
	}
	if _, ok := c.ast.Data(decl.Binding).(*js_ast.BIdentifier); !ok {
		return false
	}
	object, ok := c.ast.Data(decl.Value).(*js_ast.EObject)
	return ok && len(object.Properties) == 0
}

// Exposes one export of an entry that uses export statements. The binding
// takes the export's name when it can, and every write to it is followed by
// a write to the exports object so that importers see the current value.
func (f *commonJSFormat) exportSymbol(symbol resolvedSymbol, ids map[*scope.Binding]string) string {
	c := f.c
	b := symbol.binding
	exportName := symbol.exportName

	id, ok := ids[b]
	if !ok {
		id = exportName
		if !c.claimName(exportName, b) {
			id = renamer.GenerateUID(c.scope, exportName)
		}
		if _, err := renamer.Rename(c.scope, b.Name, id); err != nil {
			panic("Internal error: " + err.Error())
		}
		ids[b] = id
	}

	// Take a snapshot because the glue below adds references
	violations := append([]js_ast.Index{}, b.ConstantViolations...)

	c.scope.InsertAfter(c.stmtAnchor(b.Declaration), c.ast.ExprStmt(c.exportAssignment(exportName, id)))

	if exportName != "default" {
		for _, site := range violations {
			f.mirrorWrite(site, exportName, id)
		}
	}
	return id
}

// "exports.<name> = <id>"
func (c *linkerContext) exportAssignment(name string, id string) js_ast.Index {
	return c.ast.Assign(c.ast.Member(c.ast.Ident("exports"), name), c.ast.Ident(id))
}

// The statement that glue for a declaration goes next to. Declarations in
// the head of a loop or under "export default" can't have siblings, so the
// enclosing statement is used instead.
func (c *linkerContext) stmtAnchor(i js_ast.Index) js_ast.Index {
	stmt := c.ast.StmtParent(i)
	for {
		parent := c.ast.Parent(stmt)
		switch p := c.ast.Data(parent).(type) {
		case *js_ast.SFor:
			if p.Init == stmt {
				stmt = parent
				continue
			}
		case *js_ast.SForIn:
			if p.Init == stmt {
				stmt = parent
				continue
			}
		case *js_ast.SExportDefault:
			stmt = parent
			continue
		}
		return stmt
	}
}

// Copies the new value of "id" onto the exports object right after "site"
// writes it
func (f *commonJSFormat) mirrorWrite(site js_ast.Index, exportName string, id string) {
	c := f.c
	mirror := c.exportAssignment(exportName, id)

	switch s := c.ast.Data(site).(type) {
	case *js_ast.Decl:
		c.scope.InsertAfter(c.stmtAnchor(site), c.ast.ExprStmt(mirror))
		return

	case *js_ast.SForIn:
		stmt := c.ast.ExprStmt(mirror)
		if block, ok := c.ast.Data(s.Body).(*js_ast.SBlock); ok && len(block.Stmts) == 0 {
			block.Stmts = []js_ast.Index{stmt}
			c.ast.Node(stmt).Parent = s.Body
			c.scope.Reindex(stmt)
		} else if ok {
			c.scope.InsertBefore(block.Stmts[0], stmt)
		} else {
			c.scope.InsertBefore(s.Body, stmt)
		}
		return
	}

	parent := c.ast.Parent(site)
	switch p := c.ast.Data(parent).(type) {
	case *js_ast.SExpr:
		c.scope.InsertAfter(parent, c.ast.ExprStmt(mirror))
		return

	case *js_ast.SFor:
		if p.Update == site {
			c.wrapInSequence(site, func(site js_ast.Index) []js_ast.Index {
				return []js_ast.Index{site, mirror}
			})
			c.scope.Reindex(mirror)
			return
		}
	}

	// A postfix update evaluates to the old value, which has to be saved
	// before the exports object is updated
	if update, ok := c.ast.Data(site).(*js_ast.EUnary); ok && !update.Op.IsPrefix() {
		temp := renamer.GenerateUID(c.scope, id)
		c.prepend(c.ast.Local(js_ast.LocalVar, c.ast.BIdent(temp), js_ast.InvalidIndex))
		var save, result js_ast.Index
		c.wrapInSequence(site, func(site js_ast.Index) []js_ast.Index {
			save = c.ast.Assign(c.ast.Ident(temp), site)
			result = c.ast.Ident(temp)
			return []js_ast.Index{save, mirror, result}
		})
		c.scope.AddConstantViolation(temp, save)
		c.scope.AddReference(temp, result)
		c.scope.Reindex(mirror)
		return
	}

	c.wrapInSequence(site, func(site js_ast.Index) []js_ast.Index {
		return []js_ast.Index{site, mirror}
	})
	c.scope.Reindex(mirror)
}

// Replaces an expression with a sequence built around it. The expression
// keeps its bookkeeping, so only the new parts need to be indexed.
func (c *linkerContext) wrapInSequence(site js_ast.Index, build func(site js_ast.Index) []js_ast.Index) {
	loc := c.ast.Node(site).Loc
	placeholder := c.ast.Add(loc, &js_ast.EMissing{})
	c.ast.ReplaceChild(site, placeholder)
	sequence := c.ast.Add(loc, &js_ast.ESequence{Exprs: build(site)})
	c.ast.ReplaceChild(placeholder, sequence)
}
