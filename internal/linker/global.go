package linker

import (
	"github.com/hoistjs/hoist/internal/graph"
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/runtime"
)

// Bundles in this format share a module registry through a global variable
// instead of using a module system. Every asset another bundle needs is
// registered under its id, and readers look it up by id.
type globalFormat struct {
	c *linkerContext
}

func (f *globalFormat) GenerateBundleImports(from *graph.Bundle, bundle *graph.Bundle, assets []*graph.Asset) {
	c := f.c

	// Workers have no page to load the other bundle for them
	if from.Env.IsWorker() {
		c.prepend(c.ast.ExprStmt(c.ast.Call(c.ast.Ident("importScripts"), c.ast.Str(graph.RelativeBundlePath(from, bundle)))))
	}

	for _, asset := range assets {
		lookup := c.ast.Call(c.ast.Ident(runtime.Require), c.ast.Str(asset.ID))
		c.prepend(c.ast.Local(js_ast.LocalVar, c.ast.BIdent(exportsIdentifier(asset)), lookup))
	}
}

func (f *globalFormat) GenerateExternalImport(bundle *graph.Bundle, external *graph.ExternalModule) error {
	return ErrExternalInGlobal
}

func (f *globalFormat) GenerateExports(referencedAssets []*graph.Asset, replacements map[string]string) (ExportedSet, error) {
	c := f.c
	exported := ExportedSet{}
	var stmts []js_ast.Index

	register := func(asset *graph.Asset) {
		id := exportsIdentifier(asset)
		exported.Add(id)
		call := c.ast.Call(c.ast.Dot(c.ast.Ident(runtime.Require), "register"), c.ast.Str(asset.ID), c.ast.Ident(id))
		stmts = append(stmts, c.ast.ExprStmt(call))
	}

	for _, asset := range referencedAssets {
		register(asset)
	}

	// A bundle loaded by another bundle hands its entry over through the
	// registry, and so does an entry that other bundles read from
	if entry := c.bundle.MainEntry; entry != nil && !exported.Has(exportsIdentifier(entry)) &&
		(!graph.IsEntry(c.bundle, c.bundleGraph) || graph.IsReferenced(c.bundle, c.bundleGraph)) {
		register(entry)
	}

	c.appendStmts(stmts...)
	return exported, nil
}
