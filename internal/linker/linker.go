package linker

// The linker turns the merged program of one bundle into output code. The
// host has already concatenated the top-level statements of every asset into
// one program, so each asset's bindings already live in the same scope. What
// is left is the glue between bundles: imports of other bundles and of
// external modules go in front of the program, exports go after it, and then
// every top-level binding that nothing can observe is removed.
//
// Linking one bundle is single-threaded. Bundles do not share any state, so
// separate bundles can be linked in parallel.

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hoistjs/hoist/internal/config"
	"github.com/hoistjs/hoist/internal/graph"
	"github.com/hoistjs/hoist/internal/helpers"
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/js_printer"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/internal/runtime"
	"github.com/hoistjs/hoist/internal/scope"
	"go.uber.org/zap"
)

var ErrExternalInGlobal = errors.New("External modules are not supported when building for browser")

// Returned when an entry asset's export cannot be traced back to a binding
type UnresolvedExportError struct {
	// The asset where the lookup failed, relative to the working directory
	Path string

	// The entry asset whose export was requested
	EntryPath string

	Name string
}

func (e *UnresolvedExportError) Error() string {
	return fmt.Sprintf("%s does not export '%s'", e.Path, e.Name)
}

// The assets of another bundle that this bundle reads from
type BundleImport struct {
	Bundle *graph.Bundle
	Assets []*graph.Asset
}

type Input struct {
	Bundle      *graph.Bundle
	BundleGraph graph.BundleGraph

	// The merged program. It is modified in place.
	AST *js_ast.AST

	BundleImports []BundleImport
	Externals     []*graph.ExternalModule

	// Assets of this bundle that other bundles read from
	ReferencedAssets []*graph.Asset

	// Maps a symbol the bundle graph reports to the identifier that actually
	// holds its value after merging
	Replacements map[string]string

	PrintOptions js_printer.Options
}

type Result struct {
	JS []byte

	// The top-level identifiers other bundles may depend on
	Exported ExportedSet

	AST   *js_ast.AST
	Scope *scope.Scope
}

type linkerContext struct {
	options     *config.Options
	log         logger.Log
	bundle      *graph.Bundle
	bundleGraph graph.BundleGraph
	scope       *scope.Scope
	ast         *js_ast.AST

	// Glue is inserted at the front of the program in the order it is
	// generated, so this is the position of the next glue statement
	cursor int
}

// Returns a log where "log.HasErrors()" only returns true if any errors have
// been logged since this call. This is useful when there have already been
// errors logged by other linkers that share the same log.
func wrappedLog(log logger.Log) logger.Log {
	var mutex sync.Mutex
	var hasErrors bool
	addMsg := log.AddMsg

	log.AddMsg = func(msg logger.Msg) {
		if msg.Kind == logger.Error {
			mutex.Lock()
			defer mutex.Unlock()
			hasErrors = true
		}
		addMsg(msg)
	}

	log.HasErrors = func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return hasErrors
	}

	return log
}

func Link(options *config.Options, log logger.Log, input Input) (result Result, ok bool) {
	log = wrappedLog(log)

	c := linkerContext{
		options:     options,
		log:         log,
		bundle:      input.Bundle,
		bundleGraph: input.BundleGraph,
		ast:         input.AST,
	}

	defer c.recoverInternalError(&ok)

	c.scope = scope.Crawl(c.ast)
	format := c.formatFor(c.bundle.Env.OutputFormat)

	Logger().Debug("Linking bundle",
		zap.String("bundle", c.bundle.ID),
		zap.Stringer("format", c.bundle.Env.OutputFormat),
		zap.Int("bindings", len(c.scope.Names())))

	for _, imported := range input.BundleImports {
		format.GenerateBundleImports(c.bundle, imported.Bundle, imported.Assets)
	}

	for _, external := range input.Externals {
		if err := format.GenerateExternalImport(c.bundle, external); err != nil {
			c.addError(err)
			return Result{}, false
		}
	}

	exported, err := format.GenerateExports(input.ReferencedAssets, input.Replacements)
	if err != nil {
		c.addError(err)
		return Result{}, false
	}

	// Nothing that other code can observe may be removed
	for _, name := range exported.Names() {
		c.scope.Pin(name)
	}

	c.treeShake(exported)

	if ce := Logger().Check(zap.DebugLevel, "Linked bundle"); ce != nil {
		ce.Write(zap.String("bundle", c.bundle.ID), zap.Strings("exported", exported.Names()),
			zap.Object("bindings", bindingTable{c.scope}))
	}

	j := helpers.Joiner{}
	if NeedsPrelude(c.bundle, c.bundleGraph) {
		j.AddString(runtime.Prelude)
	}
	j.AddBytes(js_printer.Print(c.ast, input.PrintOptions).JS)
	j.EnsureNewlineAtEnd()
	js := j.Done()

	if log.HasErrors() {
		return Result{}, false
	}

	return Result{
		JS:       js,
		Exported: exported,
		AST:      c.ast,
		Scope:    c.scope,
	}, true
}

// Global bundles that load first and share their registry with other bundles
// have to define the registry
func NeedsPrelude(bundle *graph.Bundle, bundleGraph graph.BundleGraph) bool {
	if bundle.Env.OutputFormat != config.FormatGlobal {
		return false
	}
	return graph.IsEntry(bundle, bundleGraph) && graph.IsReferenced(bundle, bundleGraph)
}

func (c *linkerContext) addError(err error) {
	msg := logger.Msg{Kind: logger.Error, Text: err.Error()}
	var unresolved *UnresolvedExportError
	if errors.As(err, &unresolved) {
		msg.Location = &logger.MsgLocation{File: unresolved.EntryPath}
	}
	c.log.AddMsg(msg)
}

func (c *linkerContext) recoverInternalError(ok *bool) {
	if r := recover(); r != nil {
		text := fmt.Sprintf("Internal error: panic: %v (while linking %q)", r, c.bundle.FilePath)
		c.log.AddMsg(logger.Msg{Kind: logger.Error, Text: text + "\n" + helpers.PrettyPrintedStack()})
		*ok = false
	}
}

// Paths in messages are relative to the working directory
func (c *linkerContext) prettyPath(path string) string {
	if c.options != nil && c.options.Cwd != "" {
		if rel, err := filepath.Rel(c.options.Cwd, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

// Inserts glue statements at the front of the program after the glue that
// was inserted before them, and binds the names they declare
func (c *linkerContext) prepend(stmts ...js_ast.Index) {
	for _, stmt := range stmts {
		c.scope.InsertTopLevel(c.cursor, stmt)
		c.cursor++
		c.declare(stmt)
	}
}

func (c *linkerContext) appendStmts(stmts ...js_ast.Index) {
	for _, stmt := range stmts {
		c.scope.Append(stmt)
		c.declare(stmt)
	}
}

func (c *linkerContext) declare(stmt js_ast.Index) {
	if js_ast.IsDeclaration(c.ast.Data(stmt)) {
		c.scope.Declare(stmt)
	}
}

func (c *linkerContext) unresolvedExport(entry *graph.Asset, symbol graph.ExportedSymbol) error {
	asset := symbol.Asset
	if asset == nil {
		asset = entry
	}
	return &UnresolvedExportError{
		Path:      c.prettyPath(asset.FilePath),
		EntryPath: c.prettyPath(entry.FilePath),
		Name:      symbol.ExportSymbol,
	}
}

// Exported identifiers in the order they were added
type ExportedSet struct {
	names []string
	has   map[string]bool
}

func (set *ExportedSet) Add(name string) {
	if set.has == nil {
		set.has = make(map[string]bool)
	}
	if !set.has[name] {
		set.has[name] = true
		set.names = append(set.names, name)
	}
}

func (set ExportedSet) Has(name string) bool {
	return set.has[name]
}

func (set ExportedSet) Names() []string {
	return set.names
}

func (set ExportedSet) Len() int {
	return len(set.names)
}
