package linker

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hoistjs/hoist/internal/compat"
	"github.com/hoistjs/hoist/internal/config"
	"github.com/hoistjs/hoist/internal/graph"
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/js_parser"
	"github.com/hoistjs/hoist/internal/js_printer"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/internal/runtime"
	"github.com/hoistjs/hoist/internal/scope"
	"github.com/hoistjs/hoist/internal/test"
)

func newBundle(format config.Format) *graph.Bundle {
	return &graph.Bundle{
		ID:       "main",
		Type:     "js",
		FilePath: "dist/main.js",
		Env:      config.Environment{OutputFormat: format},
	}
}

func sharedBundle() *graph.Bundle {
	return &graph.Bundle{ID: "shared", Type: "js", FilePath: "dist/shared.js"}
}

func parse(t *testing.T, contents string) *js_ast.AST {
	t.Helper()
	tree, ok := js_parser.Parse(logger.NewDeferLog(), test.SourceForTest(contents))
	if !ok {
		t.Fatalf("Parse error in %q", contents)
	}
	return tree
}

func tryLink(t *testing.T, contents string, input Input) (Result, []logger.Msg, bool) {
	t.Helper()
	input.AST = parse(t, contents)
	if input.BundleGraph == nil {
		input.BundleGraph = graph.NewGraph()
	}
	log := logger.NewDeferLog()
	result, ok := Link(&config.Options{Cwd: "/project"}, log, input)
	return result, log.Done(), ok
}

func link(t *testing.T, contents string, input Input) Result {
	t.Helper()
	result, msgs, ok := tryLink(t, contents, input)
	if !ok {
		for _, msg := range msgs {
			t.Log(msg.Text)
		}
		t.Fatal("Link failed")
	}
	if err := result.Scope.Verify(); err != nil {
		t.Fatal(err)
	}
	return result
}

func expectLinked(t *testing.T, contents string, input Input, expected string) {
	t.Helper()
	result := link(t, contents, input)
	test.AssertEqualWithDiff(t, string(result.JS), expected)
}

func withExports(entry *graph.Asset, symbols ...graph.ExportedSymbol) *graph.Graph {
	g := graph.NewGraph()
	g.SetExportedSymbols(entry, symbols)
	return g
}

func TestCommonJSExternal(t *testing.T) {
	bundle := newBundle(config.FormatCommonJS)
	bundle.Env.Context = config.ContextNode

	lodash := &graph.ExternalModule{Source: "lodash", IsCommonJS: true, Specifiers: []graph.ExternalSpecifier{
		{Imported: "default", Local: "_"},
		{Imported: "map", Local: "map"},
	}}
	expectLinked(t, "console.log(_(map));", Input{Bundle: bundle, Externals: []*graph.ExternalModule{lodash}},
		`var _lodash = require("lodash");
var _ = $hoist$interopDefault(_lodash);
var { map } = _lodash;
console.log(_(map));
`)

	// A module in ES format needs its namespace built from its exports
	lib := &graph.ExternalModule{Source: "./esm-lib", Specifiers: []graph.ExternalSpecifier{
		{Imported: "*", Local: "lib"},
	}}
	expectLinked(t, "lib.run();", Input{Bundle: bundle, Externals: []*graph.ExternalModule{lib}},
		`var lib = $hoist$exportWildcard({}, require("./esm-lib"));
lib.run();
`)

	fs := &graph.ExternalModule{Source: "fs", IsCommonJS: true, Specifiers: []graph.ExternalSpecifier{
		{Imported: "*", Local: "fs"},
	}}
	expectLinked(t, "fs.readFileSync(p);", Input{Bundle: bundle, Externals: []*graph.ExternalModule{fs}},
		`var fs = require("fs");
fs.readFileSync(p);
`)
}

func TestDestructuringFallback(t *testing.T) {
	bundle := newBundle(config.FormatCommonJS)
	engines, err := compat.ParseTarget("node4")
	if err != nil {
		t.Fatal(err)
	}
	bundle.Env.Engines = engines

	lodash := &graph.ExternalModule{Source: "lodash", Specifiers: []graph.ExternalSpecifier{
		{Imported: "map", Local: "map"},
		{Imported: "filter", Local: "filter"},
	}}
	expectLinked(t, "map(filter);", Input{Bundle: bundle, Externals: []*graph.ExternalModule{lodash}},
		`var _temp = require("lodash");
var map = _temp.map;
var filter = _temp.filter;
map(filter);
`)

	single := &graph.ExternalModule{Source: "lodash", Specifiers: []graph.ExternalSpecifier{
		{Imported: "map", Local: "map"},
	}}
	expectLinked(t, "map();", Input{Bundle: bundle, Externals: []*graph.ExternalModule{single}},
		`var map = require("lodash").map;
map();
`)

	// An identifier is never copied into a temporary
	both := &graph.ExternalModule{Source: "lodash", Specifiers: []graph.ExternalSpecifier{
		{Imported: "default", Local: "_"},
		{Imported: "map", Local: "map"},
		{Imported: "some-name", Local: "someName"},
	}}
	expectLinked(t, "_(map, someName);", Input{Bundle: bundle, Externals: []*graph.ExternalModule{both}},
		`var _lodash = require("lodash");
var _ = $hoist$interopDefault(_lodash);
var map = _lodash.map;
var someName = _lodash["some-name"];
_(map, someName);
`)
}

func TestBundleImports(t *testing.T) {
	shared := sharedBundle()
	assets := []*graph.Asset{{ID: "a1"}, {ID: "a2"}}
	contents := "$a1$exports.run($a2$exports);"

	expectLinked(t, contents, Input{
		Bundle:        newBundle(config.FormatCommonJS),
		BundleImports: []BundleImport{{Bundle: shared, Assets: assets}},
	}, `var { $a1$exports, $a2$exports } = require("./shared.js");
$a1$exports.run($a2$exports);
`)

	expectLinked(t, contents, Input{
		Bundle:        newBundle(config.FormatESModule),
		BundleImports: []BundleImport{{Bundle: shared, Assets: assets}},
	}, `import { $a1$exports, $a2$exports } from "./shared.js";
$a1$exports.run($a2$exports);
`)

	worker := newBundle(config.FormatGlobal)
	worker.FilePath = "dist/worker.js"
	worker.Env.Context = config.ContextWebWorker
	expectLinked(t, contents, Input{
		Bundle:        worker,
		BundleImports: []BundleImport{{Bundle: shared, Assets: assets}},
	}, `importScripts("./shared.js");
var $a1$exports = hoistRequire("a1");
var $a2$exports = hoistRequire("a2");
$a1$exports.run($a2$exports);
`)
}

func TestSideEffectImports(t *testing.T) {
	shared := sharedBundle()
	polyfill := &graph.ExternalModule{Source: "polyfill"}

	expectLinked(t, "run();", Input{
		Bundle:        newBundle(config.FormatCommonJS),
		BundleImports: []BundleImport{{Bundle: shared}},
		Externals:     []*graph.ExternalModule{polyfill},
	}, `require("./shared.js");
require("polyfill");
run();
`)

	expectLinked(t, "run();", Input{
		Bundle:        newBundle(config.FormatESModule),
		BundleImports: []BundleImport{{Bundle: shared}},
		Externals:     []*graph.ExternalModule{polyfill},
	}, `import "./shared.js";
import "polyfill";
run();
`)

	// A page loads the other bundle with a script tag
	expectLinked(t, "run();", Input{
		Bundle:        newBundle(config.FormatGlobal),
		BundleImports: []BundleImport{{Bundle: shared}},
	}, "run();\n")
}

func TestESModuleExternal(t *testing.T) {
	bundle := newBundle(config.FormatESModule)

	x := &graph.ExternalModule{Source: "x", Specifiers: []graph.ExternalSpecifier{
		{Imported: "*", Local: "ns"},
		{Imported: "default", Local: "d"},
		{Imported: "a", Local: "b"},
	}}
	expectLinked(t, "ns(d, b);", Input{Bundle: bundle, Externals: []*graph.ExternalModule{x}},
		`import d, * as ns from "x";
import { a as b } from "x";
ns(d, b);
`)

	y := &graph.ExternalModule{Source: "y", Specifiers: []graph.ExternalSpecifier{
		{Imported: "default", Local: "d"},
		{Imported: "a", Local: "a"},
	}}
	expectLinked(t, "d(a);", Input{Bundle: bundle, Externals: []*graph.ExternalModule{y}},
		`import d, { a } from "y";
d(a);
`)

	react := &graph.ExternalModule{Source: "react", IsCommonJS: true, Specifiers: []graph.ExternalSpecifier{
		{Imported: "default", Local: "React"},
		{Imported: "useState", Local: "useState"},
	}}
	expectLinked(t, "React.createElement(useState);", Input{Bundle: bundle, Externals: []*graph.ExternalModule{react}},
		`import _react, { useState } from "react";
var React = $hoist$interopDefault(_react);
React.createElement(useState);
`)
}

func TestExternalInGlobal(t *testing.T) {
	_, msgs, ok := tryLink(t, "fs;", Input{
		Bundle:    newBundle(config.FormatGlobal),
		Externals: []*graph.ExternalModule{{Source: "fs"}},
	})
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Text, ErrExternalInGlobal.Error())
}

func TestUnresolvedExport(t *testing.T) {
	entry := &graph.Asset{ID: "a", FilePath: "/project/src/index.js"}
	dep := &graph.Asset{ID: "b", FilePath: "/project/src/dep.js"}
	bundle := newBundle(config.FormatESModule)
	bundle.MainEntry = entry

	_, msgs, ok := tryLink(t, "var x;", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "foo", Asset: dep}),
	})
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Error)
	test.AssertEqual(t, msgs[0].Text, "src/dep.js does not export 'foo'")
	test.AssertEqual(t, msgs[0].Location.File, "src/index.js")

	// A symbol that names nothing in the program is just as unresolved
	bundle.Env.OutputFormat = config.FormatCommonJS
	_, msgs, ok = tryLink(t, "var x;", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "bar", Symbol: "$a$missing"}),
	})
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, msgs[0].Text, "src/index.js does not export 'bar'")

	var unresolved *UnresolvedExportError
	c := linkerContext{options: &config.Options{Cwd: "/project"}}
	err := c.unresolvedExport(entry, graph.ExportedSymbol{ExportSymbol: "baz"})
	test.AssertEqual(t, errors.As(err, &unresolved), true)
	test.AssertEqual(t, unresolved.Name, "baz")
}

func TestCommonJSExportsObject(t *testing.T) {
	entry := &graph.Asset{ID: "a", IsCommonJS: true}
	bundle := newBundle(config.FormatCommonJS)
	bundle.MainEntry = entry

	result := link(t, "var $a$exports = {};\n$a$exports.foo = 1;", Input{Bundle: bundle})
	test.AssertEqualWithDiff(t, string(result.JS), "exports.foo = 1;\n")
	test.AssertEqual(t, result.Exported.Has("exports"), true)

	// Something other than an empty object has to be handed over
	expectLinked(t, "var $a$exports = { foo: 1 };", Input{Bundle: bundle},
		`var $a$exports = { foo: 1 };
module.exports = $a$exports;
`)

	// A nested "exports" would capture the new name
	expectLinked(t, "var $a$exports = {};\nfunction f(exports) { return exports; }\n$a$exports.f = f;", Input{Bundle: bundle},
		`var $a$exports = {};
function f(exports) {
  return exports;
}
$a$exports.f = f;
module.exports = $a$exports;
`)
}

func TestCommonJSLiveExports(t *testing.T) {
	entry := &graph.Asset{ID: "a"}
	bundle := newBundle(config.FormatCommonJS)
	bundle.MainEntry = entry

	expectLinked(t, `
var $a$export$count = 0;
function inc() { $a$export$count++; }
$a$export$count += 1;
`, Input{
		Bundle: bundle,
		BundleGraph: withExports(entry,
			graph.ExportedSymbol{ExportSymbol: "count", Symbol: "$a$export$count"},
			graph.ExportedSymbol{ExportSymbol: "inc", Symbol: "inc"}),
	}, `var count = 0;
exports.count = count;
function inc() {
  count++;
  exports.count = count;
}
exports.inc = inc;
count += 1;
exports.count = count;
`)

	// A postfix update still evaluates to the old value
	expectLinked(t, "var $a$n = 0;\nvar m = $a$n++;\nuse(m);", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "n", Symbol: "$a$n"}),
	}, `var _n;
var n = 0;
exports.n = n;
var m = (_n = n++, exports.n = n, _n);
use(m);
`)

	expectLinked(t, "var $a$i;\nfor ($a$i = 0; $a$i < 3; $a$i++) {}", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "i", Symbol: "$a$i"}),
	}, `var i;
exports.i = i;
for (i = 0, exports.i = i; i < 3; i++, exports.i = i) {}
`)

	expectLinked(t, "var $a$k;\nfor ($a$k in o) {}", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "k", Symbol: "$a$k"}),
	}, `var k;
exports.k = k;
for (k in o) {
  exports.k = k;
}
`)

	// A name that can't be an identifier still works as a property
	expectLinked(t, "var $a$x = 1;", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "a-b", Symbol: "$a$x"}),
	}, `var _aB = 1;
exports["a-b"] = _aB;
`)
}

func TestESModuleExports(t *testing.T) {
	entry := &graph.Asset{ID: "a"}
	bundle := newBundle(config.FormatESModule)
	bundle.MainEntry = entry

	expectLinked(t, `
let $a$export$count = 0;
function $a$export$increment() { $a$export$count++; }
`, Input{
		Bundle: bundle,
		BundleGraph: withExports(entry,
			graph.ExportedSymbol{ExportSymbol: "count", Symbol: "$a$export$count"},
			graph.ExportedSymbol{ExportSymbol: "increment", Symbol: "$a$export$increment"}),
	}, `export let count = 0;
export function increment() {
  count++;
}
`)

	expectLinked(t, "function $a$export$default() {}", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "default", Symbol: "$a$export$default"}),
	}, "export default function $a$export$default() {}\n")

	// The default export is a snapshot, so it comes after the last write
	expectLinked(t, "var $a$v = 1;\n$a$v = 2;", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "default", Symbol: "$a$v"}),
	}, `var $a$v = 1;
$a$v = 2;
export default $a$v;
`)

	// One binding under two names
	expectLinked(t, "var $a$x = 1;", Input{
		Bundle: bundle,
		BundleGraph: withExports(entry,
			graph.ExportedSymbol{ExportSymbol: "x", Symbol: "$a$x"},
			graph.ExportedSymbol{ExportSymbol: "y", Symbol: "$a$x"}),
	}, `var x = 1;
export { x, x as y };
`)

	// An import that holds the name an export needs is moved out of the way
	expectLinked(t, "import { x } from 'lib';\nvar $a$x = x;", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "x", Symbol: "$a$x"}),
	}, `import { x as _x } from "lib";
export var x = _x;
`)

	// A CommonJS entry's exports object becomes the default export
	cjs := &graph.Asset{ID: "c", IsCommonJS: true}
	bundle.MainEntry = cjs
	expectLinked(t, "var $c$exports = {};\n$c$exports.foo = 1;", Input{
		Bundle:      bundle,
		BundleGraph: withExports(cjs, graph.ExportedSymbol{ExportSymbol: "*", Symbol: "$c$exports"}),
	}, `var $c$exports = {};
export default $c$exports;
$c$exports.foo = 1;
`)
}

// Reassigning an exported binding needs no glue since ES exports are live
func TestESModuleLiveExports(t *testing.T) {
	entry := &graph.Asset{ID: "a"}
	bundle := newBundle(config.FormatESModule)
	bundle.MainEntry = entry

	expectLinked(t, "let $a$count = 0;\n$a$count = 5;", Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "count", Symbol: "$a$count"}),
	}, `export let count = 0;
count = 5;
`)
}

// A binding can't take its export name when a function declares the same
// name or the program reads it as a global
func TestExportNameCollisions(t *testing.T) {
	entry := &graph.Asset{ID: "a"}
	nested := "var $a$x = 1;\nfunction f() { var count = 2; return $a$x + count; }\nf();"
	global := "var $a$x = 1;\nconsole.log($a$x);"
	count := withExports(entry, graph.ExportedSymbol{ExportSymbol: "count", Symbol: "$a$x"})
	console := withExports(entry, graph.ExportedSymbol{ExportSymbol: "console", Symbol: "$a$x"})

	cjs := newBundle(config.FormatCommonJS)
	cjs.MainEntry = entry
	expectLinked(t, nested, Input{Bundle: cjs, BundleGraph: count}, `var _count = 1;
exports.count = _count;
function f() {
  var count = 2;
  return _count + count;
}
f();
`)
	expectLinked(t, global, Input{Bundle: cjs, BundleGraph: console}, `var _console = 1;
exports.console = _console;
console.log(_console);
`)

	esm := newBundle(config.FormatESModule)
	esm.MainEntry = entry
	expectLinked(t, nested, Input{Bundle: esm, BundleGraph: count}, `var $a$x = 1;
export { $a$x as count };
function f() {
  var count = 2;
  return $a$x + count;
}
f();
`)
	expectLinked(t, global, Input{Bundle: esm, BundleGraph: console}, `var $a$x = 1;
export { $a$x as console };
console.log($a$x);
`)
}

func TestReferencedAssets(t *testing.T) {
	shared := &graph.Asset{ID: "s"}
	contents := "var $s$exports = {};\n$s$exports.x = 1;"

	expectLinked(t, contents, Input{Bundle: newBundle(config.FormatCommonJS), ReferencedAssets: []*graph.Asset{shared}},
		`var $s$exports = {};
$s$exports.x = 1;
exports.$s$exports = $s$exports;
`)

	expectLinked(t, contents, Input{Bundle: newBundle(config.FormatESModule), ReferencedAssets: []*graph.Asset{shared}},
		`export var $s$exports = {};
$s$exports.x = 1;
`)

	expectLinked(t, contents, Input{Bundle: newBundle(config.FormatGlobal), ReferencedAssets: []*graph.Asset{shared}},
		`var $s$exports = {};
$s$exports.x = 1;
hoistRequire.register("s", $s$exports);
`)
}

func TestGlobalPrelude(t *testing.T) {
	entry := &graph.Asset{ID: "m"}
	main := newBundle(config.FormatGlobal)
	main.MainEntry = entry
	lazy := &graph.Bundle{ID: "lazy", Type: "js", FilePath: "dist/lazy.js"}

	g := graph.NewGraph()
	g.AddChild(main, lazy)
	test.AssertEqual(t, NeedsPrelude(main, g), true)
	test.AssertEqual(t, NeedsPrelude(lazy, g), false)

	expectLinked(t, "var $m$exports = {};", Input{Bundle: main, BundleGraph: g},
		runtime.Prelude+`var $m$exports = {};
hoistRequire.register("m", $m$exports);
`)

	// An entry nothing else loads from keeps its exports to itself
	expectLinked(t, "var $m$exports = {};\nrun($m$exports);", Input{Bundle: main},
		"var $m$exports = {};\nrun($m$exports);\n")
}

func TestTreeShaking(t *testing.T) {
	entry := &graph.Asset{ID: "a"}
	bundle := newBundle(config.FormatESModule)
	bundle.MainEntry = entry
	input := Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "used", Symbol: "$a$export$used"}),
	}

	// Removing one binding can leave another one unused
	expectLinked(t, `
function $a$unused() { return $b$helper(); }
function $b$helper() { return 1; }
var $c$exports = {};
$c$exports.foo = 2;
var $a$export$used = 1;
`, input, "export var used = 1;\n")

	// Side effects stay
	expectLinked(t, `
var $b$x = sideEffect();
$b$x.a = 1;
var $a$export$used = 1;
`, input, `var $b$x = sideEffect();
$b$x.a = 1;
export var used = 1;
`)

	expectLinked(t, "var $b$a = 1;\nvar $b$a = f();\nvar $a$export$used = 1;", input,
		"f();\nexport var used = 1;\n")

	expectLinked(t, "var $b$a;\nx = $b$a = g();\nvar $a$export$used = 1;", input,
		"x = g();\nexport var used = 1;\n")

	expectLinked(t, "var $b$n = 0;\n$b$n++;\n$b$n += 2;\nvar $a$export$used = 1;", input,
		"export var used = 1;\n")

	// The global object placeholder is always safe to drop
	expectLinked(t, `
var $hoist$global = typeof globalThis !== "undefined" ? globalThis : {};
var $a$export$used = 1;
`, input, "export var used = 1;\n")

	// A property read may run a getter
	expectLinked(t, "var $b$g = missingGlobal;\nvar $b$h = missingGlobal.x;\nvar $a$export$used = 1;", input,
		"var $b$h = missingGlobal.x;\nexport var used = 1;\n")

	// A write in a loop head is part of the loop
	expectLinked(t, "var $b$k;\nfor ($b$k in o) {}\nvar $a$export$used = 1;", input,
		"var $b$k;\nfor ($b$k in o) {}\nexport var used = 1;\n")

	// A class with a static side effect stays
	expectLinked(t, "class $b$A { static x = f(); }\nclass $b$B { m() {} }\nvar $a$export$used = 1;", input,
		"class $b$A {\n  static x = f();\n}\nexport var used = 1;\n")
}

func TestTreeShakingWildcards(t *testing.T) {
	shared := &graph.Asset{ID: "b"}
	contents := `
var $a$exports = {};
var $b$exports = {};
$hoist$exportWildcard($a$exports, $b$exports);
$b$exports.x = 1;
`

	// The source is exported, so copying from it changes nothing
	expectLinked(t, contents, Input{Bundle: newBundle(config.FormatESModule), ReferencedAssets: []*graph.Asset{shared}},
		`export var $b$exports = {};
$b$exports.x = 1;
`)

	// A namespace someone reads keeps everything it copies from
	expectLinked(t, contents+"use($a$exports);", Input{Bundle: newBundle(config.FormatESModule)},
		`var $a$exports = {};
var $b$exports = {};
$hoist$exportWildcard($a$exports, $b$exports);
$b$exports.x = 1;
use($a$exports);
`)
}

func TestTreeShakingIsIdempotent(t *testing.T) {
	entry := &graph.Asset{ID: "a"}
	bundle := newBundle(config.FormatCommonJS)
	bundle.MainEntry = entry

	result := link(t, `
var $b$unused = {};
$b$unused.x = 1;
var $a$export$value = compute();
function $a$helper() { return $a$export$value; }
$a$export$value = $a$helper();
`, Input{
		Bundle:      bundle,
		BundleGraph: withExports(entry, graph.ExportedSymbol{ExportSymbol: "value", Symbol: "$a$export$value"}),
	})
	first := string(result.JS)

	c := linkerContext{bundle: bundle, ast: result.AST, scope: result.Scope}
	c.treeShake(result.Exported)
	second := string(js_printer.Print(result.AST, js_printer.Options{}).JS)

	test.AssertEqualWithDiff(t, second, first)
	test.AssertEqualWithDiff(t, first, `var value = compute();
exports.value = value;
function $a$helper() {
  return value;
}
value = $a$helper();
exports.value = value;
`)
	if err := result.Scope.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestInternalErrorIsReported(t *testing.T) {
	bundle := newBundle(config.Format(99))
	_, msgs, ok := tryLink(t, "x;", Input{Bundle: bundle})
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, len(msgs), 1)
	prefix := `Internal error: panic: Internal error: unknown output format 99 (while linking "dist/main.js")`
	if !strings.HasPrefix(msgs[0].Text, prefix) {
		t.Fatalf("Unexpected message: %s", msgs[0].Text)
	}
}

func TestExportedSet(t *testing.T) {
	set := ExportedSet{}
	test.AssertEqual(t, set.Has("a"), false)
	set.Add("b")
	set.Add("a")
	set.Add("b")
	test.AssertEqual(t, set.Len(), 2)
	test.AssertEqual(t, strings.Join(set.Names(), ","), "b,a")
	test.AssertEqual(t, set.Has("a"), true)
}

func TestBindingTable(t *testing.T) {
	s := scope.Crawl(parse(t, "var a = 1; a; a = 2; function f() {}"))
	s.Pin("a")
	enc := zapcore.NewMapObjectEncoder()
	test.AssertEqual(t, bindingTable{s}.MarshalLogObject(enc), nil)
	test.AssertEqual(t, len(enc.Fields), 2)

	a := enc.Fields["a"].(map[string]interface{})
	test.AssertEqual(t, a["kind"], "var")
	test.AssertEqual(t, a["references"], 1)
	test.AssertEqual(t, a["writes"], 1)
	test.AssertEqual(t, a["exported"], true)

	f := enc.Fields["f"].(map[string]interface{})
	test.AssertEqual(t, f["kind"], "function")
	test.AssertEqual(t, f["references"], 0)
	_, ok := f["exported"]
	test.AssertEqual(t, ok, false)
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	defer SetLogger(nil)

	// Readers may race with the swap but must always see a usable logger
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			Logger().Debug("Reading logger")
		}
	}()
	SetLogger(zap.New(core))
	<-done

	link(t, "var $a$x = 1;", Input{Bundle: newBundle(config.FormatCommonJS)})
	entries := logs.FilterMessage("Linked bundle").All()
	test.AssertEqual(t, len(entries), 1)
	_, ok := entries[0].ContextMap()["bindings"].(map[string]interface{})
	test.AssertEqual(t, ok, true)

	SetLogger(nil)
	test.AssertEqual(t, Logger().Core().Enabled(zap.DebugLevel), false)
}
