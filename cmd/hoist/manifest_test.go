package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hoistjs/hoist/internal/test"
	"github.com/hoistjs/hoist/pkg/api"
)

func TestParseManifest(t *testing.T) {
	options, err := parseManifest([]byte(`{
  "cwd": "/project",
  "bundles": [{
    "id": "main",
    "filePath": "dist/main.js",
    "context": "node",
    "contents": "_(x);",
    "assets": [{ "id": "a", "filePath": "src/index.js", "isEntry": true,
      "exportedSymbols": [{ "name": "foo", "symbol": "$a$export$foo" }] }],
    "mainEntry": "a",
    "siblings": ["shared"],
    "imports": [{ "bundle": "shared", "assets": ["b"] }],
    "externals": [{ "source": "lodash", "isCommonJS": true,
      "specifiers": [{ "imported": "default", "local": "_" }] }],
    "replacements": { "$a$foo": "$b$foo" }
  }]
}`), manifestDefaults{format: "esm", target: "node10"})
	if err != nil {
		t.Fatal(err)
	}

	test.AssertEqual(t, options.Cwd, "/project")
	test.AssertEqual(t, len(options.Bundles), 1)
	b := options.Bundles[0]
	test.AssertEqual(t, b.ID, "main")
	test.AssertEqual(t, b.Format, api.FormatESModule)
	test.AssertEqual(t, b.Context, api.ContextNode)
	test.AssertEqual(t, b.Target, "node10")
	test.AssertEqual(t, b.Contents, "_(x);")
	test.AssertEqual(t, b.MainEntry, "a")
	test.AssertEqual(t, b.Assets[0].IsEntry, true)
	test.AssertEqual(t, b.Assets[0].ExportedSymbols[0].Symbol, "$a$export$foo")
	test.AssertEqual(t, strings.Join(b.Siblings, ","), "shared")
	test.AssertEqual(t, b.Imports[0].Assets[0], "b")
	test.AssertEqual(t, b.Externals[0].IsCommonJS, true)
	test.AssertEqual(t, b.Externals[0].Specifiers[0].Local, "_")
	test.AssertEqual(t, b.Replacements["$a$foo"], "$b$foo")
}

func TestParseManifestOverridesDefaults(t *testing.T) {
	options, err := parseManifest([]byte(`{"bundles": [{"id": "w", "format": "global", "context": "web-worker", "target": "chrome58", "contents": ""}]}`),
		manifestDefaults{format: "esmodule", target: "node10"})
	if err != nil {
		t.Fatal(err)
	}
	b := options.Bundles[0]
	test.AssertEqual(t, b.Format, api.FormatGlobal)
	test.AssertEqual(t, b.Context, api.ContextWebWorker)
	test.AssertEqual(t, b.Target, "chrome58")
	test.AssertEqual(t, b.FilePath, "w.js")
}

func TestParseManifestContentsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.merged.js"), []byte("run();"), 0644); err != nil {
		t.Fatal(err)
	}

	options, err := parseManifest([]byte(`{"cwd": "src", "bundles": [{"id": "main", "contentsFile": "main.merged.js"}]}`),
		manifestDefaults{format: "commonjs", dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, options.Cwd, filepath.Join(dir, "src"))
	test.AssertEqual(t, options.Bundles[0].Contents, "run();")
}

func TestParseManifestErrors(t *testing.T) {
	expectError := func(contents string, expected string) {
		t.Helper()
		_, err := parseManifest([]byte(contents), manifestDefaults{format: "commonjs", dir: t.TempDir()})
		if err == nil {
			t.Fatalf("Expected an error for %s", contents)
		}
		test.AssertEqualWithDiff(t, err.Error(), expected)
	}

	expectError(`{"bundles": [{"contents": ""}]}`, `Bundle is missing an "id"`)
	expectError(`{"bundles": [{"id": "a"}]}`, `Bundle "a" needs "contents" or "contentsFile"`)
	expectError(`{"bundles": [{"id": "a", "contents": "", "contentsFile": "a.js"}]}`,
		`Bundle "a" cannot have both "contents" and "contentsFile"`)
	expectError(`{"bundles": [{"id": "a", "contents": "", "format": "iife"}]}`,
		`Bundle "a": Invalid output format "iife" (valid: commonjs, esmodule, global)`)
	expectError(`{"bundles": [{"id": "a", "contents": "", "context": "deno"}]}`,
		`Bundle "a": Invalid context "deno"`)

	if _, err := parseManifest([]byte(`{"bundles": `), manifestDefaults{}); err == nil || !strings.HasPrefix(err.Error(), "Invalid manifest: ") {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestParseArgs(t *testing.T) {
	options, err := parseArgs([]string{"--format=esm", "--target=chrome58", "--include-helpers", "--log-level=silent", "--error-limit=0", "m.json"})
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, options.manifestPath, "m.json")
	test.AssertEqual(t, options.defaults.format, "esm")
	test.AssertEqual(t, options.defaults.target, "chrome58")
	test.AssertEqual(t, options.link.IncludeHelpers, true)
	test.AssertEqual(t, options.link.LogLevel, api.LogLevelSilent)
	test.AssertEqual(t, options.link.ErrorLimit, 0)

	expectError := func(args []string, expected string) {
		t.Helper()
		_, err := parseArgs(args)
		if err == nil {
			t.Fatalf("Expected an error for %v", args)
		}
		test.AssertEqualWithDiff(t, err.Error(), expected)
	}
	expectError([]string{"--format=amd"}, `Invalid output format "amd" (valid: commonjs, esmodule, global)`)
	expectError([]string{"--target=chrome"}, `Invalid target "chrome"`)
	expectError([]string{"--color=maybe"}, `Invalid color: "maybe" (valid: true, false)`)
	expectError([]string{"--bundle"}, `Invalid flag: "--bundle"`)
	expectError([]string{"a.json", "b.json"}, "Only one manifest can be linked at a time")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	err := os.WriteFile(manifestPath, []byte(`{"bundles": [
  {"id": "main", "filePath": "dist/main.js", "format": "esmodule", "contents": "$s$exports.run();",
   "imports": [{"bundle": "shared", "assets": ["s"]}]},
  {"id": "shared", "filePath": "dist/shared.js", "format": "esmodule",
   "contents": "var $s$exports = {};", "assets": [{"id": "s"}], "referencedAssets": ["s"]}
]}`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	test.AssertEqual(t, run([]string{"--log-level=silent", manifestPath}), 0)

	main, err := os.ReadFile(filepath.Join(dir, "dist", "main.js"))
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqualWithDiff(t, string(main), "import { $s$exports } from \"./shared.js\";\n$s$exports.run();\n")

	shared, err := os.ReadFile(filepath.Join(dir, "dist", "shared.js"))
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqualWithDiff(t, string(shared), "export var $s$exports = {};\n")
}
