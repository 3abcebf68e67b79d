package api_test

import (
	"strings"
	"testing"

	"github.com/hoistjs/hoist/internal/test"
	"github.com/hoistjs/hoist/pkg/api"
)

func expectOutputs(t *testing.T, result api.LinkResult, expected ...string) {
	t.Helper()
	for _, msg := range result.Errors {
		t.Log(msg.Bundle + ": " + msg.Text)
	}
	test.AssertEqual(t, len(result.OutputFiles), len(expected))
	for i, file := range result.OutputFiles {
		test.AssertEqualWithDiff(t, string(file.Contents), expected[i])
	}
}

func TestLinkSharedBundle(t *testing.T) {
	result := api.Link(api.LinkOptions{
		Bundles: []api.Bundle{
			{
				ID:       "main",
				FilePath: "dist/main.js",
				Format:   api.FormatESModule,
				Contents: "$s$exports.run();",
				Siblings: []string{"shared"},
				Imports:  []api.BundleImport{{Bundle: "shared", Assets: []string{"s"}}},
			},
			{
				ID:               "shared",
				FilePath:         "dist/shared.js",
				Format:           api.FormatESModule,
				Contents:         "var $s$exports = {};\n$s$exports.x = 1;",
				Assets:           []api.Asset{{ID: "s", FilePath: "src/s.js"}},
				ReferencedAssets: []string{"s"},
			},
		},
	})

	test.AssertEqual(t, len(result.Errors), 0)
	expectOutputs(t, result,
		`import { $s$exports } from "./shared.js";
$s$exports.run();
`,
		`export var $s$exports = {};
$s$exports.x = 1;
`)
	test.AssertEqual(t, result.OutputFiles[0].Bundle, "main")
	test.AssertEqual(t, result.OutputFiles[1].Path, "dist/shared.js")
	test.AssertEqual(t, strings.Join(result.OutputFiles[1].Exported, ","), "$s$exports")
}

func TestLinkEntryExports(t *testing.T) {
	result := api.Link(api.LinkOptions{
		Bundles: []api.Bundle{{
			ID:       "main",
			FilePath: "dist/main.js",
			Format:   api.FormatCommonJS,
			Context:  api.ContextNode,
			Contents: "var $a$export$foo = 1;\nvar $a$unused = 2;",
			Assets: []api.Asset{{
				ID:              "a",
				FilePath:        "src/index.js",
				IsEntry:         true,
				ExportedSymbols: []api.ExportedSymbol{{Name: "foo", Symbol: "$a$export$foo"}},
			}},
			MainEntry: "a",
		}},
	})

	expectOutputs(t, result, "var foo = 1;\nexports.foo = foo;\n")
}

func TestLinkFailureIsPerBundle(t *testing.T) {
	result := api.Link(api.LinkOptions{
		Bundles: []api.Bundle{
			{
				ID:        "page",
				FilePath:  "dist/page.js",
				Format:    api.FormatGlobal,
				Contents:  "react.render();",
				Externals: []api.ExternalImport{{Source: "react", Specifiers: []api.ExternalSpecifier{{Imported: "*", Local: "react"}}}},
			},
			{
				ID:       "server",
				FilePath: "dist/server.js",
				Format:   api.FormatCommonJS,
				Context:  api.ContextNode,
				Contents: "start();",
			},
		},
	})

	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Text, "External modules are not supported when building for browser")
	test.AssertEqual(t, result.Errors[0].Bundle, "page")
	expectOutputs(t, result, "start();\n")
	test.AssertEqual(t, result.OutputFiles[0].Bundle, "server")
}

func TestLinkSyntaxError(t *testing.T) {
	result := api.Link(api.LinkOptions{
		Cwd: "/project",
		Bundles: []api.Bundle{{
			ID:       "main",
			FilePath: "/project/dist/main.js",
			Contents: "var = ;",
		}},
	})

	if len(result.Errors) == 0 {
		t.Fatal("Expected a syntax error")
	}
	test.AssertEqual(t, result.Errors[0].Bundle, "main")
	if location := result.Errors[0].Location; location == nil {
		t.Fatal("Expected a location")
	} else {
		test.AssertEqual(t, location.File, "dist/main.js")
		test.AssertEqual(t, location.Line, 1)
		test.AssertEqual(t, location.LineText, "var = ;")
	}
	test.AssertEqual(t, len(result.OutputFiles), 0)
}

func TestLinkHelpers(t *testing.T) {
	lodash := api.ExternalImport{
		Source:     "lodash",
		IsCommonJS: true,
		Specifiers: []api.ExternalSpecifier{{Imported: "default", Local: "_"}},
	}
	result := api.Link(api.LinkOptions{
		IncludeHelpers: true,
		Bundles: []api.Bundle{
			{
				ID:        "uses",
				FilePath:  "dist/uses.js",
				Format:    api.FormatCommonJS,
				Context:   api.ContextNode,
				Contents:  "_.map();",
				Externals: []api.ExternalImport{lodash},
			},
			{
				ID:       "unused",
				FilePath: "dist/unused.js",
				Format:   api.FormatCommonJS,
				Context:  api.ContextNode,
				Contents: "run();",
			},
		},
	})

	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, len(result.OutputFiles), 2)

	// Only the helper the bundle calls survives tree shaking
	uses := string(result.OutputFiles[0].Contents)
	test.AssertEqual(t, strings.Contains(uses, "function $hoist$interopDefault(a)"), true)
	test.AssertEqual(t, strings.Contains(uses, "$hoist$exportWildcard"), false)
	test.AssertEqual(t, strings.Contains(uses, "$hoist$global"), false)
	test.AssertEqual(t, strings.HasPrefix(uses, "var _ = $hoist$interopDefault(require(\"lodash\"));\n"), true)
	test.AssertEqual(t, strings.HasSuffix(uses, "\n_.map();\n"), true)

	test.AssertEqualWithDiff(t, string(result.OutputFiles[1].Contents), "run();\n")
}

func TestLinkInvalidGraph(t *testing.T) {
	expectErrors := func(bundles []api.Bundle, expected ...string) {
		t.Helper()
		result := api.Link(api.LinkOptions{Bundles: bundles})
		var texts []string
		for _, msg := range result.Errors {
			texts = append(texts, msg.Text)
		}
		test.AssertEqualWithDiff(t, strings.Join(texts, "\n"), strings.Join(expected, "\n"))
		test.AssertEqual(t, len(result.OutputFiles), 0)
	}

	expectErrors([]api.Bundle{{ID: "main", Imports: []api.BundleImport{{Bundle: "missing"}}}},
		`Unknown bundle "missing"`)
	expectErrors([]api.Bundle{{ID: "main", MainEntry: "a"}},
		`Unknown asset "a"`)
	expectErrors([]api.Bundle{{ID: "main"}, {ID: "main"}},
		`Duplicate bundle "main"`)
	expectErrors([]api.Bundle{{ID: "main", Target: "chrome"}},
		`Invalid target "chrome"`)
	expectErrors([]api.Bundle{{ID: "main", Externals: []api.ExternalImport{{Source: "x", Specifiers: []api.ExternalSpecifier{
		{Imported: "a", Local: "a"},
		{Imported: "a", Local: "b"},
	}}}}},
		`Duplicate import of "a" from "x"`)
}
