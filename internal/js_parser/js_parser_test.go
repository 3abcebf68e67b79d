package js_parser

import (
	"strings"
	"testing"

	"github.com/hoistjs/hoist/internal/js_printer"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/internal/test"
)

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		_, ok := Parse(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		if ok {
			t.Fatal("Expected a parse error")
		}
		if expected != "" {
			test.AssertEqualWithDiff(t, text, expected)
		} else if !strings.HasPrefix(text, "<stdin>: error: ") {
			t.Fatalf("Unexpected log output: %q", text)
		}
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := js_printer.Print(tree, js_printer.Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func TestLocals(t *testing.T) {
	expectPrinted(t, "a = 1", "a = 1;\n")
	expectPrinted(t, "var a = 1, b", "var a = 1, b;\n")
	expectPrinted(t, "let a; const b = 2", "let a;\nconst b = 2;\n")
	expectPrinted(t, "let {a, b: [c, , d = 2], ...e} = f", "let { a, b: [c, , d = 2], ...e } = f;\n")
	expectPrinted(t, "var {a = 1, [k]: v} = o", "var { a = 1, [k]: v } = o;\n")
	expectPrinted(t, "/* c */ a = 1 // x", "a = 1;\n")
}

func TestLiterals(t *testing.T) {
	expectPrinted(t, "x = [1, , 2,]", "x = [1, , 2];\n")
	expectPrinted(t, "x = [, ]", "x = [,];\n")
	expectPrinted(t, "x = '\\x41\\u0042\\u{43}\\n'", "x = \"ABC\\n\";\n")
	expectPrinted(t, "x = [0x10, 0o17, 0b11, 017, 1_000, .5, 1e21]", "x = [16, 15, 3, 15, 1000, 0.5, 1e21];\n")
	expectPrinted(t, "x = 10n", "x = 10n;\n")
	expectPrinted(t, "x = /a+/g", "x = /a+/g;\n")
	expectPrinted(t, "x = [true, false, null, this]", "x = [true, false, null, this];\n")
	expectPrinted(t, "x = `a${b}c${d}`", "x = `a${b}c${d}`;\n")
	expectPrinted(t, "x = tag`a\\n${b}`", "x = tag`a\\n${b}`;\n")
	expectPrinted(t, "x = { a, b: 1, [c]: 2, ...d, e() {}, 'f-g': 3 }", "x = { a, b: 1, [c]: 2, ...d, e() {}, \"f-g\": 3 };\n")
}

func TestOperators(t *testing.T) {
	expectPrinted(t, "x = -a++ + !b", "x = -a++ + !b;\n")
	expectPrinted(t, "x = (a + b) * c", "x = (a + b) * c;\n")
	expectPrinted(t, "x += typeof y", "x += typeof y;\n")
	expectPrinted(t, "a, b, c", "a, b, c;\n")
	expectPrinted(t, "x = a ? b : c", "x = a ? b : c;\n")
	expectPrinted(t, "a?.b?.[c]?.(d)", "a?.b?.[c]?.(d);\n")
	expectPrinted(t, "new Foo(a)", "new Foo(a);\n")
	expectPrinted(t, "({ a, b } = c)", "({ a, b } = c);\n")
	expectPrinted(t, "[a, b] = [b, a]", "[a, b] = [b, a];\n")
	expectPrinted(t, "--x", "--x;\n")
}

func TestFunctions(t *testing.T) {
	expectPrinted(t, "function f(a, b = 1, ...c) { return a }", "function f(a, b = 1, ...c) {\n  return a;\n}\n")
	expectPrinted(t, "async function* g() { yield* h(); await i }", "async function* g() {\n  yield* h();\n  await i;\n}\n")
	expectPrinted(t, "f = async (a, {b}) => a + b", "f = async (a, { b }) => a + b;\n")
	expectPrinted(t, "f = x => { return x }", "f = (x) => {\n  return x;\n};\n")
	expectPrinted(t, "(function () {})()", "(function() {})();\n")
}

func TestClasses(t *testing.T) {
	expectPrinted(t, "class A extends B { static x = 1; #y; get z() { return 1 } m(a) {} }",
		"class A extends B {\n  static x = 1;\n  #y;\n  get z() {\n    return 1;\n  }\n  m(a) {}\n}\n")
	expectPrinted(t, "x = class {}", "x = class {};\n")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "if (a) b(); else if (c) d(); else { e() }", "if (a)\n  b();\nelse if (c)\n  d();\nelse {\n  e();\n}\n")
	expectPrinted(t, "for (const [k, v] of m) {}", "for (const [k, v] of m) {}\n")
	expectPrinted(t, "for (k in o) {}", "for (k in o) {}\n")
	expectPrinted(t, "for (let i = 0; i < n; i++) {}", "for (let i = 0; i < n; i++) {}\n")
	expectPrinted(t, "a: for (;;) break a", "a: for (;;)\n  break a;\n")
	expectPrinted(t, "a: { b: c(); break a }", "a: {\n  b: c();\n  break a;\n}\n")
	expectPrinted(t, "debugger", "debugger;\n")
	expectPrinted(t, "with (o) { x }", "with (o) {\n  x;\n}\n")
	expectPrinted(t, "while (a) { continue }", "while (a) {\n  continue;\n}\n")
	expectPrinted(t, "do x(); while (y)", "do\n  x();\nwhile (y);\n")
	expectPrinted(t, "try { a() } catch { b() } finally { c() }", "try {\n  a();\n} catch {\n  b();\n} finally {\n  c();\n}\n")
	expectPrinted(t, "try {} catch ({ message }) {}", "try {} catch ({ message }) {}\n")
	expectPrinted(t, "switch (x) { case 1: y(); default: break }", "switch (x) {\n  case 1:\n    y();\n  default:\n    break;\n}\n")
	expectPrinted(t, "throw new Error('x')", "throw new Error(\"x\");\n")
}

func TestImportExport(t *testing.T) {
	expectPrinted(t, "import 'x'", "import \"x\";\n")
	expectPrinted(t, "import d, * as ns from 'x'", "import d, * as ns from \"x\";\n")
	expectPrinted(t, "import {a as b, default as c} from 'y'", "import c, { a as b } from \"y\";\n")
	expectPrinted(t, "export { a as b, c }", "export { a as b, c };\n")
	expectPrinted(t, "export * from 'x'", "export * from \"x\";\n")
	expectPrinted(t, "export * as ns from 'x'", "export * as ns from \"x\";\n")
	expectPrinted(t, "export { default as d } from 'x'", "export { default as d } from \"x\";\n")
	expectPrinted(t, "export const a = 1", "export const a = 1;\n")
	expectPrinted(t, "export function f() {}", "export function f() {}\n")
	expectPrinted(t, "export default function () {}", "export default function() {}\n")
	expectPrinted(t, "export default class A {}", "export default class A {}\n")
	expectPrinted(t, "export default a + b", "export default a + b;\n")
}

func TestMetaSyntax(t *testing.T) {
	expectPrinted(t, "import('./lazy.js').then(f)", "import(\"./lazy.js\").then(f);\n")
	expectPrinted(t, "x = await import(y)", "x = await import(y);\n")
	expectPrinted(t, "x = import.meta.url", "x = import.meta.url;\n")
	expectPrinted(t, "function F() { return new.target }", "function F() {\n  return new.target;\n}\n")
	expectPrinted(t, "async function f() { for await (const x of y) {} }", "async function f() {\n  for await (const x of y) {}\n}\n")
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, "a = ", "")
	expectParseError(t, "function (", "")
	expectParseError(t, "@dec class A {}", "")
}

func TestParseNumber(t *testing.T) {
	expect := func(text string, expected float64, expectedOK bool) {
		t.Helper()
		value, ok := parseNumber(text)
		test.AssertEqual(t, ok, expectedOK)
		if ok {
			test.AssertEqual(t, value, expected)
		}
	}

	expect("0", 0, true)
	expect("09", 9, true)
	expect("0.5", 0.5, true)
	expect("0xFF", 255, true)
	expect("0b101", 5, true)
	expect("0O7", 7, true)
	expect("0x", 0, false)
	expect("0b2", 0, false)
	expect("1_000_000", 1000000, true)
	expect("2e3", 2000, true)
}

func TestDecodeEscapes(t *testing.T) {
	expect := func(text string, expected string) {
		t.Helper()
		value, ok := decodeEscapes(text)
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, value, expected)
	}

	expect("abc", "abc")
	expect(`\'\"\\`, `'"\`)
	expect(`\b\f\n\r\t\v`, "\b\f\n\r\t\v")
	expect(`\0`, "\x00")
	expect(`\101`, "A")
	expect(`\x41`, "A")
	expect(`\u00e9`, "\u00e9")
	expect(`\u{1F600}`, "\U0001F600")
	expect(`\uD83D\uDE00`, "\U0001F600")
	expect(`\uD83D`, "\uFFFD")
	expect("a\\\nb", "ab")
	expect("a\\\r\nb", "ab")

	_, ok := decodeEscapes(`\x4`)
	test.AssertEqual(t, ok, false)
	_, ok = decodeEscapes(`\u{110000}`)
	test.AssertEqual(t, ok, false)
}

func TestParseInto(t *testing.T) {
	log := logger.NewDeferLog()
	tree, ok := Parse(log, test.SourceForTest("a();"))
	if !ok {
		t.Fatal("Parse error")
	}
	if !ParseInto(log, logger.Source{PrettyPath: "helpers.js", Contents: "function b() {}"}, tree) {
		t.Fatal("Parse error")
	}
	if ParseInto(log, test.SourceForTest("c("), tree) {
		t.Fatal("Expected a parse error")
	}
	js := js_printer.Print(tree, js_printer.Options{}).JS
	test.AssertEqualWithDiff(t, string(js), "a();\nfunction b() {}\n")
}
