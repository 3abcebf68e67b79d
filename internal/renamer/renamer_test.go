package renamer

import (
	"errors"
	"testing"

	"github.com/hoistjs/hoist/internal/js_parser"
	"github.com/hoistjs/hoist/internal/js_printer"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/internal/scope"
	"github.com/hoistjs/hoist/internal/test"
)

func parse(t *testing.T, contents string) *scope.Scope {
	t.Helper()
	tree, ok := js_parser.Parse(logger.NewDeferLog(), test.SourceForTest(contents))
	if !ok {
		t.Fatalf("Parse error in %q", contents)
	}
	return scope.Crawl(tree)
}

func TestGenerateUID(t *testing.T) {
	s := parse(t, "var _a, _temp; function f() { var _b; return _lodash }")

	test.AssertEqual(t, GenerateUID(s, "a"), "_a2")
	test.AssertEqual(t, GenerateUID(s, "a"), "_a3")
	test.AssertEqual(t, GenerateUID(s, "b"), "_b2")
	test.AssertEqual(t, GenerateUID(s, "lodash"), "_lodash2")
	test.AssertEqual(t, GenerateUID(s, "c"), "_c")
	test.AssertEqual(t, GenerateUID(s, ""), "_temp2")
	test.AssertEqual(t, GenerateUID(s, "lodash/fp"), "_lodashFp")
	test.AssertEqual(t, GenerateUID(s, "a-b"), "_aB")
	test.AssertEqual(t, GenerateUID(s, "__x12"), "_x")
	test.AssertEqual(t, GenerateUID(s, "default"), "_default")
}

func TestRename(t *testing.T) {
	s := parse(t, "var a = 1; a = 2; export { a as b }; function g() { var a; a }")

	name, err := Rename(s, "a", "x")
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, name, "x")
	test.AssertEqual(t, s.Lookup("x").Constant, false)
	test.AssertEqual(t, s.Lookup("x").Referenced, true)

	name, err = Rename(s, "x", "")
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, name, "_x")

	js := string(js_printer.Print(s.AST(), js_printer.Options{}).JS)
	test.AssertEqualWithDiff(t, js, "var _x = 1;\n_x = 2;\nexport { _x as b };\nfunction g() {\n  var a;\n  a;\n}\n")
	if err := s.Verify(); err != nil {
		t.Fatal(err)
	}

	if _, err := Rename(s, "x", "y"); !errors.Is(err, scope.ErrUnknownBinding) {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := Rename(s, "_x", "g"); !errors.Is(err, scope.ErrNameTaken) {
		t.Fatalf("Unexpected error: %v", err)
	}
}
