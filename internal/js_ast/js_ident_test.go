package js_ast

import (
	"testing"

	"github.com/hoistjs/hoist/internal/test"
)

func TestIsIdentifier(t *testing.T) {
	test.AssertEqual(t, IsIdentifier("foo"), true)
	test.AssertEqual(t, IsIdentifier("$a$exports"), true)
	test.AssertEqual(t, IsIdentifier("_1"), true)
	test.AssertEqual(t, IsIdentifier("café"), true)
	test.AssertEqual(t, IsIdentifier("1a"), false)
	test.AssertEqual(t, IsIdentifier("a-b"), false)
	test.AssertEqual(t, IsIdentifier("default"), false)
	test.AssertEqual(t, IsIdentifier(""), false)
}

func TestToIdentifier(t *testing.T) {
	test.AssertEqual(t, ToIdentifier("lodash"), "lodash")
	test.AssertEqual(t, ToIdentifier("a-b"), "aB")
	test.AssertEqual(t, ToIdentifier("./util/format.js"), "utilFormatJs")
	test.AssertEqual(t, ToIdentifier("123abc"), "abc")
	test.AssertEqual(t, ToIdentifier("default"), "_default")
	test.AssertEqual(t, ToIdentifier("---"), "_")
	test.AssertEqual(t, ToIdentifierSuffix("4f2a-9"), "4f2a9")
}
