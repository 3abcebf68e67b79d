package compat

import (
	"fmt"
	"testing"

	"github.com/hoistjs/hoist/internal/test"
)

func TestCompareVersions(t *testing.T) {
	t.Helper()

	check := func(a v, b []int, expected rune) {
		t.Helper()

		at := fmt.Sprintf("%d.%d.%d", a.major, a.minor, a.patch)
		bt := fmt.Sprint(b)

		t.Run(fmt.Sprintf("%q ? %q", at, bt), func(t *testing.T) {
			observed := '='
			if result := compareVersions(a, b); result < 0 {
				observed = '<'
			} else if result > 0 {
				observed = '>'
			}
			if observed != expected {
				test.AssertEqual(t, fmt.Sprintf("%c", observed), fmt.Sprintf("%c", expected))
			}
		})
	}

	check(v{0, 0, 0}, nil, '=')

	check(v{1, 0, 0}, nil, '>')
	check(v{0, 1, 0}, nil, '>')
	check(v{0, 0, 1}, nil, '>')

	check(v{0, 0, 0}, []int{1}, '<')
	check(v{0, 0, 0}, []int{0, 1}, '<')
	check(v{0, 0, 0}, []int{0, 0, 1}, '<')

	check(v{0, 4, 0}, []int{0, 5, 0}, '<')
	check(v{0, 5, 0}, []int{0, 5, 0}, '=')
	check(v{0, 6, 0}, []int{0, 5, 0}, '>')

	check(v{0, 5, 0}, []int{0, 5}, '=')
	check(v{0, 5, 1}, []int{0, 5}, '>')

	check(v{1, 0, 0}, []int{1}, '=')
	check(v{1, 1, 0}, []int{1}, '>')
	check(v{1, 0, 1}, []int{1}, '>')
}

func TestObjectDestructuring(t *testing.T) {
	check := func(target string, expected bool) {
		t.Helper()
		t.Run(target, func(t *testing.T) {
			constraints, err := ParseTarget(target)
			if err != nil {
				t.Fatal(err)
			}
			supported := !UnsupportedJSFeatures(constraints).Has(ObjectDestructuring)
			test.AssertEqual(t, supported, expected)
		})
	}

	check("", true)
	check("esnext", true)
	check("chrome51", true)
	check("chrome50", false)
	check("node6.5", true)
	check("node6.4", false)
	check("node7", true)
	check("electron1.2", true)
	check("electron1.1", false)
	check("safari10,firefox53", true)
	check("safari10,firefox52", false)
	check("ie11", false)
	check("es2015", true)
	check("es5", false)
}

func TestParseTarget(t *testing.T) {
	constraints, err := ParseTarget("chrome58, NODE6.5.1,esnext")
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, len(constraints), 2)
	test.AssertEqual(t, TargetString(constraints), "chrome58,node6.5.1")

	for _, bad := range []string{"chrome", "58", "netscape4", "node6.x"} {
		if _, err := ParseTarget(bad); err == nil {
			t.Fatalf("Expected an error for %q", bad)
		}
	}
}
