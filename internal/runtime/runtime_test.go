package runtime

import (
	"testing"

	"github.com/hoistjs/hoist/internal/js_parser"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/internal/scope"
	"github.com/hoistjs/hoist/internal/test"
)

func TestHelpersCode(t *testing.T) {
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, logger.Source{PrettyPath: "<runtime>", Contents: HelpersCode})
	if !ok {
		t.Fatal("Parse error")
	}
	s := scope.Crawl(tree)
	test.AssertEqual(t, s.Has(Global), true)
	test.AssertEqual(t, s.Has(InteropDefault), true)
	test.AssertEqual(t, s.Has(ExportWildcard), true)
	test.AssertEqual(t, len(s.Names()), 3)
}

func TestPrelude(t *testing.T) {
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, logger.Source{PrettyPath: "<prelude>", Contents: Prelude})
	if !ok {
		t.Fatal("Parse error")
	}

	// Everything lives inside the IIFE
	s := scope.Crawl(tree)
	test.AssertEqual(t, len(s.Names()), 0)
	test.AssertEqual(t, s.HasNestedDeclaration(Require), true)
}
