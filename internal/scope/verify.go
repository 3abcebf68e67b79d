package scope

import (
	"fmt"
	"sort"

	"github.com/hoistjs/hoist/internal/js_ast"
)

// Checks the table against a fresh crawl of the current tree. Every binding
// must have exactly the references and writes that a from-scratch crawl
// finds, no more and no fewer.
func (s *Scope) Verify() error {
	fresh := Crawl(s.ast)

	for _, name := range fresh.Names() {
		want := fresh.bindings[name]
		have := s.bindings[name]
		if have == nil {
			return fmt.Errorf("binding %q is declared in the tree but missing from the table", name)
		}
		if have.Identifier != want.Identifier {
			return fmt.Errorf("binding %q points at identifier %d instead of %d", name, have.Identifier, want.Identifier)
		}
		if !sameSites(have.References, want.References) {
			return fmt.Errorf("binding %q has references %v instead of %v", name, have.References, want.References)
		}
		if !sameSites(have.ConstantViolations, want.ConstantViolations) {
			return fmt.Errorf("binding %q has writes %v instead of %v", name, have.ConstantViolations, want.ConstantViolations)
		}
		if have.Constant != want.Constant || have.Referenced != want.Referenced {
			return fmt.Errorf("binding %q has stale flags", name)
		}
	}

	for _, name := range s.Names() {
		if fresh.bindings[name] == nil {
			return fmt.Errorf("binding %q is in the table but not declared in the tree", name)
		}
	}
	return nil
}

func sameSites(a []js_ast.Index, b []js_ast.Index) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]js_ast.Index{}, a...)
	y := append([]js_ast.Index{}, b...)
	sort.Slice(x, func(i, j int) bool { return x[i] < x[j] })
	sort.Slice(y, func(i, j int) bool { return y[i] < y[j] })
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
