package linker

import (
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/runtime"
	"github.com/hoistjs/hoist/internal/scope"
	"go.uber.org/zap"
)

// This removes top-level bindings that nothing can observe. Each asset was
// already minified on its own, so the only dead code left here is what the
// merge created: exports no other asset ended up importing, and everything
// those exports kept alive.
//
// A binding is unused when its declaration has no side effects, every write
// to it can be dropped, and every read of it either populates an exports
// object nobody reads or feeds a wildcard re-export that can be dropped.
// Removing a binding can make the bindings it referenced unused, so they go
// back on the worklist until nothing changes.
func (c *linkerContext) treeShake(exported ExportedSet) {
	queue := c.scope.Names()
	queued := make(map[string]bool, len(queue))
	for _, name := range queue {
		queued[name] = true
	}
	removedSinceScan := false

	for {
		for len(queue) > 0 {
			name := queue[0]
			queue = queue[1:]
			queued[name] = false

			b := c.scope.Lookup(name)
			if b == nil || exported.Has(name) || !c.isUnused(b, nil) {
				continue
			}

			for _, touched := range c.removeBinding(b) {
				if !queued[touched] && c.scope.Has(touched) {
					queued[touched] = true
					queue = append(queue, touched)
				}
			}
			removedSinceScan = true
		}

		// Whether a wildcard re-export can go depends on a binding that may not
		// have been touched, so finish with full scans until one removes nothing
		if !removedSinceScan {
			break
		}
		removedSinceScan = false
		queue = c.scope.Names()
		for _, name := range queue {
			queued[name] = true
		}
	}
}

func (c *linkerContext) isUnused(b *scope.Binding, visiting map[string]bool) bool {
	if c.scope.IsPinned(b.Name) || !c.isPureDeclaration(b) {
		return false
	}

	for _, site := range b.ConstantViolations {
		if !c.isRemovableWrite(site) {
			return false
		}
	}

	if visiting == nil {
		visiting = make(map[string]bool)
	}
	visiting[b.Name] = true
	defer delete(visiting, b.Name)

	for _, ref := range b.References {
		if !c.isExportAssignment(ref) && !c.isUnusedWildcard(ref, visiting) {
			return false
		}
	}
	return true
}

// Declarations in a loop head are written by the loop itself
func (c *linkerContext) isInLoopHead(decl js_ast.Index) bool {
	local := c.ast.Parent(decl)
	switch p := c.ast.Data(c.ast.Parent(local)).(type) {
	case *js_ast.SFor:
		return p.Init == local
	case *js_ast.SForIn:
		return p.Init == local
	}
	return false
}

func (c *linkerContext) isPureDeclaration(b *scope.Binding) bool {
	switch d := c.ast.Data(b.Declaration).(type) {
	case *js_ast.Decl:
		if _, ok := c.ast.Data(d.Binding).(*js_ast.BIdentifier); !ok || c.isInLoopHead(b.Declaration) {
			return false
		}
		switch c.ast.Data(d.Value).(type) {
		case nil, *js_ast.EIdentifier, *js_ast.EThis:
			return true
		}
		return b.Name == runtime.Global || c.isPure(d.Value)

	case *js_ast.SFunction:
		return true

	case *js_ast.SClass:
		return c.isPureClass(&d.Class)
	}
	return false
}

func (c *linkerContext) isPureClass(class *js_ast.Class) bool {
	if class.Extends != js_ast.InvalidIndex && !c.isPure(class.Extends) {
		return false
	}
	for _, i := range class.Properties {
		property := c.ast.Data(i).(*js_ast.Property)
		if property.IsComputed && !c.isPure(property.Key) {
			return false
		}
		if property.IsStatic && property.Kind == js_ast.PropertyField && !c.isPure(property.Value) {
			return false
		}
	}
	return true
}

// Whether evaluating an expression can't have side effects. Reading a bound
// identifier is pure, reading a global may throw.
func (c *linkerContext) isPure(i js_ast.Index) bool {
	switch e := c.ast.Data(i).(type) {
	case nil, *js_ast.EString, *js_ast.ENumber, *js_ast.EBigInt, *js_ast.ERegExp, *js_ast.EBoolean,
		*js_ast.ENull, *js_ast.EUndefined, *js_ast.EThis, *js_ast.EMissing, *js_ast.EFunction, *js_ast.EArrow:
		return true

	case *js_ast.EIdentifier:
		return c.scope.Has(e.Name)

	case *js_ast.EClass:
		return c.isPureClass(&e.Class)

	case *js_ast.EArray:
		return c.allPure(e.Items)

	case *js_ast.EObject:
		for _, i := range e.Properties {
			property := c.ast.Data(i).(*js_ast.Property)
			if property.Kind == js_ast.PropertySpread || (property.IsComputed && !c.isPure(property.Key)) || !c.isPure(property.Value) {
				return false
			}
		}
		return true

	case *js_ast.ETemplate:
		if e.Tag != js_ast.InvalidIndex {
			return false
		}
		for _, part := range e.Parts {
			if !c.isPure(part.Value) {
				return false
			}
		}
		return true

	case *js_ast.EBinary:
		return !js_ast.IsAssignOp(e.Op) && c.isPure(e.Left) && c.isPure(e.Right)

	case *js_ast.EUnary:
		return e.Op != js_ast.UnOpDelete && !js_ast.IsUpdateOp(e.Op) && c.isPure(e.Value)

	case *js_ast.EIf:
		return c.isPure(e.Test) && c.isPure(e.Yes) && c.isPure(e.No)

	case *js_ast.ESequence:
		return c.allPure(e.Exprs)
	}
	return false
}

func (c *linkerContext) allPure(list []js_ast.Index) bool {
	for _, i := range list {
		if !c.isPure(i) {
			return false
		}
	}
	return true
}

// Whether the value of an expression is thrown away
func (c *linkerContext) isValueUnused(i js_ast.Index) bool {
	switch p := c.ast.Data(c.ast.Parent(i)).(type) {
	case *js_ast.SExpr:
		return true
	case *js_ast.SFor:
		return p.Update == i
	}
	return false
}

// Writes that can be deleted or reduced to their right-hand side without
// changing what the program computes
func (c *linkerContext) isRemovableWrite(site js_ast.Index) bool {
	switch s := c.ast.Data(site).(type) {
	case *js_ast.EBinary:
		if _, ok := c.ast.Data(s.Left).(*js_ast.EIdentifier); !ok {
			return false
		}
		switch s.Op {
		case js_ast.BinOpAssign:
			return true
		case js_ast.BinOpLogicalOrAssign, js_ast.BinOpLogicalAndAssign, js_ast.BinOpNullishCoalescingAssign:
			return c.isValueUnused(site) && c.isPure(s.Right)
		}
		return c.isValueUnused(site)

	case *js_ast.EUnary:
		return c.isValueUnused(site)

	case *js_ast.Decl:
		_, ok := c.ast.Data(s.Binding).(*js_ast.BIdentifier)
		return ok && !c.isInLoopHead(site)
	}
	return false
}

// Matches "ref.foo = bar" and "ref[key] = bar"
func (c *linkerContext) isExportAssignment(ref js_ast.Index) bool {
	member := c.ast.Parent(ref)
	switch m := c.ast.Data(member).(type) {
	case *js_ast.EDot:
		if m.Target != ref {
			return false
		}
	case *js_ast.EIndex:
		if m.Target != ref || !c.isPure(m.Index) {
			return false
		}
	default:
		return false
	}
	assign, ok := c.ast.Data(c.ast.Parent(member)).(*js_ast.EBinary)
	return ok && js_ast.IsAssignOp(assign.Op) && assign.Left == member
}

// Matches "$hoist$exportWildcard(ref, source);" when "source" is used by
// something else
func (c *linkerContext) isUnusedWildcard(ref js_ast.Index, visiting map[string]bool) bool {
	call := c.ast.Parent(ref)
	e, ok := c.ast.Data(call).(*js_ast.ECall)
	if !ok || len(e.Args) < 2 || e.Args[0] != ref {
		return false
	}
	if callee, ok := c.ast.Data(e.Target).(*js_ast.EIdentifier); !ok || callee.Name != runtime.ExportWildcard {
		return false
	}
	if _, ok := c.ast.Data(c.ast.Parent(call)).(*js_ast.SExpr); !ok {
		return false
	}
	source, ok := c.ast.Data(e.Args[1]).(*js_ast.EIdentifier)
	if !ok {
		return false
	}
	b := c.scope.Lookup(source.Name)
	if b == nil || visiting[b.Name] {
		return true
	}
	return !c.isUnused(b, visiting)
}

// Deletes a binding with its declaration and every site that reads or
// writes it. Returns the other bindings that lost a read or a write.
func (c *linkerContext) removeBinding(b *scope.Binding) []string {
	var touched []string
	name := b.Name
	Logger().Debug("Removing unused binding", zap.String("name", name))

	touched = append(touched, c.scope.RemoveNode(b.Declaration)...)

	// The declaration may have held some of these, like the recursive call of
	// a function, so take them afterward
	refs := append([]js_ast.Index{}, b.References...)
	violations := append([]js_ast.Index{}, b.ConstantViolations...)

	for _, ref := range refs {
		if !c.ast.IsAttached(ref) {
			continue
		}
		switch {
		case c.isExportAssignment(ref):
			touched = append(touched, c.removeAssignment(c.ast.Parent(c.ast.Parent(ref)))...)
		case c.isUnusedWildcard(ref, nil):
			touched = append(touched, c.scope.RemoveNode(c.ast.Parent(ref))...)
		default:
			touched = append(touched, c.scope.RemoveNode(ref)...)
		}
	}

	for _, site := range violations {
		if !c.ast.IsAttached(site) {
			continue
		}
		switch s := c.ast.Data(site).(type) {
		case *js_ast.EBinary:
			touched = append(touched, c.removeAssignment(site)...)

		case *js_ast.EUnary:
			if p, ok := c.ast.Data(c.ast.Parent(site)).(*js_ast.SFor); ok && p.Update == site {
				touched = append(touched, c.scope.Dereference(site)...)
				p.Update = js_ast.InvalidIndex
			} else {
				touched = append(touched, c.scope.RemoveNode(site)...)
			}

		case *js_ast.Decl:
			// A redeclaration's value still has to run
			if s.Value != js_ast.InvalidIndex && !c.isPure(s.Value) {
				value := s.Value
				s.Value = js_ast.InvalidIndex
				stmt := c.ast.ExprStmt(value)
				anchor := c.ast.StmtParent(site)
				c.ast.EnsureInList(anchor)
				c.ast.InsertNextTo(anchor, false, stmt)
			}
			touched = append(touched, c.scope.RemoveNode(site)...)

		default:
			touched = append(touched, c.scope.RemoveNode(site)...)
		}
	}

	if err := c.scope.Remove(name); err != nil {
		panic("Internal error: " + err.Error())
	}
	return touched
}

// Drops an assignment and keeps whatever side effects its right-hand side
// has
func (c *linkerContext) removeAssignment(site js_ast.Index) []string {
	right := c.ast.Data(site).(*js_ast.EBinary).Right
	if _, ok := c.ast.Data(c.ast.Parent(site)).(*js_ast.SExpr); ok {
		if _, isIdentifier := c.ast.Data(right).(*js_ast.EIdentifier); isIdentifier || c.isPure(right) {
			return c.scope.RemoveNode(site)
		}
	}
	return c.scope.Replace(site, right)
}
