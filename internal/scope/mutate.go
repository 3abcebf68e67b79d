package scope

import (
	"github.com/hoistjs/hoist/internal/js_ast"
)

// Rebuilds the chain of nested scopes that encloses "i"
func (s *Scope) envFor(i js_ast.Index) *nested {
	type frame struct {
		ancestor js_ast.Index
		child    js_ast.Index
	}
	var frames []frame
	for child := i; ; {
		parent := s.ast.Parent(child)
		if parent == js_ast.InvalidIndex {
			break
		}
		frames = append(frames, frame{parent, child})
		child = parent
	}

	var env *nested
	for k := len(frames) - 1; k >= 0; k-- {
		f := frames[k]
		switch d := s.ast.Data(f.ancestor).(type) {
		case *js_ast.SBlock:
			env = s.blockScope(env, d.Stmts)
		case *js_ast.SSwitch:
			if f.child != d.Test {
				env = s.blockScope(env, s.caseStmts(d))
			}
		case *js_ast.SFunction:
			env = s.fnScope(env, d.Fn.Args, d.Fn.Body)
		case *js_ast.EFunction:
			env = s.fnScope(s.nameScope(env, d.Fn.Name), d.Fn.Args, d.Fn.Body)
		case *js_ast.EArrow:
			env = s.fnScope(env, d.Args, d.Body)
		case *js_ast.EClass:
			env = s.nameScope(env, d.Class.Name)
		case *js_ast.SFor:
			if d.Init != js_ast.InvalidIndex {
				env = s.blockScope(env, []js_ast.Index{d.Init})
			}
		case *js_ast.SForIn:
			if _, ok := s.ast.Data(d.Init).(*js_ast.SLocal); ok && f.child != d.Value {
				env = s.blockScope(env, []js_ast.Index{d.Init})
			}
		case *js_ast.STry:
			if d.CatchParam != js_ast.InvalidIndex && (f.child == d.Catch || f.child == d.CatchParam) {
				names := make(map[string]bool)
				s.bindingNames(d.CatchParam, names)
				env = s.push(env, names)
			}
		}
	}
	return env
}

// Records the references and writes of a subtree that was just attached to
// the tree and returns the names of the bindings that gained one. Calling
// this twice on the same subtree double-counts.
func (s *Scope) Reindex(root js_ast.Index) []string {
	touched := touchedSet{}
	s.recording = &touched
	s.visit(root, s.envFor(root))
	s.recording = nil
	return touched.names
}

// The names a write site assigns to
func (s *Scope) targetNames(site js_ast.Index) []string {
	var target js_ast.Index
	switch d := s.ast.Data(site).(type) {
	case *js_ast.EBinary:
		if !js_ast.IsAssignOp(d.Op) {
			return nil
		}
		target = d.Left
	case *js_ast.EUnary:
		if !js_ast.IsUpdateOp(d.Op) {
			return nil
		}
		target = d.Value
	case *js_ast.SForIn:
		target = d.Init
	case *js_ast.Decl:
		target = d.Binding
	default:
		return nil
	}
	if name, ok := s.ast.IdentifierName(target); ok {
		return []string{name}
	}
	var names []string
	for _, id := range s.ast.BindingIdentifiers(target) {
		names = append(names, s.ast.Data(id).(*js_ast.BIdentifier).Name)
	}
	return names
}

type touchedSet struct {
	names []string
	seen  map[string]bool
}

func (t *touchedSet) add(name string) {
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if !t.seen[name] {
		t.seen[name] = true
		t.names = append(t.names, name)
	}
}

// Drops the bookkeeping of every node under "root" except the subtree at
// "keep", and marks those nodes as removed
func (s *Scope) dereference(root js_ast.Index, keep js_ast.Index, touched *touchedSet) {
	s.ast.Walk(root, func(i js_ast.Index) bool {
		if i == keep {
			return false
		}
		node := s.ast.Node(i)
		node.Removed = true

		if id, ok := node.Data.(*js_ast.EIdentifier); ok {
			if b := s.bindings[id.Name]; b != nil {
				if refs, ok := removeIndex(b.References, i); ok {
					b.References = refs
					b.sync()
					touched.add(b.Name)
				}
			}
			return true
		}

		for _, name := range s.targetNames(i) {
			if b := s.bindings[name]; b != nil {
				if violations, ok := removeIndex(b.ConstantViolations, i); ok {
					b.ConstantViolations = violations
					b.sync()
					touched.add(b.Name)
				}
			}
		}
		return true
	})
}

// Drops the bookkeeping for a subtree that is about to leave the tree and
// returns the names of the bindings that lost a reference or a write
func (s *Scope) Dereference(root js_ast.Index) []string {
	touched := touchedSet{}
	s.dereference(root, js_ast.InvalidIndex, &touched)
	return touched.names
}

func (s *Scope) InsertBefore(anchor js_ast.Index, stmts ...js_ast.Index) {
	s.ast.EnsureInList(anchor)
	s.ast.InsertNextTo(anchor, false, stmts...)
	for _, stmt := range stmts {
		s.Reindex(stmt)
	}
}

func (s *Scope) InsertAfter(anchor js_ast.Index, stmts ...js_ast.Index) {
	s.ast.EnsureInList(anchor)
	s.ast.InsertNextTo(anchor, true, stmts...)
	for _, stmt := range stmts {
		s.Reindex(stmt)
	}
}

// Inserts top-level statements at a position in the program body
func (s *Scope) InsertTopLevel(at int, stmts ...js_ast.Index) {
	body := make([]js_ast.Index, 0, len(s.ast.Stmts)+len(stmts))
	body = append(body, s.ast.Stmts[:at]...)
	body = append(body, stmts...)
	body = append(body, s.ast.Stmts[at:]...)
	s.ast.Stmts = body
	for _, stmt := range stmts {
		s.ast.Node(stmt).Parent = js_ast.InvalidIndex
		s.Reindex(stmt)
	}
}

func (s *Scope) Prepend(stmts ...js_ast.Index) {
	s.InsertTopLevel(0, stmts...)
}

func (s *Scope) Append(stmts ...js_ast.Index) {
	s.InsertTopLevel(len(s.ast.Stmts), stmts...)
}

// Removes a statement. A statement in a single slot, like the body of a
// loop, becomes an empty statement.
func (s *Scope) RemoveStmt(stmt js_ast.Index) []string {
	touched := s.Dereference(stmt)
	if !s.ast.RemoveFromList(stmt) {
		s.ast.ReplaceChild(stmt, s.ast.Add(s.ast.Node(stmt).Loc, &js_ast.SEmpty{}))
	}
	return touched
}

// Removes any node while keeping the surrounding syntax valid: a declarator
// takes its statement with it once it is the last one, an expression
// statement goes away with its expression, and an expression in a single
// slot is replaced by "void 0".
func (s *Scope) RemoveNode(i js_ast.Index) []string {
	node := s.ast.Node(i)
	if js_ast.IsStmt(node.Data) {
		return s.RemoveStmt(i)
	}
	parent := node.Parent

	switch d := s.ast.Data(parent).(type) {
	case *js_ast.SExpr:
		return s.RemoveStmt(parent)

	case *js_ast.SLocal:
		touched := s.Dereference(i)
		s.ast.RemoveFromList(i)
		if len(d.Decls) == 0 {
			if s.ast.ContainingList(parent) != nil {
				s.ast.RemoveFromList(parent)
			} else {
				s.ast.ReplaceChild(parent, s.ast.Add(s.ast.Node(parent).Loc, &js_ast.SEmpty{}))
			}
			s.ast.Node(parent).Removed = true
		}
		return touched
	}

	touched := s.Dereference(i)
	if !s.ast.RemoveFromList(i) {
		s.ast.ReplaceChild(i, s.ast.Add(node.Loc, &js_ast.EUndefined{}))
	}
	return touched
}

func (s *Scope) removeDeclarationNode(declaration js_ast.Index) {
	s.RemoveNode(declaration)
}

// Puts "replacement" where "old" was. When the replacement is a fresh node it
// gets indexed; when it is a descendant of "old" its bookkeeping is kept.
func (s *Scope) Replace(old js_ast.Index, replacement js_ast.Index) []string {
	isDescendant := false
	for i := s.ast.Parent(replacement); i != js_ast.InvalidIndex; i = s.ast.Parent(i) {
		if i == old {
			isDescendant = true
			break
		}
	}

	touched := touchedSet{}
	if isDescendant {
		s.dereference(old, replacement, &touched)
		s.ast.ReplaceChild(old, replacement)
	} else {
		s.dereference(old, js_ast.InvalidIndex, &touched)
		s.ast.ReplaceChild(old, replacement)
		s.Reindex(replacement)
	}
	return touched.names
}
