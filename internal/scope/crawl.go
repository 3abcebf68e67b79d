package scope

import (
	"github.com/hoistjs/hoist/internal/js_ast"
)

// A function, block or catch scope nested inside the program. Names found
// here shadow top-level bindings.
type nested struct {
	parent *nested
	names  map[string]bool
}

func (n *nested) has(name string) bool {
	for ; n != nil; n = n.parent {
		if n.names[name] {
			return true
		}
	}
	return false
}

// Builds the symbol table of a program from scratch
func Crawl(ast *js_ast.AST) *Scope {
	s := newScope(ast)

	for _, stmt := range ast.Stmts {
		switch ast.Data(stmt).(type) {
		case *js_ast.SLocal, *js_ast.SFunction, *js_ast.SClass, *js_ast.SImport, *js_ast.SExportDefault:
			s.RegisterDeclaration(stmt)
		default:
			// "var" inside a top-level block still belongs to the program
			for _, decl := range hoistedVars(ast, stmt) {
				for _, id := range ast.BindingIdentifiers(ast.Data(decl).(*js_ast.Decl).Binding) {
					s.registerIdentifier(id)
				}
			}
		}
	}

	for _, stmt := range ast.Stmts {
		s.visit(stmt, nil)
	}
	return s
}

// Collects the "var" declarators under a statement without entering
// functions or classes
func hoistedVars(ast *js_ast.AST, root js_ast.Index) []js_ast.Index {
	var decls []js_ast.Index
	ast.Walk(root, func(i js_ast.Index) bool {
		switch d := ast.Data(i).(type) {
		case *js_ast.SLocal:
			if d.Kind == js_ast.LocalVar {
				decls = append(decls, d.Decls...)
			}
			return false
		case *js_ast.SFunction, *js_ast.EFunction, *js_ast.EArrow, *js_ast.SClass, *js_ast.EClass:
			return false
		case *js_ast.Case:
			return true
		}
		return js_ast.IsStmt(ast.Data(i))
	})
	return decls
}

func (s *Scope) bindingNames(pattern js_ast.Index, into map[string]bool) {
	for _, id := range s.ast.BindingIdentifiers(pattern) {
		into[s.ast.Data(id).(*js_ast.BIdentifier).Name] = true
	}
}

// Names declared directly in a statement list by let, const, class and
// function declarations
func (s *Scope) lexicalNames(stmts []js_ast.Index, into map[string]bool) {
	for _, stmt := range stmts {
		switch d := s.ast.Data(stmt).(type) {
		case *js_ast.SLocal:
			if d.Kind != js_ast.LocalVar {
				for _, name := range s.ast.DeclaredNames(stmt) {
					into[name] = true
				}
			}
		case *js_ast.SFunction, *js_ast.SClass:
			for _, name := range s.ast.DeclaredNames(stmt) {
				into[name] = true
			}
		}
	}
}

func (s *Scope) push(parent *nested, names map[string]bool) *nested {
	if len(names) == 0 {
		return parent
	}
	for name := range names {
		s.nestedDeclared[name] = true
		s.used[name] = true
	}
	return &nested{parent: parent, names: names}
}

func (s *Scope) fnScope(parent *nested, args []js_ast.Index, body []js_ast.Index) *nested {
	names := make(map[string]bool)
	for _, arg := range args {
		s.bindingNames(arg, names)
	}
	for _, stmt := range body {
		for _, decl := range hoistedVars(s.ast, stmt) {
			s.bindingNames(s.ast.Data(decl).(*js_ast.Decl).Binding, names)
		}
	}
	s.lexicalNames(body, names)
	return s.push(parent, names)
}

func (s *Scope) blockScope(parent *nested, stmts []js_ast.Index) *nested {
	names := make(map[string]bool)
	s.lexicalNames(stmts, names)
	return s.push(parent, names)
}

func (s *Scope) caseStmts(sw *js_ast.SSwitch) []js_ast.Index {
	var stmts []js_ast.Index
	for _, c := range sw.Cases {
		stmts = append(stmts, s.ast.Data(c).(*js_ast.Case).Body...)
	}
	return stmts
}

func (s *Scope) nameScope(parent *nested, id js_ast.Index) *nested {
	if id == js_ast.InvalidIndex {
		return parent
	}
	return s.push(parent, map[string]bool{s.ast.Data(id).(*js_ast.BIdentifier).Name: true})
}

func (s *Scope) isTopLevel(name string, env *nested) bool {
	return (s.only == "" || name == s.only) && !env.has(name) && s.bindings[name] != nil
}

func (s *Scope) noteUnbound(name string, env *nested) {
	if !env.has(name) && s.bindings[name] == nil {
		s.unbound[name] = true
	}
}

func (s *Scope) visitAll(list []js_ast.Index, env *nested) {
	for _, i := range list {
		s.visit(i, env)
	}
}

func (s *Scope) visitFn(fn *js_ast.Fn, env *nested) {
	inner := s.fnScope(env, fn.Args, fn.Body)
	s.visitAll(fn.Args, inner)
	s.visitAll(fn.Body, inner)
}

func (s *Scope) visitClass(class *js_ast.Class, env *nested) {
	s.visit(class.Extends, env)
	s.visitAll(class.Properties, env)
}

// Records the references and writes found under "i"
func (s *Scope) visit(i js_ast.Index, env *nested) {
	if i == js_ast.InvalidIndex {
		return
	}
	node := s.ast.Node(i)

	switch d := node.Data.(type) {
	case *js_ast.EIdentifier:
		s.used[d.Name] = true
		s.noteUnbound(d.Name, env)
		if s.isTopLevel(d.Name, env) {
			s.AddReference(d.Name, i)
		}

	case *js_ast.BIdentifier:
		s.used[d.Name] = true

	case *js_ast.EBinary:
		if js_ast.IsAssignOp(d.Op) {
			s.visitTarget(d.Left, i, env)
			s.visit(d.Right, env)
			return
		}
		s.visit(d.Left, env)
		s.visit(d.Right, env)

	case *js_ast.EUnary:
		if js_ast.IsUpdateOp(d.Op) {
			s.visitTarget(d.Value, i, env)
			return
		}
		s.visit(d.Value, env)

	case *js_ast.SFunction:
		s.visit(d.Fn.Name, env)
		s.visitFn(&d.Fn, env)

	case *js_ast.EFunction:
		inner := s.nameScope(env, d.Fn.Name)
		s.visit(d.Fn.Name, inner)
		s.visitFn(&d.Fn, inner)

	case *js_ast.EArrow:
		inner := s.fnScope(env, d.Args, d.Body)
		s.visitAll(d.Args, inner)
		s.visitAll(d.Body, inner)
		s.visit(d.Expr, inner)

	case *js_ast.SClass:
		s.visit(d.Class.Name, env)
		s.visitClass(&d.Class, env)

	case *js_ast.EClass:
		inner := s.nameScope(env, d.Class.Name)
		s.visit(d.Class.Name, inner)
		s.visitClass(&d.Class, inner)

	case *js_ast.SBlock:
		s.visitAll(d.Stmts, s.blockScope(env, d.Stmts))

	case *js_ast.SSwitch:
		s.visit(d.Test, env)
		inner := s.blockScope(env, s.caseStmts(d))
		s.visitAll(d.Cases, inner)

	case *js_ast.SFor:
		inner := env
		if d.Init != js_ast.InvalidIndex {
			inner = s.blockScope(env, []js_ast.Index{d.Init})
		}
		s.visit(d.Init, inner)
		s.visit(d.Test, inner)
		s.visit(d.Update, inner)
		s.visit(d.Body, inner)

	case *js_ast.SForIn:
		inner := env
		if _, ok := s.ast.Data(d.Init).(*js_ast.SLocal); ok {
			inner = s.blockScope(env, []js_ast.Index{d.Init})
			s.visit(d.Init, inner)
		} else {
			s.visitTarget(d.Init, i, env)
		}
		s.visit(d.Value, env)
		s.visit(d.Body, inner)

	case *js_ast.STry:
		s.visit(d.Body, env)
		if d.CatchParam != js_ast.InvalidIndex {
			names := make(map[string]bool)
			s.bindingNames(d.CatchParam, names)
			inner := s.push(env, names)
			s.visit(d.CatchParam, inner)
			s.visit(d.Catch, inner)
		} else {
			s.visit(d.Catch, env)
		}
		s.visit(d.Finally, env)

	case *js_ast.Property:
		if d.IsComputed {
			s.visit(d.Key, env)
		}
		s.visit(d.Value, env)

	case *js_ast.BProperty:
		if d.IsComputed {
			s.visit(d.Key, env)
		}
		s.visit(d.Value, env)

	default:
		for _, child := range js_ast.Children(node.Data) {
			s.visit(child, env)
		}
	}
}

// Visits the left side of an assignment. Identifiers there are writes made
// by "site", everything else is read as usual.
func (s *Scope) visitTarget(target js_ast.Index, site js_ast.Index, env *nested) {
	if target == js_ast.InvalidIndex {
		return
	}
	node := s.ast.Node(target)

	switch d := node.Data.(type) {
	case *js_ast.EIdentifier:
		s.used[d.Name] = true
		s.noteUnbound(d.Name, env)
		if s.isTopLevel(d.Name, env) {
			s.AddConstantViolation(d.Name, site)
		}

	case *js_ast.BIdentifier:
		s.used[d.Name] = true
		s.noteUnbound(d.Name, env)
		if s.isTopLevel(d.Name, env) {
			s.AddConstantViolation(d.Name, site)
		}

	case *js_ast.BObject:
		for _, prop := range d.Properties {
			s.visitTarget(prop, site, env)
		}

	case *js_ast.BProperty:
		if d.IsComputed {
			s.visit(d.Key, env)
		}
		s.visitTarget(d.Value, site, env)

	case *js_ast.BArray:
		for _, item := range d.Items {
			s.visitTarget(item, site, env)
		}

	case *js_ast.BDefault:
		s.visitTarget(d.Binding, site, env)
		s.visit(d.Value, env)

	case *js_ast.BRest:
		s.visitTarget(d.Binding, site, env)

	default:
		s.visit(target, env)
	}
}
