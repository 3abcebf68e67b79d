package js_ast

import "github.com/hoistjs/hoist/internal/logger"

// Constructors for the glue code the linker synthesizes. Generated nodes
// have no meaningful source location.

func (a *AST) Ident(name string) Index {
	return a.Add(logger.Loc{}, &EIdentifier{Name: name})
}

func (a *AST) BIdent(name string) Index {
	return a.Add(logger.Loc{}, &BIdentifier{Name: name})
}

func (a *AST) Str(value string) Index {
	return a.Add(logger.Loc{}, &EString{Value: value})
}

func (a *AST) Call(target Index, args ...Index) Index {
	return a.Add(logger.Loc{}, &ECall{Target: target, Args: args})
}

func (a *AST) Dot(target Index, name string) Index {
	return a.Add(logger.Loc{}, &EDot{Target: target, Name: name})
}

// "target.name" when name is a valid property name and "target[name]"
// otherwise. Reserved words are fine after a dot.
func (a *AST) Member(target Index, name string) Index {
	if IsIdentifier(name) || ReservedWords[name] {
		return a.Dot(target, name)
	}
	return a.Add(logger.Loc{}, &EIndex{Target: target, Index: a.Str(name)})
}

func (a *AST) Assign(left Index, right Index) Index {
	return a.Add(logger.Loc{}, &EBinary{Op: BinOpAssign, Left: left, Right: right})
}

func (a *AST) ExprStmt(value Index) Index {
	return a.Add(logger.Loc{}, &SExpr{Value: value})
}

func (a *AST) EmptyObject() Index {
	return a.Add(logger.Loc{}, &EObject{})
}

// "var binding = value;" with a single declarator
func (a *AST) Local(kind LocalKind, binding Index, value Index) Index {
	decl := a.Add(logger.Loc{}, &Decl{Binding: binding, Value: value})
	return a.Add(logger.Loc{}, &SLocal{Kind: kind, Decls: []Index{decl}})
}

// The BIdentifier nodes of a pattern in source order
func (a *AST) BindingIdentifiers(binding Index) []Index {
	var ids []Index
	a.Walk(binding, func(i Index) bool {
		switch d := a.Nodes[i].Data.(type) {
		case *BIdentifier:
			ids = append(ids, i)
		case *BProperty:
			// Computed keys hold expressions, not names
			a.Walk(d.Value, func(j Index) bool {
				if _, ok := a.Nodes[j].Data.(*BIdentifier); ok {
					ids = append(ids, j)
				}
				return IsBinding(a.Nodes[j].Data)
			})
			return false
		case *BDefault:
			ids = append(ids, a.BindingIdentifiers(d.Binding)...)
			return false
		}
		return IsBinding(a.Nodes[i].Data)
	})
	return ids
}

// The binding identifiers a declaration introduces into its scope
func (a *AST) DeclaredIdentifiers(stmt Index) []Index {
	var ids []Index
	switch s := a.Nodes[stmt].Data.(type) {
	case *SLocal:
		for _, decl := range s.Decls {
			ids = append(ids, a.BindingIdentifiers(a.Nodes[decl].Data.(*Decl).Binding)...)
		}
	case *SFunction:
		if s.Fn.Name != InvalidIndex {
			ids = append(ids, s.Fn.Name)
		}
	case *SClass:
		if s.Class.Name != InvalidIndex {
			ids = append(ids, s.Class.Name)
		}
	case *SImport:
		for _, item := range s.Items {
			ids = append(ids, a.Nodes[item].Data.(*ImportItem).Binding)
		}
	}
	return ids
}

func (a *AST) DeclaredNames(stmt Index) []string {
	ids := a.DeclaredIdentifiers(stmt)
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = a.Nodes[id].Data.(*BIdentifier).Name
	}
	return names
}

// The node that declares a binding identifier: a Decl, an SFunction, an
// SClass or an ImportItem
func (a *AST) DeclarationOf(id Index) Index {
	for i := a.Nodes[id].Parent; i != InvalidIndex; i = a.Nodes[i].Parent {
		switch a.Nodes[i].Data.(type) {
		case *Decl, *SFunction, *SClass, *ImportItem:
			return i
		}
	}
	return InvalidIndex
}

// The identifiers named "name" that an assignment-like node writes to.
// "site" is an EBinary assignment, an EUnary update, an SForIn or a Decl.
func (a *AST) AssignedIdentifiers(site Index, name string) []Index {
	var target Index
	switch s := a.Nodes[site].Data.(type) {
	case *EBinary:
		target = s.Left
	case *EUnary:
		target = s.Value
	case *SForIn:
		target = s.Init
	case *Decl:
		target = s.Binding
	default:
		return nil
	}
	if id, ok := a.Nodes[target].Data.(*EIdentifier); ok {
		if id.Name == name {
			return []Index{target}
		}
		return nil
	}
	var ids []Index
	for _, id := range a.BindingIdentifiers(target) {
		if a.Nodes[id].Data.(*BIdentifier).Name == name {
			ids = append(ids, id)
		}
	}
	return ids
}

func (a *AST) IdentifierName(i Index) (string, bool) {
	switch d := a.Data(i).(type) {
	case *EIdentifier:
		return d.Name, true
	case *BIdentifier:
		return d.Name, true
	}
	return "", false
}

func (a *AST) SetIdentifierName(i Index, name string) {
	switch d := a.Nodes[i].Data.(type) {
	case *EIdentifier:
		d.Name = name
	case *BIdentifier:
		d.Name = name
	default:
		panic("Internal error: not an identifier")
	}
}

func IsAssignOp(op OpCode) bool {
	return op.BinaryAssignTarget() != AssignTargetNone
}

func IsUpdateOp(op OpCode) bool {
	return op.UnaryAssignTarget() == AssignTargetUpdate
}
