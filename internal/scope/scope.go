package scope

import (
	"errors"
	"fmt"

	"github.com/hoistjs/hoist/internal/js_ast"
)

// The symbol table of a merged program's top-level scope. Every binding
// records the exact identifier nodes that read it and the exact nodes that
// write to it, and every mutation made through this package keeps those
// lists in sync with the tree.

var (
	ErrUnknownBinding = errors.New("unknown binding")
	ErrRemoveExported = errors.New("cannot remove an exported binding")
	ErrNameTaken      = errors.New("name is already bound")
)

type BindingKind uint8

const (
	KindVar BindingKind = iota
	KindLet
	KindConst
	KindFunction
	KindClass
	KindImport
)

func (kind BindingKind) String() string {
	switch kind {
	case KindVar:
		return "var"
	case KindLet:
		return "let"
	case KindConst:
		return "const"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindImport:
		return "import"
	}
	return "unknown"
}

type Binding struct {
	Name string
	Kind BindingKind

	// The BIdentifier node that introduces the name
	Identifier js_ast.Index

	// The Decl, SFunction, SClass or ImportItem holding the identifier
	Declaration js_ast.Index

	// EIdentifier nodes that read the binding, in the order they were found
	References []js_ast.Index

	// Assignments, updates, for-in heads and redeclarations that write it
	ConstantViolations []js_ast.Index

	Constant   bool
	Referenced bool
}

func (b *Binding) sync() {
	b.Constant = len(b.ConstantViolations) == 0
	b.Referenced = len(b.References) > 0
}

type Scope struct {
	ast      *js_ast.AST
	bindings map[string]*Binding
	order    []*Binding
	pinned   map[string]bool

	// Every identifier name that appears anywhere in the program plus every
	// generated name handed out so far
	used map[string]bool

	// Names declared by some function, block or catch scope
	nestedDeclared map[string]bool

	// Names read or written somewhere no binding covers, like "console"
	unbound map[string]bool

	// When set, visiting only records sites of this one name
	only string

	// Collects the bindings that gain a site while a subtree is reindexed
	recording *touchedSet
}

func newScope(ast *js_ast.AST) *Scope {
	return &Scope{
		ast:            ast,
		bindings:       make(map[string]*Binding),
		pinned:         make(map[string]bool),
		used:           make(map[string]bool),
		nestedDeclared: make(map[string]bool),
		unbound:        make(map[string]bool),
	}
}

func (s *Scope) AST() *js_ast.AST {
	return s.ast
}

func (s *Scope) Lookup(name string) *Binding {
	return s.bindings[name]
}

func (s *Scope) Has(name string) bool {
	return s.bindings[name] != nil
}

// Binding names in declaration order. Bindings added after the initial crawl
// come last.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for _, b := range s.order {
		if s.bindings[b.Name] == b {
			names = append(names, b.Name)
		}
	}
	return names
}

// Whether a name would collide with anything already in the program,
// including globals and names bound only inside functions
func (s *Scope) IsNameUsed(name string) bool {
	return s.bindings[name] != nil || s.used[name]
}

func (s *Scope) ReserveName(name string) {
	s.used[name] = true
}

func (s *Scope) HasNestedDeclaration(name string) bool {
	return s.nestedDeclared[name]
}

// Whether a top-level binding could be called "name" without changing what
// some identifier refers to. A function that declares its own "name" would
// shadow the binding, and a global read of "name" would be captured by it.
func (s *Scope) CanBind(name string) bool {
	return !s.nestedDeclared[name] && (s.bindings[name] != nil || !s.unbound[name])
}

// Pinned names are exported and must survive until the program is printed
func (s *Scope) Pin(name string) {
	s.pinned[name] = true
}

func (s *Scope) IsPinned(name string) bool {
	return s.pinned[name]
}

func kindOf(ast *js_ast.AST, declaration js_ast.Index) BindingKind {
	switch d := ast.Data(declaration).(type) {
	case *js_ast.Decl:
		if local, ok := ast.Data(ast.Parent(declaration)).(*js_ast.SLocal); ok {
			switch local.Kind {
			case js_ast.LocalLet:
				return KindLet
			case js_ast.LocalConst:
				return KindConst
			}
		}
	case *js_ast.SFunction:
		return KindFunction
	case *js_ast.SClass:
		return KindClass
	case *js_ast.ImportItem:
		return KindImport
	default:
		panic(fmt.Sprintf("Internal error: unexpected declaration %T", d))
	}
	return KindVar
}

func (s *Scope) registerIdentifier(id js_ast.Index) {
	name := s.ast.Data(id).(*js_ast.BIdentifier).Name
	declaration := s.ast.DeclarationOf(id)
	kind := kindOf(s.ast, declaration)
	s.used[name] = true

	if existing := s.bindings[name]; existing != nil {
		// Redeclaring a "var" or a function writes to the existing binding
		if _, ok := s.ast.Data(declaration).(*js_ast.Decl); ok {
			existing.ConstantViolations = append(existing.ConstantViolations, declaration)
		}
		existing.sync()
		return
	}

	b := &Binding{
		Name:        name,
		Kind:        kind,
		Identifier:  id,
		Declaration: declaration,
	}
	b.sync()
	s.bindings[name] = b
	s.order = append(s.order, b)
}

// Registers every name a top-level declaration statement introduces
func (s *Scope) RegisterDeclaration(stmt js_ast.Index) {
	if def, ok := s.ast.Data(stmt).(*js_ast.SExportDefault); ok {
		stmt = def.Value
	}
	for _, id := range s.ast.DeclaredIdentifiers(stmt) {
		s.registerIdentifier(id)
	}
}

// Makes the names of a new declaration statement point at it. A name that
// is already bound keeps its references and loses its old declaration, which
// is cut out of the tree.
func (s *Scope) Declare(stmt js_ast.Index) {
	for _, id := range s.ast.DeclaredIdentifiers(stmt) {
		name := s.ast.Data(id).(*js_ast.BIdentifier).Name
		existing := s.bindings[name]
		if existing == nil {
			s.registerIdentifier(id)
			s.bindFree(name)
			delete(s.unbound, name)
			continue
		}
		old := existing.Declaration
		existing.Identifier = id
		existing.Declaration = s.ast.DeclarationOf(id)
		existing.Kind = kindOf(s.ast, existing.Declaration)
		if old != js_ast.InvalidIndex && s.ast.IsAttached(old) {
			s.removeDeclarationNode(old)
		}
	}
}

// Attaches the sites of a name that were global until it was declared
func (s *Scope) bindFree(name string) {
	s.only = name
	for _, stmt := range s.ast.Stmts {
		s.visit(stmt, nil)
	}
	s.only = ""
}

func (s *Scope) AddReference(name string, site js_ast.Index) {
	b := s.bindings[name]
	if b == nil {
		panic(fmt.Sprintf("Internal error: reference to unknown binding %q", name))
	}
	b.References = append(b.References, site)
	b.sync()
	if s.recording != nil {
		s.recording.add(name)
	}
}

func (s *Scope) AddConstantViolation(name string, site js_ast.Index) {
	b := s.bindings[name]
	if b == nil {
		panic(fmt.Sprintf("Internal error: write to unknown binding %q", name))
	}
	b.ConstantViolations = append(b.ConstantViolations, site)
	b.sync()
	if s.recording != nil {
		s.recording.add(name)
	}
}

// Deletes a binding from the table. The tree is not touched.
func (s *Scope) Remove(name string) error {
	if s.pinned[name] {
		return fmt.Errorf("%w: %q", ErrRemoveExported, name)
	}
	if s.bindings[name] == nil {
		return fmt.Errorf("%w: %q", ErrUnknownBinding, name)
	}
	delete(s.bindings, name)
	return nil
}

// Renames one binding everywhere it is declared, read or written
func (s *Scope) Rename(oldName string, newName string) error {
	if oldName == newName {
		return nil
	}
	b := s.bindings[oldName]
	if b == nil {
		return fmt.Errorf("%w: %q", ErrUnknownBinding, oldName)
	}
	if s.bindings[newName] != nil || !s.CanBind(newName) {
		return fmt.Errorf("%w: %q", ErrNameTaken, newName)
	}

	s.ast.SetIdentifierName(b.Identifier, newName)
	for _, ref := range b.References {
		s.ast.SetIdentifierName(ref, newName)
	}
	for _, site := range b.ConstantViolations {
		for _, id := range s.ast.AssignedIdentifiers(site, oldName) {
			s.ast.SetIdentifierName(id, newName)
		}
	}

	b.Name = newName
	delete(s.bindings, oldName)
	s.bindings[newName] = b
	s.used[newName] = true
	if s.pinned[oldName] {
		delete(s.pinned, oldName)
		s.pinned[newName] = true
	}
	return nil
}

func removeIndex(list []js_ast.Index, item js_ast.Index) ([]js_ast.Index, bool) {
	for i, x := range list {
		if x == item {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}
