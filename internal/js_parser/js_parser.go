package js_parser

// The syntax tree comes from tree-sitter's JavaScript grammar. This file
// lowers that concrete tree into the linker's arena AST, keeping only what
// the linker and printer care about. Comments and parentheses are dropped.

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/logger"
)

// Thrown after an error has been logged to unwind the conversion
type parsePanic struct{}

type parser struct {
	log      logger.Log
	source   logger.Source
	contents []byte
	ast      *js_ast.AST
}

func Parse(log logger.Log, source logger.Source) (*js_ast.AST, bool) {
	tree := js_ast.NewAST()
	if !ParseInto(log, source, tree) {
		return nil, false
	}
	return tree, true
}

// Appends the top-level statements of another source to an existing tree,
// which is how runtime helpers join a merged program. Nothing is appended if
// there is a syntax error.
func ParseInto(log logger.Log, source logger.Source, into *js_ast.AST) (ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isParsePanic := r.(parsePanic); isParsePanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		log:      log,
		source:   source,
		contents: []byte(source.Contents),
		ast:      into,
	}

	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(javascript.GetLanguage())

	tree, err := sp.ParseCtx(context.Background(), nil, p.contents)
	if err != nil {
		log.AddError(&source, logger.Loc{}, err.Error())
		return false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		p.reportSyntaxError(root)
	}

	var stmts []js_ast.Index
	for _, child := range p.namedChildren(root) {
		if child.Type() == "hash_bang_line" {
			continue
		}
		stmts = append(stmts, p.stmt(child))
	}
	p.ast.Stmts = append(p.ast.Stmts, stmts...)
	return true
}

func (p *parser) loc(n *sitter.Node) logger.Loc {
	return logger.Loc{Start: int32(n.StartByte())}
}

func (p *parser) text(n *sitter.Node) string {
	return n.Content(p.contents)
}

func (p *parser) add(n *sitter.Node, data js_ast.N) js_ast.Index {
	return p.ast.Add(p.loc(n), data)
}

func (p *parser) fail(n *sitter.Node, text string) {
	r := logger.Range{Loc: p.loc(n), Len: int32(n.EndByte() - n.StartByte())}
	p.log.AddRangeError(&p.source, r, text)
	panic(parsePanic{})
}

func (p *parser) unsupported(n *sitter.Node) {
	p.fail(n, fmt.Sprintf("Unsupported syntax: %s", n.Type()))
}

// Finds the first error or missing node and reports it
func (p *parser) reportSyntaxError(n *sitter.Node) {
	if n.IsMissing() {
		p.fail(n, fmt.Sprintf("Expected %q", n.Type()))
	}
	if n.Type() == "ERROR" {
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child.Type() != "comment" {
				p.fail(child, fmt.Sprintf("Unexpected %q", p.text(child)))
			}
		}
		p.fail(n, "Unexpected end of file")
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.HasError() || child.IsMissing() {
			p.reportSyntaxError(child)
		}
	}
	p.fail(n, "Syntax error")
}

func isComment(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "html_comment":
		return true
	}
	return false
}

func (p *parser) namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if child := n.NamedChild(i); !isComment(child) {
			children = append(children, child)
		}
	}
	return children
}

func (p *parser) firstNamed(n *sitter.Node) *sitter.Node {
	for _, child := range p.namedChildren(n) {
		return child
	}
	return nil
}

// Reports whether an anonymous token with this text is a direct child
func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" {
		var inner *sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); !isComment(child) {
				inner = child
				break
			}
		}
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

////////////////////////////////////////////////////////////////////////////////
// Statements

func (p *parser) stmts(nodes []*sitter.Node) []js_ast.Index {
	stmts := make([]js_ast.Index, 0, len(nodes))
	for _, n := range nodes {
		stmts = append(stmts, p.stmt(n))
	}
	return stmts
}

func (p *parser) block(n *sitter.Node) []js_ast.Index {
	return p.stmts(p.namedChildren(n))
}

func (p *parser) optionalStmt(n *sitter.Node) js_ast.Index {
	if n == nil {
		return js_ast.InvalidIndex
	}
	return p.stmt(n)
}

func (p *parser) stmt(n *sitter.Node) js_ast.Index {
	switch n.Type() {
	case "expression_statement":
		return p.add(n, &js_ast.SExpr{Value: p.expr(p.firstNamed(n))})

	case "empty_statement":
		return p.add(n, &js_ast.SEmpty{})

	case "debugger_statement":
		return p.add(n, &js_ast.SDebugger{})

	case "with_statement":
		value := p.expr(unwrapParens(n.ChildByFieldName("object")))
		body := p.stmt(n.ChildByFieldName("body"))
		return p.add(n, &js_ast.SWith{Value: value, Body: body})

	case "statement_block":
		return p.add(n, &js_ast.SBlock{Stmts: p.block(n)})

	case "variable_declaration", "lexical_declaration":
		return p.local(n, false)

	case "function_declaration", "generator_function_declaration":
		return p.add(n, &js_ast.SFunction{Fn: p.fn(n)})

	case "class_declaration":
		return p.add(n, &js_ast.SClass{Class: p.class(n)})

	case "return_statement":
		value := js_ast.InvalidIndex
		if child := p.firstNamed(n); child != nil {
			value = p.expr(child)
		}
		return p.add(n, &js_ast.SReturn{Value: value})

	case "throw_statement":
		return p.add(n, &js_ast.SThrow{Value: p.expr(p.firstNamed(n))})

	case "if_statement":
		test := p.expr(unwrapParens(n.ChildByFieldName("condition")))
		yes := p.stmt(n.ChildByFieldName("consequence"))
		no := js_ast.InvalidIndex
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			// The field holds an "else_clause" wrapping the statement
			if alt.Type() == "else_clause" {
				alt = p.firstNamed(alt)
			}
			no = p.stmt(alt)
		}
		return p.add(n, &js_ast.SIf{Test: test, Yes: yes, No: no})

	case "for_statement":
		return p.forStmt(n)

	case "for_in_statement":
		return p.forInStmt(n)

	case "while_statement":
		test := p.expr(unwrapParens(n.ChildByFieldName("condition")))
		body := p.stmt(n.ChildByFieldName("body"))
		return p.add(n, &js_ast.SWhile{Test: test, Body: body})

	case "do_statement":
		body := p.stmt(n.ChildByFieldName("body"))
		test := p.expr(unwrapParens(n.ChildByFieldName("condition")))
		return p.add(n, &js_ast.SDoWhile{Body: body, Test: test})

	case "try_statement":
		return p.tryStmt(n)

	case "switch_statement":
		return p.switchStmt(n)

	case "labeled_statement":
		label := p.text(n.ChildByFieldName("label"))
		body := p.stmt(n.ChildByFieldName("body"))
		return p.add(n, &js_ast.SLabel{Name: label, Stmt: body})

	case "break_statement":
		label := ""
		if l := n.ChildByFieldName("label"); l != nil {
			label = p.text(l)
		}
		return p.add(n, &js_ast.SBreak{Label: label})

	case "continue_statement":
		label := ""
		if l := n.ChildByFieldName("label"); l != nil {
			label = p.text(l)
		}
		return p.add(n, &js_ast.SContinue{Label: label})

	case "import_statement":
		return p.importStmt(n)

	case "export_statement":
		return p.exportStmt(n)
	}

	p.unsupported(n)
	return js_ast.InvalidIndex
}

func (p *parser) local(n *sitter.Node, isExport bool) js_ast.Index {
	kind := js_ast.LocalVar
	if n.Type() == "lexical_declaration" {
		switch p.text(n.ChildByFieldName("kind")) {
		case "let":
			kind = js_ast.LocalLet
		case "const":
			kind = js_ast.LocalConst
		}
	}

	var decls []js_ast.Index
	for _, child := range p.namedChildren(n) {
		if child.Type() != "variable_declarator" {
			continue
		}
		binding := p.binding(child.ChildByFieldName("name"))
		value := js_ast.InvalidIndex
		if v := child.ChildByFieldName("value"); v != nil {
			value = p.expr(v)
		}
		decls = append(decls, p.add(child, &js_ast.Decl{Binding: binding, Value: value}))
	}
	return p.add(n, &js_ast.SLocal{Kind: kind, Decls: decls, IsExport: isExport})
}

func (p *parser) forStmt(n *sitter.Node) js_ast.Index {
	init := js_ast.InvalidIndex
	if i := n.ChildByFieldName("initializer"); i != nil {
		switch i.Type() {
		case "variable_declaration", "lexical_declaration":
			init = p.local(i, false)
		case "expression_statement":
			init = p.expr(p.firstNamed(i))
		case "empty_statement":
		default:
			init = p.expr(i)
		}
	}

	test := js_ast.InvalidIndex
	if c := n.ChildByFieldName("condition"); c != nil {
		switch c.Type() {
		case "expression_statement":
			test = p.expr(p.firstNamed(c))
		case "empty_statement", ";":
		default:
			test = p.expr(c)
		}
	}

	update := js_ast.InvalidIndex
	if u := n.ChildByFieldName("increment"); u != nil {
		update = p.expr(u)
	}

	body := p.stmt(n.ChildByFieldName("body"))
	return p.add(n, &js_ast.SFor{Init: init, Test: test, Update: update, Body: body})
}

func (p *parser) forInStmt(n *sitter.Node) js_ast.Index {
	left := n.ChildByFieldName("left")
	var init js_ast.Index
	if kind := n.ChildByFieldName("kind"); kind != nil {
		localKind := js_ast.LocalVar
		switch p.text(kind) {
		case "let":
			localKind = js_ast.LocalLet
		case "const":
			localKind = js_ast.LocalConst
		}
		decl := p.add(left, &js_ast.Decl{Binding: p.binding(left)})
		init = p.add(left, &js_ast.SLocal{Kind: localKind, Decls: []js_ast.Index{decl}})
	} else {
		init = p.assignTarget(left)
	}

	isOf := false
	if op := n.ChildByFieldName("operator"); op != nil {
		isOf = p.text(op) == "of"
	} else {
		isOf = hasToken(n, "of")
	}

	value := p.expr(n.ChildByFieldName("right"))
	body := p.stmt(n.ChildByFieldName("body"))
	return p.add(n, &js_ast.SForIn{Init: init, Value: value, Body: body, IsOf: isOf, IsAwait: hasToken(n, "await")})
}

func (p *parser) tryStmt(n *sitter.Node) js_ast.Index {
	body := p.stmt(n.ChildByFieldName("body"))
	catchParam := js_ast.InvalidIndex
	catch := js_ast.InvalidIndex
	finally := js_ast.InvalidIndex

	if handler := n.ChildByFieldName("handler"); handler != nil {
		if param := handler.ChildByFieldName("parameter"); param != nil {
			catchParam = p.binding(param)
		}
		catch = p.stmt(handler.ChildByFieldName("body"))
	}
	if finalizer := n.ChildByFieldName("finalizer"); finalizer != nil {
		finally = p.stmt(finalizer.ChildByFieldName("body"))
	}
	return p.add(n, &js_ast.STry{Body: body, CatchParam: catchParam, Catch: catch, Finally: finally})
}

func (p *parser) switchStmt(n *sitter.Node) js_ast.Index {
	test := p.expr(unwrapParens(n.ChildByFieldName("value")))

	var cases []js_ast.Index
	for _, child := range p.namedChildren(n.ChildByFieldName("body")) {
		children := p.namedChildren(child)
		caseTest := js_ast.InvalidIndex
		switch child.Type() {
		case "switch_case":
			caseTest = p.expr(children[0])
			children = children[1:]
		case "switch_default":
		default:
			p.unsupported(child)
		}
		cases = append(cases, p.add(child, &js_ast.Case{Test: caseTest, Body: p.stmts(children)}))
	}
	return p.add(n, &js_ast.SSwitch{Test: test, Cases: cases})
}

func (p *parser) importStmt(n *sitter.Node) js_ast.Index {
	source := p.stringValue(n.ChildByFieldName("source"))

	var items []js_ast.Index
	for _, clause := range p.namedChildren(n) {
		if clause.Type() != "import_clause" {
			continue
		}
		for _, child := range p.namedChildren(clause) {
			switch child.Type() {
			case "identifier":
				binding := p.add(child, &js_ast.BIdentifier{Name: p.text(child)})
				items = append(items, p.add(child, &js_ast.ImportItem{Kind: js_ast.ImportDefault, Alias: "default", Binding: binding}))

			case "namespace_import":
				id := p.firstNamed(child)
				binding := p.add(id, &js_ast.BIdentifier{Name: p.text(id)})
				items = append(items, p.add(child, &js_ast.ImportItem{Kind: js_ast.ImportNamespace, Alias: "*", Binding: binding}))

			case "named_imports":
				for _, spec := range p.namedChildren(child) {
					if spec.Type() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("name")
					alias := p.moduleExportName(name)
					local := name
					if a := spec.ChildByFieldName("alias"); a != nil {
						local = a
					}
					kind := js_ast.ImportNamed
					if alias == "default" {
						kind = js_ast.ImportDefault
					}
					binding := p.add(local, &js_ast.BIdentifier{Name: p.text(local)})
					items = append(items, p.add(spec, &js_ast.ImportItem{Kind: kind, Alias: alias, Binding: binding}))
				}
			}
		}
	}
	return p.add(n, &js_ast.SImport{Items: items, Source: source})
}

// Export names may be identifiers or string literals
func (p *parser) moduleExportName(n *sitter.Node) string {
	if n.Type() == "string" {
		return p.stringValue(n)
	}
	return p.text(n)
}

func (p *parser) exportStmt(n *sitter.Node) js_ast.Index {
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		if hasToken(n, "default") {
			return p.add(n, &js_ast.SExportDefault{Value: p.stmt(decl)})
		}
		switch decl.Type() {
		case "variable_declaration", "lexical_declaration":
			return p.local(decl, true)
		case "function_declaration", "generator_function_declaration":
			return p.add(n, &js_ast.SFunction{Fn: p.fn(decl), IsExport: true})
		case "class_declaration":
			return p.add(n, &js_ast.SClass{Class: p.class(decl), IsExport: true})
		}
		p.unsupported(decl)
	}

	if value := n.ChildByFieldName("value"); value != nil {
		// "export default function () {}" is still a declaration
		switch value.Type() {
		case "function", "function_expression", "generator_function":
			fn := p.add(value, &js_ast.SFunction{Fn: p.fn(value)})
			return p.add(n, &js_ast.SExportDefault{Value: fn})
		case "class":
			class := p.add(value, &js_ast.SClass{Class: p.class(value)})
			return p.add(n, &js_ast.SExportDefault{Value: class})
		}
		return p.add(n, &js_ast.SExportDefault{Value: p.expr(value)})
	}

	source := ""
	hasSource := false
	if s := n.ChildByFieldName("source"); s != nil {
		source = p.stringValue(s)
		hasSource = true
	}

	for _, child := range p.namedChildren(n) {
		switch child.Type() {
		case "namespace_export":
			alias := p.moduleExportName(p.firstNamed(child))
			return p.add(n, &js_ast.SExportStar{Alias: alias, Source: source})

		case "export_clause":
			var items []js_ast.Index
			for _, spec := range p.namedChildren(child) {
				if spec.Type() != "export_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				name := p.moduleExportName(nameNode)
				alias := name
				if a := spec.ChildByFieldName("alias"); a != nil {
					alias = p.moduleExportName(a)
				}
				item := &js_ast.ClauseItem{OriginalName: name, Alias: alias}
				if !hasSource {
					item.Name = p.add(nameNode, &js_ast.EIdentifier{Name: name})
				}
				items = append(items, p.add(spec, item))
			}
			if hasSource {
				return p.add(n, &js_ast.SExportFrom{Items: items, Source: source})
			}
			return p.add(n, &js_ast.SExportClause{Items: items})
		}
	}

	if hasSource && hasToken(n, "*") {
		return p.add(n, &js_ast.SExportStar{Source: source})
	}
	p.unsupported(n)
	return js_ast.InvalidIndex
}

////////////////////////////////////////////////////////////////////////////////
// Functions and classes

func (p *parser) params(n *sitter.Node) []js_ast.Index {
	if n == nil {
		return nil
	}
	var args []js_ast.Index
	for _, child := range p.namedChildren(n) {
		args = append(args, p.binding(child))
	}
	return args
}

func (p *parser) fn(n *sitter.Node) js_ast.Fn {
	var fn js_ast.Fn
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Name = p.add(name, &js_ast.BIdentifier{Name: p.text(name)})
	}
	fn.Args = p.params(n.ChildByFieldName("parameters"))
	fn.Body = p.block(n.ChildByFieldName("body"))
	fn.IsAsync = hasToken(n, "async")
	fn.IsGenerator = hasToken(n, "*")
	return fn
}

func (p *parser) class(n *sitter.Node) js_ast.Class {
	var class js_ast.Class
	if name := n.ChildByFieldName("name"); name != nil {
		class.Name = p.add(name, &js_ast.BIdentifier{Name: p.text(name)})
	}
	for _, child := range p.namedChildren(n) {
		switch child.Type() {
		case "class_heritage":
			class.Extends = p.expr(p.firstNamed(child))
		case "decorator":
			p.unsupported(child)
		}
	}
	for _, member := range p.namedChildren(n.ChildByFieldName("body")) {
		switch member.Type() {
		case "method_definition":
			class.Properties = append(class.Properties, p.method(member))

		case "field_definition":
			key, isComputed := p.propertyKey(member.ChildByFieldName("property"))
			value := js_ast.InvalidIndex
			if v := member.ChildByFieldName("value"); v != nil {
				value = p.expr(v)
			}
			class.Properties = append(class.Properties, p.add(member, &js_ast.Property{
				Kind:       js_ast.PropertyField,
				Key:        key,
				Value:      value,
				IsComputed: isComputed,
				IsStatic:   hasToken(member, "static"),
			}))

		default:
			p.unsupported(member)
		}
	}
	return class
}

func (p *parser) method(n *sitter.Node) js_ast.Index {
	key, isComputed := p.propertyKey(n.ChildByFieldName("name"))

	kind := js_ast.PropertyNormal
	isStatic := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			continue
		}
		switch child.Type() {
		case "get":
			kind = js_ast.PropertyGet
		case "set":
			kind = js_ast.PropertySet
		case "static":
			isStatic = true
		case "static get":
			isStatic = true
			kind = js_ast.PropertyGet
		}
	}

	fn := js_ast.Fn{
		Args:        p.params(n.ChildByFieldName("parameters")),
		Body:        p.block(n.ChildByFieldName("body")),
		IsAsync:     hasToken(n, "async"),
		IsGenerator: hasToken(n, "*"),
	}
	value := p.add(n, &js_ast.EFunction{Fn: fn})
	return p.add(n, &js_ast.Property{
		Kind:       kind,
		Key:        key,
		Value:      value,
		IsComputed: isComputed,
		IsMethod:   true,
		IsStatic:   isStatic,
	})
}

// Non-computed keys become strings so they never look like references
func (p *parser) propertyKey(n *sitter.Node) (js_ast.Index, bool) {
	switch n.Type() {
	case "computed_property_name":
		return p.expr(p.firstNamed(n)), true
	case "string":
		return p.add(n, &js_ast.EString{Value: p.stringValue(n)}), false
	case "number":
		return p.add(n, &js_ast.ENumber{Value: p.numberValue(n)}), false
	}
	return p.add(n, &js_ast.EString{Value: p.text(n)}), false
}

////////////////////////////////////////////////////////////////////////////////
// Bindings

func (p *parser) binding(n *sitter.Node) js_ast.Index {
	switch n.Type() {
	case "identifier", "undefined", "shorthand_property_identifier_pattern":
		return p.add(n, &js_ast.BIdentifier{Name: p.text(n)})

	case "object_pattern":
		var props []js_ast.Index
		for _, child := range p.namedChildren(n) {
			props = append(props, p.bindingProperty(child))
		}
		return p.add(n, &js_ast.BObject{Properties: props})

	case "array_pattern":
		var items []js_ast.Index
		p.eachElement(n, func(child *sitter.Node) {
			if child == nil {
				items = append(items, p.add(n, &js_ast.BMissing{}))
			} else {
				items = append(items, p.binding(child))
			}
		})
		return p.add(n, &js_ast.BArray{Items: items})

	case "assignment_pattern":
		binding := p.binding(n.ChildByFieldName("left"))
		value := p.expr(n.ChildByFieldName("right"))
		return p.add(n, &js_ast.BDefault{Binding: binding, Value: value})

	case "rest_pattern":
		return p.add(n, &js_ast.BRest{Binding: p.binding(p.firstNamed(n))})

	case "member_expression", "subscript_expression":
		// Only valid in destructuring assignments
		return p.expr(n)

	case "parenthesized_expression":
		return p.binding(unwrapParens(n))
	}

	p.unsupported(n)
	return js_ast.InvalidIndex
}

func (p *parser) bindingProperty(n *sitter.Node) js_ast.Index {
	switch n.Type() {
	case "shorthand_property_identifier_pattern":
		key := p.add(n, &js_ast.EString{Value: p.text(n)})
		return p.add(n, &js_ast.BProperty{Key: key, Value: p.binding(n)})

	case "pair_pattern":
		key, isComputed := p.propertyKey(n.ChildByFieldName("key"))
		value := p.binding(n.ChildByFieldName("value"))
		return p.add(n, &js_ast.BProperty{Key: key, Value: value, IsComputed: isComputed})

	case "object_assignment_pattern":
		left := n.ChildByFieldName("left")
		key := p.add(left, &js_ast.EString{Value: p.text(left)})
		binding := p.binding(left)
		value := p.expr(n.ChildByFieldName("right"))
		def := p.add(n, &js_ast.BDefault{Binding: binding, Value: value})
		return p.add(n, &js_ast.BProperty{Key: key, Value: def})

	case "rest_pattern":
		return p.add(n, &js_ast.BProperty{Value: p.binding(p.firstNamed(n)), IsSpread: true})
	}

	p.unsupported(n)
	return js_ast.InvalidIndex
}

// Calls "visit" for each element of an array literal or pattern and with nil
// for each hole
func (p *parser) eachElement(n *sitter.Node, visit func(*sitter.Node)) {
	afterComma := true
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch {
		case isComment(child):
		case child.Type() == ",":
			if afterComma {
				visit(nil)
			}
			afterComma = true
		case child.IsNamed():
			visit(child)
			afterComma = false
		}
	}
}

// The left side of an assignment is a pattern when it destructures and an
// ordinary expression otherwise
func (p *parser) assignTarget(n *sitter.Node) js_ast.Index {
	n = unwrapParens(n)
	switch n.Type() {
	case "object_pattern", "array_pattern":
		return p.binding(n)
	}
	return p.expr(n)
}

////////////////////////////////////////////////////////////////////////////////
// Expressions

var unaryOps = map[string]js_ast.OpCode{
	"+":      js_ast.UnOpPos,
	"-":      js_ast.UnOpNeg,
	"~":      js_ast.UnOpCpl,
	"!":      js_ast.UnOpNot,
	"void":   js_ast.UnOpVoid,
	"typeof": js_ast.UnOpTypeof,
	"delete": js_ast.UnOpDelete,
}

var binaryOps = map[string]js_ast.OpCode{}

var assignOps = map[string]js_ast.OpCode{}

func init() {
	for op := js_ast.BinOpAdd; op < js_ast.BinOpComma; op++ {
		binaryOps[js_ast.OpTable[op].Text] = op
	}
	for op := js_ast.BinOpAssign; op <= js_ast.BinOpLogicalAndAssign; op++ {
		assignOps[js_ast.OpTable[op].Text] = op
	}
}

func isOptional(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "optional_chain", "?.":
			return true
		}
	}
	return false
}

func (p *parser) exprs(nodes []*sitter.Node) []js_ast.Index {
	list := make([]js_ast.Index, 0, len(nodes))
	for _, n := range nodes {
		list = append(list, p.expr(n))
	}
	return list
}

func (p *parser) flattenSequence(n *sitter.Node, into []*sitter.Node) []*sitter.Node {
	for _, child := range p.namedChildren(n) {
		if child.Type() == "sequence_expression" {
			into = p.flattenSequence(child, into)
		} else {
			into = append(into, child)
		}
	}
	return into
}

func (p *parser) expr(n *sitter.Node) js_ast.Index {
	switch n.Type() {
	case "identifier", "undefined":
		return p.add(n, &js_ast.EIdentifier{Name: p.text(n)})

	case "this":
		return p.add(n, &js_ast.EThis{})

	case "super":
		return p.add(n, &js_ast.ESuper{})

	case "true":
		return p.add(n, &js_ast.EBoolean{Value: true})

	case "false":
		return p.add(n, &js_ast.EBoolean{Value: false})

	case "null":
		return p.add(n, &js_ast.ENull{})

	case "number":
		text := p.text(n)
		if len(text) > 0 && text[len(text)-1] == 'n' {
			return p.add(n, &js_ast.EBigInt{Value: bigIntValue(text)})
		}
		return p.add(n, &js_ast.ENumber{Value: p.numberValue(n)})

	case "string":
		return p.add(n, &js_ast.EString{Value: p.stringValue(n)})

	case "regex":
		return p.add(n, &js_ast.ERegExp{Value: p.text(n)})

	case "template_string":
		return p.template(n, js_ast.InvalidIndex)

	case "parenthesized_expression":
		return p.expr(unwrapParens(n))

	case "sequence_expression":
		return p.add(n, &js_ast.ESequence{Exprs: p.exprs(p.flattenSequence(n, nil))})

	case "array":
		var items []js_ast.Index
		p.eachElement(n, func(child *sitter.Node) {
			if child == nil {
				items = append(items, p.add(n, &js_ast.EMissing{}))
			} else {
				items = append(items, p.expr(child))
			}
		})
		return p.add(n, &js_ast.EArray{Items: items})

	case "object":
		return p.object(n)

	case "spread_element":
		return p.add(n, &js_ast.ESpread{Value: p.expr(p.firstNamed(n))})

	case "function", "function_expression", "generator_function":
		return p.add(n, &js_ast.EFunction{Fn: p.fn(n)})

	case "arrow_function":
		return p.arrow(n)

	case "class":
		return p.add(n, &js_ast.EClass{Class: p.class(n)})

	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if fn := n.ChildByFieldName("function"); fn.Type() == "import" {
			return p.importCall(n, args)
		}
		target := p.expr(n.ChildByFieldName("function"))
		if args.Type() == "template_string" {
			return p.template(args, target)
		}
		return p.add(n, &js_ast.ECall{Target: target, Args: p.exprs(p.namedChildren(args)), IsOptional: isOptional(n)})

	case "new_expression":
		target := p.expr(n.ChildByFieldName("constructor"))
		var args []js_ast.Index
		if a := n.ChildByFieldName("arguments"); a != nil {
			args = p.exprs(p.namedChildren(a))
		}
		return p.add(n, &js_ast.ENew{Target: target, Args: args})

	case "meta_property":
		return p.metaProperty(n)

	case "member_expression":
		if object := n.ChildByFieldName("object"); object.Type() == "import" {
			return p.metaProperty(n)
		}
		target := p.expr(n.ChildByFieldName("object"))
		name := p.text(n.ChildByFieldName("property"))
		return p.add(n, &js_ast.EDot{Target: target, Name: name, IsOptional: isOptional(n)})

	case "subscript_expression":
		target := p.expr(n.ChildByFieldName("object"))
		index := p.expr(n.ChildByFieldName("index"))
		return p.add(n, &js_ast.EIndex{Target: target, Index: index, IsOptional: isOptional(n)})

	case "assignment_expression":
		left := p.assignTarget(n.ChildByFieldName("left"))
		right := p.expr(n.ChildByFieldName("right"))
		return p.add(n, &js_ast.EBinary{Op: js_ast.BinOpAssign, Left: left, Right: right})

	case "augmented_assignment_expression":
		op, ok := assignOps[p.text(n.ChildByFieldName("operator"))]
		if !ok {
			p.unsupported(n)
		}
		left := p.assignTarget(n.ChildByFieldName("left"))
		right := p.expr(n.ChildByFieldName("right"))
		return p.add(n, &js_ast.EBinary{Op: op, Left: left, Right: right})

	case "binary_expression":
		op, ok := binaryOps[p.text(n.ChildByFieldName("operator"))]
		if !ok {
			p.unsupported(n)
		}
		left := p.expr(n.ChildByFieldName("left"))
		right := p.expr(n.ChildByFieldName("right"))
		return p.add(n, &js_ast.EBinary{Op: op, Left: left, Right: right})

	case "unary_expression":
		op, ok := unaryOps[p.text(n.ChildByFieldName("operator"))]
		if !ok {
			p.unsupported(n)
		}
		return p.add(n, &js_ast.EUnary{Op: op, Value: p.expr(n.ChildByFieldName("argument"))})

	case "update_expression":
		isPrefix := n.Child(0).Type() == "++" || n.Child(0).Type() == "--"
		isInc := p.text(n.ChildByFieldName("operator")) == "++"
		var op js_ast.OpCode
		switch {
		case isPrefix && isInc:
			op = js_ast.UnOpPreInc
		case isPrefix:
			op = js_ast.UnOpPreDec
		case isInc:
			op = js_ast.UnOpPostInc
		default:
			op = js_ast.UnOpPostDec
		}
		return p.add(n, &js_ast.EUnary{Op: op, Value: p.assignTarget(n.ChildByFieldName("argument"))})

	case "ternary_expression":
		test := p.expr(n.ChildByFieldName("condition"))
		yes := p.expr(n.ChildByFieldName("consequence"))
		no := p.expr(n.ChildByFieldName("alternative"))
		return p.add(n, &js_ast.EIf{Test: test, Yes: yes, No: no})

	case "await_expression":
		return p.add(n, &js_ast.EAwait{Value: p.expr(p.firstNamed(n))})

	case "yield_expression":
		value := js_ast.InvalidIndex
		if child := p.firstNamed(n); child != nil {
			value = p.expr(child)
		}
		return p.add(n, &js_ast.EYield{Value: value, IsStar: hasToken(n, "*")})
	}

	p.unsupported(n)
	return js_ast.InvalidIndex
}

// "import(path)" and "import(path, options)"
func (p *parser) importCall(n *sitter.Node, args *sitter.Node) js_ast.Index {
	list := p.namedChildren(args)
	if len(list) == 0 || len(list) > 2 {
		p.fail(n, "Expected one or two arguments to import()")
	}
	call := &js_ast.EImportCall{Expr: p.expr(list[0]), Options: js_ast.InvalidIndex}
	if len(list) == 2 {
		call.Options = p.expr(list[1])
	}
	return p.add(n, call)
}

// "new.target" and "import.meta"
func (p *parser) metaProperty(n *sitter.Node) js_ast.Index {
	switch strings.Join(strings.Fields(p.text(n)), "") {
	case "new.target":
		return p.add(n, &js_ast.ENewTarget{})
	case "import.meta":
		return p.add(n, &js_ast.EImportMeta{})
	}
	p.unsupported(n)
	return js_ast.InvalidIndex
}

func (p *parser) arrow(n *sitter.Node) js_ast.Index {
	var args []js_ast.Index
	if param := n.ChildByFieldName("parameter"); param != nil {
		args = []js_ast.Index{p.binding(param)}
	} else {
		args = p.params(n.ChildByFieldName("parameters"))
	}

	arrow := &js_ast.EArrow{Args: args, IsAsync: hasToken(n, "async")}
	body := n.ChildByFieldName("body")
	if body.Type() == "statement_block" {
		arrow.Body = p.block(body)
	} else {
		arrow.Expr = p.expr(body)
	}
	return p.add(n, arrow)
}

func (p *parser) object(n *sitter.Node) js_ast.Index {
	var props []js_ast.Index
	for _, child := range p.namedChildren(n) {
		switch child.Type() {
		case "pair":
			key, isComputed := p.propertyKey(child.ChildByFieldName("key"))
			value := p.expr(child.ChildByFieldName("value"))
			props = append(props, p.add(child, &js_ast.Property{Key: key, Value: value, IsComputed: isComputed}))

		case "shorthand_property_identifier":
			name := p.text(child)
			key := p.add(child, &js_ast.EString{Value: name})
			value := p.add(child, &js_ast.EIdentifier{Name: name})
			props = append(props, p.add(child, &js_ast.Property{Key: key, Value: value, WasShorthand: true}))

		case "spread_element":
			value := p.expr(p.firstNamed(child))
			props = append(props, p.add(child, &js_ast.Property{Kind: js_ast.PropertySpread, Value: value}))

		case "method_definition":
			props = append(props, p.method(child))

		default:
			p.unsupported(child)
		}
	}
	return p.add(n, &js_ast.EObject{Properties: props})
}

// Template text is kept raw so escapes survive printing unchanged
func (p *parser) template(n *sitter.Node, tag js_ast.Index) js_ast.Index {
	start := n.StartByte() + 1
	end := n.EndByte() - 1
	template := &js_ast.ETemplate{Tag: tag}

	first := true
	prev := start
	for _, child := range p.namedChildren(n) {
		if child.Type() != "template_substitution" {
			continue
		}
		raw := string(p.contents[prev:child.StartByte()])
		if first {
			template.Head = raw
			first = false
		} else {
			template.Parts[len(template.Parts)-1].Tail = raw
		}
		template.Parts = append(template.Parts, js_ast.TemplatePart{Value: p.expr(p.firstNamed(child))})
		prev = child.EndByte()
	}

	raw := string(p.contents[prev:end])
	if first {
		template.Head = raw
	} else {
		template.Parts[len(template.Parts)-1].Tail = raw
	}
	return p.add(n, template)
}
