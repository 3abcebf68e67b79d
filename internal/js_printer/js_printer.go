package js_printer

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/hoistjs/hoist/internal/helpers"
	"github.com/hoistjs/hoist/internal/js_ast"
)

type Options struct {
	ASCIIOnly bool
	Indent    int
}

type PrintResult struct {
	JS []byte
}

type printer struct {
	ast     *js_ast.AST
	options Options
	js      []byte

	stmtStart      int
	arrowExprStart int
	prevOp         js_ast.OpCode
	prevOpEnd      int
	prevNumEnd     int

	// Set after a label so the labeled statement stays on the same line
	printNextIndentAsSpace bool
}

type printExprFlags uint8

const (
	forbidCall printExprFlags = 1 << iota
	forbidIn
)

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

// This is the same as "print(string(bytes))" without any unnecessary temporary
// allocations
func (p *printer) printBytes(bytes []byte) {
	p.js = append(p.js, bytes...)
}

func (p *printer) printIndent() {
	if p.printNextIndentAsSpace {
		p.print(" ")
		p.printNextIndentAsSpace = false
		return
	}
	for i := 0; i < p.options.Indent; i++ {
		p.print("  ")
	}
}

func (p *printer) printNewline() {
	p.print("\n")
}

func (p *printer) printSemicolonAfterStatement() {
	p.print(";\n")
}

func (p *printer) printSpaceBeforeIdentifier() {
	n := len(p.js)
	if n > 0 && (js_ast.IsIdentifierContinue(rune(p.js[n-1])) || n == p.prevNumEnd) {
		p.print(" ")
	}
}

func (p *printer) printSpaceBeforeOperator(next js_ast.OpCode) {
	if p.prevOpEnd == len(p.js) {
		prev := p.prevOp

		// "+ + y" => "+ +y"
		// "x ++ + y" => "x+++y"
		if ((prev == js_ast.BinOpAdd || prev == js_ast.UnOpPos) && (next == js_ast.BinOpAdd || next == js_ast.UnOpPos || next == js_ast.UnOpPreInc)) ||
			((prev == js_ast.BinOpSub || prev == js_ast.UnOpNeg) && (next == js_ast.BinOpSub || next == js_ast.UnOpNeg || next == js_ast.UnOpPreDec)) {
			p.print(" ")
		}
	}
}

func (p *printer) printQuoted(text string) {
	p.printBytes(helpers.QuoteForJS(text, p.options.ASCIIOnly))
}

func (p *printer) printIdentifier(name string) {
	p.printSpaceBeforeIdentifier()
	p.print(name)
}

// Object keys and clause aliases may be any identifier name, including
// reserved words
func isIdentifierName(text string) bool {
	return js_ast.IsIdentifier(text) || (js_ast.ReservedWords[text] && text != "")
}

func (p *printer) printClauseAlias(alias string) {
	if isIdentifierName(alias) {
		p.printIdentifier(alias)
	} else {
		p.printQuoted(alias)
	}
}

func (p *printer) atStmtStart() bool {
	return len(p.js) == p.stmtStart || len(p.js) == p.arrowExprStart
}

func (p *printer) printNumber(value float64, level js_ast.L) {
	absValue := math.Abs(value)

	switch {
	case value != value:
		p.printSpaceBeforeIdentifier()
		p.print("NaN")
	case math.IsInf(value, 0):
		if value < 0 {
			p.printSpaceBeforeOperator(js_ast.UnOpNeg)
			p.print("-")
		} else {
			p.printSpaceBeforeIdentifier()
		}
		p.print("Infinity")
	case math.Signbit(value):
		if level >= js_ast.LPrefix {
			p.print("(-")
			p.printNonNegativeFloat(absValue)
			p.print(")")
		} else {
			p.printSpaceBeforeOperator(js_ast.UnOpNeg)
			p.print("-")
			p.printNonNegativeFloat(absValue)
			p.prevNumEnd = len(p.js)
		}
	default:
		p.printSpaceBeforeIdentifier()
		p.printNonNegativeFloat(absValue)

		// Remember the end of the latest number
		p.prevNumEnd = len(p.js)
	}
}

func (p *printer) printNonNegativeFloat(absValue float64) {
	if absValue < 1e21 && absValue == math.Trunc(absValue) {
		p.print(strconv.FormatFloat(absValue, 'f', -1, 64))
		return
	}

	result := []byte(strconv.FormatFloat(absValue, 'g', -1, 64))

	// "e+05" => "e5"
	if e := bytes.LastIndexByte(result, 'e'); e != -1 {
		exponent := string(result[e+1:])
		sign := ""
		if exponent[0] == '-' || exponent[0] == '+' {
			if exponent[0] == '-' {
				sign = "-"
			}
			exponent = exponent[1:]
		}
		for len(exponent) > 1 && exponent[0] == '0' {
			exponent = exponent[1:]
		}
		result = append(result[:e+1], sign+exponent...)
	}
	p.printBytes(result)
}

func (p *printer) printBinding(i js_ast.Index) {
	switch b := p.ast.Data(i).(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.printIdentifier(b.Name)

	case *js_ast.BArray:
		p.print("[")
		for k, item := range b.Items {
			if k != 0 {
				p.print(", ")
			}
			p.printBinding(item)
			if _, ok := p.ast.Data(item).(*js_ast.BMissing); ok && k == len(b.Items)-1 {
				// "[a, , ]" needs the trailing comma to keep the hole
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.BObject:
		if len(b.Properties) == 0 {
			p.print("{}")
			return
		}
		p.print("{ ")
		for k, prop := range b.Properties {
			if k != 0 {
				p.print(", ")
			}
			p.printBindingProperty(prop)
		}
		p.print(" }")

	case *js_ast.BDefault:
		p.printBinding(b.Binding)
		p.print(" = ")
		p.printExpr(b.Value, js_ast.LComma, 0)

	case *js_ast.BRest:
		p.print("...")
		p.printBinding(b.Binding)

	default:
		// Assignment targets may also be ordinary expressions like "a.b"
		p.printExpr(i, js_ast.LComma, 0)
	}
}

func (p *printer) printBindingProperty(i js_ast.Index) {
	prop := p.ast.Data(i).(*js_ast.BProperty)
	if prop.IsSpread {
		p.print("...")
		p.printBinding(prop.Value)
		return
	}

	if !prop.IsComputed {
		if key, ok := p.ast.Data(prop.Key).(*js_ast.EString); ok {
			// Print "{ a }" and "{ a = 1 }" in shorthand form
			value := prop.Value
			if def, ok := p.ast.Data(value).(*js_ast.BDefault); ok {
				value = def.Binding
			}
			if id, ok := p.ast.Data(value).(*js_ast.BIdentifier); ok && id.Name == key.Value {
				p.printBinding(prop.Value)
				return
			}
		}
	}

	p.printPropertyKey(prop.Key, prop.IsComputed)
	p.print(": ")
	p.printBinding(prop.Value)
}

func (p *printer) printPropertyKey(key js_ast.Index, isComputed bool) {
	if isComputed {
		p.print("[")
		p.printExpr(key, js_ast.LComma, 0)
		p.print("]")
		return
	}
	if str, ok := p.ast.Data(key).(*js_ast.EString); ok && (isIdentifierName(str.Value) || strings.HasPrefix(str.Value, "#")) {
		p.printIdentifier(str.Value)
		return
	}
	p.printExpr(key, js_ast.LLowest, 0)
}

func (p *printer) printFnArgs(args []js_ast.Index) {
	p.print("(")
	for k, arg := range args {
		if k != 0 {
			p.print(", ")
		}
		p.printBinding(arg)
	}
	p.print(")")
}

func (p *printer) printFn(fn *js_ast.Fn) {
	if fn.IsAsync {
		p.printSpaceBeforeIdentifier()
		p.print("async ")
	}
	p.printSpaceBeforeIdentifier()
	p.print("function")
	if fn.IsGenerator {
		p.print("*")
	}
	if fn.Name != js_ast.InvalidIndex {
		p.print(" ")
		p.printBinding(fn.Name)
	}
	p.printFnArgs(fn.Args)
	p.print(" ")
	p.printBlock(fn.Body)
}

func (p *printer) printClass(class *js_ast.Class) {
	p.printSpaceBeforeIdentifier()
	p.print("class")
	if class.Name != js_ast.InvalidIndex {
		p.print(" ")
		p.printBinding(class.Name)
	}
	if class.Extends != js_ast.InvalidIndex {
		p.print(" extends ")
		p.printExpr(class.Extends, js_ast.LNew-1, 0)
	}
	p.print(" {")
	if len(class.Properties) == 0 {
		p.print("}")
		return
	}
	p.printNewline()
	p.options.Indent++
	for _, item := range class.Properties {
		p.printIndent()
		p.printProperty(item)
		if prop := p.ast.Data(item).(*js_ast.Property); !prop.IsMethod && prop.Kind != js_ast.PropertyGet && prop.Kind != js_ast.PropertySet {
			p.printSemicolonAfterStatement()
		} else {
			p.printNewline()
		}
	}
	p.options.Indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printProperty(i js_ast.Index) {
	item := p.ast.Data(i).(*js_ast.Property)
	if item.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(item.Value, js_ast.LComma, 0)
		return
	}

	if item.IsStatic {
		p.print("static ")
	}

	switch item.Kind {
	case js_ast.PropertyGet:
		p.print("get ")
	case js_ast.PropertySet:
		p.print("set ")
	}

	if item.IsMethod {
		if fn, ok := p.ast.Data(item.Value).(*js_ast.EFunction); ok {
			if fn.Fn.IsAsync {
				p.print("async ")
			}
			if fn.Fn.IsGenerator {
				p.print("*")
			}
			p.printPropertyKey(item.Key, item.IsComputed)
			p.printFnArgs(fn.Fn.Args)
			p.print(" ")
			p.printBlock(fn.Fn.Body)
			return
		}
	}

	if item.WasShorthand && !item.IsComputed {
		if key, ok := p.ast.Data(item.Key).(*js_ast.EString); ok {
			if id, ok := p.ast.Data(item.Value).(*js_ast.EIdentifier); ok && id.Name == key.Value {
				p.printIdentifier(id.Name)
				return
			}
		}
	}

	p.printPropertyKey(item.Key, item.IsComputed)
	if item.Value == js_ast.InvalidIndex {
		return
	}
	if item.Kind == js_ast.PropertyField {
		p.print(" = ")
	} else {
		p.print(": ")
	}
	p.printExpr(item.Value, js_ast.LComma, 0)
}

func (p *printer) printArgs(args []js_ast.Index) {
	p.print("(")
	for k, arg := range args {
		if k != 0 {
			p.print(", ")
		}
		p.printExpr(arg, js_ast.LComma, 0)
	}
	p.print(")")
}

func (p *printer) printExpr(i js_ast.Index, level js_ast.L, flags printExprFlags) {
	switch e := p.ast.Data(i).(type) {
	case *js_ast.EMissing:

	case *js_ast.EUndefined:
		if level >= js_ast.LPrefix {
			p.print("(void 0)")
		} else {
			p.printSpaceBeforeIdentifier()
			p.print("void 0")
		}

	case *js_ast.ESuper:
		p.printIdentifier("super")

	case *js_ast.ENull:
		p.printIdentifier("null")

	case *js_ast.EThis:
		p.printIdentifier("this")

	case *js_ast.ENewTarget:
		p.printIdentifier("new.target")

	case *js_ast.EImportMeta:
		p.printIdentifier("import.meta")

	case *js_ast.EBoolean:
		if e.Value {
			p.printIdentifier("true")
		} else {
			p.printIdentifier("false")
		}

	case *js_ast.EIdentifier:
		p.printIdentifier(e.Name)

	case *js_ast.EString:
		p.printQuoted(e.Value)

	case *js_ast.ENumber:
		p.printNumber(e.Value, level)

	case *js_ast.EBigInt:
		p.printSpaceBeforeIdentifier()
		p.print(e.Value)
		p.print("n")

	case *js_ast.ERegExp:
		n := len(p.js)
		if n > 0 && p.js[n-1] == '/' {
			p.print(" ")
		}
		p.print(e.Value)

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.LComma, 0)

	case *js_ast.EArray:
		p.print("[")
		for k, item := range e.Items {
			if k != 0 {
				p.print(", ")
			}
			p.printExpr(item, js_ast.LComma, 0)
			if _, ok := p.ast.Data(item).(*js_ast.EMissing); ok && k == len(e.Items)-1 {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.EObject:
		wrap := p.atStmtStart()
		if wrap {
			p.print("(")
		}
		if len(e.Properties) == 0 {
			p.print("{}")
		} else {
			p.print("{ ")
			for k, prop := range e.Properties {
				if k != 0 {
					p.print(", ")
				}
				p.printProperty(prop)
			}
			p.print(" }")
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.BObject, *js_ast.BArray:
		p.printBinding(i)

	case *js_ast.ENew:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.printIdentifier("new")
		p.print(" ")
		p.printExpr(e.Target, js_ast.LNew, forbidCall)
		p.printArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *js_ast.ECall:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Target, js_ast.LPostfix, 0)
		if e.IsOptional {
			p.print("?.")
		}
		p.printArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *js_ast.EImportCall:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0
		if wrap {
			p.print("(")
		}
		p.printIdentifier("import")
		p.print("(")
		p.printExpr(e.Expr, js_ast.LComma, 0)
		if e.Options != js_ast.InvalidIndex {
			p.print(", ")
			p.printExpr(e.Options, js_ast.LComma, 0)
		}
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.EDot:
		if _, ok := p.ast.Data(e.Target).(*js_ast.ENumber); ok {
			p.print("(")
			p.printExpr(e.Target, js_ast.LLowest, 0)
			p.print(")")
		} else {
			p.printExpr(e.Target, js_ast.LPostfix, flags&forbidCall)
		}
		if e.IsOptional {
			p.print("?.")
		} else {
			p.print(".")
		}
		p.print(e.Name)

	case *js_ast.EIndex:
		p.printExpr(e.Target, js_ast.LPostfix, flags&forbidCall)
		if e.IsOptional {
			p.print("?.")
		}
		p.print("[")
		p.printExpr(e.Index, js_ast.LLowest, 0)
		p.print("]")

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.print("(")
			flags &= ^forbidIn
		}
		p.printExpr(e.Test, js_ast.LConditional, flags&forbidIn)
		p.print(" ? ")
		p.printExpr(e.Yes, js_ast.LYield, 0)
		p.print(" : ")
		p.printExpr(e.No, js_ast.LYield, flags&forbidIn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		if e.IsAsync {
			p.printIdentifier("async")
			p.print(" ")
		}
		p.printFnArgs(e.Args)
		p.print(" => ")
		if e.Expr != js_ast.InvalidIndex {
			p.arrowExprStart = len(p.js)
			p.printExpr(e.Expr, js_ast.LComma, flags&forbidIn)
		} else {
			p.printBlock(e.Body)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EFunction:
		wrap := p.atStmtStart()
		if wrap {
			p.print("(")
		}
		p.printFn(&e.Fn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EClass:
		wrap := p.atStmtStart()
		if wrap {
			p.print("(")
		}
		p.printClass(&e.Class)
		if wrap {
			p.print(")")
		}

	case *js_ast.ETemplate:
		if e.Tag != js_ast.InvalidIndex {
			p.printExpr(e.Tag, js_ast.LPostfix, 0)
		}
		p.print("`")
		p.print(e.Head)
		for _, part := range e.Parts {
			p.print("${")
			p.printExpr(part.Value, js_ast.LLowest, 0)
			p.print("}")
			p.print(part.Tail)
		}
		p.print("`")

	case *js_ast.EAwait:
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.printIdentifier("await")
		p.print(" ")
		p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		if wrap {
			p.print(")")
		}

	case *js_ast.EYield:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		p.printIdentifier("yield")
		if e.IsStar {
			p.print("*")
		}
		if e.Value != js_ast.InvalidIndex {
			p.print(" ")
			p.printExpr(e.Value, js_ast.LYield, 0)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.ESequence:
		wrap := level >= js_ast.LComma
		if wrap {
			p.print("(")
			flags &= ^forbidIn
		}
		for k, item := range e.Exprs {
			if k != 0 {
				p.print(", ")
			}
			p.printExpr(item, js_ast.LComma, flags&forbidIn)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EUnary:
		entry := js_ast.OpTable[e.Op]
		wrap := level >= entry.Level
		if wrap {
			p.print("(")
		}
		if !e.Op.IsPrefix() {
			p.printExpr(e.Value, js_ast.LPostfix-1, 0)
		}
		if entry.IsKeyword {
			p.printIdentifier(entry.Text)
			p.print(" ")
		} else {
			p.printSpaceBeforeOperator(e.Op)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}
		if e.Op.IsPrefix() {
			p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EBinary:
		p.printBinary(i, e, level, flags)

	default:
		panic("Internal error")
	}
}

func (p *printer) isObjectPattern(i js_ast.Index) bool {
	switch p.ast.Data(i).(type) {
	case *js_ast.BObject, *js_ast.EObject:
		return true
	}
	return false
}

func (p *printer) printBinary(i js_ast.Index, e *js_ast.EBinary, level js_ast.L, flags printExprFlags) {
	entry := js_ast.OpTable[e.Op]
	isAssign := js_ast.IsAssignOp(e.Op)
	wrap := level >= entry.Level || (e.Op == js_ast.BinOpIn && (flags&forbidIn) != 0)

	// "({ a } = b)" must not start a statement with a brace
	if isAssign && p.isObjectPattern(e.Left) && p.atStmtStart() {
		wrap = true
	}

	if wrap {
		p.print("(")
		flags &= ^forbidIn
	}

	leftLevel := entry.Level - 1
	rightLevel := entry.Level - 1
	if e.Op.IsRightAssociative() {
		leftLevel = entry.Level
	}
	if e.Op.IsLeftAssociative() {
		rightLevel = entry.Level
	}

	switch e.Op {
	case js_ast.BinOpPow:
		// "(-a) ** b" is the only legal way to write this
		if _, ok := p.ast.Data(e.Left).(*js_ast.EUnary); ok {
			leftLevel = js_ast.LPrefix
		}

	case js_ast.BinOpNullishCoalescing:
		// "??" cannot be mixed with "||" or "&&" without parentheses
		if left, ok := p.ast.Data(e.Left).(*js_ast.EBinary); ok && (left.Op == js_ast.BinOpLogicalOr || left.Op == js_ast.BinOpLogicalAnd) {
			leftLevel = js_ast.LPrefix
		}
		if right, ok := p.ast.Data(e.Right).(*js_ast.EBinary); ok && (right.Op == js_ast.BinOpLogicalOr || right.Op == js_ast.BinOpLogicalAnd) {
			rightLevel = js_ast.LPrefix
		}
	}

	if isAssign && js_ast.IsBinding(p.ast.Data(e.Left)) {
		p.printBinding(e.Left)
	} else {
		p.printExpr(e.Left, leftLevel, flags&forbidIn)
	}

	if entry.IsKeyword {
		p.print(" ")
		p.print(entry.Text)
		p.print(" ")
	} else {
		p.print(" ")
		p.printSpaceBeforeOperator(e.Op)
		p.print(entry.Text)
		p.prevOp = e.Op
		p.prevOpEnd = len(p.js)
		p.print(" ")
	}

	p.printExpr(e.Right, rightLevel, flags&forbidIn)

	if wrap {
		p.print(")")
	}
}

func (p *printer) printBlock(stmts []js_ast.Index) {
	p.print("{")
	if len(stmts) == 0 {
		p.print("}")
		return
	}
	p.printNewline()
	p.options.Indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.options.Indent--
	p.printIndent()
	p.print("}")
}

// Prints the body of an "if", a loop or a label
func (p *printer) printBody(body js_ast.Index) {
	if block, ok := p.ast.Data(body).(*js_ast.SBlock); ok {
		p.print(" ")
		p.printBlock(block.Stmts)
		p.printNewline()
	} else {
		p.printNewline()
		p.options.Indent++
		p.printStmt(body)
		p.options.Indent--
	}
}

func (p *printer) printDecls(keyword string, decls []js_ast.Index, flags printExprFlags) {
	p.print(keyword)
	for k, decl := range decls {
		if k != 0 {
			p.print(",")
		}
		p.print(" ")
		d := p.ast.Data(decl).(*js_ast.Decl)
		p.printBinding(d.Binding)
		if d.Value != js_ast.InvalidIndex {
			p.print(" = ")
			p.printExpr(d.Value, js_ast.LComma, flags)
		}
	}
}

func (p *printer) printForLoopInit(init js_ast.Index) {
	switch s := p.ast.Data(init).(type) {
	case *js_ast.SLocal:
		p.printDecls(s.Kind.String(), s.Decls, forbidIn)
	case *js_ast.SExpr:
		p.printExpr(s.Value, js_ast.LLowest, forbidIn)
	case *js_ast.SEmpty, nil:
	default:
		if js_ast.IsBinding(p.ast.Data(init)) {
			p.printBinding(init)
		} else {
			p.printExpr(init, js_ast.LLowest, forbidIn)
		}
	}
}

func (p *printer) printIf(s *js_ast.SIf) {
	p.print("if (")
	p.printExpr(s.Test, js_ast.LLowest, 0)
	p.print(")")

	yes, isBlock := p.ast.Data(s.Yes).(*js_ast.SBlock)
	if isBlock {
		p.print(" ")
		p.printBlock(yes.Stmts)
		if s.No != js_ast.InvalidIndex {
			p.print(" ")
		} else {
			p.printNewline()
		}
	} else if inner, ok := p.ast.Data(s.Yes).(*js_ast.SIf); ok && inner.No == js_ast.InvalidIndex && s.No != js_ast.InvalidIndex {
		// Wrap the inner "if" so the "else" stays attached to this one
		p.print(" {")
		p.printNewline()
		p.options.Indent++
		p.printStmt(s.Yes)
		p.options.Indent--
		p.printIndent()
		p.print("} ")
	} else {
		p.printNewline()
		p.options.Indent++
		p.printStmt(s.Yes)
		p.options.Indent--
		if s.No != js_ast.InvalidIndex {
			p.printIndent()
		}
	}

	if s.No != js_ast.InvalidIndex {
		p.print("else")
		switch no := p.ast.Data(s.No).(type) {
		case *js_ast.SBlock:
			p.print(" ")
			p.printBlock(no.Stmts)
			p.printNewline()
		case *js_ast.SIf:
			p.print(" ")
			p.printIf(no)
		default:
			p.printNewline()
			p.options.Indent++
			p.printStmt(s.No)
			p.options.Indent--
		}
	}
}

func (p *printer) printImportItems(items []js_ast.Index) {
	first := true
	var named []*js_ast.ImportItem
	for _, i := range items {
		item := p.ast.Data(i).(*js_ast.ImportItem)
		switch item.Kind {
		case js_ast.ImportDefault:
			if !first {
				p.print(", ")
			}
			p.printBinding(item.Binding)
			first = false
		case js_ast.ImportNamespace:
			if !first {
				p.print(", ")
			}
			p.print("* as ")
			p.printBinding(item.Binding)
			first = false
		default:
			named = append(named, item)
		}
	}
	if len(named) > 0 {
		if !first {
			p.print(", ")
		}
		p.print("{ ")
		for k, item := range named {
			if k != 0 {
				p.print(", ")
			}
			name := p.ast.Data(item.Binding).(*js_ast.BIdentifier).Name
			if item.Alias != name {
				p.printClauseAlias(item.Alias)
				p.print(" as ")
			}
			p.printBinding(item.Binding)
		}
		p.print(" }")
	}
}

func (p *printer) printClause(items []js_ast.Index) {
	if len(items) == 0 {
		p.print("{}")
		return
	}
	p.print("{ ")
	for k, i := range items {
		if k != 0 {
			p.print(", ")
		}
		item := p.ast.Data(i).(*js_ast.ClauseItem)
		name := item.OriginalName
		if item.Name != js_ast.InvalidIndex {
			name = p.ast.Data(item.Name).(*js_ast.EIdentifier).Name
		}
		if item.Name != js_ast.InvalidIndex {
			p.printIdentifier(name)
		} else {
			p.printClauseAlias(name)
		}
		if item.Alias != name {
			p.print(" as ")
			p.printClauseAlias(item.Alias)
		}
	}
	p.print(" }")
}

func (p *printer) printStmt(i js_ast.Index) {
	switch s := p.ast.Data(i).(type) {
	case *js_ast.SEmpty:
		p.printIndent()
		p.printSemicolonAfterStatement()

	case *js_ast.SBlock:
		p.printIndent()
		p.printBlock(s.Stmts)
		p.printNewline()

	case *js_ast.SExpr:
		p.printIndent()
		p.stmtStart = len(p.js)
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	case *js_ast.SLocal:
		p.printIndent()
		if s.IsExport {
			p.print("export ")
		}
		p.printDecls(s.Kind.String(), s.Decls, 0)
		p.printSemicolonAfterStatement()

	case *js_ast.SFunction:
		p.printIndent()
		if s.IsExport {
			p.print("export ")
		}
		p.printFn(&s.Fn)
		p.printNewline()

	case *js_ast.SClass:
		p.printIndent()
		if s.IsExport {
			p.print("export ")
		}
		p.printClass(&s.Class)
		p.printNewline()

	case *js_ast.SReturn:
		p.printIndent()
		p.print("return")
		if s.Value != js_ast.InvalidIndex {
			p.print(" ")
			p.printExpr(s.Value, js_ast.LLowest, 0)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SThrow:
		p.printIndent()
		p.print("throw ")
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	case *js_ast.SIf:
		p.printIndent()
		p.printIf(s)

	case *js_ast.SFor:
		p.printIndent()
		p.print("for (")
		p.printForLoopInit(s.Init)
		p.print(";")
		if s.Test != js_ast.InvalidIndex {
			p.print(" ")
			p.printExpr(s.Test, js_ast.LLowest, 0)
		}
		p.print(";")
		if s.Update != js_ast.InvalidIndex {
			p.print(" ")
			p.printExpr(s.Update, js_ast.LLowest, 0)
		}
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SForIn:
		p.printIndent()
		p.print("for ")
		if s.IsAwait {
			p.print("await ")
		}
		p.print("(")
		p.printForLoopInit(s.Init)
		if s.IsOf {
			p.print(" of ")
		} else {
			p.print(" in ")
		}
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SWhile:
		p.printIndent()
		p.print("while (")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SDoWhile:
		p.printIndent()
		p.print("do")
		if block, ok := p.ast.Data(s.Body).(*js_ast.SBlock); ok {
			p.print(" ")
			p.printBlock(block.Stmts)
			p.print(" ")
		} else {
			p.printNewline()
			p.options.Indent++
			p.printStmt(s.Body)
			p.options.Indent--
			p.printIndent()
		}
		p.print("while (")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(")")
		p.printSemicolonAfterStatement()

	case *js_ast.STry:
		p.printIndent()
		p.print("try ")
		p.printBlock(p.ast.Data(s.Body).(*js_ast.SBlock).Stmts)
		if s.Catch != js_ast.InvalidIndex {
			p.print(" catch")
			if s.CatchParam != js_ast.InvalidIndex {
				p.print(" (")
				p.printBinding(s.CatchParam)
				p.print(")")
			}
			p.print(" ")
			p.printBlock(p.ast.Data(s.Catch).(*js_ast.SBlock).Stmts)
		}
		if s.Finally != js_ast.InvalidIndex {
			p.print(" finally ")
			p.printBlock(p.ast.Data(s.Finally).(*js_ast.SBlock).Stmts)
		}
		p.printNewline()

	case *js_ast.SSwitch:
		p.printIndent()
		p.print("switch (")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(") {")
		p.printNewline()
		p.options.Indent++
		for _, c := range s.Cases {
			p.printIndent()
			c := p.ast.Data(c).(*js_ast.Case)
			if c.Test != js_ast.InvalidIndex {
				p.print("case ")
				p.printExpr(c.Test, js_ast.LLowest, 0)
				p.print(":")
			} else {
				p.print("default:")
			}
			p.printNewline()
			p.options.Indent++
			for _, stmt := range c.Body {
				p.printStmt(stmt)
			}
			p.options.Indent--
		}
		p.options.Indent--
		p.printIndent()
		p.print("}")
		p.printNewline()

	case *js_ast.SLabel:
		p.printIndent()
		p.print(s.Name)
		p.print(":")
		p.printNextIndentAsSpace = true
		p.printStmt(s.Stmt)

	case *js_ast.SWith:
		p.printIndent()
		p.print("with (")
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SDebugger:
		p.printIndent()
		p.print("debugger")
		p.printSemicolonAfterStatement()

	case *js_ast.SBreak:
		p.printIndent()
		p.print("break")
		if s.Label != "" {
			p.print(" " + s.Label)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SContinue:
		p.printIndent()
		p.print("continue")
		if s.Label != "" {
			p.print(" " + s.Label)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SImport:
		p.printIndent()
		p.print("import ")
		if len(s.Items) > 0 {
			p.printImportItems(s.Items)
			p.print(" from ")
		}
		p.printQuoted(s.Source)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportClause:
		p.printIndent()
		p.print("export ")
		p.printClause(s.Items)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportFrom:
		p.printIndent()
		p.print("export ")
		p.printClause(s.Items)
		p.print(" from ")
		p.printQuoted(s.Source)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportStar:
		p.printIndent()
		p.print("export *")
		if s.Alias != "" {
			p.print(" as ")
			p.printClauseAlias(s.Alias)
		}
		p.print(" from ")
		p.printQuoted(s.Source)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportDefault:
		p.printIndent()
		p.print("export default ")
		switch value := p.ast.Data(s.Value).(type) {
		case *js_ast.SFunction:
			p.printFn(&value.Fn)
			p.printNewline()
		case *js_ast.SClass:
			p.printClass(&value.Class)
			p.printNewline()
		default:
			p.printExpr(s.Value, js_ast.LComma, 0)
			p.printSemicolonAfterStatement()
		}

	default:
		panic("Internal error")
	}
}

func Print(tree *js_ast.AST, options Options) PrintResult {
	p := &printer{
		ast:            tree,
		options:        options,
		stmtStart:      -1,
		arrowExprStart: -1,
		prevOpEnd:      -1,
		prevNumEnd:     -1,
	}

	for _, stmt := range tree.Stmts {
		p.printStmt(stmt)
	}

	return PrintResult{JS: p.js}
}
