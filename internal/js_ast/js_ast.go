package js_ast

import (
	"github.com/hoistjs/hoist/internal/logger"
)

// A merged bundle program is stored as one flat arena of nodes. Children are
// addressed by Index into that arena and every node remembers its parent, so
// the linker can walk up from an identifier to its enclosing statement and
// splice statements in and out without copying the tree.
//
// Index 0 is never a real node. It marks an absent child (an omitted
// initializer, a missing "else" branch) and it is also the parent of every
// top-level statement.

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) UnaryAssignTarget() AssignTarget {
	if op >= UnOpPreDec && op <= UnOpPostInc {
		return AssignTargetUpdate
	}
	return AssignTargetNone
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

func (op OpCode) BinaryAssignTarget() AssignTarget {
	if op == BinOpAssign {
		return AssignTargetReplace
	}
	if op > BinOpAssign {
		return AssignTargetUpdate
	}
	return AssignTargetNone
}

type AssignTarget uint8

const (
	AssignTargetNone    AssignTarget = iota
	AssignTargetReplace              // "a = b"
	AssignTargetUpdate               // "a += b"
)

// If you add a new token, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false}, // Right-associative
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

type Index uint32

const InvalidIndex Index = 0

func (i Index) IsValid() bool {
	return i != InvalidIndex
}

type Node struct {
	Data   N
	Parent Index
	Loc    logger.Loc

	// Set once the node has been detached from the program. Bookkeeping that
	// still points at a removed node is stale.
	Removed bool
}

type N interface{ isNode() }

type AST struct {
	Nodes []Node
	Stmts []Index
}

func NewAST() *AST {
	return &AST{Nodes: make([]Node, 1, 64)}
}

func (a *AST) Node(i Index) *Node {
	return &a.Nodes[i]
}

func (a *AST) Data(i Index) N {
	if i == InvalidIndex {
		return nil
	}
	return a.Nodes[i].Data
}

func (a *AST) Parent(i Index) Index {
	return a.Nodes[i].Parent
}

// Appends a node whose children have already been added and adopts them
func (a *AST) Add(loc logger.Loc, data N) Index {
	index := Index(len(a.Nodes))
	a.Nodes = append(a.Nodes, Node{Data: data, Loc: loc})
	for _, child := range Children(data) {
		a.Nodes[child].Parent = index
	}
	return index
}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

func (kind LocalKind) String() string {
	switch kind {
	case LocalLet:
		return "let"
	case LocalConst:
		return "const"
	default:
		return "var"
	}
}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread
	PropertyField
)

// Used in object literals and class bodies. A non-computed key is an EString
// node so that no identifier inside a key is ever mistaken for a reference.
type Property struct {
	Key   Index
	Value Index

	Kind         PropertyKind
	IsComputed   bool
	IsMethod     bool
	IsStatic     bool
	WasShorthand bool
}

type Fn struct {
	Name Index // BIdentifier, optional
	Args []Index
	Body []Index

	IsAsync     bool
	IsGenerator bool
}

type Class struct {
	Name       Index // BIdentifier, optional
	Extends    Index
	Properties []Index
}

// Bindings

type BIdentifier struct{ Name string }

type BObject struct{ Properties []Index }

// Key is an EString unless IsComputed. IsSpread marks "...rest".
type BProperty struct {
	Key        Index
	Value      Index
	IsComputed bool
	IsSpread   bool
}

type BArray struct{ Items []Index }

// "a = 1" inside a pattern or parameter list
type BDefault struct {
	Binding Index
	Value   Index
}

type BRest struct{ Binding Index }

type BMissing struct{}

func (*BIdentifier) isNode() {}
func (*BObject) isNode()     {}
func (*BProperty) isNode()   {}
func (*BArray) isNode()      {}
func (*BDefault) isNode()    {}
func (*BRest) isNode()       {}
func (*BMissing) isNode()    {}

// Expressions

type EIdentifier struct{ Name string }

type EString struct{ Value string }

type ENumber struct{ Value float64 }

type EBigInt struct{ Value string }

type ERegExp struct{ Value string }

type EBoolean struct{ Value bool }

type ENull struct{}

type EUndefined struct{}

type EThis struct{}

type ESuper struct{}

type EMissing struct{}

type EArray struct{ Items []Index }

type EObject struct{ Properties []Index }

type ESpread struct{ Value Index }

type ECall struct {
	Target     Index
	Args       []Index
	IsOptional bool
}

type ENew struct {
	Target Index
	Args   []Index
}

type EDot struct {
	Target     Index
	Name       string
	IsOptional bool
}

type EIndex struct {
	Target     Index
	Index      Index
	IsOptional bool
}

// Prefix, postfix and update operators. The update forms write to Value.
type EUnary struct {
	Op    OpCode
	Value Index
}

// Also covers every assignment operator. Left of an assignment is either an
// expression target or a pattern made of bindings.
type EBinary struct {
	Op    OpCode
	Left  Index
	Right Index
}

type ESequence struct{ Exprs []Index }

type EIf struct {
	Test Index
	Yes  Index
	No   Index
}

type EFunction struct{ Fn Fn }

type EArrow struct {
	Args []Index
	Body []Index

	// Set instead of Body for "x => x + 1"
	Expr Index

	IsAsync bool
}

type EClass struct{ Class Class }

type TemplatePart struct {
	Value Index
	Tail  string
}

type ETemplate struct {
	Tag   Index
	Head  string
	Parts []TemplatePart
}

type EAwait struct{ Value Index }

type EYield struct {
	Value  Index
	IsStar bool
}

// "import(expr)" with an optional second argument
type EImportCall struct {
	Expr    Index
	Options Index
}

type EImportMeta struct{}

type ENewTarget struct{}

func (*EIdentifier) isNode() {}
func (*EString) isNode()     {}
func (*ENumber) isNode()     {}
func (*EBigInt) isNode()     {}
func (*ERegExp) isNode()     {}
func (*EBoolean) isNode()    {}
func (*ENull) isNode()       {}
func (*EUndefined) isNode()  {}
func (*EThis) isNode()       {}
func (*ESuper) isNode()      {}
func (*EMissing) isNode()    {}
func (*EArray) isNode()      {}
func (*EObject) isNode()     {}
func (*ESpread) isNode()     {}
func (*ECall) isNode()       {}
func (*ENew) isNode()        {}
func (*EDot) isNode()        {}
func (*EIndex) isNode()      {}
func (*EUnary) isNode()      {}
func (*EBinary) isNode()     {}
func (*ESequence) isNode()   {}
func (*EIf) isNode()         {}
func (*EFunction) isNode()   {}
func (*EArrow) isNode()      {}
func (*EClass) isNode()      {}
func (*ETemplate) isNode()   {}
func (*EAwait) isNode()      {}
func (*EYield) isNode()      {}
func (*EImportCall) isNode() {}
func (*EImportMeta) isNode() {}
func (*ENewTarget) isNode()  {}
func (*Property) isNode()    {}

// Statements

type SBlock struct{ Stmts []Index }

type SEmpty struct{}

type SExpr struct{ Value Index }

// One "var a = 1, b" declarator. The declaration of a top-level binding
// points at one of these.
type Decl struct {
	Binding Index
	Value   Index
}

type SLocal struct {
	Decls    []Index
	Kind     LocalKind
	IsExport bool
}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

type SClass struct {
	Class    Class
	IsExport bool
}

type SReturn struct{ Value Index }

type SThrow struct{ Value Index }

type SIf struct {
	Test Index
	Yes  Index
	No   Index
}

type SFor struct {
	Init   Index
	Test   Index
	Update Index
	Body   Index
}

// "for (x in y)" and "for (x of y)". Init is a statement for declarations and
// an assignment target otherwise.
type SForIn struct {
	Init    Index
	Value   Index
	Body    Index
	IsOf    bool
	IsAwait bool
}

type SWhile struct {
	Test Index
	Body Index
}

type SDoWhile struct {
	Body Index
	Test Index
}

// Body, Catch and Finally are SBlock nodes
type STry struct {
	Body       Index
	CatchParam Index
	Catch      Index
	Finally    Index
}

// Test is absent for "default:"
type Case struct {
	Test Index
	Body []Index
}

type SSwitch struct {
	Test  Index
	Cases []Index
}

type SLabel struct {
	Name string
	Stmt Index
}

type SBreak struct{ Label string }

type SDebugger struct{}

type SWith struct {
	Value Index
	Body  Index
}

type SContinue struct{ Label string }

type ImportKind uint8

const (
	ImportNamed ImportKind = iota
	ImportDefault
	ImportNamespace
)

// One specifier of an import statement. Alias is the imported name.
type ImportItem struct {
	Kind    ImportKind
	Alias   string
	Binding Index
}

type SImport struct {
	Items  []Index
	Source string
}

// One "name as alias" entry. Name is an EIdentifier for a local export and
// absent for a re-export, which uses OriginalName instead.
type ClauseItem struct {
	Name         Index
	OriginalName string
	Alias        string
}

type SExportClause struct{ Items []Index }

type SExportFrom struct {
	Items  []Index
	Source string
}

type SExportStar struct {
	Alias  string
	Source string
}

// Value is an expression, an SFunction or an SClass
type SExportDefault struct{ Value Index }

func (*SBlock) isNode()         {}
func (*SEmpty) isNode()         {}
func (*SExpr) isNode()          {}
func (*Decl) isNode()           {}
func (*SLocal) isNode()         {}
func (*SFunction) isNode()      {}
func (*SClass) isNode()         {}
func (*SReturn) isNode()        {}
func (*SThrow) isNode()         {}
func (*SIf) isNode()            {}
func (*SFor) isNode()           {}
func (*SForIn) isNode()         {}
func (*SWhile) isNode()         {}
func (*SDoWhile) isNode()       {}
func (*STry) isNode()           {}
func (*Case) isNode()           {}
func (*SSwitch) isNode()        {}
func (*SLabel) isNode()         {}
func (*SBreak) isNode()         {}
func (*SContinue) isNode()      {}
func (*SDebugger) isNode()      {}
func (*SWith) isNode()          {}
func (*ImportItem) isNode()     {}
func (*SImport) isNode()        {}
func (*ClauseItem) isNode()     {}
func (*SExportClause) isNode()  {}
func (*SExportFrom) isNode()    {}
func (*SExportStar) isNode()    {}
func (*SExportDefault) isNode() {}

func IsStmt(data N) bool {
	switch data.(type) {
	case *SBlock, *SEmpty, *SExpr, *SLocal, *SFunction, *SClass, *SReturn, *SThrow,
		*SIf, *SFor, *SForIn, *SWhile, *SDoWhile, *STry, *SSwitch, *SLabel, *SBreak, *SContinue,
		*SDebugger, *SWith,
		*SImport, *SExportClause, *SExportFrom, *SExportStar, *SExportDefault:
		return true
	}
	return false
}

func IsBinding(data N) bool {
	switch data.(type) {
	case *BIdentifier, *BObject, *BProperty, *BArray, *BDefault, *BRest, *BMissing:
		return true
	}
	return false
}

// Declarations whose names live in the surrounding scope
func IsDeclaration(data N) bool {
	switch data.(type) {
	case *SLocal, *SFunction, *SClass, *SImport:
		return true
	}
	return false
}
