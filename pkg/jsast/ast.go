// Package jsast models the JavaScript instruction stream that the code
// splitter operates on. The node set is deliberately small: it covers the
// statement shapes the backend emits at the top level of a compiled program
// (function definitions, registration calls, var groups, assignments) plus
// a generic expression-statement escape hatch for everything else.
package jsast

// ---------------------------------------------------------------------------
// Names and scopes
// ---------------------------------------------------------------------------

// Name is an interned identifier. Names are compared by pointer identity:
// two references to the same declared entity share one *Name, which is what
// lets the splitter recognize well-known functions without string matching.
type Name struct {
	Ident      string // identifier as emitted (possibly obfuscated)
	ShortIdent string // original, human-readable identifier
}

// MakeRef returns an unqualified reference to this name.
func (n *Name) MakeRef() *NameRef {
	return &NameRef{Name: n}
}

// Scope interns names. A single top-level scope is enough for the splitter:
// the instruction stream it sees is the flat global block of the program.
type Scope struct {
	names map[string]*Name
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{names: make(map[string]*Name)}
}

// Declare interns a name, returning the existing Name if ident was already
// declared. The short identifier of the first declaration wins.
func (s *Scope) Declare(ident, shortIdent string) *Name {
	if n, ok := s.names[ident]; ok {
		return n
	}
	n := &Name{Ident: ident, ShortIdent: shortIdent}
	s.names[ident] = n
	return n
}

// Find returns the Name declared under ident, or nil.
func (s *Scope) Find(ident string) *Name {
	return s.names[ident]
}

// ---------------------------------------------------------------------------
// Node interfaces
// ---------------------------------------------------------------------------

// Node is implemented by all AST nodes.
type Node interface {
	node() // marker method
}

// Statement is the interface for statement nodes.
type Statement interface {
	Node
	stmt() // marker method
}

// Expression is the interface for expression nodes.
type Expression interface {
	Node
	expr() // marker method
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// NameRef is a reference to a name, optionally qualified ("a.b").
type NameRef struct {
	Name      *Name
	Qualifier Expression // nil for an unqualified reference
}

func (n *NameRef) node() {}
func (n *NameRef) expr() {}

// Function is a function expression. Top-level method definitions appear
// as an ExprStmt wrapping a named Function.
type Function struct {
	Name   *Name // nil for an anonymous function
	Params []*Name
	Body   []Statement
}

func (n *Function) node() {}
func (n *Function) expr() {}

// Invocation is a call expression: Qualifier(Args...).
type Invocation struct {
	Qualifier Expression
	Args      []Expression
}

func (n *Invocation) node() {}
func (n *Invocation) expr() {}

// BinaryOp identifies a binary operator.
type BinaryOp uint8

const (
	OpAssign BinaryOp = iota // =
	OpComma                  // ,
	OpOr                     // ||
)

// String returns the JavaScript spelling of the operator.
func (op BinaryOp) String() string {
	switch op {
	case OpAssign:
		return "="
	case OpComma:
		return ","
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

// Binary is a binary expression.
type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (n *Binary) node() {}
func (n *Binary) expr() {}

// NumberLiteral is a numeric literal.
type NumberLiteral struct {
	Value float64
}

func (n *NumberLiteral) node() {}
func (n *NumberLiteral) expr() {}

// StringLiteral is a string literal.
type StringLiteral struct {
	Value string
}

func (n *StringLiteral) node() {}
func (n *StringLiteral) expr() {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Expr Expression
}

func (n *ExprStmt) node() {}
func (n *ExprStmt) stmt() {}

// MakeStmt wraps an expression in an ExprStmt.
func MakeStmt(e Expression) *ExprStmt {
	return &ExprStmt{Expr: e}
}

// Empty is the no-op statement (";"). It replaces var groups from which
// every declaration was pruned, so the output never contains an ill-formed
// empty group.
type Empty struct{}

func (n *Empty) node() {}
func (n *Empty) stmt() {}

// Var is a single declaration inside a Vars group.
type Var struct {
	Name *Name
	Init Expression // nil when the declaration has no initializer
}

// Vars is a multi-declaration statement: "var a = 1, b, c = f();".
type Vars struct {
	Vars []*Var
}

func (n *Vars) node() {}
func (n *Vars) stmt() {}
