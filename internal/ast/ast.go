// Package ast defines the syntax tree produced by the inn parser.
//
// Every node exclusively owns its children: the tree has no sharing, no
// cycles and no parent links. Nodes are built once by the parser and are not
// mutated afterwards. All nodes implement Node and accept a Visitor, so
// consumers such as the code generator and the formatter handle every
// variant explicitly.
package ast

import (
	"fmt"
	"strings"

	"github.com/inn-lang/inn/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// Pos returns the position of the first token of the node
	Pos() position.Position
	// String returns the structural dump of the node
	String() string
	// Accept implements the visitor pattern for AST traversal
	Accept(visitor Visitor) interface{}
}

// Expression represents all expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Statement represents all statement nodes
type Statement interface {
	Unit
	statementNode()
}

// Unit is anything that may appear at the outermost level of a program: a
// statement or a function declaration.
type Unit interface {
	Node
	unitNode()
}

// ===== Program Structure =====

// Program is the ordered sequence of top-level units of one source file.
// The order is the execution and emission order.
type Program struct {
	Units []Unit
}

func (p *Program) Pos() position.Position {
	if len(p.Units) == 0 {
		return position.Position{}
	}
	return p.Units[0].Pos()
}
func (p *Program) String() string                     { return Dump(p) }
func (p *Program) Accept(visitor Visitor) interface{} { return visitor.VisitProgram(p) }

// ===== Operands =====

// Operand is a child slot of an Operation that is either present or absent.
// Absence is legal only for the left side of a prefix operation and for the
// right side of an Index operation (dereference).
type Operand struct {
	expr    Expression
	present bool
}

// Some returns a present operand holding e.
func Some(e Expression) Operand {
	if e == nil {
		panic("ast: Some called with nil expression")
	}
	return Operand{expr: e, present: true}
}

// None returns an absent operand.
func None() Operand {
	return Operand{}
}

// Get returns the expression and whether it is present.
func (o Operand) Get() (Expression, bool) {
	return o.expr, o.present
}

// Present reports whether the slot holds an expression.
func (o Operand) Present() bool {
	return o.present
}

// MustGet returns the expression, panicking when the slot is absent.
func (o Operand) MustGet() Expression {
	if !o.present {
		panic("ast: operand is absent")
	}
	return o.expr
}

// ===== Types =====

// Type describes a scalar (Count == 0) or a fixed-size array of Count
// elements. Names are not resolved; "int" and "foo" are equally valid here.
type Type struct {
	Start position.Position
	Name  string
	Count int
}

// IsArray reports whether the type is a fixed-size array.
func (t Type) IsArray() bool { return t.Count > 0 }

// String renders the type in source form.
func (t Type) String() string {
	if t.IsArray() {
		return fmt.Sprintf("[%d]%s", t.Count, t.Name)
	}
	return t.Name
}

// ===== Declarations =====

// Param is one named, typed function parameter.
type Param struct {
	Start position.Position
	Name  string
	Type  Type
}

func (p Param) String() string { return p.Name + " " + p.Type.String() }

// FuncDecl is a function declaration. It is a Unit but not a Statement,
// which keeps functions at the top level.
type FuncDecl struct {
	Start  position.Position
	Name   string
	Params []Param
	Result Type
	Body   []Statement
}

func (f *FuncDecl) Pos() position.Position             { return f.Start }
func (f *FuncDecl) String() string                     { return Dump(f) }
func (f *FuncDecl) Accept(visitor Visitor) interface{} { return visitor.VisitFuncDecl(f) }
func (f *FuncDecl) unitNode()                          {}

// ===== Statements =====

// VarDecl declares a variable with an optional initializer.
type VarDecl struct {
	Start position.Position
	Name  string
	Type  Type
	Init  Expression // nil when there is no initializer
}

func (v *VarDecl) Pos() position.Position             { return v.Start }
func (v *VarDecl) String() string                     { return Dump(v) }
func (v *VarDecl) Accept(visitor Visitor) interface{} { return visitor.VisitVarDecl(v) }
func (v *VarDecl) unitNode()                          {}
func (v *VarDecl) statementNode()                     {}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	X Expression
}

func (e *ExprStmt) Pos() position.Position             { return e.X.Pos() }
func (e *ExprStmt) String() string                     { return Dump(e) }
func (e *ExprStmt) Accept(visitor Visitor) interface{} { return visitor.VisitExprStmt(e) }
func (e *ExprStmt) unitNode()                          {}
func (e *ExprStmt) statementNode()                     {}

// While is a pre-tested loop.
type While struct {
	Start position.Position
	Cond  Expression
	Body  []Statement
}

func (w *While) Pos() position.Position             { return w.Start }
func (w *While) String() string                     { return Dump(w) }
func (w *While) Accept(visitor Visitor) interface{} { return visitor.VisitWhile(w) }
func (w *While) unitNode()                          {}
func (w *While) statementNode()                     {}

// Branch is one conditional arm of an If chain.
type Branch struct {
	Cond Expression
	Body []Statement
}

// If is an if / else if / else chain. Branches holds the conditional arms in
// source order; Else is the trailing unconditional body and is meaningful
// only when HasElse is set. Choosing the first true arm is up to consumers.
type If struct {
	Start    position.Position
	Branches []Branch
	Else     []Statement
	HasElse  bool
}

func (i *If) Pos() position.Position             { return i.Start }
func (i *If) String() string                     { return Dump(i) }
func (i *If) Accept(visitor Visitor) interface{} { return visitor.VisitIf(i) }
func (i *If) unitNode()                          {}
func (i *If) statementNode()                     {}

// Return leaves the enclosing function, optionally with a value.
type Return struct {
	Start position.Position
	Value Expression // nil for a bare return
}

func (r *Return) Pos() position.Position             { return r.Start }
func (r *Return) String() string                     { return Dump(r) }
func (r *Return) Accept(visitor Visitor) interface{} { return visitor.VisitReturn(r) }
func (r *Return) unitNode()                          {}
func (r *Return) statementNode()                     {}

// Break leaves the innermost loop.
type Break struct {
	Start position.Position
}

func (b *Break) Pos() position.Position             { return b.Start }
func (b *Break) String() string                     { return Dump(b) }
func (b *Break) Accept(visitor Visitor) interface{} { return visitor.VisitBreak(b) }
func (b *Break) unitNode()                          {}
func (b *Break) statementNode()                     {}

// ===== Expressions =====

// Operation applies a prefix, infix or Index operator. OpCall never appears
// here; calls are represented by Call.
type Operation struct {
	Start position.Position
	Op    Operator
	Left  Operand
	Right Operand
}

func (o *Operation) Pos() position.Position             { return o.Start }
func (o *Operation) String() string                     { return Dump(o) }
func (o *Operation) Accept(visitor Visitor) interface{} { return visitor.VisitOperation(o) }
func (o *Operation) expressionNode()                    {}

// IsDeref reports whether the operation is an Index without an index
// expression, which consumers read as a pointer dereference.
func (o *Operation) IsDeref() bool {
	return o.Op == OpIndex && !o.Right.Present()
}

// Binary builds an infix operation; both operands are required.
func Binary(pos position.Position, op Operator, left, right Expression) *Operation {
	if op.Role() != Infix {
		panic(fmt.Sprintf("ast: %s is not an infix operator", op))
	}
	return &Operation{Start: pos, Op: op, Left: Some(left), Right: Some(right)}
}

// Unary builds a prefix operation; the left slot is absent.
func Unary(pos position.Position, op Operator, operand Expression) *Operation {
	if op.Role() != Prefix {
		panic(fmt.Sprintf("ast: %s is not a prefix operator", op))
	}
	return &Operation{Start: pos, Op: op, Left: None(), Right: Some(operand)}
}

// IndexOf builds target[index].
func IndexOf(pos position.Position, target, index Expression) *Operation {
	return &Operation{Start: pos, Op: OpIndex, Left: Some(target), Right: Some(index)}
}

// Deref builds an Index with no index expression. The grammar has no
// syntax for it; it exists for consumers that synthesize pointer accesses.
func Deref(pos position.Position, target Expression) *Operation {
	return &Operation{Start: pos, Op: OpIndex, Left: Some(target), Right: None()}
}

// ArrayLiteral is a bracketed, possibly empty, list of elements.
type ArrayLiteral struct {
	Start    position.Position
	Elements []Expression
}

func (a *ArrayLiteral) Pos() position.Position             { return a.Start }
func (a *ArrayLiteral) String() string                     { return Dump(a) }
func (a *ArrayLiteral) Accept(visitor Visitor) interface{} { return visitor.VisitArrayLiteral(a) }
func (a *ArrayLiteral) expressionNode()                    {}

// Call applies Callee to Args.
type Call struct {
	Start  position.Position
	Callee Expression
	Args   []Expression
}

func (c *Call) Pos() position.Position             { return c.Start }
func (c *Call) String() string                     { return Dump(c) }
func (c *Call) Accept(visitor Visitor) interface{} { return visitor.VisitCall(c) }
func (c *Call) expressionNode()                    {}

// LiteralKind tells which value a Literal holds.
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralSymbol
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralInteger:
		return "integer"
	case LiteralFloat:
		return "float"
	case LiteralString:
		return "string"
	case LiteralSymbol:
		return "symbol"
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

// Literal is an integer, float, string or symbol reference. Value holds an
// int64, float64 or string according to Kind.
type Literal struct {
	Start position.Position
	Kind  LiteralKind
	Value interface{}
}

func (l *Literal) Pos() position.Position             { return l.Start }
func (l *Literal) String() string                     { return Dump(l) }
func (l *Literal) Accept(visitor Visitor) interface{} { return visitor.VisitLiteral(l) }
func (l *Literal) expressionNode()                    {}

// NewInteger creates an integer literal
func NewInteger(pos position.Position, v int64) *Literal {
	return &Literal{Start: pos, Kind: LiteralInteger, Value: v}
}

// NewFloat creates a float literal
func NewFloat(pos position.Position, v float64) *Literal {
	return &Literal{Start: pos, Kind: LiteralFloat, Value: v}
}

// NewString creates a string literal holding the unescaped text
func NewString(pos position.Position, v string) *Literal {
	return &Literal{Start: pos, Kind: LiteralString, Value: v}
}

// NewSymbol creates a reference to a named symbol
func NewSymbol(pos position.Position, name string) *Literal {
	return &Literal{Start: pos, Kind: LiteralSymbol, Value: name}
}

// Int returns the value of an integer literal.
func (l *Literal) Int() int64 {
	v, _ := l.Value.(int64)
	return v
}

// Float returns the value of a float literal.
func (l *Literal) Float() float64 {
	v, _ := l.Value.(float64)
	return v
}

// Text returns the contents of a string literal or the name of a symbol.
func (l *Literal) Text() string {
	v, _ := l.Value.(string)
	return v
}

// joinNodes renders a list of nodes with Dump, comma separated.
func joinNodes[T Node](nodes []T) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = Dump(n)
	}
	return strings.Join(parts, ", ")
}
