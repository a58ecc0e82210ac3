package ast

import "fmt"

// Operator is the closed set of semantic operators. The same surface token
// can map to different operators depending on where it appears ('-' is OpSub
// between operands and OpNeg before one).
type Operator int

const (
	// Infix
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpExp
	OpAssign
	OpEqual
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq
	OpAnd
	OpOr
	// Prefix
	OpNot
	OpPos
	OpNeg
	// Postfix
	OpIndex
	OpCall

	operatorCount
)

// Role is the syntactic position an operator takes relative to its operands.
type Role int

const (
	Prefix Role = iota
	Infix
	Postfix
)

func (r Role) String() string {
	switch r {
	case Prefix:
		return "prefix"
	case Infix:
		return "infix"
	case Postfix:
		return "postfix"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

type operatorInfo struct {
	name       string
	symbol     string
	precedence int
	role       Role
	rightAssoc bool
}

// operatorTable is indexed by Operator and never written after package
// initialization.
var operatorTable = [operatorCount]operatorInfo{
	OpAssign:    {"Assign", "=", 10, Infix, false},
	OpOr:        {"Or", "or", 20, Infix, false},
	OpAnd:       {"And", "and", 30, Infix, false},
	OpEqual:     {"Equal", "==", 40, Infix, false},
	OpGreater:   {"Greater", ">", 50, Infix, false},
	OpGreaterEq: {"GreaterEq", ">=", 50, Infix, false},
	OpLess:      {"Less", "<", 50, Infix, false},
	OpLessEq:    {"LessEq", "<=", 50, Infix, false},
	OpAdd:       {"Add", "+", 60, Infix, false},
	OpSub:       {"Sub", "-", 60, Infix, false},
	OpMul:       {"Mul", "*", 70, Infix, false},
	OpDiv:       {"Div", "/", 70, Infix, false},
	OpExp:       {"Exp", "^", 80, Infix, true},
	OpPos:       {"Pos", "+", 90, Prefix, false},
	OpNeg:       {"Neg", "-", 90, Prefix, false},
	OpNot:       {"Not", "not", 100, Prefix, false},
	OpIndex:     {"Index", "[]", 110, Postfix, false},
	OpCall:      {"Call", "()", 110, Postfix, false},
}

// Operators returns every operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, 0, operatorCount)
	for op := Operator(0); op < operatorCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// Valid reports whether op is a member of the operator set.
func (op Operator) Valid() bool {
	return op >= 0 && op < operatorCount
}

// String returns the operator name used in tree dumps (Add, Neg, ...).
func (op Operator) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return operatorTable[op].name
}

// Symbol returns the surface spelling of the operator.
func (op Operator) Symbol() string {
	if !op.Valid() {
		return "?"
	}
	return operatorTable[op].symbol
}

// Precedence returns the binding strength; higher binds tighter.
func (op Operator) Precedence() int {
	if !op.Valid() {
		return 0
	}
	return operatorTable[op].precedence
}

// Role returns whether the operator is prefix, infix or postfix.
func (op Operator) Role() Role {
	if !op.Valid() {
		return Infix
	}
	return operatorTable[op].role
}

// RightAssoc reports whether a chain of op nests to the right. Only OpExp
// does; everything else is left-associative.
func (op Operator) RightAssoc() bool {
	return op.Valid() && operatorTable[op].rightAssoc
}

// MaxPrecedence is the binding strength of operands that are never split:
// literals, array literals and the postfix operators.
const MaxPrecedence = 110
