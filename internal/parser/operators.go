package parser

import (
	"github.com/inn-lang/inn/internal/ast"
	"github.com/inn-lang/inn/internal/lexer"
)

// Token to operator tables. The same token may appear in more than one
// table; which one applies depends on whether an operand has already been
// parsed. These maps are never written after initialization.

// prefixOperators apply before an operand.
var prefixOperators = map[lexer.TokenType]ast.Operator{
	lexer.TokenPlus:  ast.OpPos,
	lexer.TokenMinus: ast.OpNeg,
	lexer.TokenNot:   ast.OpNot,
}

// infixOperators apply between two operands.
var infixOperators = map[lexer.TokenType]ast.Operator{
	lexer.TokenEqual:        ast.OpAssign,
	lexer.TokenOr:           ast.OpOr,
	lexer.TokenAnd:          ast.OpAnd,
	lexer.TokenEqualEqual:   ast.OpEqual,
	lexer.TokenGreater:      ast.OpGreater,
	lexer.TokenGreaterEqual: ast.OpGreaterEq,
	lexer.TokenLess:         ast.OpLess,
	lexer.TokenLessEqual:    ast.OpLessEq,
	lexer.TokenPlus:         ast.OpAdd,
	lexer.TokenMinus:        ast.OpSub,
	lexer.TokenAsterisk:     ast.OpMul,
	lexer.TokenSlash:        ast.OpDiv,
	lexer.TokenCaret:        ast.OpExp,
}

// postfixOperators open a suffix form after an operand.
var postfixOperators = map[lexer.TokenType]ast.Operator{
	lexer.TokenSquareOpen: ast.OpIndex,
	lexer.TokenParenOpen:  ast.OpCall,
}

// stoppers always end the expression being parsed.
var stoppers = map[lexer.TokenType]bool{
	lexer.TokenParenClose:  true,
	lexer.TokenSquareClose: true,
	lexer.TokenComma:       true,
	lexer.TokenEnd:         true,
	lexer.TokenDo:          true,
	lexer.TokenElse:        true,
}

// continuationOperator maps a token that follows a complete operand.
func continuationOperator(tt lexer.TokenType) (ast.Operator, bool) {
	if op, ok := postfixOperators[tt]; ok {
		return op, true
	}
	op, ok := infixOperators[tt]
	return op, ok
}

// startsOperand reports whether a token can begin an expression.
func startsOperand(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenInt, lexer.TokenFloat, lexer.TokenString, lexer.TokenSymbol,
		lexer.TokenParenOpen, lexer.TokenSquareOpen:
		return true
	}
	_, ok := prefixOperators[tt]
	return ok
}
