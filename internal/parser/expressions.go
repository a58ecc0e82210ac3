package parser

import (
	"strconv"

	"github.com/inn-lang/inn/internal/ast"
	"github.com/inn-lang/inn/internal/lexer"
)

// parseExpression parses an operand and then every following infix or
// postfix operator that binds tighter than minPrec. Equal precedence stops
// the loop, which makes operators left-associative; Exp lowers the
// threshold for its right side by one so that it nests to the right.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, p.missingOperand()
	}

	for {
		tok, ok := p.peek()
		if !ok || stoppers[tok.Type] {
			break
		}
		op, ok := continuationOperator(tok.Type)
		if !ok || op.Precedence() <= minPrec {
			break
		}
		p.advance()

		left, err = p.parseContinuation(op, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) missingOperand() *ParseError {
	tok, ok := p.peek()
	if !ok {
		return p.errorf("expected valid left operand, got end of input")
	}
	return p.errorf("expected valid left operand, got %s", describe(tok))
}

// parsePrimary parses an array literal, a parenthesized expression, a
// literal or symbol, or a prefix operation. It returns nil without error
// when the next token cannot start an operand.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, nil
	}

	switch tok.Type {
	case lexer.TokenSquareOpen:
		return p.parseArrayLiteral()
	case lexer.TokenParenOpen:
		p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenParenClose, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.TokenInt:
		p.advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, p.errorAt(tok, "integer literal %s out of range", tok.Literal)
		}
		return ast.NewInteger(tok.Pos, v), nil
	case lexer.TokenFloat:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid float literal %s", tok.Literal)
		}
		return ast.NewFloat(tok.Pos, v), nil
	case lexer.TokenString:
		p.advance()
		return ast.NewString(tok.Pos, tok.Literal), nil
	case lexer.TokenSymbol:
		p.advance()
		return ast.NewSymbol(tok.Pos, tok.Literal), nil
	}

	if op, ok := prefixOperators[tok.Type]; ok {
		p.advance()
		operand, err := p.parseExpression(op.Precedence())
		if err != nil {
			return nil, err
		}
		return ast.Unary(tok.Pos, op, operand), nil
	}
	return nil, nil
}

// parseArrayLiteral parses '[' (expr (',' expr)*)? ']'.
func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	open := p.advance()
	lit := &ast.ArrayLiteral{Start: open.Pos}
	if p.accept(lexer.TokenSquareClose) {
		return lit, nil
	}

	elems, err := p.parseExpressionList(lexer.TokenSquareClose, "',' or ']' in array literal")
	if err != nil {
		return nil, err
	}
	lit.Elements = elems
	return lit, nil
}

// parseExpressionList parses a non-empty comma separated list of
// expressions and consumes the closing token. Trailing commas are rejected
// because an operand is required after every comma.
func (p *Parser) parseExpressionList(closer lexer.TokenType, what string) ([]ast.Expression, error) {
	var list []ast.Expression
	for {
		e, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		list = append(list, e)

		if p.accept(closer) {
			return list, nil
		}
		if !p.accept(lexer.TokenComma) {
			return nil, p.unexpected(what)
		}
	}
}

// parseContinuation builds the composite node for an operator that follows
// a complete left operand. The operator token has been consumed.
func (p *Parser) parseContinuation(op ast.Operator, left ast.Expression) (ast.Expression, error) {
	switch op {
	case ast.OpIndex:
		index, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenSquareClose, "']'"); err != nil {
			return nil, err
		}
		return ast.IndexOf(left.Pos(), left, index), nil

	case ast.OpCall:
		call := &ast.Call{Start: left.Pos(), Callee: left}
		if p.accept(lexer.TokenParenClose) {
			return call, nil
		}
		args, err := p.parseExpressionList(lexer.TokenParenClose, "',' or ')' in argument list")
		if err != nil {
			return nil, err
		}
		call.Args = args
		return call, nil
	}

	threshold := op.Precedence()
	if op.RightAssoc() {
		threshold--
	}
	right, err := p.parseExpression(threshold)
	if err != nil {
		return nil, err
	}
	return ast.Binary(left.Pos(), op, left, right), nil
}
