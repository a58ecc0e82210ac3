package parser

import (
	"strconv"

	"github.com/inn-lang/inn/internal/ast"
	"github.com/inn-lang/inn/internal/lexer"
)

// parseStatement tries each keyword-led form in turn and falls back to an
// expression statement. Keyword forms report "no match" as (nil, nil).
func (p *Parser) parseStatement() (ast.Statement, error) {
	forms := []func() (ast.Statement, error){
		p.parseVarDecl,
		p.parseWhile,
		p.parseIf,
		p.parseReturn,
		p.parseBreak,
	}
	for _, form := range forms {
		stmt, err := form()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			return stmt, nil
		}
	}

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: expr}, nil
}

// parseBlock parses statements up to, not including, one of the terminator
// keywords. Running out of tokens first is an error.
func (p *Parser) parseBlock(terminators ...lexer.TokenType) ([]ast.Statement, error) {
	var body []ast.Statement
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errorf("unexpected end of input, expected 'end'")
		}
		for _, tt := range terminators {
			if tok.Type == tt {
				return body, nil
			}
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

// parseVarDecl parses: var <name> <type> [= <expr>]
func (p *Parser) parseVarDecl() (ast.Statement, error) {
	if !p.peekIs(lexer.TokenVar) {
		return nil, nil
	}
	kw := p.advance()

	name, err := p.expect(lexer.TokenSymbol, "variable name")
	if err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDecl{Start: kw.Pos, Name: name.Literal, Type: typ}
	if p.accept(lexer.TokenEqual) {
		decl.Init, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	return decl, nil
}

// parseType parses a scalar type name or [<size>]<name>.
func (p *Parser) parseType() (ast.Type, error) {
	tok, ok := p.peek()
	if !ok {
		return ast.Type{}, p.unexpected("type")
	}

	switch tok.Type {
	case lexer.TokenSymbol:
		p.advance()
		return ast.Type{Start: tok.Pos, Name: tok.Literal}, nil

	case lexer.TokenSquareOpen:
		p.advance()
		sizeTok, err := p.expect(lexer.TokenInt, "array size")
		if err != nil {
			return ast.Type{}, err
		}
		size, err := strconv.Atoi(sizeTok.Literal)
		if err != nil {
			return ast.Type{}, p.errorAt(sizeTok, "array size %s out of range", sizeTok.Literal)
		}
		if size <= 0 {
			return ast.Type{}, p.errorAt(sizeTok, "array size must be positive, got %d", size)
		}
		if _, err := p.expect(lexer.TokenSquareClose, "']'"); err != nil {
			return ast.Type{}, err
		}
		elem, err := p.expect(lexer.TokenSymbol, "element type name")
		if err != nil {
			return ast.Type{}, err
		}
		return ast.Type{Start: tok.Pos, Name: elem.Literal, Count: size}, nil
	}

	return ast.Type{}, p.unexpected("type")
}

// parseWhile parses: while <expr> do <stmt>* end
func (p *Parser) parseWhile() (ast.Statement, error) {
	if !p.peekIs(lexer.TokenWhile) {
		return nil, nil
	}
	kw := p.advance()

	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenDo, "'do'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(lexer.TokenEnd)
	if err != nil {
		return nil, err
	}
	p.advance() // end

	return &ast.While{Start: kw.Pos, Cond: cond, Body: body}, nil
}

// parseIf parses an if chain:
//
//	if <expr> do <stmt>* (else if <expr> do <stmt>*)* [else [do] <stmt>*] end
func (p *Parser) parseIf() (ast.Statement, error) {
	if !p.peekIs(lexer.TokenIf) {
		return nil, nil
	}
	kw := p.advance()
	stmt := &ast.If{Start: kw.Pos}

	for {
		branch, err := p.parseBranch()
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, branch)

		if !p.accept(lexer.TokenElse) {
			break
		}
		if p.accept(lexer.TokenIf) {
			continue
		}

		p.accept(lexer.TokenDo)
		body, err := p.parseBlock(lexer.TokenEnd)
		if err != nil {
			return nil, err
		}
		stmt.Else = body
		stmt.HasElse = true
		break
	}

	if _, err := p.expect(lexer.TokenEnd, "'end'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseBranch parses <expr> do <stmt>* up to else or end.
func (p *Parser) parseBranch() (ast.Branch, error) {
	cond, err := p.parseExpression(0)
	if err != nil {
		return ast.Branch{}, err
	}
	if _, err := p.expect(lexer.TokenDo, "'do'"); err != nil {
		return ast.Branch{}, err
	}
	body, err := p.parseBlock(lexer.TokenElse, lexer.TokenEnd)
	if err != nil {
		return ast.Branch{}, err
	}
	return ast.Branch{Cond: cond, Body: body}, nil
}

// parseReturn parses: return [<expr>]
// The value is parsed only when the next token can start an operand.
func (p *Parser) parseReturn() (ast.Statement, error) {
	if !p.peekIs(lexer.TokenReturn) {
		return nil, nil
	}
	kw := p.advance()

	ret := &ast.Return{Start: kw.Pos}
	if tok, ok := p.peek(); ok && startsOperand(tok.Type) {
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		ret.Value = value
	}
	return ret, nil
}

func (p *Parser) parseBreak() (ast.Statement, error) {
	if !p.peekIs(lexer.TokenBreak) {
		return nil, nil
	}
	return &ast.Break{Start: p.advance().Pos}, nil
}

// parseFuncDecl parses a top-level function:
//
//	func <name> ( [<param> <type> {, <param> <type>}] ) <type> do <stmt>* end
func (p *Parser) parseFuncDecl() (*ast.FuncDecl, error) {
	if !p.peekIs(lexer.TokenFunc) {
		return nil, nil
	}
	kw := p.advance()

	name, err := p.expect(lexer.TokenSymbol, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenParenOpen, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	result, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenDo, "'do'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(lexer.TokenEnd)
	if err != nil {
		return nil, err
	}
	p.advance() // end

	return &ast.FuncDecl{
		Start:  kw.Pos,
		Name:   name.Literal,
		Params: params,
		Result: result,
		Body:   body,
	}, nil
}

// parseParams parses the parameter list after '(' including the ')'.
func (p *Parser) parseParams() ([]ast.Param, error) {
	var params []ast.Param
	if p.accept(lexer.TokenParenClose) {
		return params, nil
	}

	for {
		name, err := p.expect(lexer.TokenSymbol, "parameter name")
		if err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Start: name.Pos, Name: name.Literal, Type: typ})

		if p.accept(lexer.TokenParenClose) {
			return params, nil
		}
		if !p.accept(lexer.TokenComma) {
			return nil, p.unexpected("',' or ')' in parameter list")
		}
	}
}
