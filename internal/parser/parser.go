// Package parser turns the inn token stream into an AST.
//
// Statements and declarations are parsed by recursive descent; expressions
// by precedence climbing over the operator table in package ast. The parser
// is purely syntactic and stops at the first error.
package parser

import (
	"github.com/inn-lang/inn/internal/ast"
	"github.com/inn-lang/inn/internal/lexer"
)

// Parser holds the comment-free token stream and a cursor into it. A Parser
// is used for a single parse and is not safe for concurrent use.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a parser over tokens. Comment tokens are dropped here so no
// other routine has to skip them.
func New(tokens []lexer.Token) *Parser {
	filtered := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == lexer.TokenComment || tok.Type == lexer.TokenEOF {
			continue
		}
		filtered = append(filtered, tok)
	}
	return &Parser{tokens: filtered}
}

// Parse parses a complete token stream into a program.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	return New(tokens).ParseProgram()
}

// ParseString tokenizes and parses src. Lexical errors are returned as
// *lexer.LexError, syntax errors as *ParseError.
func ParseString(src string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseExpr parses src as a single expression that must use every token.
func ParseExpr(src string) (ast.Expression, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := New(tokens)
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.unexpected("end of expression")
	}
	return expr, nil
}

// ParseProgram runs the top-level loop: a function declaration or a
// statement, repeated until the stream is exhausted. An empty stream yields
// an empty program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	for !p.atEnd() {
		fn, err := p.parseFuncDecl()
		if err != nil {
			return nil, err
		}
		if fn != nil {
			program.Units = append(program.Units, fn)
			continue
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Units = append(program.Units, stmt)
	}
	return program, nil
}

// peek returns the token under the cursor.
func (p *Parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}, false
	}
	return p.tokens[p.pos], true
}

// peekIs reports whether the token under the cursor has type tt.
func (p *Parser) peekIs(tt lexer.TokenType) bool {
	tok, ok := p.peek()
	return ok && tok.Type == tt
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// advance consumes and returns the token under the cursor.
func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// accept consumes the next token if it has type tt.
func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.peekIs(tt) {
		p.pos++
		return true
	}
	return false
}

// expect consumes a token of type tt or fails describing what was wanted.
func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, error) {
	if !p.peekIs(tt) {
		return lexer.Token{}, p.unexpected(what)
	}
	return p.advance(), nil
}
