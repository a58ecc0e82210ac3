package parser

import (
	"fmt"

	"github.com/inn-lang/inn/internal/lexer"
	"github.com/inn-lang/inn/internal/position"
)

// ParseError represents the first syntax error of a parse. Parsing stops at
// the first error and no partial tree is returned alongside it.
type ParseError struct {
	Pos     position.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Message)
}

// errorf reports an error at the current token, or at the last token of the
// stream when the cursor has run past the end.
func (p *Parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Pos: p.errorPosition(), Message: fmt.Sprintf(format, args...)}
}

// errorAt reports an error at a specific token.
func (p *Parser) errorAt(tok lexer.Token, format string, args ...any) *ParseError {
	return &ParseError{Pos: tok.Pos, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) errorPosition() position.Position {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Pos
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Pos
	}
	return position.Position{Line: 1, Column: 1}
}

// unexpected builds the error for a missing required token.
func (p *Parser) unexpected(expected string) *ParseError {
	tok, ok := p.peek()
	if !ok {
		return p.errorf("unexpected end of input, expected %s", expected)
	}
	return p.errorf("expected %s, got %s", expected, describe(tok))
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenSymbol, lexer.TokenInt, lexer.TokenFloat:
		return fmt.Sprintf("%s %s", tok.Type, tok.Literal)
	case lexer.TokenString:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
	return fmt.Sprintf("'%s'", tok.Literal)
}
