// Package lexer implements the inn lexical analyzer.
package lexer

import (
	"fmt"
	"strings"

	"github.com/inn-lang/inn/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	TokenEOF TokenType = iota
	TokenComment

	// Literals
	TokenInt
	TokenFloat
	TokenString
	TokenSymbol

	// Brackets
	TokenCurlyOpen
	TokenCurlyClose
	TokenSquareOpen
	TokenSquareClose
	TokenParenOpen
	TokenParenClose

	// Operators
	TokenPlus
	TokenMinus
	TokenAsterisk
	TokenSlash
	TokenCaret
	TokenComma
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// Keywords
	TokenAnd
	TokenNot
	TokenOr
	TokenFunc
	TokenVar
	TokenIf
	TokenElse
	TokenWhile
	TokenDo
	TokenEnd
	TokenReturn
	TokenBreak
)

// Token represents a lexical token with the position of its first character.
// For string tokens Literal holds the unescaped contents without quotes.
type Token struct {
	Type    TokenType
	Literal string
	Pos     position.Position
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Pos.Line, t.Pos.Column)
}

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenComment: "COMMENT",

	TokenInt:    "INT",
	TokenFloat:  "FLOAT",
	TokenString: "STRING",
	TokenSymbol: "SYMBOL",

	TokenCurlyOpen:   "LBRACE",
	TokenCurlyClose:  "RBRACE",
	TokenSquareOpen:  "LBRACKET",
	TokenSquareClose: "RBRACKET",
	TokenParenOpen:   "LPAREN",
	TokenParenClose:  "RPAREN",

	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenAsterisk:     "ASTERISK",
	TokenSlash:        "SLASH",
	TokenCaret:        "CARET",
	TokenComma:        "COMMA",
	TokenEqual:        "ASSIGN",
	TokenEqualEqual:   "EQ",
	TokenGreater:      "GT",
	TokenGreaterEqual: "GE",
	TokenLess:         "LT",
	TokenLessEqual:    "LE",

	TokenAnd:    "AND",
	TokenNot:    "NOT",
	TokenOr:     "OR",
	TokenFunc:   "FUNC",
	TokenVar:    "VAR",
	TokenIf:     "IF",
	TokenElse:   "ELSE",
	TokenWhile:  "WHILE",
	TokenDo:     "DO",
	TokenEnd:    "END",
	TokenReturn: "RETURN",
	TokenBreak:  "BREAK",
}

// keywords maps reserved words to their token types
var keywords = map[string]TokenType{
	"and":    TokenAnd,
	"not":    TokenNot,
	"or":     TokenOr,
	"func":   TokenFunc,
	"var":    TokenVar,
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"do":     TokenDo,
	"end":    TokenEnd,
	"return": TokenReturn,
	"break":  TokenBreak,
}

// LookupKeyword returns the keyword token type for word, if it is reserved.
func LookupKeyword(word string) (TokenType, bool) {
	tt, ok := keywords[word]
	return tt, ok
}

// IsKeyword reports whether the token type is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenAnd && tt <= TokenBreak
}

// LexError is a tokenization failure at a source position.
type LexError struct {
	Pos     position.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Message)
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // line of ch
	column       int  // column of ch
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns its tokens in source order,
// comments included. The EOF marker is not part of the result.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) currentPosition() position.Position {
	return position.Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) errorf(pos position.Position, format string, args ...any) *LexError {
	return &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// skipWhitespace skips whitespace characters including newlines
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isSpace(l.ch) {
		l.readChar()
	}
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	start := l.currentPosition()
	if l.atEOF() {
		return Token{Type: TokenEOF, Pos: start}, nil
	}

	if l.ch == '#' {
		return Token{Type: TokenComment, Literal: l.readComment(), Pos: start}, nil
	}

	if tt, width, ok := l.operator(); ok {
		literal := l.input[l.position : l.position+width]
		for i := 0; i < width; i++ {
			l.readChar()
		}
		return Token{Type: tt, Literal: literal, Pos: start}, nil
	}

	switch {
	case isDigit(l.ch):
		literal, isFloat, err := l.readNumber()
		if err != nil {
			return Token{}, err
		}
		tt := TokenInt
		if isFloat {
			tt = TokenFloat
		}
		return Token{Type: tt, Literal: literal, Pos: start}, nil
	case isSymbolChar(l.ch):
		word := l.readSymbol()
		if tt, ok := keywords[word]; ok {
			return Token{Type: tt, Literal: word, Pos: start}, nil
		}
		return Token{Type: TokenSymbol, Literal: word, Pos: start}, nil
	case l.ch == '"':
		str, err := l.readString()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenString, Literal: str, Pos: start}, nil
	}

	return Token{}, l.errorf(start, "unknown character %q", l.ch)
}

// operator recognizes punctuation and operators at the current character.
func (l *Lexer) operator() (TokenType, int, bool) {
	switch l.ch {
	case '{':
		return TokenCurlyOpen, 1, true
	case '}':
		return TokenCurlyClose, 1, true
	case '[':
		return TokenSquareOpen, 1, true
	case ']':
		return TokenSquareClose, 1, true
	case '(':
		return TokenParenOpen, 1, true
	case ')':
		return TokenParenClose, 1, true
	case '+':
		return TokenPlus, 1, true
	case '-':
		return TokenMinus, 1, true
	case '*':
		return TokenAsterisk, 1, true
	case '/':
		return TokenSlash, 1, true
	case '^':
		return TokenCaret, 1, true
	case ',':
		return TokenComma, 1, true
	case '=':
		if l.peekChar() == '=' {
			return TokenEqualEqual, 2, true
		}
		return TokenEqual, 1, true
	case '>':
		if l.peekChar() == '=' {
			return TokenGreaterEqual, 2, true
		}
		return TokenGreater, 1, true
	case '<':
		if l.peekChar() == '=' {
			return TokenLessEqual, 2, true
		}
		return TokenLess, 1, true
	}
	return 0, 0, false
}

// readComment reads from '#' up to, not including, the end of the line
func (l *Lexer) readComment() string {
	start := l.position
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads digits with at most one decimal point
func (l *Lexer) readNumber() (string, bool, error) {
	start := l.position
	hasDot := false
	for !l.atEOF() && (isDigit(l.ch) || l.ch == '.') {
		if l.ch == '.' {
			if hasDot {
				return "", false, l.errorf(l.currentPosition(),
					"malformed number %q: unexpected second '.'", l.input[start:l.position+1])
			}
			hasDot = true
		}
		l.readChar()
	}
	return l.input[start:l.position], hasDot, nil
}

func (l *Lexer) readSymbol() string {
	start := l.position
	for !l.atEOF() && isSymbolChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString reads a double-quoted string and resolves its escapes
func (l *Lexer) readString() (string, error) {
	start := l.currentPosition()
	var sb strings.Builder
	l.readChar() // opening quote

	for !l.atEOF() && l.ch != '"' {
		if l.ch != '\\' {
			sb.WriteByte(l.ch)
			l.readChar()
			continue
		}

		escPos := l.currentPosition()
		l.readChar()
		if l.atEOF() {
			return "", l.errorf(start, "unterminated string")
		}
		switch l.ch {
		case '"':
			sb.WriteByte('"')
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '\\':
			sb.WriteByte('\\')
		default:
			return "", l.errorf(escPos, "unrecognized escape sequence \\%c", l.ch)
		}
		l.readChar()
	}

	if l.atEOF() {
		return "", l.errorf(start, "unterminated string")
	}
	l.readChar() // closing quote
	return sb.String(), nil
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

// isLetter checks if character is ASCII letter
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isSymbolChar reports characters allowed in identifiers; '!' and '?' are
// allowed so names like empty? and swap! read naturally.
func isSymbolChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '!' || ch == '?'
}
