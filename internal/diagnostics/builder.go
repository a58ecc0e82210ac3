package diagnostics

import (
	"errors"
	"fmt"

	"github.com/inn-lang/inn/internal/codegen"
	"github.com/inn-lang/inn/internal/lexer"
	"github.com/inn-lang/inn/internal/parser"
	"github.com/inn-lang/inn/internal/position"
)

// DiagnosticBuilder provides a fluent interface for building diagnostics.
type DiagnosticBuilder struct {
	diagnostic Diagnostic
}

// NewDiagnosticBuilder creates a new diagnostic builder.
func NewDiagnosticBuilder() *DiagnosticBuilder {
	return &DiagnosticBuilder{}
}

// Error creates an error-level diagnostic.
func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

// Warning creates a warning-level diagnostic.
func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning

	return db
}

// WithCode sets the error code.
func (db *DiagnosticBuilder) WithCode(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

// WithCategory sets the diagnostic category.
func (db *DiagnosticBuilder) WithCategory(category DiagnosticCategory) *DiagnosticBuilder {
	db.diagnostic.Category = category

	return db
}

// WithMessage sets the main diagnostic message.
func (db *DiagnosticBuilder) WithMessage(message string) *DiagnosticBuilder {
	db.diagnostic.Message = message

	return db
}

// WithMessagef sets the main diagnostic message with formatting.
func (db *DiagnosticBuilder) WithMessagef(format string, args ...interface{}) *DiagnosticBuilder {
	db.diagnostic.Message = fmt.Sprintf(format, args...)

	return db
}

// WithPos sets the source location.
func (db *DiagnosticBuilder) WithPos(pos position.Position) *DiagnosticBuilder {
	db.diagnostic.Pos = pos

	return db
}

// WithSourceFile sets the file name. When src is not nil the line under the
// position becomes the diagnostic context, so call it after WithPos.
func (db *DiagnosticBuilder) WithSourceFile(filename string, src *position.SourceFile) *DiagnosticBuilder {
	db.diagnostic.SourceFile = filename
	if src != nil && db.diagnostic.HasPosition() {
		db.diagnostic.Context = src.GetLine(db.diagnostic.Pos.Line)
	}

	return db
}

// Build returns the built diagnostic.
func (db *DiagnosticBuilder) Build() Diagnostic {
	return db.diagnostic
}

// FromError classifies err by the stage that produced it. Lex, parse and
// codegen errors carry their position; anything else becomes a
// location-free I/O error for the file.
func FromError(err error, src *position.SourceFile) Diagnostic {
	filename := ""
	if src != nil {
		filename = src.Filename
	}

	b := NewDiagnosticBuilder().Error()
	var (
		lexErr   *lexer.LexError
		parseErr *parser.ParseError
		genErr   *codegen.Error
	)
	switch {
	case errors.As(err, &lexErr):
		b.WithCode("E001").WithCategory(CategoryLexical).WithMessage(lexErr.Message).WithPos(lexErr.Pos)
	case errors.As(err, &parseErr):
		b.WithCode("E002").WithCategory(CategorySyntax).WithMessage(parseErr.Message).WithPos(parseErr.Pos)
	case errors.As(err, &genErr):
		b.WithCode("E003").WithCategory(CategoryCodegen).WithMessage(genErr.Message).WithPos(genErr.Pos)
	default:
		b.WithCategory(CategoryIO).WithMessage(err.Error())
	}
	return b.WithSourceFile(filename, src).Build()
}

// CommentsKeptWarning reports that fmt only cleaned whitespace because a
// structural rewrite would have dropped the file's comments.
func CommentsKeptWarning(filename string) Diagnostic {
	return NewDiagnosticBuilder().
		Warning().
		WithCode("W001").
		WithCategory(CategoryFormat).
		WithMessage("file contains comments; only whitespace was normalized").
		WithSourceFile(filename, nil).
		Build()
}
