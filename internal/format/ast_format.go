package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inn-lang/inn/internal/ast"
)

// ErrNoSyntax is returned for trees that have no source spelling, such as a
// dereference built with ast.Deref.
var ErrNoSyntax = errors.New("node has no source syntax")

// ASTFormatter renders a tree back to inn source. Expressions get the
// minimum parentheses needed for the parser to rebuild the same tree.
type ASTFormatter struct {
	options Options
	indent  int
	buffer  strings.Builder
	err     error
}

// NewASTFormatter creates a new AST formatter with the given options
func NewASTFormatter(options Options) *ASTFormatter {
	if options.IndentSize <= 0 {
		options.IndentSize = 4
	}
	return &ASTFormatter{options: options}
}

// FormatProgram renders every unit of prog with LF line endings. Functions
// are separated from their neighbours by a blank line.
func (f *ASTFormatter) FormatProgram(prog *ast.Program) (string, error) {
	f.reset()
	for i, unit := range prog.Units {
		if i > 0 && (isFunc(unit) || isFunc(prog.Units[i-1])) {
			f.writeNewline()
		}
		f.formatUnit(unit)
	}
	return f.result()
}

// FormatExpr renders a single expression without a trailing newline.
func (f *ASTFormatter) FormatExpr(expr ast.Expression) (string, error) {
	f.reset()
	f.writeString(f.expr(expr))
	return f.result()
}

func (f *ASTFormatter) reset() {
	f.buffer.Reset()
	f.indent = 0
	f.err = nil
}

func (f *ASTFormatter) result() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.buffer.String(), nil
}

func isFunc(u ast.Unit) bool {
	_, ok := u.(*ast.FuncDecl)
	return ok
}

func (f *ASTFormatter) formatUnit(unit ast.Unit) {
	if fn, ok := unit.(*ast.FuncDecl); ok {
		f.formatFunc(fn)
		return
	}
	f.formatStatement(unit.(ast.Statement))
}

func (f *ASTFormatter) formatFunc(fn *ast.FuncDecl) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.String()
	}
	f.line(fmt.Sprintf("func %s(%s) %s do", fn.Name, strings.Join(params, ", "), fn.Result))
	f.block(fn.Body)
	f.line("end")
}

func (f *ASTFormatter) formatStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		text := fmt.Sprintf("var %s %s", s.Name, s.Type)
		if s.Init != nil {
			text += " = " + f.expr(s.Init)
		}
		f.line(text)
	case *ast.ExprStmt:
		f.line(f.expr(s.X))
	case *ast.While:
		f.line("while " + f.expr(s.Cond) + " do")
		f.block(s.Body)
		f.line("end")
	case *ast.If:
		for i, b := range s.Branches {
			kw := "if "
			if i > 0 {
				kw = "else if "
			}
			f.line(kw + f.expr(b.Cond) + " do")
			f.block(b.Body)
		}
		if s.HasElse {
			// A bare else followed by if would read back as else-if.
			if len(s.Else) > 0 {
				if _, nested := s.Else[0].(*ast.If); nested {
					f.line("else do")
				} else {
					f.line("else")
				}
			} else {
				f.line("else")
			}
			f.block(s.Else)
		}
		f.line("end")
	case *ast.Return:
		if s.Value == nil {
			f.line("return")
		} else {
			f.line("return " + f.expr(s.Value))
		}
	case *ast.Break:
		f.line("break")
	default:
		f.fail(fmt.Errorf("format: unsupported statement %T", stmt))
	}
}

func (f *ASTFormatter) block(body []ast.Statement) {
	f.indent++
	for _, stmt := range body {
		f.formatStatement(stmt)
	}
	f.indent--
}

// expr renders an expression. Child expressions are parenthesized only
// when their binding strength would otherwise regroup them.
func (f *ASTFormatter) expr(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Literal:
		return formatLiteral(n)
	case *ast.ArrayLiteral:
		return "[" + f.list(n.Elements) + "]"
	case *ast.Call:
		return f.wrapIf(n.Callee, precedenceOf(n.Callee) < ast.MaxPrecedence) + "(" + f.list(n.Args) + ")"
	case *ast.Operation:
		return f.operation(n)
	}
	f.fail(fmt.Errorf("format: unsupported expression %T", e))
	return ""
}

func (f *ASTFormatter) operation(op *ast.Operation) string {
	switch op.Op.Role() {
	case ast.Prefix:
		operand := op.Right.MustGet()
		_, operandIsPrefix := prefixOperation(operand)
		text := f.wrapIf(operand, !operandIsPrefix && precedenceOf(operand) <= op.Op.Precedence())
		if op.Op == ast.OpNot {
			return "not " + text
		}
		return op.Op.Symbol() + text

	case ast.Postfix:
		left := op.Left.MustGet()
		index, ok := op.Right.Get()
		if !ok {
			f.fail(fmt.Errorf("format: dereference at %s: %w", op.Pos(), ErrNoSyntax))
			return ""
		}
		return f.wrapIf(left, precedenceOf(left) < ast.MaxPrecedence) + "[" + f.expr(index) + "]"
	}

	prec := op.Op.Precedence()
	left, right := op.Left.MustGet(), op.Right.MustGet()
	lp, rp := precedenceOf(left), precedenceOf(right)

	leftText := f.wrapIf(left, lp < prec || (lp == prec && op.Op.RightAssoc()))
	rightText := f.wrapIf(right, rp < prec || (rp == prec && !op.Op.RightAssoc()))
	return leftText + " " + op.Op.Symbol() + " " + rightText
}

func (f *ASTFormatter) wrapIf(e ast.Expression, parens bool) string {
	text := f.expr(e)
	if parens {
		return "(" + text + ")"
	}
	return text
}

func (f *ASTFormatter) list(items []ast.Expression) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = f.expr(item)
	}
	return strings.Join(parts, ", ")
}

// precedenceOf returns how tightly a rendered expression holds together.
func precedenceOf(e ast.Expression) int {
	if op, ok := e.(*ast.Operation); ok {
		return op.Op.Precedence()
	}
	return ast.MaxPrecedence
}

func prefixOperation(e ast.Expression) (*ast.Operation, bool) {
	op, ok := e.(*ast.Operation)
	if !ok || op.Op.Role() != ast.Prefix {
		return nil, false
	}
	return op, true
}

func formatLiteral(l *ast.Literal) string {
	switch l.Kind {
	case ast.LiteralInteger:
		return strconv.FormatInt(l.Int(), 10)
	case ast.LiteralFloat:
		s := strconv.FormatFloat(l.Float(), 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case ast.LiteralString:
		return quote(l.Text())
	default:
		return l.Text()
	}
}

// quote escapes exactly the sequences the lexer understands.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (f *ASTFormatter) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// Writing helper functions
func (f *ASTFormatter) line(s string) {
	f.writeIndent()
	f.writeString(s)
	f.writeNewline()
}

func (f *ASTFormatter) writeString(s string) {
	f.buffer.WriteString(s)
}

func (f *ASTFormatter) writeNewline() {
	f.buffer.WriteString("\n")
}

func (f *ASTFormatter) writeIndent() {
	if f.options.PreferTabs {
		f.buffer.WriteString(strings.Repeat("\t", f.indent))
	} else {
		f.buffer.WriteString(strings.Repeat(" ", f.indent*f.options.IndentSize))
	}
}
