// Package codegen translates an inn program into C source.
//
// Each operation is emitted fully parenthesized so C precedence never
// matters. Function definitions are preceded by prototypes, top-level
// variables become file-scope declarations, and the remaining top-level
// statements run in order inside a generated main.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inn-lang/inn/internal/ast"
	"github.com/inn-lang/inn/internal/position"
)

// Error is a code generation failure at a source position.
type Error struct {
	Pos     position.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("codegen error at %s: %s", e.Pos, e.Message)
}

// Output is a generated C translation unit.
type Output struct {
	Source string
	// Libraries lists the extra libraries to link, without the -l prefix.
	Libraries []string
}

// cTypes maps inn scalar type names to C. Unknown names pass through.
var cTypes = map[string]string{
	"int":    "int",
	"float":  "float",
	"string": "char*",
}

func cScalarType(name string) string {
	if c, ok := cTypes[name]; ok {
		return c
	}
	return name
}

// declare renders a C declarator for name with type t.
func declare(t ast.Type, name string) string {
	decl := cScalarType(t.Name) + " " + name
	if t.IsArray() {
		decl += "[" + strconv.Itoa(t.Count) + "]"
	}
	return decl
}

// resultType renders a function result type. C cannot return arrays, so an
// array result decays to a pointer to its element type.
func resultType(t ast.Type) string {
	if t.IsArray() {
		return cScalarType(t.Name) + "*"
	}
	return cScalarType(t.Name)
}

type emitter struct {
	b         strings.Builder
	indent    int
	declared  map[string]bool   // user functions and top-level variables
	scopes    []map[string]bool // parameters and locals of enclosing blocks
	builtins  map[string]bool
	needsLibm bool
	err       error
}

// EmitC generates a complete C file for prog.
func EmitC(prog *ast.Program) (*Output, error) {
	e := &emitter{declared: map[string]bool{}, builtins: map[string]bool{}}

	var (
		funcs   []*ast.FuncDecl
		globals []*ast.VarDecl
		mainFn  *ast.FuncDecl
		body    []ast.Statement
	)
	for _, unit := range prog.Units {
		switch u := unit.(type) {
		case *ast.FuncDecl:
			if e.declared[u.Name] {
				return nil, &Error{Pos: u.Start, Message: fmt.Sprintf("function %s declared twice", u.Name)}
			}
			e.declared[u.Name] = true
			funcs = append(funcs, u)
			if u.Name == "main" {
				mainFn = u
			}
		case *ast.VarDecl:
			e.declared[u.Name] = true
			globals = append(globals, u)
			if !isConstant(u.Init) {
				body = append(body, u)
			}
		case ast.Statement:
			body = append(body, u)
		}
	}
	if mainFn != nil && len(body) > 0 {
		return nil, &Error{Pos: body[0].Pos(),
			Message: "top-level statements cannot be combined with a function named main"}
	}
	for _, g := range globals {
		e.emitGlobal(g)
	}
	if len(globals) > 0 {
		e.b.WriteString("\n")
	}

	for _, fn := range funcs {
		e.emitFunc(fn)
		e.b.WriteString("\n")
	}

	if mainFn == nil {
		e.line("int main(void) {")
		e.indent++
		for _, stmt := range body {
			if decl, ok := stmt.(*ast.VarDecl); ok {
				// Declared at file scope; only the initialization runs here.
				e.line(fmt.Sprintf("%s = %s;", decl.Name, e.expr(decl.Init)))
				continue
			}
			e.emitStmt(stmt)
		}
		e.line("return 0;")
		e.indent--
		e.line("}")
	}

	if e.err != nil {
		return nil, e.err
	}

	// Builtins are known only once every reference has been emitted.
	var out strings.Builder
	out.WriteString("#include <math.h>\n#include <stdio.h>\n#include <stdlib.h>\n\n")
	out.WriteString(generateBuiltins(e.builtins))
	for _, fn := range funcs {
		out.WriteString(e.prototype(fn) + ";\n")
	}
	if len(funcs) > 0 {
		out.WriteString("\n")
	}
	out.WriteString(e.b.String())

	result := &Output{Source: out.String()}
	if e.needsLibm {
		result.Libraries = append(result.Libraries, "m")
	}
	return result, nil
}

func (e *emitter) push(names ...string) {
	scope := make(map[string]bool, len(names))
	for _, name := range names {
		scope[name] = true
	}
	e.scopes = append(e.scopes, scope)
}

func (e *emitter) pop() { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *emitter) bind(name string) {
	if len(e.scopes) > 0 {
		e.scopes[len(e.scopes)-1][name] = true
	}
}

// bound reports whether name refers to a user declaration rather than a
// builtin or libm function.
func (e *emitter) bound(name string) bool {
	if e.declared[name] {
		return true
	}
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if e.scopes[i][name] {
			return true
		}
	}
	return false
}

// isConstant reports whether an initializer is valid at C file scope.
func isConstant(init ast.Expression) bool {
	if init == nil {
		return true
	}
	constant := true
	ast.Inspect(init, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Literal:
			if n.Kind == ast.LiteralSymbol {
				constant = false
			}
		case *ast.Call:
			constant = false
		case *ast.Operation:
			if n.Op == ast.OpAssign || n.Op == ast.OpExp || n.Op == ast.OpIndex {
				constant = false
			}
		}
		return constant
	})
	return constant
}

func (e *emitter) emitGlobal(decl *ast.VarDecl) {
	if decl.Init != nil && isConstant(decl.Init) {
		e.line(fmt.Sprintf("%s = %s;", declare(decl.Type, decl.Name), e.expr(decl.Init)))
		return
	}
	if decl.Type.IsArray() && decl.Init != nil {
		e.fail(decl.Start, "top-level array %s needs a constant initializer", decl.Name)
		return
	}
	e.line(declare(decl.Type, decl.Name) + ";")
}

func (e *emitter) prototype(fn *ast.FuncDecl) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = declare(p.Type, p.Name)
	}
	list := strings.Join(params, ", ")
	if list == "" {
		list = "void"
	}
	return fmt.Sprintf("%s %s(%s)", resultType(fn.Result), fn.Name, list)
}

func (e *emitter) emitFunc(fn *ast.FuncDecl) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	e.push(params...)
	defer e.pop()

	e.line(e.prototype(fn) + " {")
	e.block(fn.Body)
	e.line("}")
}

func (e *emitter) block(body []ast.Statement) {
	e.push()
	defer e.pop()

	e.indent++
	for _, stmt := range body {
		e.emitStmt(stmt)
	}
	e.indent--
}

func (e *emitter) emitStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if s.Init == nil {
			e.line(declare(s.Type, s.Name) + ";")
		} else {
			e.line(fmt.Sprintf("%s = %s;", declare(s.Type, s.Name), e.expr(s.Init)))
		}
		e.bind(s.Name)
	case *ast.ExprStmt:
		e.line(e.bare(s.X) + ";")
	case *ast.While:
		e.line("while (" + e.bare(s.Cond) + ") {")
		e.block(s.Body)
		e.line("}")
	case *ast.If:
		for i, br := range s.Branches {
			if i == 0 {
				e.line("if (" + e.bare(br.Cond) + ") {")
			} else {
				e.line("} else if (" + e.bare(br.Cond) + ") {")
			}
			e.block(br.Body)
		}
		if s.HasElse {
			e.line("} else {")
			e.block(s.Else)
		}
		e.line("}")
	case *ast.Return:
		if s.Value == nil {
			e.line("return;")
		} else {
			e.line("return " + e.bare(s.Value) + ";")
		}
	case *ast.Break:
		e.line("break;")
	default:
		e.fail(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

// bare renders an expression without the outermost parentheses, for
// positions that are already delimited.
func (e *emitter) bare(x ast.Expression) string {
	if op, ok := x.(*ast.Operation); ok {
		if sym, ok := cOperators[op.Op]; ok {
			return e.expr(op.Left.MustGet()) + " " + sym + " " + e.expr(op.Right.MustGet())
		}
	}
	return e.expr(x)
}

var cOperators = map[ast.Operator]string{
	ast.OpAdd:       "+",
	ast.OpSub:       "-",
	ast.OpMul:       "*",
	ast.OpDiv:       "/",
	ast.OpAssign:    "=",
	ast.OpEqual:     "==",
	ast.OpGreater:   ">",
	ast.OpGreaterEq: ">=",
	ast.OpLess:      "<",
	ast.OpLessEq:    "<=",
	ast.OpAnd:       "&&",
	ast.OpOr:        "||",
}

func (e *emitter) expr(x ast.Expression) string {
	switch n := x.(type) {
	case *ast.Literal:
		return e.literal(n)
	case *ast.ArrayLiteral:
		return "{" + e.list(n.Elements) + "}"
	case *ast.Call:
		callee := e.expr(n.Callee)
		return callee + "(" + e.list(n.Args) + ")"
	case *ast.Operation:
		return e.operation(n)
	}
	e.fail(x.Pos(), "unsupported expression %T", x)
	return ""
}

func (e *emitter) operation(op *ast.Operation) string {
	switch op.Op {
	case ast.OpNot:
		return "(!" + e.expr(op.Right.MustGet()) + ")"
	case ast.OpPos:
		return "(+" + e.expr(op.Right.MustGet()) + ")"
	case ast.OpNeg:
		return "(-" + e.expr(op.Right.MustGet()) + ")"
	case ast.OpIndex:
		target := e.expr(op.Left.MustGet())
		if index, ok := op.Right.Get(); ok {
			return target + "[" + e.bare(index) + "]"
		}
		return "(*" + target + ")"
	case ast.OpExp:
		e.needsLibm = true
		return "pow(" + e.bare(op.Left.MustGet()) + ", " + e.bare(op.Right.MustGet()) + ")"
	}

	if _, ok := cOperators[op.Op]; !ok {
		e.fail(op.Pos(), "operator %s cannot appear in an operation", op.Op)
		return ""
	}
	return "(" + e.bare(op) + ")"
}

func (e *emitter) literal(l *ast.Literal) string {
	switch l.Kind {
	case ast.LiteralInteger:
		return strconv.FormatInt(l.Int(), 10)
	case ast.LiteralFloat:
		s := strconv.FormatFloat(l.Float(), 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case ast.LiteralString:
		return quoteC(l.Text())
	}

	name := l.Text()
	if e.bound(name) {
		return name
	}
	if mathFunctions[name] {
		e.needsLibm = true
	}
	if fn, ok := GetBuiltinFunction(name); ok {
		e.builtins[name] = true
		return fn.CName
	}
	return name
}

func (e *emitter) list(items []ast.Expression) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = e.bare(item)
	}
	return strings.Join(parts, ", ")
}

// quoteC renders s as a C string literal.
func quoteC(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (e *emitter) line(s string) {
	e.b.WriteString(strings.Repeat("\t", e.indent))
	e.b.WriteString(s)
	e.b.WriteString("\n")
}

func (e *emitter) fail(pos position.Position, format string, args ...any) {
	if e.err == nil {
		e.err = &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
	}
}
