package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/inn-lang/inn/internal/ast"
	"github.com/inn-lang/inn/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q) failed: %v", src, err)
	}
	return prog
}

func TestExpressionShapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// precedence
		{"1+2*3", "Add(1, Mul(2, 3))"},
		{"1*2+3", "Add(Mul(1, 2), 3)"},
		{"a or b and c", "Or(a, And(b, c))"},
		{"a == b < c", "Equal(a, Less(b, c))"},
		{"a = b + 1", "Assign(a, Add(b, 1))"},
		{"x >= 1 and y <= 2", "And(GreaterEq(x, 1), LessEq(y, 2))"},
		{"a > b", "Greater(a, b)"},

		// associativity
		{"2^3^2", "Exp(2, Exp(3, 2))"},
		{"1-2-3", "Sub(Sub(1, 2), 3)"},
		{"8/4/2", "Div(Div(8, 4), 2)"},
		{"a = b = c", "Assign(Assign(a, b), c)"},
		{"2*3^2", "Mul(2, Exp(3, 2))"},

		// prefix operators
		{"-x", "Neg(_, x)"},
		{"+x", "Pos(_, x)"},
		{"not a", "Not(_, a)"},
		{"- -x", "Neg(_, Neg(_, x))"},
		{"-x^2", "Exp(Neg(_, x), 2)"},
		{"-a[0]", "Neg(_, Index(a, 0))"},
		{"not a == b", "Equal(Not(_, a), b)"},
		{"1 - -2", "Sub(1, Neg(_, 2))"},
		{"2^-x", "Exp(2, Neg(_, x))"},

		// postfix forms
		{"f(1,2)", "Call(f, [1, 2])"},
		{"f()", "Call(f, [])"},
		{"a[0]", "Index(a, 0)"},
		{"m[i][j]", "Index(Index(m, i), j)"},
		{"f(x)(y)", "Call(Call(f, [x]), [y])"},
		{"fs[0](1)", "Call(Index(fs, 0), [1])"},
		{"a[i+1] = f(a[i]) * 2", "Assign(Index(a, Add(i, 1)), Mul(Call(f, [Index(a, i)]), 2))"},

		// grouping and arrays
		{"(1+2)*3", "Mul(Add(1, 2), 3)"},
		{"((x))", "x"},
		{"2^(3^2)", "Exp(2, Exp(3, 2))"},
		{"(2^3)^2", "Exp(Exp(2, 3), 2)"},
		{"[]", "[]"},
		{"[1, 2.5, \"s\"]", "[1, 2.5, \"s\"]"},
		{"[[1], []]", "[[1], []]"},
		{"[1, 2][0]", "Index([1, 2], 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseExpr(tt.input)
			if err != nil {
				t.Fatalf("ParseExpr(%q) failed: %v", tt.input, err)
			}
			if got := ast.Dump(expr); got != tt.expected {
				t.Errorf("ParseExpr(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestOperandPresence(t *testing.T) {
	inputs := []string{
		"-a + b * c ^ d - not e",
		"x = y == z or w and -v[1]",
		"f(-1, a[2] + 3) / 4",
	}
	for _, input := range inputs {
		expr, err := ParseExpr(input)
		if err != nil {
			t.Fatalf("ParseExpr(%q) failed: %v", input, err)
		}
		ast.Inspect(expr, func(n ast.Node) bool {
			op, ok := n.(*ast.Operation)
			if !ok {
				return true
			}
			switch op.Op.Role() {
			case ast.Prefix:
				if op.Left.Present() || !op.Right.Present() {
					t.Errorf("%s: prefix %s has wrong operands", input, op.Op)
				}
			default:
				if !op.Left.Present() || !op.Right.Present() {
					t.Errorf("%s: %s is missing an operand", input, op.Op)
				}
			}
			if op.Op == ast.OpCall {
				t.Errorf("%s: calls must be Call nodes", input)
			}
			return true
		})
	}
}

func TestLiteralValues(t *testing.T) {
	expr, err := ParseExpr(`[42, 0.5, 7., "a\tb", snake_case?]`)
	if err != nil {
		t.Fatalf("ParseExpr failed: %v", err)
	}
	arr := expr.(*ast.ArrayLiteral)
	if len(arr.Elements) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(arr.Elements))
	}

	lit := func(i int) *ast.Literal { return arr.Elements[i].(*ast.Literal) }
	if l := lit(0); l.Kind != ast.LiteralInteger || l.Int() != 42 {
		t.Errorf("element 0 = %v %v", l.Kind, l.Value)
	}
	if l := lit(1); l.Kind != ast.LiteralFloat || l.Float() != 0.5 {
		t.Errorf("element 1 = %v %v", l.Kind, l.Value)
	}
	if l := lit(2); l.Kind != ast.LiteralFloat || l.Float() != 7 {
		t.Errorf("element 2 = %v %v", l.Kind, l.Value)
	}
	if l := lit(3); l.Kind != ast.LiteralString || l.Text() != "a\tb" {
		t.Errorf("element 3 = %v %q", l.Kind, l.Text())
	}
	if l := lit(4); l.Kind != ast.LiteralSymbol || l.Text() != "snake_case?" {
		t.Errorf("element 4 = %v %q", l.Kind, l.Text())
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"var", "var x int", "Var(x, int)"},
		{"var init", "var x float = 1.5", "Var(x, float, 1.5)"},
		{"array var", "var a [3]int = [1, 2, 3]", "Var(a, [3]int, [1, 2, 3])"},
		{"unresolved type", "var p point", "Var(p, point)"},
		{"expression", "print(x)", "Expr(Call(print, [x]))"},
		{"while", "while i < 10 do i = i + 1 end", "While(Less(i, 10), [Expr(Assign(i, Add(i, 1)))])"},
		{"empty while", "while running do end", "While(running, [])"},
		{"if", "if a do x end", "If([(a, [Expr(x)])])"},
		{"if else", "if a do x else y end", "If([(a, [Expr(x)])], else [Expr(y)])"},
		{"if else do", "if a do x else do y end", "If([(a, [Expr(x)])], else [Expr(y)])"},
		{"if chain", "if a do S1 else if b do S2 else S3 end",
			"If([(a, [Expr(S1)]), (b, [Expr(S2)])], else [Expr(S3)])"},
		{"else if without else", "if a do else if b do else if c do end",
			"If([(a, []), (b, []), (c, [])])"},
		{"nested if in else", "if a do x else do if b do y end end",
			"If([(a, [Expr(x)])], else [If([(b, [Expr(y)])])])"},
		{"return value", "return x + 1", "Return(Add(x, 1))"},
		{"bare return", "return", "Return()"},
		{"break", "while 1 do break end", "While(1, [Break])"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.input)
			if len(prog.Units) != 1 {
				t.Fatalf("expected 1 unit, got %d: %s", len(prog.Units), ast.Dump(prog))
			}
			if got := ast.Dump(prog.Units[0]); got != tt.expected {
				t.Errorf("got  %s\nwant %s", got, tt.expected)
			}
		})
	}
}

func TestIfBranches(t *testing.T) {
	prog := mustParse(t, "if a do S1 else if b do S2 else S3 end")
	stmt, ok := prog.Units[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Units[0])
	}
	if len(stmt.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(stmt.Branches))
	}
	for i, want := range []string{"a", "b"} {
		if got := ast.Dump(stmt.Branches[i].Cond); got != want {
			t.Errorf("branch %d condition = %s, want %s", i, got, want)
		}
		if len(stmt.Branches[i].Body) != 1 {
			t.Errorf("branch %d has %d statements", i, len(stmt.Branches[i].Body))
		}
	}
	if !stmt.HasElse || len(stmt.Else) != 1 {
		t.Errorf("trailing body = %v (present=%v)", stmt.Else, stmt.HasElse)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	src := `
# adds two numbers
func add(a int, b [2]float) int do
	var s int = a + b[0]
	return s
end

func noop() void do end

add(1, [2.0, 3.0])
`
	prog := mustParse(t, src)
	if len(prog.Units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(prog.Units))
	}

	fn, ok := prog.Units[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("unit 0 is %T, want *ast.FuncDecl", prog.Units[0])
	}
	want := "Func(add, [a int, b [2]float], int, [Var(s, int, Add(a, Index(b, 0))), Return(s)])"
	if got := ast.Dump(fn); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if fn.Pos().Line != 3 || fn.Pos().Column != 1 {
		t.Errorf("function position = %s, want 3:1", fn.Pos())
	}
	if fn.Params[1].Start.Column != 17 {
		t.Errorf("parameter b at %s, want column 17", fn.Params[1].Start)
	}

	if got := ast.Dump(prog.Units[1]); got != "Func(noop, [], void, [])" {
		t.Errorf("unit 1 = %s", got)
	}
	if _, ok := prog.Units[2].(*ast.ExprStmt); !ok {
		t.Errorf("unit 2 is %T, want *ast.ExprStmt", prog.Units[2])
	}
}

func TestProgramOrder(t *testing.T) {
	prog := mustParse(t, "var x int\nx = 1\nfunc f() int do return x end\nprint(f())\nx = 2 y = 3")
	want := []string{
		"Var(x, int)",
		"Expr(Assign(x, 1))",
		"Func(f, [], int, [Return(x)])",
		"Expr(Call(print, [Call(f, [])]))",
		"Expr(Assign(x, 2))",
		"Expr(Assign(y, 3))",
	}
	if len(prog.Units) != len(want) {
		t.Fatalf("expected %d units, got %d:\n%s", len(want), len(prog.Units), ast.Dump(prog))
	}
	for i, w := range want {
		if got := ast.Dump(prog.Units[i]); got != w {
			t.Errorf("unit %d = %s, want %s", i, got, w)
		}
	}
}

func TestEmptyAndCommentOnly(t *testing.T) {
	for _, src := range []string{"", "   \n", "# only a comment\n# and another"} {
		prog := mustParse(t, src)
		if len(prog.Units) != 0 {
			t.Errorf("ParseString(%q) produced %d units", src, len(prog.Units))
		}
	}
}

func TestCommentsAreIgnored(t *testing.T) {
	prog := mustParse(t, "var x # trailing\nint = # here\n 1")
	if got := ast.Dump(prog); got != "Var(x, int, 1)" {
		t.Errorf("got %s", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		column  int
		message string
	}{
		{"zero array size", "var a [0]int", 1, 8, "array size must be positive"},
		{"missing type before =", "var x =", 1, 7, "expected type"},
		{"missing initializer", "var x int =", 1, 11, "expected valid left operand"},
		{"missing initializer mid stream", "var x int = end", 1, 13, "expected valid left operand"},
		{"negative array size", "var a [-1]int", 1, 8, "expected array size"},
		{"array size overflow", "var a [99999999999999999999]int", 1, 8, "out of range"},
		{"integer overflow", "x = 99999999999999999999", 1, 5, "out of range"},
		{"missing variable name", "var 1 int", 1, 5, "expected variable name"},
		{"missing element type", "var a [2]", 1, 9, "expected element type name"},
		{"unclosed paren", "(1 + 2", 1, 6, "expected ')'"},
		{"unclosed index", "a[1", 1, 3, "expected ']'"},
		{"trailing comma in call", "f(1,)", 1, 5, "expected valid left operand"},
		{"trailing comma in array", "[1,]", 1, 4, "expected valid left operand"},
		{"missing comma in call", "f(1 2)", 1, 5, "expected ',' or ')'"},
		{"missing comma in array", "[1 2]", 1, 4, "expected ',' or ']'"},
		{"dangling operator", "1 +", 1, 3, "expected valid left operand"},
		{"stray end", "end", 1, 1, "expected valid left operand"},
		{"stray else", "x\nelse", 2, 1, "expected valid left operand"},
		{"while without do", "while x y end", 1, 9, "expected 'do'"},
		{"unterminated while", "while x do\n  y = 1", 2, 7, "expected 'end'"},
		{"unterminated if", "if x do y else z", 1, 16, "expected 'end'"},
		{"if without condition", "if do end", 1, 4, "expected valid left operand"},
		{"nested function", "func f() int do\n  func g() int do end\nend", 2, 3, "expected valid left operand"},
		{"function without parens", "func f int do end", 1, 8, "expected '('"},
		{"bad parameter list", "func f(a int b int) int do end", 1, 14, "expected ',' or ')' in parameter list"},
		{"function without result", "func f() do end", 1, 10, "expected type"},
		{"function without name", "func (a int) int do end", 1, 6, "expected function name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(tt.input)
			if err == nil {
				t.Fatalf("expected error, got %s", ast.Dump(prog))
			}
			if prog != nil {
				t.Errorf("no tree should be returned with an error")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if parseErr.Pos.Line != tt.line || parseErr.Pos.Column != tt.column {
				t.Errorf("error at %s, want %d:%d (%v)", parseErr.Pos, tt.line, tt.column, err)
			}
			if !strings.Contains(parseErr.Message, tt.message) {
				t.Errorf("message %q does not contain %q", parseErr.Message, tt.message)
			}
		})
	}
}

func TestLexErrorsPassThrough(t *testing.T) {
	_, err := ParseString(`x = "open`)
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.LexError, got %T: %v", err, err)
	}
}

func TestParseExprRejectsLeftovers(t *testing.T) {
	if _, err := ParseExpr("1 2"); err == nil {
		t.Error("expected error for trailing tokens")
	}
	if _, err := ParseExpr(""); err == nil {
		t.Error("expected error for empty expression")
	}
}

func TestParseConsumesEverything(t *testing.T) {
	tokens, err := lexer.Tokenize("var v [2]int = [1, 2]\nwhile v[0] < 3 do v[0] = v[0] + 1 end")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	p := New(tokens)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	if !p.atEnd() {
		t.Errorf("parser stopped at token %d of %d", p.pos, len(p.tokens))
	}
	if len(prog.Units) != 2 {
		t.Errorf("expected 2 units, got %d", len(prog.Units))
	}
}
