package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders a node as a compact structural expression, for example
// Add(1, Mul(2, 3)) or Neg(_, x). Absent operands print as "_". Two trees
// are structurally identical exactly when their dumps are equal, which is
// what round-trip checks compare.
func Dump(node Node) string {
	if node == nil {
		return "<nil>"
	}
	d := &dumper{}
	return node.Accept(d).(string)
}

type dumper struct{}

func (d *dumper) VisitProgram(node *Program) interface{} {
	lines := make([]string, len(node.Units))
	for i, u := range node.Units {
		lines[i] = Dump(u)
	}
	return strings.Join(lines, "\n")
}

func (d *dumper) VisitFuncDecl(node *FuncDecl) interface{} {
	params := make([]string, len(node.Params))
	for i, p := range node.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("Func(%s, [%s], %s, [%s])",
		node.Name, strings.Join(params, ", "), node.Result, joinNodes(node.Body))
}

func (d *dumper) VisitVarDecl(node *VarDecl) interface{} {
	if node.Init == nil {
		return fmt.Sprintf("Var(%s, %s)", node.Name, node.Type)
	}
	return fmt.Sprintf("Var(%s, %s, %s)", node.Name, node.Type, Dump(node.Init))
}

func (d *dumper) VisitExprStmt(node *ExprStmt) interface{} {
	return "Expr(" + Dump(node.X) + ")"
}

func (d *dumper) VisitWhile(node *While) interface{} {
	return fmt.Sprintf("While(%s, [%s])", Dump(node.Cond), joinNodes(node.Body))
}

func (d *dumper) VisitIf(node *If) interface{} {
	branches := make([]string, len(node.Branches))
	for i, b := range node.Branches {
		branches[i] = fmt.Sprintf("(%s, [%s])", Dump(b.Cond), joinNodes(b.Body))
	}
	out := "If([" + strings.Join(branches, ", ") + "]"
	if node.HasElse {
		out += ", else [" + joinNodes(node.Else) + "]"
	}
	return out + ")"
}

func (d *dumper) VisitReturn(node *Return) interface{} {
	if node.Value == nil {
		return "Return()"
	}
	return "Return(" + Dump(node.Value) + ")"
}

func (d *dumper) VisitBreak(node *Break) interface{} {
	return "Break"
}

func (d *dumper) VisitOperation(node *Operation) interface{} {
	return fmt.Sprintf("%s(%s, %s)", node.Op, dumpOperand(node.Left), dumpOperand(node.Right))
}

func dumpOperand(o Operand) string {
	if e, ok := o.Get(); ok {
		return Dump(e)
	}
	return "_"
}

func (d *dumper) VisitArrayLiteral(node *ArrayLiteral) interface{} {
	return "[" + joinNodes(node.Elements) + "]"
}

func (d *dumper) VisitLiteral(node *Literal) interface{} {
	switch node.Kind {
	case LiteralInteger:
		return strconv.FormatInt(node.Int(), 10)
	case LiteralFloat:
		s := strconv.FormatFloat(node.Float(), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case LiteralString:
		return strconv.Quote(node.Text())
	default:
		return node.Text()
	}
}

func (d *dumper) VisitCall(node *Call) interface{} {
	return fmt.Sprintf("Call(%s, [%s])", Dump(node.Callee), joinNodes(node.Args))
}
