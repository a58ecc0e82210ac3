package ast

// Visitor has one method per concrete node type. Implementations that only
// care about a few nodes embed BaseVisitor.
type Visitor interface {
	VisitProgram(node *Program) interface{}
	VisitFuncDecl(node *FuncDecl) interface{}

	// Statement visitors.
	VisitVarDecl(node *VarDecl) interface{}
	VisitExprStmt(node *ExprStmt) interface{}
	VisitWhile(node *While) interface{}
	VisitIf(node *If) interface{}
	VisitReturn(node *Return) interface{}
	VisitBreak(node *Break) interface{}

	// Expression visitors.
	VisitOperation(node *Operation) interface{}
	VisitArrayLiteral(node *ArrayLiteral) interface{}
	VisitLiteral(node *Literal) interface{}
	VisitCall(node *Call) interface{}
}

// BaseVisitor returns nil for every node.
type BaseVisitor struct{}

func (v *BaseVisitor) VisitProgram(node *Program) interface{}           { return nil }
func (v *BaseVisitor) VisitFuncDecl(node *FuncDecl) interface{}         { return nil }
func (v *BaseVisitor) VisitVarDecl(node *VarDecl) interface{}           { return nil }
func (v *BaseVisitor) VisitExprStmt(node *ExprStmt) interface{}         { return nil }
func (v *BaseVisitor) VisitWhile(node *While) interface{}               { return nil }
func (v *BaseVisitor) VisitIf(node *If) interface{}                     { return nil }
func (v *BaseVisitor) VisitReturn(node *Return) interface{}             { return nil }
func (v *BaseVisitor) VisitBreak(node *Break) interface{}               { return nil }
func (v *BaseVisitor) VisitOperation(node *Operation) interface{}       { return nil }
func (v *BaseVisitor) VisitArrayLiteral(node *ArrayLiteral) interface{} { return nil }
func (v *BaseVisitor) VisitLiteral(node *Literal) interface{}           { return nil }
func (v *BaseVisitor) VisitCall(node *Call) interface{}                 { return nil }

// Inspect traverses the tree rooted at node in depth-first order. It calls
// f for each node; if f returns false the children of that node are
// skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, u := range n.Units {
			Inspect(u, f)
		}
	case *FuncDecl:
		inspectBody(n.Body, f)
	case *VarDecl:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
	case *ExprStmt:
		Inspect(n.X, f)
	case *While:
		Inspect(n.Cond, f)
		inspectBody(n.Body, f)
	case *If:
		for _, b := range n.Branches {
			Inspect(b.Cond, f)
			inspectBody(b.Body, f)
		}
		inspectBody(n.Else, f)
	case *Return:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *Operation:
		if left, ok := n.Left.Get(); ok {
			Inspect(left, f)
		}
		if right, ok := n.Right.Get(); ok {
			Inspect(right, f)
		}
	case *ArrayLiteral:
		for _, e := range n.Elements {
			Inspect(e, f)
		}
	case *Call:
		Inspect(n.Callee, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	}
}

func inspectBody(body []Statement, f func(Node) bool) {
	for _, s := range body {
		Inspect(s, f)
	}
}
