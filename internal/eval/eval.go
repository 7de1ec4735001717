// Package eval is alpha's tree-walking interpreter: it evaluates an
// ast.Node against a Scope, producing a value node (itself an ast.Node,
// reusing the tagged-variant tree for values the way the teacher's
// tunascript.Interpreter reuses its AST for evaluated results) or an error
// from internal/alphaerrors.
package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/dekarrin/alpha/internal/alphaerrors"
	"github.com/dekarrin/alpha/internal/ast"
	"github.com/dekarrin/alpha/internal/lexer"
)

// Run evaluates node (expected to be a StatementsNode, the parser's program
// root) against a fresh empty scope and returns its final value.
func Run(node ast.Node) (ast.Node, error) {
	return Eval(node, NewScope())
}

// Eval evaluates node in scope, mutating scope in place for any Define or
// Assign node encountered directly (not inside a nested FnDef body, which
// carries its own scope).
func Eval(node ast.Node, scope *Scope) (ast.Node, error) {
	switch node.Kind() {
	case ast.KindNada, ast.KindNumber, ast.KindBool, ast.KindString, ast.KindScopedFnDef:
		return node, nil

	case ast.KindVarRef:
		name := node.AsVarRef().Name
		v, ok := scope.Lookup(name)
		if !ok {
			return nil, alphaerrors.NewUnboundName(name)
		}
		return v, nil

	case ast.KindRange:
		r := node.AsRange()
		from, err := Eval(r.From, scope)
		if err != nil {
			return nil, err
		}
		to, err := Eval(r.To, scope)
		if err != nil {
			return nil, err
		}
		if from.Kind() != ast.KindNumber || to.Kind() != ast.KindNumber {
			return nil, alphaerrors.NewTypeError("range endpoints must be numbers")
		}
		return ast.Range(node.Token(), from, to, r.Lower, r.Upper), nil

	case ast.KindList:
		l := node.AsList()
		items := make([]ast.Node, len(l.Items))
		for i, item := range l.Items {
			v, err := Eval(item, scope)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return ast.List(node.Token(), items), nil

	case ast.KindStatements:
		return evalStatements(node.AsStatements(), scope)

	case ast.KindIfElse:
		return evalIfElse(node.AsIfElse(), scope)

	case ast.KindWhile:
		return evalWhile(node.AsWhile(), scope)

	case ast.KindLoop:
		return evalLoop(node.AsLoop(), scope)

	case ast.KindDefine:
		d := node.AsDefine()
		v, err := Eval(d.Expr, scope)
		if err != nil {
			return nil, err
		}
		scope.Define(d.Name, v)
		return v, nil

	case ast.KindAssign:
		a := node.AsAssign()
		v, err := Eval(a.Expr, scope)
		if err != nil {
			return nil, err
		}
		if !scope.Assign(a.Name, v) {
			return nil, alphaerrors.NewUnboundName(a.Name)
		}
		return v, nil

	case ast.KindExpr:
		e := node.AsExpr()
		if e.Op == ast.Pow || e.Op == ast.Fact {
			return nil, alphaerrors.NewUnsupported("reserved operator: " + e.Op.Symbol())
		}
		left, err := Eval(e.Left, scope)
		if err != nil {
			return nil, err
		}
		right, err := Eval(e.Right, scope)
		if err != nil {
			return nil, err
		}
		return evalBinary(e.Op, left, right)

	case ast.KindFnDef:
		return evalFnDef(node.AsFnDef(), scope)

	case ast.KindFnCall:
		return evalFnCall(node.AsFnCall(), scope)

	default:
		return nil, alphaerrors.NewInternalErrorf("eval: unhandled node kind %s", node.Kind())
	}
}

func evalStatements(s ast.StatementsNode, scope *Scope) (ast.Node, error) {
	var result ast.Node = ast.Nada(s.Token())
	for _, stmt := range s.Stmts {
		v, err := Eval(stmt, scope)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func evalIfElse(n ast.IfElseNode, scope *Scope) (ast.Node, error) {
	cond, err := Eval(n.Cond, scope)
	if err != nil {
		return nil, err
	}
	if cond.Kind() != ast.KindBool {
		return nil, alphaerrors.NewTypeError("if condition must be a Bool")
	}
	child := scope.NewChild()
	if cond.AsBool().Value {
		return evalStatements(n.Then, child)
	}
	if n.HasElse {
		return evalStatements(n.Else, child)
	}
	return ast.Nada(n.Token()), nil
}

func evalWhile(n ast.WhileNode, scope *Scope) (ast.Node, error) {
	child := scope.NewChild()
	var result ast.Node = ast.Nada(n.Token())
	for {
		cond, err := Eval(n.Cond, child)
		if err != nil {
			return nil, err
		}
		if cond.Kind() != ast.KindBool {
			return nil, alphaerrors.NewTypeError("while condition must be a Bool")
		}
		if !cond.AsBool().Value {
			return result, nil
		}
		result, err = evalStatements(n.Body, child)
		if err != nil {
			return nil, err
		}
	}
}

func evalLoop(n ast.LoopNode, scope *Scope) (ast.Node, error) {
	iterable, err := Eval(n.Iterable, scope)
	if err != nil {
		return nil, err
	}

	child := scope.NewChild()
	var results []ast.Node

	runBody := func(v ast.Node) error {
		child.Define(n.Var, v)
		val, err := evalStatements(n.Body, child)
		if err != nil {
			return err
		}
		if val.Kind() != ast.KindNada {
			results = append(results, val)
		}
		return nil
	}

	switch iterable.Kind() {
	case ast.KindRange:
		r := iterable.AsRange()
		from := math.Floor(r.From.AsNumber().Value)
		to := math.Floor(r.To.AsNumber().Value)
		start := from
		if r.Lower == ast.Exclusive {
			start++
		}
		end := to
		if r.Upper == ast.Inclusive {
			end++
		}
		for i := start; i < end; i++ {
			if err := runBody(ast.Number(n.Token(), i)); err != nil {
				return nil, err
			}
		}
	case ast.KindList:
		for _, item := range iterable.AsList().Items {
			if err := runBody(item); err != nil {
				return nil, err
			}
		}
	default:
		return nil, alphaerrors.NewTypeError("loop iterable must be a Range or List")
	}

	return ast.List(n.Token(), results), nil
}

func evalFnDef(n ast.FnDefNode, scope *Scope) (ast.Node, error) {
	closure := ast.ScopedFnDef(n.Token(), n.Name, n.Params, n.Body, scope.Snapshot())
	if n.Name != "" {
		scope.Define(n.Name, closure)
	}
	return closure, nil
}

const builtinPrintf = "printf"

func evalFnCall(n ast.FnCallNode, scope *Scope) (ast.Node, error) {
	args := make([]ast.Node, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if n.Name == builtinPrintf {
		return callPrintf(n, args)
	}

	callee, ok := scope.Lookup(n.Name)
	if !ok {
		return nil, alphaerrors.NewUnboundName(n.Name)
	}
	if callee.Kind() != ast.KindScopedFnDef {
		return nil, alphaerrors.NewTypeErrorf("%s is not callable", n.Name)
	}
	closure := callee.AsScopedFnDef()

	if len(args) != len(closure.Params) {
		name := closure.Name
		if name == "" {
			name = n.Name
		}
		return nil, alphaerrors.NewArityError(name, len(closure.Params), len(args))
	}

	call := NewCall(closure.Captured)
	if closure.Name != "" {
		call.Define(closure.Name, callee)
	}
	for i, param := range closure.Params {
		call.Define(param, args[i])
	}
	return evalStatements(closure.Body, call)
}

func callPrintf(n ast.FnCallNode, args []ast.Node) (ast.Node, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = display(a)
	}
	fmt.Println(strings.Join(parts, " "))
	return ast.Nada(n.Token()), nil
}

// display renders a value the way printf does: a plain, non-constructor
// textual form.
func display(n ast.Node) string {
	switch n.Kind() {
	case ast.KindNada:
		return "nada"
	case ast.KindNumber:
		return formatNumber(n.AsNumber().Value)
	case ast.KindBool:
		if n.AsBool().Value {
			return "true"
		}
		return "false"
	case ast.KindString:
		return n.AsString().Value
	case ast.KindList:
		items := n.AsList().Items
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = display(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ast.KindScopedFnDef:
		return "<fn>"
	default:
		return n.String()
	}
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// Repr renders a value the way the interactive driver reports a final
// expression result: a constructor-style form, e.g. "Number(14)" or
// "List([Number(2), Number(4), Number(6)])".
func Repr(n ast.Node) string {
	switch n.Kind() {
	case ast.KindNada:
		return "Nada"
	case ast.KindNumber:
		return fmt.Sprintf("Number(%s)", formatNumber(n.AsNumber().Value))
	case ast.KindBool:
		return fmt.Sprintf("Bool(%v)", n.AsBool().Value)
	case ast.KindString:
		return fmt.Sprintf("String(%q)", n.AsString().Value)
	case ast.KindList:
		items := n.AsList().Items
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = Repr(item)
		}
		return fmt.Sprintf("List([%s])", strings.Join(parts, ", "))
	case ast.KindRange:
		r := n.AsRange()
		lo, hi := "[", "]"
		if r.Lower == ast.Exclusive {
			lo = "("
		}
		if r.Upper == ast.Exclusive {
			hi = ")"
		}
		return fmt.Sprintf("Range(%s%s, %s%s)", lo, Repr(r.From), Repr(r.To), hi)
	case ast.KindScopedFnDef:
		return "Closure(...)"
	default:
		return n.String()
	}
}

func evalBinary(op ast.Op, l, r ast.Node) (ast.Node, error) {
	switch {
	case l.Kind() == ast.KindNumber && r.Kind() == ast.KindNumber:
		return evalNumberBinary(op, l.AsNumber().Value, r.AsNumber().Value)
	case l.Kind() == ast.KindList && r.Kind() == ast.KindList && op == ast.Add:
		concat := append(append([]ast.Node{}, l.AsList().Items...), r.AsList().Items...)
		return ast.List(l.Token(), concat), nil
	case l.Kind() == ast.KindNumber && r.Kind() == ast.KindList && op == ast.Mul:
		return elementwise(op, l, r.AsList())
	case l.Kind() == ast.KindList && r.Kind() == ast.KindNumber && op == ast.Div:
		return elementwise(op, r, l.AsList())
	default:
		return nil, alphaerrors.NewTypeErrorf("operator %s not defined for %s, %s", op.Symbol(), l.Kind(), r.Kind())
	}
}

// elementwise applies op between scalar and each item of list, recursing
// into nested lists, by simply re-dispatching evalBinary per element.
func elementwise(op ast.Op, scalar ast.Node, list ast.ListNode) (ast.Node, error) {
	items := make([]ast.Node, len(list.Items))
	for i, item := range list.Items {
		var v ast.Node
		var err error
		if op == ast.Div {
			v, err = evalBinary(op, item, scalar)
		} else {
			v, err = evalBinary(op, scalar, item)
		}
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return ast.List(list.Token(), items), nil
}

func evalNumberBinary(op ast.Op, a, b float64) (ast.Node, error) {
	var tok lexer.Token // values synthesized by the evaluator carry no source position
	switch op {
	case ast.Add:
		return ast.Number(tok, a+b), nil
	case ast.Sub:
		return ast.Number(tok, a-b), nil
	case ast.Mul:
		return ast.Number(tok, a*b), nil
	case ast.Div:
		return ast.Number(tok, a/b), nil
	case ast.Eq:
		return ast.Bool(tok, a == b), nil
	case ast.Neq:
		return ast.Bool(tok, a != b), nil
	case ast.Gt:
		return ast.Bool(tok, a > b), nil
	case ast.Ge:
		return ast.Bool(tok, a >= b), nil
	case ast.Lt:
		return ast.Bool(tok, a < b), nil
	case ast.Le:
		return ast.Bool(tok, a <= b), nil
	default:
		return nil, alphaerrors.NewInternalErrorf("evalNumberBinary: unhandled op %s", op)
	}
}
