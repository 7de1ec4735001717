package compile

import (
	"math"

	"github.com/dekarrin/alpha/internal/alphaerrors"
	"github.com/dekarrin/alpha/internal/ast"
)

// lowerPass translates every descriptor in table into IR against be, in the
// order descriptors were declared (main first), so that a verifier failure
// on one function doesn't hide declarations of the rest.
func lowerPass(be Backend, table map[string]*descriptor, order []string) error {
	for _, name := range order {
		d := table[name]
		if err := lowerFunction(be, table, d); err != nil {
			return err
		}
	}
	return nil
}

func lowerFunction(be Backend, table map[string]*descriptor, d *descriptor) error {
	entry := be.EntryBlock(d.fn)
	be.SetInsertPoint(entry)

	locals := map[string]ValueRef{}
	for i, p := range d.params {
		locals[p] = be.Param(d.fn, i)
	}

	fl := &funcLowerer{be: be, table: table, locals: locals, fn: d.fn, block: entry}
	result, err := fl.lowerStatements(d.body)
	if err != nil {
		return err
	}
	be.Ret(result)

	if err := be.VerifyFunction(d.fn); err != nil {
		return alphaerrors.NewInternalErrorf("function %s failed IR verification: %v", d.name, err)
	}
	return nil
}

type funcLowerer struct {
	be     Backend
	table  map[string]*descriptor
	locals map[string]ValueRef
	fn     FuncRef
	block  BlockRef
}

func (fl *funcLowerer) lowerStatements(s ast.StatementsNode) (ValueRef, error) {
	result := fl.be.ConstInt(0)
	for _, stmt := range s.Stmts {
		v, err := fl.lower(stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (fl *funcLowerer) lower(n ast.Node) (ValueRef, error) {
	switch n.Kind() {
	case ast.KindNada:
		return fl.be.ConstInt(0), nil

	case ast.KindNumber:
		return fl.be.ConstInt(int64(math.Floor(n.AsNumber().Value))), nil

	case ast.KindVarRef:
		name := n.AsVarRef().Name
		v, ok := fl.locals[name]
		if !ok {
			return nil, alphaerrors.NewUnboundName(name)
		}
		return v, nil

	case ast.KindDefine:
		d := n.AsDefine()
		v, err := fl.lower(d.Expr)
		if err != nil {
			return nil, err
		}
		fl.locals[d.Name] = v
		return v, nil

	case ast.KindAssign:
		a := n.AsAssign()
		if _, ok := fl.locals[a.Name]; !ok {
			return nil, alphaerrors.NewUnboundName(a.Name)
		}
		v, err := fl.lower(a.Expr)
		if err != nil {
			return nil, err
		}
		fl.locals[a.Name] = v
		return v, nil

	case ast.KindExpr:
		return fl.lowerExpr(n.AsExpr())

	case ast.KindStatements:
		return fl.lowerStatements(n.AsStatements())

	case ast.KindIfElse:
		return fl.lowerIfElse(n.AsIfElse())

	case ast.KindWhile:
		return fl.lowerWhile(n.AsWhile())

	case ast.KindFnCall:
		return fl.lowerFnCall(n.AsFnCall())

	case ast.KindFnDef:
		// Already declared and translated as its own function by
		// declarePass/lowerPass; a FnDef appearing inline here (rather
		// than as a call) contributes no value of its own.
		return fl.be.ConstInt(0), nil

	default:
		return nil, alphaerrors.NewUnsupported("cannot compile " + n.Kind().String())
	}
}

func (fl *funcLowerer) lowerExpr(e ast.ExprNode) (ValueRef, error) {
	if e.Op == ast.Pow || e.Op == ast.Fact {
		return nil, alphaerrors.NewUnsupported("reserved operator: " + e.Op.Symbol())
	}
	if e.Op == ast.Div {
		return nil, alphaerrors.NewUnsupported("division in compiled code")
	}
	left, err := fl.lower(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := fl.lower(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.Add:
		return fl.be.Add(left, right), nil
	case ast.Sub:
		return fl.be.Sub(left, right), nil
	case ast.Mul:
		return fl.be.Mul(left, right), nil
	case ast.Eq, ast.Neq, ast.Gt, ast.Ge, ast.Lt, ast.Le:
		return fl.be.ICmp(e.Op, left, right), nil
	default:
		return nil, alphaerrors.NewInternalErrorf("lowerExpr: unhandled op %s", e.Op)
	}
}

func (fl *funcLowerer) lowerIfElse(n ast.IfElseNode) (ValueRef, error) {
	condVal, err := fl.lower(n.Cond)
	if err != nil {
		return nil, err
	}
	condBlk := fl.currentBlock()

	thenBlk := fl.be.NewBlock(fl.fn, "then")
	joinBlk := fl.be.NewBlock(fl.fn, "join")

	if n.HasElse {
		elseBlk := fl.be.NewBlock(fl.fn, "else")
		fl.be.CondBr(condVal, thenBlk, elseBlk)

		fl.setInsertPoint(thenBlk)
		thenVal, err := fl.lowerStatements(n.Then)
		if err != nil {
			return nil, err
		}
		fl.be.Br(joinBlk)
		thenEnd := fl.currentBlock()

		fl.setInsertPoint(elseBlk)
		elseVal, err := fl.lowerStatements(n.Else)
		if err != nil {
			return nil, err
		}
		fl.be.Br(joinBlk)
		elseEnd := fl.currentBlock()

		fl.setInsertPoint(joinBlk)
		phi := fl.be.Phi(joinBlk)
		fl.be.AddIncoming(phi, thenVal, thenEnd)
		fl.be.AddIncoming(phi, elseVal, elseEnd)
		fl.block = joinBlk
		return phi, nil
	}

	fl.be.CondBr(condVal, thenBlk, joinBlk)

	fl.setInsertPoint(thenBlk)
	thenVal, err := fl.lowerStatements(n.Then)
	if err != nil {
		return nil, err
	}
	fl.be.Br(joinBlk)
	thenEnd := fl.currentBlock()

	fl.setInsertPoint(joinBlk)
	phi := fl.be.Phi(joinBlk)
	fl.be.AddIncoming(phi, thenVal, thenEnd)
	fl.be.AddIncoming(phi, fl.be.ConstInt(0), condBlk)
	fl.block = joinBlk
	return phi, nil
}

func (fl *funcLowerer) lowerWhile(n ast.WhileNode) (ValueRef, error) {
	preheader := fl.currentBlock()

	condBlk := fl.be.NewBlock(fl.fn, "cond")
	bodyBlk := fl.be.NewBlock(fl.fn, "body")
	exitBlk := fl.be.NewBlock(fl.fn, "exit")

	fl.be.Br(condBlk)

	fl.setInsertPoint(condBlk)
	running := fl.be.Phi(condBlk)
	fl.be.AddIncoming(running, fl.be.ConstInt(0), preheader)

	condVal, err := fl.lower(n.Cond)
	if err != nil {
		return nil, err
	}
	fl.be.CondBr(condVal, bodyBlk, exitBlk)
	condEnd := fl.currentBlock()

	fl.setInsertPoint(bodyBlk)
	bodyVal, err := fl.lowerStatements(n.Body)
	if err != nil {
		return nil, err
	}
	fl.be.Br(condBlk)
	bodyEnd := fl.currentBlock()
	fl.be.AddIncoming(running, bodyVal, bodyEnd)

	fl.setInsertPoint(exitBlk)
	result := fl.be.Phi(exitBlk)
	fl.be.AddIncoming(result, running, condEnd)
	fl.block = exitBlk
	return result, nil
}

func (fl *funcLowerer) lowerFnCall(n ast.FnCallNode) (ValueRef, error) {
	d, ok := fl.table[n.Name]
	if !ok {
		return nil, alphaerrors.NewUnboundName(n.Name)
	}
	if len(n.Args) != len(d.params) {
		return nil, alphaerrors.NewArityError(n.Name, len(d.params), len(n.Args))
	}
	args := make([]ValueRef, len(n.Args))
	for i, a := range n.Args {
		v, err := fl.lower(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fl.be.Call(d.fn, args), nil
}

// currentBlock tracks the block most recently passed to SetInsertPoint, so
// that phi nodes can record the right predecessor even after lowering a
// nested construct has moved the insertion point elsewhere.
func (fl *funcLowerer) currentBlock() BlockRef {
	return fl.block
}

// setInsertPoint moves both the backend's insertion point and fl's own
// notion of the current block together; the two must never drift apart or
// currentBlock starts lying to phi-predecessor bookkeeping.
func (fl *funcLowerer) setInsertPoint(b BlockRef) {
	fl.be.SetInsertPoint(b)
	fl.block = b
}
