package compile

import (
	"github.com/dekarrin/alpha/internal/alphaerrors"
	"github.com/dekarrin/alpha/internal/ast"
)

// descriptor records the signature assigned to a declared function: every
// parameter and the return are a 64-bit integer, so the descriptor need
// only remember the parameter count and the body to translate in pass 2.
type descriptor struct {
	fn     FuncRef
	name   string
	params []string
	body   ast.StatementsNode
}

// declarePass walks program (wrapped in an implicit main()) and declares
// every FnDef it finds, including nested ones, returning a name→descriptor
// table pass 2 translates from. An anonymous fn literal fails with
// Unsupported and a repeated function name with InternalError; every other
// node kind is only descended into, so nodes the compiler cannot lower
// (lists, ranges, loops, ...) are rejected by pass 2, not here.
func declarePass(be Backend, program ast.StatementsNode) (map[string]*descriptor, []string, error) {
	table := map[string]*descriptor{}
	var order []string

	mainDesc := &descriptor{name: "main", body: program}
	mainDesc.fn = be.DeclareFunction("main", 0)
	table["main"] = mainDesc
	order = append(order, "main")

	var walk func(n ast.Node) error
	walk = func(n ast.Node) error {
		switch n.Kind() {
		case ast.KindFnDef:
			fd := n.AsFnDef()
			if fd.Name == "" {
				return alphaerrors.NewUnsupported("anonymous fn literal in compiled code")
			}
			if _, exists := table[fd.Name]; exists {
				return alphaerrors.NewInternalErrorf("function %s declared twice", fd.Name)
			}
			d := &descriptor{
				name:   fd.Name,
				params: fd.Params,
				body:   fd.Body,
				fn:     be.DeclareFunction(fd.Name, len(fd.Params)),
			}
			table[fd.Name] = d
			order = append(order, fd.Name)
			return walkStatements(fd.Body, walk)
		case ast.KindStatements:
			return walkStatements(n.AsStatements(), walk)
		case ast.KindIfElse:
			ie := n.AsIfElse()
			if err := walkStatements(ie.Then, walk); err != nil {
				return err
			}
			if ie.HasElse {
				return walkStatements(ie.Else, walk)
			}
			return nil
		case ast.KindWhile:
			return walkStatements(n.AsWhile().Body, walk)
		case ast.KindDefine:
			return walk(n.AsDefine().Expr)
		case ast.KindAssign:
			return walk(n.AsAssign().Expr)
		case ast.KindExpr:
			e := n.AsExpr()
			if err := walk(e.Left); err != nil {
				return err
			}
			return walk(e.Right)
		case ast.KindFnCall:
			for _, a := range n.AsFnCall().Args {
				if err := walk(a); err != nil {
					return err
				}
			}
			return nil
		case ast.KindLoop:
			lp := n.AsLoop()
			if err := walk(lp.Iterable); err != nil {
				return err
			}
			return walkStatements(lp.Body, walk)
		case ast.KindList:
			for _, item := range n.AsList().Items {
				if err := walk(item); err != nil {
					return err
				}
			}
			return nil
		case ast.KindRange:
			rg := n.AsRange()
			if err := walk(rg.From); err != nil {
				return err
			}
			return walk(rg.To)
		case ast.KindScopedFnDef:
			// Only produced by the evaluator at FnDef-evaluation time, never
			// by the parser, so compile never actually sees one fed from a
			// freshly parsed program; still descended into so pass 1 keeps
			// its "every descendant is visited" guarantee regardless of
			// where the AST came from.
			return walkStatements(n.AsScopedFnDef().Body, walk)
		case ast.KindNumber, ast.KindVarRef, ast.KindNada, ast.KindBool, ast.KindString:
			// Leaves: no descendants to visit.
			return nil
		default:
			return nil
		}
	}

	if err := walkStatements(program, walk); err != nil {
		return nil, nil, err
	}
	return table, order, nil
}

func walkStatements(s ast.StatementsNode, walk func(ast.Node) error) error {
	for _, stmt := range s.Stmts {
		if err := walk(stmt); err != nil {
			return err
		}
	}
	return nil
}
