package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/alpha/internal/ast"
	"github.com/dekarrin/alpha/internal/lexer"
)

func firstStmt(t *testing.T, src string) ast.Node {
	t.Helper()
	root, err := Parse(src)
	require.NoError(t, err)
	stmts := root.AsStatements().Stmts
	require.Len(t, stmts, 1)
	return stmts[0]
}

func Test_Parse_precedence_matchesWorkedExample(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "-(1+2)/-2+1*2")

	z := lexer.Token{}
	one := func(v float64) ast.Node { return ast.Number(z, v) }
	mul := func(l, r ast.Node) ast.Node { return ast.Expr(z, ast.Mul, l, r) }
	div := func(l, r ast.Node) ast.Node { return ast.Expr(z, ast.Div, l, r) }
	add := func(l, r ast.Node) ast.Node { return ast.Expr(z, ast.Add, l, r) }

	want := add(
		div(
			mul(one(-1), add(one(1), one(2))),
			mul(one(-1), one(2)),
		),
		mul(one(1), one(2)),
	)

	assert.True(want.Equal(got), "got:\n%s\nwant:\n%s", got.String(), want.String())
}

func Test_Parse_comparisonAreRightAssociative(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "a == b == c")
	z := lexer.Token{}
	want := ast.Expr(z, ast.Eq, ast.VarRef(z, "a"), ast.Expr(z, ast.Eq, ast.VarRef(z, "b"), ast.VarRef(z, "c")))
	assert.True(want.Equal(got))
}

func Test_Parse_listLiteral(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "[1,2,3]")
	require.Equal(t, ast.KindList, got.Kind())
	assert.Len(got.AsList().Items, 3)
}

func Test_Parse_halfOpenRange(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "[0,5)")
	require.Equal(t, ast.KindRange, got.Kind())
	r := got.AsRange()
	assert.Equal(ast.Inclusive, r.Lower)
	assert.Equal(ast.Exclusive, r.Upper)
}

func Test_Parse_parenOpenRange(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "(0,5]")
	require.Equal(t, ast.KindRange, got.Kind())
	r := got.AsRange()
	assert.Equal(ast.Exclusive, r.Lower)
	assert.Equal(ast.Inclusive, r.Upper)
}

func Test_Parse_groupingParens(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "(1+2)*3")
	require.Equal(t, ast.KindExpr, got.Kind())
	assert.Equal(ast.Mul, got.AsExpr().Op)
}

func Test_Parse_varDecl_mutable(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "let mut x = 5")
	require.Equal(t, ast.KindDefine, got.Kind())
	d := got.AsDefine()
	assert.Equal(ast.Mutable, d.Mut)
	assert.Equal("x", d.Name)
}

func Test_Parse_ifElse(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "if 3 < 5 then 7 else 9 end")
	require.Equal(t, ast.KindIfElse, got.Kind())
	assert.True(got.AsIfElse().HasElse)
}

func Test_Parse_fnCall(t *testing.T) {
	assert := assert.New(t)

	got := firstStmt(t, "f(1, 2)")
	require.Equal(t, ast.KindFnCall, got.Kind())
	assert.Equal("f", got.AsFnCall().Name)
	assert.Len(got.AsFnCall().Args, 2)
}

func Test_Parse_malformedInput_isParseError(t *testing.T) {
	_, err := Parse("let = 5")
	require.Error(t, err)
}
