package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/alpha/internal/alphaerrors"
	"github.com/dekarrin/alpha/internal/parser"
)

func runSrc(t *testing.T, src string) (string, error) {
	t.Helper()
	node, err := parser.Parse(src)
	require.NoError(t, err)
	val, err := Run(node)
	if err != nil {
		return "", err
	}
	return Repr(val), nil
}

func Test_Eval_arithmetic(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "2 + 3 * 4")
	require.NoError(t, err)
	assert.Equal("Number(14)", out)
}

func Test_Eval_comparisons(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "3 < 5")
	require.NoError(t, err)
	assert.Equal("Bool(true)", out)
}

func Test_Eval_scoping_shadowInClosureDoesNotLeak(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "let x = 1; let f = fn() let x = 2; x end; let inner = f(); x")
	require.NoError(t, err)
	assert.Equal("Number(1)", out)
}

func Test_Eval_closure_capturesAndAdds(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "let make = fn(n) fn(x) x + n end end; let add3 = make(3); add3(4)")
	require.NoError(t, err)
	assert.Equal("Number(7)", out)
}

func Test_Eval_recursiveClosure_noForwardDecl(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "let fact = fn f(n) if n <= 1 then 1 else n * f(n-1) end end; fact(5)")
	require.NoError(t, err)
	assert.Equal("Number(120)", out)
}

func Test_Eval_loopOverHalfOpenRange(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "for i in [0,5) do i end")
	require.NoError(t, err)
	assert.Equal("List([Number(0), Number(1), Number(2), Number(3), Number(4)])", out)
}

func Test_Eval_loopOverExclusiveInclusiveRange(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "for i in (0,5] do i end")
	require.NoError(t, err)
	assert.Equal("List([Number(1), Number(2), Number(3), Number(4), Number(5)])", out)
}

func Test_Eval_listArithmetic(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "2 * [1,2,3]")
	require.NoError(t, err)
	assert.Equal("List([Number(2), Number(4), Number(6)])", out)

	out, err = runSrc(t, "[1,2,3] + [4]")
	require.NoError(t, err)
	assert.Equal("List([Number(1), Number(2), Number(3), Number(4)])", out)

	out, err = runSrc(t, "[10,20] / 2")
	require.NoError(t, err)
	assert.Equal("List([Number(5), Number(10)])", out)
}

func Test_Eval_whileMutatesOuterBindings(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "let mut s = 0; let mut i = 0; while i < 5 do s = s + i; i = i + 1 end; s")
	require.NoError(t, err)
	assert.Equal("Number(10)", out)
}

func Test_Eval_unboundName(t *testing.T) {
	node, err := parser.Parse("y")
	require.NoError(t, err)
	_, err = Run(node)
	require.Error(t, err)

	var unbound *alphaerrors.UnboundName
	assert.ErrorAs(t, err, &unbound)
}

func Test_Eval_arityMismatch(t *testing.T) {
	node, err := parser.Parse("let f = fn(a, b) a + b end; f(1)")
	require.NoError(t, err)
	_, err = Run(node)
	require.Error(t, err)

	var arity *alphaerrors.ArityError
	assert.ErrorAs(t, err, &arity)
}

func Test_Eval_fnCallWithSquare(t *testing.T) {
	assert := assert.New(t)

	out, err := runSrc(t, "fn f(x) x*x end f(6)")
	require.NoError(t, err)
	assert.Equal("Number(36)", out)
}

func Test_Eval_reservedOperator_isUnsupported(t *testing.T) {
	node, err := parser.Parse("2 ^ 3")
	require.NoError(t, err)
	_, err = Run(node)
	require.Error(t, err)

	var unsupported *alphaerrors.Unsupported
	assert.ErrorAs(t, err, &unsupported)
}
