package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/alpha/internal/lexer"
)

var zeroTok = lexer.Token{}

func Test_Node_AsX_panicsOnMismatch(t *testing.T) {
	assert := assert.New(t)

	n := Number(zeroTok, 3)
	assert.Equal(float64(3), n.AsNumber().Value)
	assert.Panics(func() { n.AsBool() })
	assert.Panics(func() { n.AsList() })
}

func Test_Node_Equal_ignoresToken(t *testing.T) {
	assert := assert.New(t)

	a := Number(lexer.Token{Line: 1}, 5)
	b := Number(lexer.Token{Line: 99}, 5)
	assert.True(a.Equal(b))

	c := Number(zeroTok, 6)
	assert.False(a.Equal(c))
}

func Test_Node_Equal_acrossKinds(t *testing.T) {
	assert := assert.New(t)

	n := Number(zeroTok, 1)
	s := Str(zeroTok, "1")
	assert.False(n.Equal(s))
}

func Test_RangeNode_Equal(t *testing.T) {
	assert := assert.New(t)

	a := Range(zeroTok, Number(zeroTok, 1), Number(zeroTok, 10), Inclusive, Exclusive)
	b := Range(zeroTok, Number(zeroTok, 1), Number(zeroTok, 10), Inclusive, Exclusive)
	c := Range(zeroTok, Number(zeroTok, 1), Number(zeroTok, 10), Inclusive, Inclusive)

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}

func Test_ListNode_Equal(t *testing.T) {
	assert := assert.New(t)

	a := List(zeroTok, []Node{Number(zeroTok, 1), Number(zeroTok, 2)})
	b := List(zeroTok, []Node{Number(zeroTok, 1), Number(zeroTok, 2)})
	c := List(zeroTok, []Node{Number(zeroTok, 1)})

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}

func Test_FnCallNode_Equal(t *testing.T) {
	assert := assert.New(t)

	a := FnCall(zeroTok, "add", []Node{VarRef(zeroTok, "x"), VarRef(zeroTok, "y")})
	b := FnCall(zeroTok, "add", []Node{VarRef(zeroTok, "x"), VarRef(zeroTok, "y")})
	c := FnCall(zeroTok, "add", []Node{VarRef(zeroTok, "x")})

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}

func Test_ScopedFnDefNode_Equal_ignoresCapturedScope(t *testing.T) {
	assert := assert.New(t)

	body := Statements(zeroTok, []Node{VarRef(zeroTok, "x")})
	a := ScopedFnDef(zeroTok, "f", []string{"x"}, body, nil)
	b := ScopedFnDef(zeroTok, "f", []string{"x"}, body, fakeEnv{})

	assert.True(a.Equal(b))
}

type fakeEnv struct{}

func (fakeEnv) Lookup(name string) (Node, bool) { return nil, false }

func Test_Op_SymbolAndString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("+", Add.Symbol())
	assert.Equal("ADD", Add.String())
	assert.True(Eq.IsComparison())
	assert.False(Add.IsComparison())
}

func Test_IfElseNode_String_omitsElseWhenAbsent(t *testing.T) {
	assert := assert.New(t)

	ifNode := IfElse(
		zeroTok,
		Expr(zeroTok, Gt, VarRef(zeroTok, "x"), Number(zeroTok, 0)),
		Statements(zeroTok, []Node{Assign(zeroTok, "y", Number(zeroTok, 1))}),
		StatementsNode{},
		false,
	)
	assert.Contains(ifNode.String(), "IF_ELSE")
	assert.Contains(ifNode.String(), "GT")
	assert.NotContains(ifNode.String(), "\n E: ")
}
