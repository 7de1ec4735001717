package compile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/alpha/internal/alphaerrors"
	"github.com/dekarrin/alpha/internal/ast"
	"github.com/dekarrin/alpha/internal/parser"
)

// fakeBackend is an in-memory Backend used to exercise declarePass/lowerPass
// control-flow without a working LLVM toolchain in the test binary.
type fakeBackend struct {
	fns       map[string]*fakeFunc
	nextBlock int
	nextVal   int
}

type fakeFunc struct {
	name   string
	params int
	blocks []*fakeBlock
}

type fakeBlock struct {
	fn   *fakeFunc
	name string
	id   int
}

type fakeVal struct {
	id   int
	kind string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{fns: map[string]*fakeFunc{}}
}

func (b *fakeBackend) DeclareFunction(name string, paramCount int) FuncRef {
	f := &fakeFunc{name: name, params: paramCount}
	b.fns[name] = f
	return f
}

func (b *fakeBackend) LookupFunction(name string) (FuncRef, bool) {
	f, ok := b.fns[name]
	return f, ok
}

func (b *fakeBackend) EntryBlock(fn FuncRef) BlockRef {
	f := fn.(*fakeFunc)
	if len(f.blocks) == 0 {
		f.blocks = append(f.blocks, b.newBlock(f, "entry"))
	}
	return f.blocks[0]
}

func (b *fakeBackend) newBlock(f *fakeFunc, name string) *fakeBlock {
	b.nextBlock++
	blk := &fakeBlock{fn: f, name: name, id: b.nextBlock}
	return blk
}

func (b *fakeBackend) Param(fn FuncRef, i int) ValueRef {
	b.nextVal++
	return &fakeVal{id: b.nextVal, kind: "param"}
}

func (b *fakeBackend) NewBlock(fn FuncRef, name string) BlockRef {
	blk := b.newBlock(fn.(*fakeFunc), name)
	f := fn.(*fakeFunc)
	f.blocks = append(f.blocks, blk)
	return blk
}

func (b *fakeBackend) SetInsertPoint(blk BlockRef) {}

func (b *fakeBackend) ConstInt(v int64) ValueRef {
	b.nextVal++
	return &fakeVal{id: b.nextVal, kind: "const"}
}

func (b *fakeBackend) Add(l, r ValueRef) ValueRef { return b.binop() }
func (b *fakeBackend) Sub(l, r ValueRef) ValueRef { return b.binop() }
func (b *fakeBackend) Mul(l, r ValueRef) ValueRef { return b.binop() }

func (b *fakeBackend) binop() ValueRef {
	b.nextVal++
	return &fakeVal{id: b.nextVal, kind: "binop"}
}

func (b *fakeBackend) ICmp(op ast.Op, l, r ValueRef) ValueRef { return b.binop() }

func (b *fakeBackend) CondBr(cond ValueRef, then, els BlockRef) {}
func (b *fakeBackend) Br(target BlockRef)                      {}

func (b *fakeBackend) Phi(block BlockRef) ValueRef {
	b.nextVal++
	return &fakeVal{id: b.nextVal, kind: "phi"}
}

func (b *fakeBackend) AddIncoming(phi, val ValueRef, from BlockRef) {}

func (b *fakeBackend) Call(fn FuncRef, args []ValueRef) ValueRef {
	b.nextVal++
	return &fakeVal{id: b.nextVal, kind: "call"}
}

func (b *fakeBackend) Ret(v ValueRef) {}

func (b *fakeBackend) VerifyFunction(fn FuncRef) error { return nil }

func (b *fakeBackend) WriteObject(path string) error { return nil }

func (b *fakeBackend) Dispose() {}

func mustParseStatements(t *testing.T, src string) ast.StatementsNode {
	t.Helper()
	n, err := parser.Parse(src)
	require.NoError(t, err)
	return n.AsStatements()
}

func Test_declarePass_declaresMainAndNestedFns(t *testing.T) {
	prog := mustParseStatements(t, "fn double(x) x*2 end double(5)")
	be := newFakeBackend()

	table, order, err := declarePass(be, prog)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "double"}, order)
	assert.Contains(t, table, "main")
	assert.Contains(t, table, "double")
	assert.Equal(t, []string{"x"}, table["double"].params)
}

func Test_declarePass_anonymousFnIsUnsupported(t *testing.T) {
	prog := mustParseStatements(t, "let f = fn(x) x end f(1)")
	be := newFakeBackend()

	_, _, err := declarePass(be, prog)
	require.Error(t, err)
	var unsupported *alphaerrors.Unsupported
	assert.True(t, errors.As(err, &unsupported))
}

func Test_declarePass_duplicateNameFails(t *testing.T) {
	prog := mustParseStatements(t, "fn f(x) x end fn f(y) y end")
	be := newFakeBackend()

	_, _, err := declarePass(be, prog)
	require.Error(t, err)
	var internal *alphaerrors.InternalError
	assert.True(t, errors.As(err, &internal))
}

func Test_lowerPass_reservedOperatorIsUnsupported(t *testing.T) {
	prog := mustParseStatements(t, "2^3")
	be := newFakeBackend()

	table, order, err := declarePass(be, prog)
	require.NoError(t, err)

	err = lowerPass(be, table, order)
	require.Error(t, err)
	var unsupported *alphaerrors.Unsupported
	assert.True(t, errors.As(err, &unsupported))
}

func Test_lowerPass_arityMismatchFails(t *testing.T) {
	prog := mustParseStatements(t, "fn f(x, y) x end f(1)")
	be := newFakeBackend()

	table, order, err := declarePass(be, prog)
	require.NoError(t, err)

	err = lowerPass(be, table, order)
	require.Error(t, err)
	var arity *alphaerrors.ArityError
	assert.True(t, errors.As(err, &arity))
}

func Test_lowerPass_listLiteralIsUnsupported(t *testing.T) {
	prog := mustParseStatements(t, "[1, 2, 3]")
	be := newFakeBackend()

	table, order, err := declarePass(be, prog)
	require.NoError(t, err)

	err = lowerPass(be, table, order)
	require.Error(t, err)
	var unsupported *alphaerrors.Unsupported
	assert.True(t, errors.As(err, &unsupported))
}

func Test_lowerPass_ifElseAndWhileLowerCleanly(t *testing.T) {
	prog := mustParseStatements(t, "fn abs(x) if x < 0 then 0-x else x end end while abs(1) < 2 do 1 end")
	be := newFakeBackend()

	table, order, err := declarePass(be, prog)
	require.NoError(t, err)

	err = lowerPass(be, table, order)
	require.NoError(t, err)
}
