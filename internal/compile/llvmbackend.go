package compile

import (
	"fmt"

	"github.com/tinygo-org/go-llvm"

	"github.com/dekarrin/alpha/internal/ast"
)

// llvmBackend is the production Backend: every value is an i64, every
// function has one i64 return and one i64 parameter per argument, per
// §4.3.1 of SPEC_FULL.md.
type llvmBackend struct {
	ctx     llvm.Context
	mod     llvm.Module
	builder llvm.Builder
	i64     llvm.Type

	fns map[string]llvm.Value
}

// NewLLVMBackend creates a Backend backed by a fresh LLVM context and
// module named modName.
func NewLLVMBackend(modName string) Backend {
	ctx := llvm.NewContext()
	return &llvmBackend{
		ctx:     ctx,
		mod:     ctx.NewModule(modName),
		builder: ctx.NewBuilder(),
		i64:     ctx.Int64Type(),
		fns:     map[string]llvm.Value{},
	}
}

func (b *llvmBackend) DeclareFunction(name string, paramCount int) FuncRef {
	params := make([]llvm.Type, paramCount)
	for i := range params {
		params[i] = b.i64
	}
	ft := llvm.FunctionType(b.i64, params, false)
	fn := llvm.AddFunction(b.mod, name, ft)
	b.fns[name] = fn
	return fn
}

func (b *llvmBackend) LookupFunction(name string) (FuncRef, bool) {
	fn, ok := b.fns[name]
	return fn, ok
}

func (b *llvmBackend) EntryBlock(fn FuncRef) BlockRef {
	f := fn.(llvm.Value)
	blocks := f.BasicBlocks()
	if len(blocks) > 0 {
		return blocks[0]
	}
	return llvm.AddBasicBlock(f, "entry")
}

func (b *llvmBackend) Param(fn FuncRef, i int) ValueRef {
	return fn.(llvm.Value).Param(i)
}

func (b *llvmBackend) NewBlock(fn FuncRef, name string) BlockRef {
	return llvm.AddBasicBlock(fn.(llvm.Value), name)
}

func (b *llvmBackend) SetInsertPoint(blk BlockRef) {
	b.builder.SetInsertPointAtEnd(blk.(llvm.BasicBlock))
}

func (b *llvmBackend) ConstInt(v int64) ValueRef {
	return llvm.ConstInt(b.i64, uint64(v), true)
}

func (b *llvmBackend) Add(l, r ValueRef) ValueRef {
	return b.builder.CreateAdd(l.(llvm.Value), r.(llvm.Value), "addtmp")
}

func (b *llvmBackend) Sub(l, r ValueRef) ValueRef {
	return b.builder.CreateSub(l.(llvm.Value), r.(llvm.Value), "subtmp")
}

func (b *llvmBackend) Mul(l, r ValueRef) ValueRef {
	return b.builder.CreateMul(l.(llvm.Value), r.(llvm.Value), "multmp")
}

func (b *llvmBackend) ICmp(op ast.Op, l, r ValueRef) ValueRef {
	pred, ok := icmpPredicates[op]
	if !ok {
		panic(fmt.Sprintf("ICmp: unsupported op %s", op))
	}
	cmp := b.builder.CreateICmp(pred, l.(llvm.Value), r.(llvm.Value), "cmptmp")
	return b.builder.CreateZExt(cmp, b.i64, "booltmp")
}

var icmpPredicates = map[ast.Op]llvm.IntPredicate{
	ast.Eq: llvm.IntEQ,
	ast.Neq: llvm.IntNE,
	ast.Gt: llvm.IntSGT,
	ast.Ge: llvm.IntSGE,
	ast.Lt: llvm.IntSLT,
	ast.Le: llvm.IntSLE,
}

func (b *llvmBackend) CondBr(cond ValueRef, then, els BlockRef) {
	b.builder.CreateCondBr(cond.(llvm.Value), then.(llvm.BasicBlock), els.(llvm.BasicBlock))
}

func (b *llvmBackend) Br(target BlockRef) {
	b.builder.CreateBr(target.(llvm.BasicBlock))
}

func (b *llvmBackend) Phi(block BlockRef) ValueRef {
	return b.builder.CreatePHI(b.i64, "phitmp")
}

func (b *llvmBackend) AddIncoming(phi, val ValueRef, from BlockRef) {
	phi.(llvm.Value).AddIncoming([]llvm.Value{val.(llvm.Value)}, []llvm.BasicBlock{from.(llvm.BasicBlock)})
}

func (b *llvmBackend) Call(fn FuncRef, args []ValueRef) ValueRef {
	vals := make([]llvm.Value, len(args))
	for i, a := range args {
		vals[i] = a.(llvm.Value)
	}
	f := fn.(llvm.Value)
	return b.builder.CreateCall(f.GlobalValueType(), f, vals, "calltmp")
}

func (b *llvmBackend) Ret(v ValueRef) {
	b.builder.CreateRet(v.(llvm.Value))
}

func (b *llvmBackend) VerifyFunction(fn FuncRef) error {
	return llvm.VerifyFunction(fn.(llvm.Value), llvm.PrintMessageAction)
}

func (b *llvmBackend) WriteObject(path string) error {
	target, err := llvm.GetTargetFromTriple(llvm.DefaultTargetTriple())
	if err != nil {
		return fmt.Errorf("resolve host target: %w", err)
	}
	tm := target.CreateTargetMachine(llvm.DefaultTargetTriple(), "", "",
		llvm.CodeGenLevelDefault, llvm.RelocDefault, llvm.CodeModelDefault)
	defer tm.Dispose()

	if err := tm.EmitToFile(b.mod, path, llvm.ObjectFile); err != nil {
		return fmt.Errorf("emit object: %w", err)
	}
	return nil
}

// FunctionIR renders fn's body as LLVM textual IR for -d tracing, per
// §4.4.4 of SPEC_FULL.md.
func (b *llvmBackend) FunctionIR(fn FuncRef) string {
	return fn.(llvm.Value).String()
}

func (b *llvmBackend) Dispose() {
	b.builder.Dispose()
	b.ctx.Dispose()
}
