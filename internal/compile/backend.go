// Package compile lowers an alpha AST to native code: pass 1 declares every
// function signature, pass 2 translates each function body into the SSA
// form described in §4.3 of SPEC_FULL.md, verifies it, and hands the
// finished module to a linker. The actual instruction-emission and object
// writing is expressed against the Backend interface below rather than
// called directly against github.com/tinygo-org/go-llvm, so that pass 1 and
// pass 2's control-flow logic can be exercised by a test fake without
// needing a working LLVM toolchain in the test binary — this is the
// code-generator boundary SPEC_FULL.md §1 describes (declaring functions,
// building blocks, emitting integer instructions, writing an object file),
// made literal as a Go interface that llvmBackend is one implementation of.
package compile

import "github.com/dekarrin/alpha/internal/ast"

// FuncRef, BlockRef, and ValueRef are opaque handles a Backend hands back
// to the lowering pass; their concrete type is up to the implementation.
type FuncRef any
type BlockRef any
type ValueRef any

// Backend is the minimal instruction-emission surface pass 1 and pass 2
// need. Most methods wrap a single go-llvm call from §4.3.1 of
// SPEC_FULL.md; LookupFunction, EntryBlock, and Param are bookkeeping over
// already-built values, and ICmp and WriteObject each issue several calls.
// llvmBackend implements it against github.com/tinygo-org/go-llvm.
type Backend interface {
	// DeclareFunction declares a function named name taking paramCount i64
	// arguments and returning one i64, with external linkage.
	DeclareFunction(name string, paramCount int) FuncRef

	// LookupFunction returns the FuncRef previously declared for name.
	LookupFunction(name string) (FuncRef, bool)

	// EntryBlock returns fn's single entry block, creating it if this is
	// the first time fn is being defined.
	EntryBlock(fn FuncRef) BlockRef

	// Param returns the i-th parameter of fn as a value, valid from fn's
	// entry block onward.
	Param(fn FuncRef, i int) ValueRef

	// NewBlock appends a fresh basic block named name to fn.
	NewBlock(fn FuncRef, name string) BlockRef

	// SetInsertPoint directs subsequent emission calls to append to b.
	SetInsertPoint(b BlockRef)

	ConstInt(v int64) ValueRef

	Add(l, r ValueRef) ValueRef
	Sub(l, r ValueRef) ValueRef
	Mul(l, r ValueRef) ValueRef

	// ICmp emits a signed integer comparison for op (one of the Op
	// comparison variants) and widens the i1 result back to i64 so it
	// composes uniformly with the rest of the (every-value-is-i64) IR.
	ICmp(op ast.Op, l, r ValueRef) ValueRef

	CondBr(cond ValueRef, then, els BlockRef)
	Br(target BlockRef)

	// Phi creates an empty phi node in the block currently being built;
	// AddIncoming is called once per predecessor edge once both the
	// incoming value and the predecessor block are known.
	Phi(block BlockRef) ValueRef
	AddIncoming(phi ValueRef, val ValueRef, from BlockRef)

	Call(fn FuncRef, args []ValueRef) ValueRef
	Ret(v ValueRef)

	// VerifyFunction runs the IR verifier over fn's finished body.
	VerifyFunction(fn FuncRef) error

	// WriteObject emits the whole module as a relocatable object file at
	// path, for the host target triple.
	WriteObject(path string) error

	// Dispose releases the backend's underlying context. Safe to call
	// more than once.
	Dispose()
}
