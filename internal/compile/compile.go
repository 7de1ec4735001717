package compile

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dekarrin/alpha/internal/alphaerrors"
	"github.com/dekarrin/alpha/internal/ast"
)

// Options controls where Compile writes its artifacts and how it links
// them, sourced from alpha.toml (see internal/config) or its defaults.
type Options struct {
	// Dir is the output directory object and linked binary are written to.
	Dir string

	// Linker is the linker driver executable invoked on the object file.
	Linker string

	// LinkerArgs are extra arguments passed to Linker ahead of the object
	// file and -o flag, e.g. []string{"-static"}.
	LinkerArgs []string

	// Trace, if non-nil, receives each IR function's textual form as pass 2
	// finishes building it (see internal/debugtrace).
	Trace func(funcName, ir string)
}

// Result is what a successful Compile produces.
type Result struct {
	// BuildID uniquely identifies this compile invocation, so that two
	// builds of the same source into the same Dir can be told apart in
	// logs. It is not written into the module or the object file.
	BuildID  uuid.UUID
	ObjectPath string
	BinPath    string
}

// Compile lowers program to native code and links it into a standalone
// binary. program is the parsed top-level Statements block; it is wrapped
// in an implicit main() by declarePass.
func Compile(be Backend, program ast.Node, opt Options) (Result, error) {
	defer be.Dispose()

	body := program.AsStatements()

	buildID := uuid.New()

	table, order, err := declarePass(be, body)
	if err != nil {
		return Result{}, err
	}

	if err := lowerPassTraced(be, table, order, opt.Trace); err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(opt.Dir, 0o755); err != nil {
		return Result{}, alphaerrors.Wrap(alphaerrors.NewInternalErrorf("create build directory: %v", err), err)
	}

	objPath := filepath.Join(opt.Dir, "out.o")
	if err := be.WriteObject(objPath); err != nil {
		return Result{}, alphaerrors.Wrap(alphaerrors.NewInternalErrorf("write object file: %v", err), err)
	}

	binPath := filepath.Join(opt.Dir, "out")
	if err := link(opt.Linker, opt.LinkerArgs, objPath, binPath); err != nil {
		return Result{}, err
	}

	return Result{BuildID: buildID, ObjectPath: objPath, BinPath: binPath}, nil
}

// lowerPassTraced runs lowerPass, additionally invoking trace (if set) with
// each function's textual IR right after it is built, per §4.4.4's debug
// tracing contract.
func lowerPassTraced(be Backend, table map[string]*descriptor, order []string, trace func(name, ir string)) error {
	for _, name := range order {
		d := table[name]
		if err := lowerFunction(be, table, d); err != nil {
			return err
		}
		if trace != nil {
			trace(name, functionIR(be, d.fn))
		}
	}
	return nil
}

// irPrinter is implemented by backends that can render a single function's
// IR as text (llvmBackend does this via the function value's own String()
// method); backends without this capability simply trace an empty body.
type irPrinter interface {
	FunctionIR(fn FuncRef) string
}

func functionIR(be Backend, fn FuncRef) string {
	if p, ok := be.(irPrinter); ok {
		return p.FunctionIR(fn)
	}
	return ""
}

// link invokes the linker driver on obj, producing bin. Stdout/stderr are
// inherited so linker diagnostics reach the user directly.
func link(linker string, args []string, obj, bin string) error {
	fullArgs := append(append([]string{}, args...), obj, "-o", bin)
	cmd := exec.Command(linker, fullArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return alphaerrors.Wrap(alphaerrors.NewInternalErrorf("link: %s %v: %v", linker, fullArgs, err), err)
	}
	return nil
}
