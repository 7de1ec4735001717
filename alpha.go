// Package alpha ties the parser and interpreter together into two
// end-to-end pipelines: interpreting a whole source text (Interpret), and
// an interactive read-eval-print loop reading one line at a time from
// stdin, evaluated against a persistent top-level scope (REPL, which
// cmd/alpha drives when no source file is given).
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/alpha/internal/ast"
	"github.com/dekarrin/alpha/internal/eval"
	"github.com/dekarrin/alpha/internal/input"
	"github.com/dekarrin/alpha/internal/parser"
)

// commandReader is the subset of input.DirectCommandReader /
// input.InteractiveCommandReader that the REPL needs.
type commandReader interface {
	ReadCommand() (string, error)
	AllowBlank(allow bool)
	Close() error
}

// Interpret parses src in full and evaluates it against a fresh top-level
// scope, returning the value of its final statement.
func Interpret(src string) (ast.Node, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return eval.Run(prog)
}

// REPL drives an interactive read-eval-print loop: each line of input is
// parsed as a statement list and evaluated against a scope that persists
// across the whole session, so a `let` on one line is visible to the next.
type REPL struct {
	in  commandReader
	out io.Writer
}

// NewREPL creates a REPL reading from stdin. When stdin is a tty and
// forceDirect is false, input goes through
// input.InteractiveCommandReader (GNU readline); otherwise it falls back to
// input.DirectCommandReader, mirroring the teacher's own choice between the
// two in its interactive engine.
func NewREPL(out io.Writer, forceDirect bool) (*REPL, error) {
	useReadline := !forceDirect && isTTY(os.Stdin)

	var in commandReader
	if useReadline {
		icr, err := input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initialize interactive input reader: %w", err)
		}
		in = icr
	} else {
		in = input.NewDirectReader(os.Stdin)
	}

	return &REPL{in: in, out: bufio.NewWriter(out)}, nil
}

// Close releases the REPL's input reader.
func (r *REPL) Close() error {
	return r.in.Close()
}

// Run reads statements until EOF, printing each one's result (or error) to
// the REPL's output, evaluating every statement against the same scope.
func (r *REPL) Run() error {
	scope := eval.NewScope()
	for {
		line, err := r.in.ReadCommand()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		node, perr := parser.Parse(line)
		if perr != nil {
			fmt.Fprintf(r.out, "%s\n", perr)
			flush(r.out)
			continue
		}

		result, eerr := eval.Eval(node, scope)
		if eerr != nil {
			fmt.Fprintf(r.out, "%s\n", eerr)
			flush(r.out)
			continue
		}

		fmt.Fprintf(r.out, "%s\n", eval.Repr(result))
		flush(r.out)
	}
}

func flush(w io.Writer) {
	if f, ok := w.(interface{ Flush() error }); ok {
		f.Flush()
	}
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
