/*
Alpha parses, interprets, and compiles programs written in the alpha
language.

Usage:

	alpha -f <path> [-i] [-r] [-d] [-c <path>]

The flags are:

	-f, --file FILE
		Source file to read. If omitted, alpha starts an interactive
		read-eval-print loop reading statements from stdin instead.

	-i, --interpret
		Run the tree-walking interpreter instead of compiling to a native
		binary.

	-r, --run
		Compiler mode only: additionally invoke the produced binary after
		linking.

	-d, --debug
		Enable debug tracing: dump the token stream and parsed AST, and in
		compiler mode, each IR function as it is built.

	-c, --config FILE
		Path to an alpha.toml config file. Defaults to ./alpha.toml if
		present, otherwise built-in defaults.
*/
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/pflag"

	"github.com/dekarrin/alpha"
	"github.com/dekarrin/alpha/internal/ast"
	"github.com/dekarrin/alpha/internal/compile"
	"github.com/dekarrin/alpha/internal/config"
	"github.com/dekarrin/alpha/internal/debugtrace"
	"github.com/dekarrin/alpha/internal/eval"
	"github.com/dekarrin/alpha/internal/lexer"
	"github.com/dekarrin/alpha/internal/parser"
	"github.com/dekarrin/alpha/internal/util"
	"github.com/dekarrin/alpha/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitParseError indicates source text that could not be lexed or
	// parsed.
	ExitParseError

	// ExitEvalError indicates an error from the tree-walking interpreter.
	ExitEvalError

	// ExitCompileError indicates an error from the ahead-of-time compiler,
	// including a failed link.
	ExitCompileError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue setting up input, output, or configuration.
	ExitInitError
)

var (
	returnCode int = ExitSuccess

	flagVersion   = pflag.BoolP("version", "v", false, "Give the current version of alpha and then exit")
	flagFile      = pflag.StringP("file", "f", "", "Source file to read; omit to start an interactive REPL")
	flagInterpret = pflag.BoolP("interpret", "i", false, "Run the tree-walking interpreter instead of compiling")
	flagRun       = pflag.BoolP("run", "r", false, "Compiler mode only: run the produced binary after linking")
	flagDebug     = pflag.BoolP("debug", "d", false, "Enable debug tracing of tokens, AST, and IR")
	flagConfig    = pflag.StringP("config", "c", "alpha.toml", "Path to an alpha.toml config file")
	flagDirect    = pflag.BoolP("direct", "x", false, "Force reading directly from stdin instead of readline in REPL mode")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := config.LoadOrDefault(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: loading %s: %s\n", *flagConfig, err)
		returnCode = ExitInitError
		return
	}
	if *flagDebug {
		cfg.Debug.Trace = true
	}

	if cfg.Debug.Trace {
		var active []string
		if *flagInterpret {
			active = append(active, "interpreting")
		} else {
			active = append(active, "compiling")
		}
		if *flagRun {
			active = append(active, "running the result")
		}
		fmt.Fprintf(os.Stderr, "alpha: %s\n", util.MakeTextList(active))
	}

	if *flagFile == "" {
		runREPL()
		return
	}

	src, err := os.ReadFile(*flagFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}

	if cfg.Debug.Trace {
		toks, lexErr := lexer.Lex(string(src))
		if lexErr == nil {
			fmt.Fprintln(os.Stderr, debugtrace.Tokens(toks))
		}
	}

	prog, err := parser.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitParseError
		return
	}

	if cfg.Debug.Trace {
		fmt.Fprintln(os.Stderr, debugtrace.AST(prog))
	}

	if *flagInterpret {
		runInterpreter(prog)
		return
	}

	runCompiler(prog, cfg)
}

func runREPL() {
	repl, err := alpha.NewREPL(os.Stdout, *flagDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}
	defer repl.Close()

	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitEvalError
	}
}

func runInterpreter(prog ast.Node) {
	result, err := eval.Run(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitEvalError
		return
	}
	fmt.Println(eval.Repr(result))
}

func runCompiler(prog ast.Node, cfg config.Config) {
	be := compile.NewLLVMBackend(*flagFile)

	var trace func(name, ir string)
	if cfg.Debug.Trace {
		trace = func(name, ir string) {
			fmt.Fprintln(os.Stderr, debugtrace.IRFunction(name, ir))
		}
	}

	result, err := compile.Compile(be, prog, compile.Options{
		Dir:        cfg.Build.Dir,
		Linker:     cfg.Build.Linker,
		LinkerArgs: cfg.Build.LinkerArgs,
		Trace:      trace,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitCompileError
		return
	}

	if cfg.Debug.Trace {
		fmt.Fprintln(os.Stderr, debugtrace.Header(result.BuildID))
	}

	if *flagRun {
		cmd := exec.Command(result.BinPath)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: running %s: %s\n", result.BinPath, err)
			returnCode = ExitCompileError
		}
	}
}
