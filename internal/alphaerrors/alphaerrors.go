// Package alphaerrors defines the small, closed taxonomy of errors the
// alpha toolchain can produce, adapted from the tqerrors pattern used
// throughout the teacher package: each kind is its own concrete type with a
// constructor, an Error() message, and an Unwrap() for any wrapped cause.
// Callers distinguish kinds with errors.As, not type switches.
package alphaerrors

import "fmt"

// LexicalError is returned by internal/lexer when source text contains a
// character or sequence that cannot begin any token.
type LexicalError struct {
	Line, Col int
	Msg       string
	wrap      error
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%d:%d: lexical error: %s", e.Line, e.Col, e.Msg)
}

func (e *LexicalError) Unwrap() error { return e.wrap }

// NewLexicalError builds a LexicalError at the given source position.
func NewLexicalError(line, col int, msg string) error {
	return &LexicalError{Line: line, Col: col, Msg: msg}
}

// ParseError is returned by internal/parser when the token stream does not
// match the grammar.
type ParseError struct {
	Line, Col int
	Msg       string
	wrap      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: parse error: %s", e.Line, e.Col, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.wrap }

// NewParseError builds a ParseError at the given source position.
func NewParseError(line, col int, msg string) error {
	return &ParseError{Line: line, Col: col, Msg: msg}
}

// NewParseErrorf is NewParseError with fmt.Sprintf-style formatting.
func NewParseErrorf(line, col int, format string, a ...interface{}) error {
	return NewParseError(line, col, fmt.Sprintf(format, a...))
}

// UnboundName is returned by internal/eval and internal/compile when a
// VarRef or FnCall names an identifier with no binding visible from the
// current scope.
type UnboundName struct {
	Name string
	wrap error
}

func (e *UnboundName) Error() string {
	return fmt.Sprintf("unbound name: %s", e.Name)
}

func (e *UnboundName) Unwrap() error { return e.wrap }

// NewUnboundName builds an UnboundName for the given identifier.
func NewUnboundName(name string) error {
	return &UnboundName{Name: name}
}

// TypeError is returned by internal/eval when an operation is applied to operands of a kind it does not accept, e.g. "1" +
// true, or calling a Number as a function.
type TypeError struct {
	Msg  string
	wrap error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: %s", e.Msg)
}

func (e *TypeError) Unwrap() error { return e.wrap }

// NewTypeError builds a TypeError with the given message.
func NewTypeError(msg string) error {
	return &TypeError{Msg: msg}
}

// NewTypeErrorf is NewTypeError with fmt.Sprintf-style formatting.
func NewTypeErrorf(format string, a ...interface{}) error {
	return NewTypeError(fmt.Sprintf(format, a...))
}

// ArityError is returned when a call site supplies a different number of
// arguments than the callee's parameter list declares. alpha does not
// support default or variadic parameters, so any mismatch is an error
// rather than silently truncating or padding the argument list.
type ArityError struct {
	FnName   string
	Want, Got int
	wrap     error
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d argument(s), got %d", e.FnName, e.Want, e.Got)
}

func (e *ArityError) Unwrap() error { return e.wrap }

// NewArityError builds an ArityError for a call to fnName expecting want
// arguments but supplied got.
func NewArityError(fnName string, want, got int) error {
	return &ArityError{FnName: fnName, Want: want, Got: got}
}

// Unsupported is returned for constructs that parse successfully but are
// not implemented by the evaluator or compiler: the reserved ^ (power) and
// postfix ! (factorial) operators everywhere, and in the compiler also
// anonymous fn literals, division, and any node outside its integer subset
// (lists, ranges, strings, bools, loops).
type Unsupported struct {
	Feature string
	wrap    error
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("unsupported: %s", e.Feature)
}

func (e *Unsupported) Unwrap() error { return e.wrap }

// NewUnsupported builds an Unsupported error naming the unimplemented
// feature.
func NewUnsupported(feature string) error {
	return &Unsupported{Feature: feature}
}

// InternalError reports a failure outside the language-level kinds above:
// an IR verification failure, an I/O or linker failure while compiling, a
// function name declared twice in compiled code, or an AST shape that
// eval/compile do not handle (typically a bug in the parser or a hand-built
// AST fed directly to eval/compile).
type InternalError struct {
	Msg  string
	wrap error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Msg)
}

func (e *InternalError) Unwrap() error { return e.wrap }

// NewInternalError builds an InternalError with the given message.
func NewInternalError(msg string) error {
	return &InternalError{Msg: msg}
}

// NewInternalErrorf is NewInternalError with fmt.Sprintf-style formatting.
func NewInternalErrorf(format string, a ...interface{}) error {
	return NewInternalError(fmt.Sprintf(format, a...))
}

// Wrap attaches a cause to any of the above error types, preserving its
// concrete type so errors.As still matches it.
func Wrap(err error, cause error) error {
	switch e := err.(type) {
	case *LexicalError:
		e.wrap = cause
	case *ParseError:
		e.wrap = cause
	case *UnboundName:
		e.wrap = cause
	case *TypeError:
		e.wrap = cause
	case *ArityError:
		e.wrap = cause
	case *Unsupported:
		e.wrap = cause
	case *InternalError:
		e.wrap = cause
	}
	return err
}
