package eval

import "github.com/dekarrin/alpha/internal/ast"

// flatEnv is a flattened, read-only snapshot of a Scope chain: the
// "combined view" closures capture by value. It implements ast.Environment
// so a ScopedFnDefNode can carry one without creating an import cycle
// between ast and eval.
type flatEnv map[string]ast.Node

func (m flatEnv) Lookup(name string) (ast.Node, bool) {
	v, ok := m[name]
	return v, ok
}

// Scope is a mapping from name to bound value. Ordinary nested blocks (if,
// while, for bodies) chain scopes by a live parent pointer, so Assign can
// reach up and mutate an enclosing binding in place. A function call
// severs that live chain: its Scope instead holds a captured flatEnv
// snapshot taken at the closure's definition site, so mutations made after
// capture are never observed from inside the closure, per §9 of
// SPEC_FULL.md.
type Scope struct {
	parent   *Scope
	captured ast.Environment
	own      map[string]ast.Node
}

// NewScope returns a fresh top-level scope with no parent and no capture,
// suitable for Run's root scope or the interactive REPL's persistent scope.
func NewScope() *Scope {
	return &Scope{own: map[string]ast.Node{}}
}

// NewChild returns a scope nested under s by a live parent pointer, used for
// if/while/for bodies: Define in the child shadows without affecting s, but
// Assign can still reach up into s (or any further ancestor) to update an
// existing binding.
func (s *Scope) NewChild() *Scope {
	return &Scope{parent: s, own: map[string]ast.Node{}}
}

// NewCall returns a fresh scope for a function call: own bindings start
// empty (to be filled with the callee's self-reference and parameters),
// and lookups that miss own fall through to the captured snapshot rather
// than any live scope.
func NewCall(captured ast.Environment) *Scope {
	return &Scope{captured: captured, own: map[string]ast.Node{}}
}

// Lookup resolves name by consulting own bindings, then the live parent
// chain, then (failing that) the captured snapshot.
func (s *Scope) Lookup(name string) (ast.Node, bool) {
	if v, ok := s.own[name]; ok {
		return v, true
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	if s.captured != nil {
		return s.captured.Lookup(name)
	}
	return nil, false
}

// Define introduces or shadows name in s's own bindings.
func (s *Scope) Define(name string, val ast.Node) {
	s.own[name] = val
}

// Assign updates the nearest existing binding of name reachable via the
// live parent chain. If no live scope owns name but it is visible through
// the captured snapshot, the override is recorded in s's own bindings only
// (the snapshot itself is immutable and not shared with whatever scope
// produced it). Assign reports false if name is not visible at all.
func (s *Scope) Assign(name string, val ast.Node) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.own[name]; ok {
			sc.own[name] = val
			return true
		}
	}
	if s.captured != nil {
		if _, ok := s.captured.Lookup(name); ok {
			s.own[name] = val
			return true
		}
	}
	return false
}

// Snapshot flattens the live chain rooted at s (plus whatever any scope on
// that chain captured, if it is a call scope) into a single read-only
// flatEnv, the value a ScopedFnDefNode captures at definition time.
func (s *Scope) Snapshot() ast.Environment {
	result := flatEnv{}
	var chain []*Scope
	for sc := s; sc != nil; sc = sc.parent {
		chain = append(chain, sc)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if fe, ok := chain[i].captured.(flatEnv); ok {
			for k, v := range fe {
				result[k] = v
			}
		}
		for k, v := range chain[i].own {
			result[k] = v
		}
	}
	return result
}
