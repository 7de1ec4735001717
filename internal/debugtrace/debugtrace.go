// Package debugtrace renders the intermediate products of a compile or
// interpret run — the token stream, the parsed AST, and (in compiler mode)
// each IR function — as human-readable text, for the -d/--debug CLI flag.
// Table and indentation layout is done with github.com/dekarrin/rosed, the
// same package the teacher's internal/tunascript parser uses to dump its
// parse tables.
package debugtrace

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/google/uuid"

	"github.com/dekarrin/alpha/internal/ast"
	"github.com/dekarrin/alpha/internal/lexer"
)

// Tokens renders toks as a "start end depth rule text" table. Every lexer
// token is a leaf, so depth is always 0 and rule is always the token's
// class ID; the columns are kept anyway so the table has the same shape the
// teacher's own debug dumps use for its parser tables.
func Tokens(toks []lexer.Token) string {
	data := [][]string{{"start", "end", "depth", "rule", "text"}}
	for _, t := range toks {
		start := fmt.Sprintf("%d:%d", t.Line, t.Col)
		end := fmt.Sprintf("%d:%d", t.Line, t.Col+len(t.Lexeme))
		data = append(data, []string{start, end, "0", t.Class.ID(), t.Lexeme})
	}
	return rosed.
		Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// AST renders n using its own tree-printing convention (ast.Node.String()),
// wrapped at a fixed width the way the teacher wraps long debug text blocks.
func AST(n ast.Node) string {
	return rosed.Edit(n.String()).Wrap(100).String()
}

// Header renders the build-identification line prefixed to a trace, tagging
// the run with buildID per §4.4.5 of SPEC_FULL.md.
func Header(buildID uuid.UUID) string {
	return fmt.Sprintf("build %s", buildID)
}

// IRFunction renders one compiled function's textual IR under a heading
// naming it, for interleaving into a -d trace as each function is lowered.
func IRFunction(name, ir string) string {
	if ir == "" {
		return fmt.Sprintf("fn %s: <no IR available>", name)
	}
	return fmt.Sprintf("fn %s:\n%s", name, rosed.Edit(ir).Wrap(100).String())
}
