// Package parser implements alpha's grammar over the token stream produced
// by internal/lexer: operator-precedence expressions via a Pratt climb
// (mirroring the nud/led token-method style of the teacher's legacy
// internal/tunascript parser, with each lexer.Class's LBP field driving the
// climb instead of a hand-maintained switch), and plain recursive descent
// for the surrounding statement forms.
package parser

import (
	"strconv"

	"github.com/dekarrin/alpha/internal/alphaerrors"
	"github.com/dekarrin/alpha/internal/ast"
	"github.com/dekarrin/alpha/internal/lexer"
)

// Parse tokenizes and parses src, returning the program's top-level
// Statements node.
func Parse(src string) (ast.Node, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmts, err := p.parseStatements(func(id string) bool { return id == lexer.ClassEOF.ID() })
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.ClassEOF.ID()) {
		return nil, p.errorf("expected end of input, found %s", p.peek().Class.Human())
	}
	return stmts, nil
}

type parser struct {
	toks []lexer.Token
	pos  int
}

func (p *parser) peek() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *parser) at(classID string) bool {
	return p.peek().Class.ID() == classID
}

func (p *parser) advance() lexer.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(classID string) (lexer.Token, error) {
	if !p.at(classID) {
		return lexer.Token{}, p.errorf("expected %s, found %s", classID, p.peek().Class.Human())
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, a ...interface{}) error {
	tok := p.peek()
	return alphaerrors.NewParseErrorf(tok.Line, tok.Col, format, a...)
}

// --- statements ---

// parseStatements parses a statement list until stop reports true for the
// class ID of the token it is looking at. ";" between statements is
// consumed when present but is not required: block-terminating keywords
// ("end", "else", EOF) are themselves unambiguous resync points, so e.g.
// "fn f(x) x*x end f(6)" parses as two statements with no separator.
func (p *parser) parseStatements(stop func(classID string) bool) (ast.StatementsNode, error) {
	tok := p.peek()
	var stmts []ast.Node
	for !stop(p.peek().Class.ID()) {
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.StatementsNode{}, err
		}
		stmts = append(stmts, stmt)
		if p.at(lexer.ClassSemi.ID()) {
			p.advance()
		}
	}
	return ast.Statements(tok, stmts), nil
}

func (p *parser) parseStatement() (ast.Node, error) {
	switch p.peek().Class.ID() {
	case lexer.ClassLet.ID():
		return p.parseVarDecl()
	case lexer.ClassFor.ID():
		return p.parseLoop()
	case lexer.ClassWhile.ID():
		return p.parseWhile()
	case lexer.ClassIf.ID():
		return p.parseIfElse()
	case lexer.ClassFn.ID():
		return p.parseFnDef()
	case lexer.ClassIdent.ID():
		if p.isAssignAhead() {
			return p.parseAssign()
		}
		return p.parseExpr(0)
	default:
		return p.parseExpr(0)
	}
}

// isAssignAhead reports whether the upcoming IDENT "=" forms a bare
// reassignment statement rather than the start of an expression (a VarRef
// followed by a binary "=" is not otherwise meaningful, alpha has no
// equality-by-single-"=" operator).
func (p *parser) isAssignAhead() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+1].Class.ID() == lexer.ClassAssign.ID()
}

func (p *parser) parseVarDecl() (ast.Node, error) {
	tok := p.advance() // 'let'
	mut := ast.Immutable
	if p.at(lexer.ClassMut.ID()) {
		p.advance()
		mut = ast.Mutable
	}
	nameTok, err := p.expect(lexer.ClassIdent.ID())
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ClassAssign.ID()); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.Define(tok, mut, nameTok.Lexeme, expr), nil
}

func (p *parser) parseAssign() (ast.Node, error) {
	nameTok := p.advance()
	p.advance() // '='
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.Assign(nameTok, nameTok.Lexeme, expr), nil
}

func (p *parser) parseLoop() (ast.Node, error) {
	tok := p.advance() // 'for'
	nameTok, err := p.expect(lexer.ClassIdent.ID())
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ClassIn.ID()); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ClassDo.ID()); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(func(id string) bool { return id == lexer.ClassEnd.ID() })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ClassEnd.ID()); err != nil {
		return nil, err
	}
	return ast.Loop(tok, nameTok.Lexeme, iterable, body), nil
}

func (p *parser) parseWhile() (ast.Node, error) {
	tok := p.advance() // 'while'
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ClassDo.ID()); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(func(id string) bool { return id == lexer.ClassEnd.ID() })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ClassEnd.ID()); err != nil {
		return nil, err
	}
	return ast.While(tok, cond, body), nil
}

func (p *parser) parseIfElse() (ast.Node, error) {
	tok := p.advance() // 'if'
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ClassThen.ID()); err != nil {
		return nil, err
	}
	then, err := p.parseStatements(func(id string) bool {
		return id == lexer.ClassElse.ID() || id == lexer.ClassEnd.ID()
	})
	if err != nil {
		return nil, err
	}
	var els ast.StatementsNode
	hasElse := false
	if p.at(lexer.ClassElse.ID()) {
		p.advance()
		hasElse = true
		els, err = p.parseStatements(func(id string) bool { return id == lexer.ClassEnd.ID() })
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.ClassEnd.ID()); err != nil {
		return nil, err
	}
	return ast.IfElse(tok, cond, then, els, hasElse), nil
}

func (p *parser) parseFnDef() (ast.Node, error) {
	tok := p.advance() // 'fn'
	name := ""
	if p.at(lexer.ClassIdent.ID()) {
		name = p.advance().Lexeme
	}
	if _, err := p.expect(lexer.ClassLParen.ID()); err != nil {
		return nil, err
	}
	var params []string
	if !p.at(lexer.ClassRParen.ID()) {
		for {
			paramTok, err := p.expect(lexer.ClassIdent.ID())
			if err != nil {
				return nil, err
			}
			params = append(params, paramTok.Lexeme)
			if p.at(lexer.ClassComma.ID()) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.ClassRParen.ID()); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(func(id string) bool { return id == lexer.ClassEnd.ID() })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ClassEnd.ID()); err != nil {
		return nil, err
	}
	return ast.FnDef(tok, name, params, body), nil
}

// --- expressions: Pratt climb ---

func (p *parser) parseExpr(rbp int) (ast.Node, error) {
	tok := p.advance()
	left, err := p.nud(tok)
	if err != nil {
		return nil, err
	}
	for rbp < p.peek().Class.LBP {
		tok = p.advance()
		left, err = p.led(tok, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) nud(tok lexer.Token) (ast.Node, error) {
	switch tok.Class.ID() {
	case lexer.ClassNumber.ID():
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, alphaerrors.NewLexicalError(tok.Line, tok.Col, "malformed number literal: "+tok.Lexeme)
		}
		return ast.Number(tok, v), nil
	case lexer.ClassString.ID():
		return ast.Str(tok, tok.Lexeme), nil
	case lexer.ClassTrue.ID():
		return ast.Bool(tok, true), nil
	case lexer.ClassFalse.ID():
		return ast.Bool(tok, false), nil
	case lexer.ClassNada.ID():
		return ast.Nada(tok), nil
	case lexer.ClassIdent.ID():
		if p.at(lexer.ClassLParen.ID()) {
			return p.parseFnCall(tok)
		}
		return ast.VarRef(tok, tok.Lexeme), nil
	case lexer.ClassMinus.ID():
		// unary minus, desugared into Expr{Mul, Number(-1), rhs}
		rhs, err := p.parseExpr(lexer.LBPUnaryMinus)
		if err != nil {
			return nil, err
		}
		return ast.Expr(tok, ast.Mul, ast.Number(tok, -1), rhs), nil
	case lexer.ClassLParen.ID():
		return p.parseParenOrRange(tok)
	case lexer.ClassLBracket.ID():
		return p.parseBracketOrRange(tok)
	case lexer.ClassFn.ID():
		p.pos-- // put back; parseFnDef expects to consume 'fn' itself
		return p.parseFnDef()
	default:
		return nil, alphaerrors.NewParseErrorf(tok.Line, tok.Col, "unexpected token %s in expression", tok.Class.Human())
	}
}

func (p *parser) led(tok lexer.Token, left ast.Node) (ast.Node, error) {
	switch tok.Class.ID() {
	case lexer.ClassPlus.ID():
		return p.parseBinary(tok, ast.Add, left)
	case lexer.ClassMinus.ID():
		return p.parseBinary(tok, ast.Sub, left)
	case lexer.ClassStar.ID():
		return p.parseBinary(tok, ast.Mul, left)
	case lexer.ClassSlash.ID():
		return p.parseBinary(tok, ast.Div, left)
	case lexer.ClassEq.ID():
		return p.parseBinaryRightAssoc(tok, ast.Eq, left)
	case lexer.ClassNeq.ID():
		return p.parseBinaryRightAssoc(tok, ast.Neq, left)
	case lexer.ClassGt.ID():
		return p.parseBinaryRightAssoc(tok, ast.Gt, left)
	case lexer.ClassGe.ID():
		return p.parseBinaryRightAssoc(tok, ast.Ge, left)
	case lexer.ClassLt.ID():
		return p.parseBinaryRightAssoc(tok, ast.Lt, left)
	case lexer.ClassLe.ID():
		return p.parseBinaryRightAssoc(tok, ast.Le, left)
	case lexer.ClassCaret.ID():
		return p.parseBinaryRightAssoc(tok, ast.Pow, left)
	case lexer.ClassBang.ID():
		// postfix factorial: no right operand to parse.
		return ast.Expr(tok, ast.Fact, left, ast.Number(tok, 0)), nil
	default:
		return nil, alphaerrors.NewParseErrorf(tok.Line, tok.Col, "unexpected token %s", tok.Class.Human())
	}
}

func (p *parser) parseBinary(tok lexer.Token, op ast.Op, left ast.Node) (ast.Node, error) {
	right, err := p.parseExpr(tok.Class.LBP)
	if err != nil {
		return nil, err
	}
	return ast.Expr(tok, op, left, right), nil
}

// parseBinaryRightAssoc parses the right operand with rbp one less than the
// operator's own LBP, making the operator right-associative: a chain like
// "a == b == c" binds as "a == (b == c)".
func (p *parser) parseBinaryRightAssoc(tok lexer.Token, op ast.Op, left ast.Node) (ast.Node, error) {
	right, err := p.parseExpr(tok.Class.LBP - 1)
	if err != nil {
		return nil, err
	}
	return ast.Expr(tok, op, left, right), nil
}

func (p *parser) parseFnCall(nameTok lexer.Token) (ast.Node, error) {
	p.advance() // '('
	var args []ast.Node
	if !p.at(lexer.ClassRParen.ID()) {
		for {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.at(lexer.ClassComma.ID()) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.ClassRParen.ID()); err != nil {
		return nil, err
	}
	return ast.FnCall(nameTok, nameTok.Lexeme, args), nil
}

// parseParenOrRange handles the ambiguity between a grouping "(" expr ")"
// and a range whose lower bound is exclusive, "(" primary "," primary
// (")"|"]"): the two productions are only distinguishable after the first
// inner expression, by whether a "," follows.
func (p *parser) parseParenOrRange(openTok lexer.Token) (ast.Node, error) {
	first, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.at(lexer.ClassComma.ID()) {
		p.advance()
		second, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		upper, err := p.closeRange()
		if err != nil {
			return nil, err
		}
		return ast.Range(openTok, first, second, ast.Exclusive, upper), nil
	}
	if _, err := p.expect(lexer.ClassRParen.ID()); err != nil {
		return nil, err
	}
	return first, nil
}

// parseBracketOrRange handles "[" which may open a List literal or a range
// whose lower bound is inclusive. A two-element "[" a "," b "]" is treated
// as a List, matching list literal syntax exactly; asymmetric brackets
// ("[" ... ")") are unambiguously a Range.
func (p *parser) parseBracketOrRange(openTok lexer.Token) (ast.Node, error) {
	if p.at(lexer.ClassRBracket.ID()) {
		p.advance()
		return ast.List(openTok, nil), nil
	}
	first, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	items := []ast.Node{first}
	for p.at(lexer.ClassComma.ID()) {
		p.advance()
		item, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if p.at(lexer.ClassRParen.ID()) {
		if len(items) != 2 {
			return nil, p.errorf("range must have exactly two endpoints, found %d", len(items))
		}
		p.advance()
		return ast.Range(openTok, items[0], items[1], ast.Inclusive, ast.Exclusive), nil
	}
	if _, err := p.expect(lexer.ClassRBracket.ID()); err != nil {
		return nil, err
	}
	return ast.List(openTok, items), nil
}

func (p *parser) closeRange() (ast.Bound, error) {
	switch {
	case p.at(lexer.ClassRBracket.ID()):
		p.advance()
		return ast.Inclusive, nil
	case p.at(lexer.ClassRParen.ID()):
		p.advance()
		return ast.Exclusive, nil
	default:
		return 0, p.errorf("expected ']' or ')' to close range, found %s", p.peek().Class.Human())
	}
}
