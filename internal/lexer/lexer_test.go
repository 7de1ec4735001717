package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func classIDs(toks []Token) []string {
	ids := make([]string, len(toks))
	for i, t := range toks {
		ids[i] = t.Class.ID()
	}
	return ids
}

func Test_Lex_arithmeticExpr(t *testing.T) {
	assert := assert.New(t)

	toks, err := Lex("1 + 2 * (3 - 4)")
	if !assert.NoError(err) {
		return
	}

	expectIDs := []string{
		"NUMBER", "PLUS", "NUMBER", "STAR", "LPAREN", "NUMBER", "MINUS", "NUMBER", "RPAREN", "EOF",
	}
	assert.Equal(expectIDs, classIDs(toks))
}

func Test_Lex_keywordsAndIdents(t *testing.T) {
	assert := assert.New(t)

	toks, err := Lex("let mut_count = if_cond")
	if !assert.NoError(err) {
		return
	}

	assert.Equal("LET", toks[0].Class.ID())
	assert.Equal("IDENT", toks[1].Class.ID())
	assert.Equal("mut_count", toks[1].Lexeme)
	assert.Equal("ASSIGN", toks[2].Class.ID())
	assert.Equal("IDENT", toks[3].Class.ID())
}

func Test_Lex_stringLiteralWithEscapes(t *testing.T) {
	assert := assert.New(t)

	toks, err := Lex(`"hello\nworld"`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("STRING", toks[0].Class.ID())
	assert.Equal("hello\nworld", toks[0].Lexeme)
}

func Test_Lex_unterminatedString_isLexicalError(t *testing.T) {
	assert := assert.New(t)

	_, err := Lex(`"unterminated`)
	assert.Error(err)
}

func Test_Lex_multiCharComparisonOperators(t *testing.T) {
	assert := assert.New(t)

	toks, err := Lex("a >= b <= c == d != e")
	if !assert.NoError(err) {
		return
	}

	expectIDs := []string{"IDENT", "GE", "IDENT", "LE", "IDENT", "EQ", "IDENT", "NEQ", "IDENT", "EOF"}
	assert.Equal(expectIDs, classIDs(toks))
}

func Test_Lex_reservedOperators_stillLex(t *testing.T) {
	assert := assert.New(t)

	toks, err := Lex("x ^ 2; y!")
	if !assert.NoError(err) {
		return
	}

	expectIDs := []string{"IDENT", "CARET", "NUMBER", "SEMI", "IDENT", "BANG", "EOF"}
	assert.Equal(expectIDs, classIDs(toks))
}

func Test_Lex_consecutiveDots_isLexicalError(t *testing.T) {
	assert := assert.New(t)

	// Range literals are bracket-only ("[0,5)"); ".." isn't grammar
	// anywhere, and shouldn't be swallowed into a malformed "1." number.
	_, err := Lex("1..10")
	assert.Error(err)
}

func Test_Lex_decimalNumber(t *testing.T) {
	assert := assert.New(t)

	toks, err := Lex("3.14")
	if !assert.NoError(err) {
		return
	}

	assert.Equal("NUMBER", toks[0].Class.ID())
	assert.Equal("3.14", toks[0].Lexeme)
}

func Test_Lex_unexpectedCharacter_isLexicalError(t *testing.T) {
	assert := assert.New(t)

	_, err := Lex("@")
	assert.Error(err)
}

func Test_Lex_commentsAreIgnored(t *testing.T) {
	assert := assert.New(t)

	toks, err := Lex("1 # this is a comment\n+ 2")
	if !assert.NoError(err) {
		return
	}

	expectIDs := []string{"NUMBER", "PLUS", "NUMBER", "EOF"}
	assert.Equal(expectIDs, classIDs(toks))
}
