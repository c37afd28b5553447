package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatbrother/toyc-go/lang/scanner"
	"github.com/fatbrother/toyc-go/lang/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []token.Value, []string) {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile("test.c", len(src))

	var errMsgs []string
	var s scanner.Scanner
	s.Init(f, []byte(src), func(pos token.Position, msg string) {
		errMsgs = append(errMsgs, msg)
	})

	var toks []token.Token
	var vals []token.Value
	for {
		var v token.Value
		tok := s.Scan(&v)
		toks = append(toks, tok)
		vals = append(vals, v)
		if tok == token.EOF {
			break
		}
	}
	return toks, vals, errMsgs
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, vals, errs := scanAll(t, "int x foo123 _bar return")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.INT_KW, token.IDENT, token.IDENT, token.IDENT, token.RETURN, token.EOF}, toks)
	require.Equal(t, "foo123", vals[2].Raw)
}

func TestScanIntegerLiterals(t *testing.T) {
	toks, vals, errs := scanAll(t, "42 0x1F 017 10UL")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.INT, token.INT, token.INT, token.INT, token.EOF}, toks)
	require.Equal(t, "0x1F", vals[1].Raw)
	require.Equal(t, "10UL", vals[3].Raw)
}

func TestScanFloatLiterals(t *testing.T) {
	toks, vals, errs := scanAll(t, "1.5 3. .5 1e10 2.5f")
	require.Empty(t, errs)
	for _, tok := range toks[:5] {
		require.Equal(t, token.FLOAT, tok)
	}
	require.Equal(t, "2.5f", vals[4].Raw)
}

func TestScanStringAndCharLiterals(t *testing.T) {
	toks, vals, errs := scanAll(t, `"hello\n" 'a' '\\'`)
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.STRING, token.CHAR, token.CHAR, token.EOF}, toks)
	require.Equal(t, `"hello\n"`, vals[0].Raw)
	require.Equal(t, `'a'`, vals[1].Raw)
}

func TestScanOperatorsLongestMatchFirst(t *testing.T) {
	toks, _, errs := scanAll(t, "<< <<= < <= == = -> -- - -=")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.LTLT, token.LTLTEQ, token.LT, token.LE, token.EQEQ, token.ASSIGN,
		token.ARROW, token.MINUSMINUS, token.MINUS, token.MINUSEQ, token.EOF,
	}, toks)
}

func TestScanEllipsisVsDot(t *testing.T) {
	toks, _, errs := scanAll(t, "a.b a...")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.IDENT, token.DOT, token.IDENT, token.IDENT, token.ELLIPSIS, token.EOF,
	}, toks)
}

func TestScanSkipsLineAndBlockComments(t *testing.T) {
	toks, _, errs := scanAll(t, "int x; // trailing\n/* block\ncomment */ int y;")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.INT_KW, token.IDENT, token.SEMI, token.INT_KW, token.IDENT, token.SEMI, token.EOF,
	}, toks)
}

func TestScanUnterminatedBlockCommentReportsError(t *testing.T) {
	_, _, errs := scanAll(t, "int x; /* oops")
	require.Len(t, errs, 1)
}

func TestScanUnterminatedStringReportsError(t *testing.T) {
	_, _, errs := scanAll(t, "\"oops")
	require.Len(t, errs, 1)
}

func TestScanIllegalCharacter(t *testing.T) {
	toks, _, errs := scanAll(t, "int x = `;")
	require.Len(t, errs, 1)
	require.Contains(t, toks, token.ILLEGAL)
}

func TestScanTracksLineNumbersAcrossNewlines(t *testing.T) {
	fs := token.NewFileSet()
	src := "int\nx\n=\n1;"
	f := fs.AddFile("test.c", len(src))
	var s scanner.Scanner
	s.Init(f, []byte(src), nil)

	var v token.Value
	s.Scan(&v) // int, line 1
	require.Equal(t, 1, f.Position(v.Pos).Line)
	s.Scan(&v) // x, line 2
	require.Equal(t, 2, f.Position(v.Pos).Line)
	s.Scan(&v) // =, line 3
	require.Equal(t, 3, f.Position(v.Pos).Line)
}
