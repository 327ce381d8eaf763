package lexer

import (
	"testing"

	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sk", []byte(src))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})

	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out, bag
		}
		out = append(out, tok)
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexFnSignature(t *testing.T) {
	toks, bag := lexAll(t, "fn move_to(ref mut p: Point, d: uint64) -> bool;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.KwFn, token.Ident, token.LParen,
		token.KwRef, token.KwMut, token.Ident, token.Colon, token.Ident, token.Comma,
		token.Ident, token.Colon, token.Ident, token.RParen,
		token.Arrow, token.Ident, token.Semicolon,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
	if toks[1].Text != "move_to" {
		t.Fatalf("fn name text = %q", toks[1].Text)
	}
}

func TestLexSelfKeywords(t *testing.T) {
	toks, _ := lexAll(t, "self Self selfhood")
	if toks[0].Kind != token.KwSelfValue {
		t.Fatalf("'self' lexed as %v", toks[0].Kind)
	}
	if toks[1].Kind != token.KwSelfType {
		t.Fatalf("'Self' lexed as %v", toks[1].Kind)
	}
	if toks[2].Kind != token.Ident {
		t.Fatalf("'selfhood' lexed as %v", toks[2].Kind)
	}
}

func TestLexNestedGenerics(t *testing.T) {
	toks, bag := lexAll(t, "Vec<Vec<T>>")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{token.Ident, token.Lt, token.Ident, token.Lt, token.Ident, token.Gt, token.Gt}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
}

func TestLexComments(t *testing.T) {
	toks, bag := lexAll(t, "// line\nfn /* block /* nested */ */ f")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	got := kinds(toks)
	if len(got) != 2 || got[0] != token.KwFn || got[1] != token.Ident {
		t.Fatalf("kinds = %v", got)
	}
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"42", token.IntLit},
		{"1_000_000", token.IntLit},
		{"0xFF", token.IntLit},
		{"0b1010", token.IntLit},
		{"3.25", token.FloatLit},
		{"1e9", token.FloatLit},
		{"2.5e-3", token.FloatLit},
	}
	for _, tt := range tests {
		toks, bag := lexAll(t, tt.src)
		if bag.HasErrors() {
			t.Errorf("%q produced diagnostics", tt.src)
			continue
		}
		if len(toks) != 1 || toks[0].Kind != tt.kind {
			t.Errorf("%q lexed as %v, want single %v", tt.src, kinds(toks), tt.kind)
		}
	}
}

func TestLexStringWithBraces(t *testing.T) {
	toks, bag := lexAll(t, `"{ not a block }"`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(toks) != 1 || toks[0].Kind != token.StringLit {
		t.Fatalf("kinds = %v", kinds(toks))
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, bag := lexAll(t, `"oops`)
	if !bag.HasErrors() {
		t.Fatalf("unterminated string not reported")
	}
	if bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("code = %v", bag.Items()[0].Code)
	}
}

func TestLexUnicodeIdentNFC(t *testing.T) {
	// "é" составной (e + combining acute) и предкомбинированный должны
	// дать одинаковый текст токена.
	composed := "café"
	decomposed := "café"
	t1, _ := lexAll(t, composed)
	t2, _ := lexAll(t, decomposed)
	if len(t1) != 1 || len(t2) != 1 {
		t.Fatalf("unexpected token counts: %d, %d", len(t1), len(t2))
	}
	if t1[0].Text != t2[0].Text {
		t.Fatalf("NFC normalization failed: %q vs %q", t1[0].Text, t2[0].Text)
	}
}

func TestLexPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sk", []byte("fn f"))
	lx := New(fs.Get(id), Options{})
	p := lx.Peek()
	n := lx.Next()
	if p.Kind != n.Kind || p.Span != n.Span {
		t.Fatalf("Peek %v then Next %v", p, n)
	}
}
