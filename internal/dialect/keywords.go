package dialect

import (
	"strings"

	"skarn/internal/source"
)

type keywordSignal struct {
	Dialect Kind
	Score   int
	Reason  string
}

// keywordSignals maps identifiers to the dialects they hint at. Words
// that are skarn keywords (fn, type, contract, impl, ref, mut, self,
// let, pub, return, for) never appear here: the lexer does not emit
// them as identifiers, and they carry no foreign signal anyway.
var keywordSignals = map[string][]keywordSignal{
	// Rust-ish
	"trait":       {{Dialect: Rust, Score: 6, Reason: "rust keyword `trait`"}},
	"macro_rules": {{Dialect: Rust, Score: 5, Reason: "rust macro_rules syntax"}},
	"crate":       {{Dialect: Rust, Score: 5, Reason: "rust keyword `crate`"}},
	"mod":         {{Dialect: Rust, Score: 4, Reason: "rust keyword `mod`"}},
	"dyn":         {{Dialect: Rust, Score: 4, Reason: "rust keyword `dyn`"}},
	"struct":      {{Dialect: Rust, Score: 3, Reason: "rust keyword `struct`"}},
	"unsafe":      {{Dialect: Rust, Score: 3, Reason: "rust keyword `unsafe`"}},
	// `match` и `enum` встречаются как обычные имена; сигнал слабый.
	"match": {{Dialect: Rust, Score: 2, Reason: "rust keyword `match`"}},
	"enum":  {{Dialect: Rust, Score: 2, Reason: "rust keyword `enum`"}},
	"where": {{Dialect: Rust, Score: 1, Reason: "rust keyword `where`"}},

	// Go-ish
	"func":    {{Dialect: Go, Score: 5, Reason: "go keyword `func`"}},
	"defer":   {{Dialect: Go, Score: 5, Reason: "go keyword `defer`"}},
	"chan":    {{Dialect: Go, Score: 4, Reason: "go keyword `chan`"}},
	"package": {{Dialect: Go, Score: 4, Reason: "go keyword `package`"}},
	"select":  {{Dialect: Go, Score: 2, Reason: "go keyword `select`"}},
	"range":   {{Dialect: Go, Score: 2, Reason: "go keyword `range`"}},
	"go":      {{Dialect: Go, Score: 2, Reason: "go keyword `go`"}},
	// `interface` неоднозначен (Go/TS), держим слабым для обоих.
	"interface": {
		{Dialect: Go, Score: 1, Reason: "go keyword `interface`"},
		{Dialect: TypeScript, Score: 1, Reason: "typescript keyword `interface`"},
	},

	// TypeScript-ish
	"implements": {{Dialect: TypeScript, Score: 4, Reason: "typescript keyword `implements`"}},
	"extends":    {{Dialect: TypeScript, Score: 4, Reason: "typescript keyword `extends`"}},
	"namespace":  {{Dialect: TypeScript, Score: 4, Reason: "typescript keyword `namespace`"}},
	"readonly":   {{Dialect: TypeScript, Score: 3, Reason: "typescript keyword `readonly`"}},
	"declare":    {{Dialect: TypeScript, Score: 3, Reason: "typescript keyword `declare`"}},
	"number":     {{Dialect: TypeScript, Score: 2, Reason: "typescript type `number`"}},
	"boolean":    {{Dialect: TypeScript, Score: 2, Reason: "typescript type `boolean`"}},
	"never":      {{Dialect: TypeScript, Score: 2, Reason: "typescript type `never`"}},

	// Python-ish. `True`/`False` только с большой буквы: свои true/false
	// лексер отдаёт ключевыми словами и сюда они не попадают.
	"None":   {{Dialect: Python, Score: 4, Reason: "python `None`"}},
	"elif":   {{Dialect: Python, Score: 4, Reason: "python keyword `elif`"}},
	"lambda": {{Dialect: Python, Score: 3, Reason: "python keyword `lambda`"}},
	"def":    {{Dialect: Python, Score: 2, Reason: "python keyword `def`"}},
	"True":   {{Dialect: Python, Score: 2, Reason: "python `True`"}},
	"False":  {{Dialect: Python, Score: 2, Reason: "python `False`"}},
	"pass":   {{Dialect: Python, Score: 1, Reason: "python keyword `pass`"}},
}

// RecordIdent collects keyword evidence for an identifier token. The
// exact spelling is tried first, then a lowercased one for keyword-like
// spellings ("Trait", "FUNC").
func RecordIdent(e *Evidence, ident string, span source.Span) {
	if e == nil || ident == "" {
		return
	}
	recordIdentKey(e, ident, span)
	if lower := strings.ToLower(ident); lower != ident {
		recordIdentKey(e, lower, span)
	}
}

func recordIdentKey(e *Evidence, ident string, span source.Span) {
	for _, sig := range keywordSignals[ident] {
		e.Add(Hint{
			Dialect: sig.Dialect,
			Score:   sig.Score,
			Reason:  sig.Reason,
			Span:    span,
		})
	}
}
