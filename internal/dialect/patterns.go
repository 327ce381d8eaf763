package dialect

import "skarn/internal/token"

// ObserveTokenPair records punctuation-pattern evidence over a sliding
// two-token window. The caller feeds tokens in source order; the zero
// Token is a valid "no previous token" value.
func ObserveTokenPair(e *Evidence, prev, tok token.Token) {
	if e == nil {
		return
	}

	adjacent := prev.Span.File == tok.Span.File && prev.Span.End == tok.Span.Start

	// Rust macro call: ident!(
	if prev.Kind == token.Ident && tok.Kind == token.Op && tok.Text == "!" && adjacent {
		reason := "rust macro call syntax `ident!`"
		score := 4
		if prev.Text == "println" {
			reason = "rust macro call `println!`"
			score = 6
		}
		e.Add(Hint{
			Dialect: Rust,
			Score:   score,
			Reason:  reason,
			Span:    prev.Span.Cover(tok.Span),
		})
	}

	// Rust attribute: #[
	if prev.Kind == token.Op && prev.Text == "#" && tok.Kind == token.LBracket && adjacent {
		e.Add(Hint{
			Dialect: Rust,
			Score:   6,
			Reason:  "rust attribute syntax `#[...]`",
			Span:    prev.Span.Cover(tok.Span),
		})
	}

	// Rust path separator: `::` lexes as two adjacent colons.
	if prev.Kind == token.Colon && tok.Kind == token.Colon && adjacent {
		e.Add(Hint{
			Dialect: Rust,
			Score:   4,
			Reason:  "rust path syntax `::`",
			Span:    prev.Span.Cover(tok.Span),
		})
	}

	// Go short variable declaration: `:=` lexes as colon plus assign.
	if prev.Kind == token.Colon && tok.Kind == token.Assign && adjacent {
		e.Add(Hint{
			Dialect: Go,
			Score:   5,
			Reason:  "go short variable declaration `:=`",
			Span:    prev.Span.Cover(tok.Span),
		})
	}

	// TypeScript arrow function: `=>` lexes as assign plus greater-than.
	if prev.Kind == token.Assign && tok.Kind == token.Gt && adjacent {
		e.Add(Hint{
			Dialect: TypeScript,
			Score:   3,
			Reason:  "arrow function syntax `=>`",
			Span:    prev.Span.Cover(tok.Span),
		})
	}
}
