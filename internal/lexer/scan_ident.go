package lexer

import (
	"golang.org/x/text/unicode/norm"

	"skarn/internal/diag"
	"skarn/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор или ключевое слово.
// Unicode identifiers are NFC-normalized so visually identical names
// intern to one symbol regardless of how the editor encoded them.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Off
	ascii := true

	r, _ := lx.peekRune()
	if !isIdentStartRune(r) {
		// Не идентификатор: отдаём один байт как Invalid.
		lx.bumpRune()
		sp := lx.spanFrom(start)
		lx.report(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.textFrom(start)}
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.peekRune()
		if !isIdentContinueRune(r) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	text := lx.textFrom(start)
	if !ascii {
		text = norm.NFC.String(text)
	}

	kind := token.Ident
	if k, ok := token.LookupKeyword(text); ok {
		kind = k
	}
	return token.Token{Kind: kind, Span: lx.spanFrom(start), Text: text}
}
