package lexer

import (
	"skarn/internal/diag"
	"skarn/internal/token"
)

// scanNumber сканирует числовой литерал: десятичный, 0x, 0b, float.
// Подчёркивания-разделители допустимы между цифрами.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off

	b0, b1, ok := lx.cursor.Peek2()
	if ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		if !lx.eatDigits(isHex) {
			sp := lx.spanFrom(start)
			lx.report(diag.LexBadNumber, sp, "hex literal needs at least one digit")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.textFrom(start)}
		}
		return token.Token{Kind: token.IntLit, Span: lx.spanFrom(start), Text: lx.textFrom(start)}
	}
	if ok && b0 == '0' && (b1 == 'b' || b1 == 'B') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		if !lx.eatDigits(func(b byte) bool { return b == '0' || b == '1' }) {
			sp := lx.spanFrom(start)
			lx.report(diag.LexBadNumber, sp, "binary literal needs at least one digit")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.textFrom(start)}
		}
		return token.Token{Kind: token.IntLit, Span: lx.spanFrom(start), Text: lx.textFrom(start)}
	}

	lx.eatDigits(isDec)
	kind := token.IntLit

	// Дробная часть: точка, за которой идёт цифра.
	if d0, d1, ok := lx.cursor.Peek2(); ok && d0 == '.' && isDec(d1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.eatDigits(isDec)
	}

	// Экспонента.
	if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
		mark := lx.cursor.Off
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !lx.eatDigits(isDec) {
			// Откат: 'e' принадлежит следующему токену (например, идентификатору).
			lx.cursor.Off = mark
		} else {
			kind = token.FloatLit
		}
	}

	return token.Token{Kind: kind, Span: lx.spanFrom(start), Text: lx.textFrom(start)}
}

func (lx *Lexer) eatDigits(valid func(byte) bool) bool {
	seen := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if valid(b) {
			seen = true
			lx.cursor.Bump()
			continue
		}
		if b == '_' && seen {
			if _, b1, ok := lx.cursor.Peek2(); ok && valid(b1) {
				lx.cursor.Bump()
				continue
			}
		}
		break
	}
	return seen
}
