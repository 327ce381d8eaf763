package lexer

import (
	"skarn/internal/diag"
	"skarn/internal/token"
)

// scanString сканирует строковый литерал в двойных кавычках.
// Текст токена — сырой срез исходника, без раскрытия эскейпов: параметрам
// деклараций строки не нужны, но пропуск тел функций обязан корректно
// проходить через них (скобки внутри строк не считаются).
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // открывающая '"'

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			return token.Token{Kind: token.StringLit, Span: lx.spanFrom(start), Text: lx.textFrom(start)}
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.bumpRune()
			}
		case '\n':
			sp := lx.spanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.textFrom(start)}
		default:
			lx.bumpRune()
		}
	}

	sp := lx.spanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.textFrom(start)}
}
