package lexer

import (
	"skarn/internal/diag"
	"skarn/internal/token"
)

// scanOperatorOrPunct сканирует пунктуацию и операторы. Структурная
// пунктуация деклараций получает отдельные виды; остальные операторные
// последовательности сворачиваются в Op.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Peek()

	mk := func(kind token.Kind) token.Token {
		return token.Token{Kind: kind, Span: lx.spanFrom(start), Text: lx.textFrom(start)}
	}

	switch ch {
	case '(':
		lx.cursor.Bump()
		return mk(token.LParen)
	case ')':
		lx.cursor.Bump()
		return mk(token.RParen)
	case '{':
		lx.cursor.Bump()
		return mk(token.LBrace)
	case '}':
		lx.cursor.Bump()
		return mk(token.RBrace)
	case '[':
		lx.cursor.Bump()
		return mk(token.LBracket)
	case ']':
		lx.cursor.Bump()
		return mk(token.RBracket)
	case ',':
		lx.cursor.Bump()
		return mk(token.Comma)
	case ':':
		lx.cursor.Bump()
		return mk(token.Colon)
	case ';':
		lx.cursor.Bump()
		return mk(token.Semicolon)
	}

	if isOpByte(ch) {
		// '->' — единственный двухсимвольный структурный знак. Остальные
		// операторы отдаём по одному символу: '>' в Vec<Vec<T>> обязан
		// оставаться отдельным токеном.
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '-' && b1 == '>' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return mk(token.Arrow)
		}
		lx.cursor.Bump()
		switch ch {
		case '&':
			return mk(token.Amp)
		case '<':
			return mk(token.Lt)
		case '>':
			return mk(token.Gt)
		case '=':
			return mk(token.Assign)
		}
		return mk(token.Op)
	}

	lx.bumpRune()
	sp := lx.spanFrom(start)
	lx.report(diag.LexUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.textFrom(start)}
}
