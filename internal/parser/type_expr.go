package parser

import (
	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/token"
)

// parseTypeExpr — разбор письменного типа:
//
//	&T, &mut T       ссылка
//	Self             placeholder внутри impl/contract
//	Name / Name<...> путь с необязательными аргументами
//	T[]              массив (постфикс, может повторяться)
func (p *Parser) parseTypeExpr() (ast.TypeID, bool) {
	var id ast.TypeID

	switch p.lx.Peek().Kind {
	case token.Amp:
		ampTok := p.advance()
		mutable := false
		if p.at(token.KwMut) {
			p.advance()
			mutable = true
		}
		elem, ok := p.parseTypeExpr()
		if !ok {
			return ast.NoTypeID, false
		}
		id = p.arenas.Types.New(ast.TypeExpr{
			Kind:    ast.TypeExprRef,
			Span:    ampTok.Span.Cover(p.arenas.Types.Get(elem).Span),
			Elem:    elem,
			Mutable: mutable,
		})
	case token.KwSelfType:
		selfTok := p.advance()
		id = p.arenas.Types.New(ast.TypeExpr{
			Kind: ast.TypeExprSelf,
			Span: selfTok.Span,
		})
	case token.Ident:
		nameTok := p.advance()
		nameID := p.arenas.StringsInterner.Intern(nameTok.Text)
		span := nameTok.Span
		var args []ast.TypeID
		if p.at(token.Lt) {
			var ok bool
			args, span, ok = p.parseTypeArgs(span)
			if !ok {
				return ast.NoTypeID, false
			}
		}
		id = p.arenas.Types.New(ast.TypeExpr{
			Kind: ast.TypeExprPath,
			Span: span,
			Name: nameID,
			Args: args,
		})
	default:
		p.err(diag.SynExpectType, "expected type, got \""+p.lx.Peek().Text+"\"")
		return ast.NoTypeID, false
	}

	for p.at(token.LBracket) {
		p.advance()
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' in array type")
		if !ok {
			return ast.NoTypeID, false
		}
		id = p.arenas.Types.New(ast.TypeExpr{
			Kind: ast.TypeExprArray,
			Span: p.arenas.Types.Get(id).Span.Cover(closeTok.Span),
			Elem: id,
		})
	}
	return id, true
}

// parseTypeArgs — `<T, U<V>>`, '<' ещё не съеден.
// Вложенный `>>` лексер отдаёт двумя токенами Gt, так что Vec<Vec<T>> разбирается без хаков.
func (p *Parser) parseTypeArgs(openSpan source.Span) ([]ast.TypeID, source.Span, bool) {
	p.advance() // '<'
	args := make([]ast.TypeID, 0, 2)
	span := openSpan

	if p.at(token.Gt) {
		// пустой `<>` — репортим, но путь оставляем
		p.err(diag.SynExpectType, "expected type argument")
		gtTok := p.advance()
		return args, span.Cover(gtTok.Span), true
	}

	for {
		arg, ok := p.parseTypeExpr()
		if !ok {
			p.resyncUntil(token.Gt, token.Comma, token.RParen, token.Semicolon)
			if p.at(token.Gt) {
				p.advance()
			}
			return nil, span, false
		}
		args = append(args, arg)

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		gtTok, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close type arguments")
		if !ok {
			return nil, span, false
		}
		return args, span.Cover(gtTok.Span), true
	}
}
