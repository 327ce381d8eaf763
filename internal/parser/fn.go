package parser

import (
	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/token"
)

// parseFnItem — `fn name<T, U>(params) -> Ret { ... }` либо объявление с `;`.
// 'fn' ещё не съеден; startSpan покрывает модификаторы перед ним.
func (p *Parser) parseFnItem(isPub bool, startSpan source.Span) (ast.ItemID, bool) {
	p.advance() // 'fn'

	nameID, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	nameSpan := p.lastSpan

	var typeParams []ast.TypeParamID
	if p.at(token.Lt) {
		typeParams, ok = p.parseGenericParams()
		if !ok {
			return ast.NoItemID, false
		}
	}

	if _, ok = p.expect(token.LParen, diag.SynExpectParamList, "expected '(' after function name"); !ok {
		return ast.NoItemID, false
	}
	params, ok := p.parseFnParams()
	if !ok {
		return ast.NoItemID, false
	}

	returnType := ast.NoTypeID
	if p.at(token.Arrow) {
		p.advance()
		returnType, ok = p.parseTypeExpr()
		if !ok {
			return ast.NoItemID, false
		}
	}

	hasBody := false
	switch {
	case p.at(token.LBrace):
		openTok := p.advance()
		if !p.skipBalanced(token.LBrace, token.RBrace) {
			p.report(diag.SynUnclosedDelimiter, diag.SevError, openTok.Span, "unclosed function body")
		}
		hasBody = true
	case p.at(token.Semicolon):
		p.advance()
	default:
		p.err(diag.SynExpectSemicolon, "expected function body or ';'")
		return ast.NoItemID, false
	}

	fn := ast.FnItem{
		Name:       nameID,
		NameSpan:   nameSpan,
		IsPub:      isPub,
		TypeParams: typeParams,
		Params:     params,
		ReturnType: returnType,
		HasBody:    hasBody,
		Span:       startSpan.Cover(p.lastSpan),
	}
	return p.arenas.Items.NewFn(fn), true
}

// parseGenericParams — `<T, U>`. Имена без ограничений (bounds нет).
// Используется для fn, type и contract.
func (p *Parser) parseGenericParams() ([]ast.TypeParamID, bool) {
	p.advance() // '<'
	out := make([]ast.TypeParamID, 0, 2)

	if p.at(token.Gt) {
		// пустой `<>` — репортим и продолжаем без параметров
		p.err(diag.SynExpectIdentifier, "expected type parameter name")
		p.advance()
		return out, true
	}

	for {
		nameID, ok := p.parseIdent()
		if !ok {
			p.resyncUntil(token.Gt, token.LParen, token.LBrace, token.Semicolon)
			if p.at(token.Gt) {
				p.advance()
			}
			return nil, false
		}
		out = append(out, p.arenas.Items.NewTypeParam(ast.TypeParam{
			Name:     nameID,
			NameSpan: p.lastSpan,
			Span:     p.lastSpan,
		}))

		if p.at(token.Comma) {
			p.advance()
			if p.at(token.Gt) { // висячая запятая
				p.advance()
				return out, true
			}
			continue
		}
		if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close type parameter list"); !ok {
			return nil, false
		}
		return out, true
	}
}

// parseFnParams — список параметров, '(' уже съеден.
// Ошибка в отдельном параметре не валит список: восстанавливаемся на ','.
func (p *Parser) parseFnParams() ([]ast.FnParamID, bool) {
	params := make([]ast.FnParamID, 0, 4)
	if p.at(token.RParen) {
		p.advance()
		return params, true
	}

	for {
		param, paramOK := p.parseFnParam(len(params) == 0)
		if paramOK {
			params = append(params, p.arenas.Items.NewFnParam(param))
		} else {
			p.resyncUntil(token.Comma, token.RParen, token.Semicolon, token.LBrace)
		}

		switch {
		case p.at(token.Comma):
			p.advance()
			if p.at(token.RParen) { // висячая запятая
				p.advance()
				return params, true
			}
		case p.at(token.RParen):
			p.advance()
			return params, true
		default:
			p.err(diag.SynUnclosedDelimiter, "expected ')' after parameters")
			return params, false
		}
	}
}

// parseFnParam — один параметр: `[ref] [mut] self` или `[ref] [mut] name: Type`.
// Модификаторы только записываются; их допустимость решает sema.
func (p *Parser) parseFnParam(first bool) (ast.FnParam, bool) {
	param := ast.FnParam{}
	startSpan := p.lx.Peek().Span

	if p.at(token.KwRef) {
		p.advance()
		param.IsRef = true
	}
	if p.at(token.KwMut) {
		mutTok := p.advance()
		param.IsMut = true
		param.MutSpan = mutTok.Span
	}

	if p.at(token.KwSelfValue) {
		selfTok := p.advance()
		if !first {
			p.emitDiagnostic(
				diag.SynSelfNotFirst,
				diag.SevError,
				selfTok.Span,
				"'self' must be the first parameter",
				func(b *diag.ReportBuilder) {
					b.WithNote(selfTok.Span, "move 'self' to the front of the parameter list")
				},
			)
			return param, false
		}
		param.Name = p.arenas.StringsInterner.Intern(selfTok.Text)
		param.NameSpan = selfTok.Span
		param.IsSelf = true
		param.Span = startSpan.Cover(selfTok.Span)
		return param, true
	}

	nameID, ok := p.parseIdent()
	if !ok {
		return param, false
	}
	param.Name = nameID
	param.NameSpan = p.lastSpan

	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after parameter name"); !ok {
		return param, false
	}

	typeID, ok := p.parseTypeExpr()
	if !ok {
		return param, false
	}
	param.Type = typeID
	param.TypeSpan = p.arenas.Types.Get(typeID).Span
	param.Span = startSpan.Cover(param.TypeSpan)
	return param, true
}
