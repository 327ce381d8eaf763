package parser

import (
	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/token"
)

// parseTypeDeclItem — три формы объявления типа:
//
//	type Name<T> { field: T, ... }  структура
//	type Name = Target;             алиас
//	type Name;                      opaque (объявлен, тела ещё нет)
func (p *Parser) parseTypeDeclItem(isPub bool, startSpan source.Span) (ast.ItemID, bool) {
	p.advance() // 'type'

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

	decl := ast.TypeDeclItem{
		Name:       nameID,
		NameSpan:   nameSpan,
		IsPub:      isPub,
		TypeParams: typeParams,
	}

	switch {
	case p.at(token.LBrace):
		p.advance()
		fields, fieldsOK := p.parseStructFields()
		if !fieldsOK {
			return ast.NoItemID, false
		}
		decl.Kind = ast.TypeDeclStruct
		decl.Fields = fields
	case p.at(token.Assign):
		p.advance()
		target, targetOK := p.parseTypeExpr()
		if !targetOK {
			return ast.NoItemID, false
		}
		if _, semiOK := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after type alias"); !semiOK {
			return ast.NoItemID, false
		}
		decl.Kind = ast.TypeDeclAlias
		decl.Alias = target
	case p.at(token.Semicolon):
		p.advance()
		decl.Kind = ast.TypeDeclOpaque
	default:
		p.err(diag.SynUnexpectedToken, "expected '{', '=' or ';' in type declaration")
		return ast.NoItemID, false
	}

	decl.Span = startSpan.Cover(p.lastSpan)
	return p.arenas.Items.NewTypeDecl(decl), true
}

// parseStructFields — тело структуры, '{' уже съеден.
// Ошибка в поле не валит тело: восстанавливаемся на ','.
func (p *Parser) parseStructFields() ([]ast.FieldID, bool) {
	fields := make([]ast.FieldID, 0, 4)
	for {
		if p.at(token.RBrace) {
			p.advance()
			return fields, true
		}
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedDelimiter, "expected '}' to close struct body")
			return fields, false
		}

		field, ok := p.parseStructField()
		if ok {
			fields = append(fields, p.arenas.Items.NewField(field))
		} else {
			p.resyncUntil(token.Comma, token.RBrace)
		}
		if p.at(token.Comma) {
			p.advance()
		}
	}
}

func (p *Parser) parseStructField() (ast.Field, bool) {
	field := ast.Field{}

	nameID, ok := p.parseIdent()
	if !ok {
		return field, false
	}
	field.Name = nameID
	field.NameSpan = p.lastSpan

	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
		return field, false
	}

	typeID, ok := p.parseTypeExpr()
	if !ok {
		return field, false
	}
	field.Type = typeID
	field.Span = field.NameSpan.Cover(p.arenas.Types.Get(typeID).Span)
	return field, true
}

// parseContractItem — `contract Name<T> { fn sig; ... }`.
// Тело состоит только из сигнатур функций, каждая завершается ';'.
func (p *Parser) parseContractItem(isPub bool, startSpan source.Span) (ast.ItemID, bool) {
	p.advance() // 'contract'

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

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open contract body"); !ok {
		return ast.NoItemID, false
	}

	fns := make([]ast.ItemID, 0, 4)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedDelimiter, "expected '}' to close contract body")
			return ast.NoItemID, false
		}
		if !p.at(token.KwFn) {
			p.err(diag.SynUnexpectedItem, "only function signatures are allowed in contract bodies")
			p.resyncUntil(token.KwFn, token.RBrace)
			continue
		}

		fnID, fnOK := p.parseFnItem(false, p.lx.Peek().Span)
		if !fnOK {
			p.resyncUntil(token.KwFn, token.RBrace)
			continue
		}
		if fn, found := p.arenas.Items.Fn(fnID); found && fn.HasBody {
			p.report(diag.SynExpectSemicolon, diag.SevError, fn.Span, "contract methods must end with ';', not a body")
		}
		fns = append(fns, fnID)
	}
	closeTok := p.advance() // '}'

	contract := ast.ContractItem{
		Name:       nameID,
		NameSpan:   nameSpan,
		IsPub:      isPub,
		TypeParams: typeParams,
		Fns:        fns,
		Span:       startSpan.Cover(closeTok.Span),
	}
	return p.arenas.Items.NewContract(contract), true
}

// parseImplItem — `impl Target { ... }` или `impl Contract for Target { ... }`.
func (p *Parser) parseImplItem() (ast.ItemID, bool) {
	implTok := p.advance() // 'impl'
	startSpan := implTok.Span

	first, ok := p.parseTypeExpr()
	if !ok {
		return ast.NoItemID, false
	}

	contract := ast.NoTypeID
	target := first
	if p.at(token.KwFor) {
		p.advance()
		contract = first
		target, ok = p.parseTypeExpr()
		if !ok {
			return ast.NoItemID, false
		}
	}
	targetSpan := p.arenas.Types.Get(target).Span

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open impl body"); !ok {
		return ast.NoItemID, false
	}

	fns := make([]ast.ItemID, 0, 4)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedDelimiter, "expected '}' to close impl body")
			return ast.NoItemID, false
		}

		fnStart := p.lx.Peek().Span
		isPub := false
		if p.at(token.KwPub) {
			p.advance()
			isPub = true
		}
		if !p.at(token.KwFn) {
			p.err(diag.SynUnexpectedItem, "only functions are allowed in impl bodies")
			p.resyncUntil(token.KwFn, token.KwPub, token.RBrace)
			continue
		}

		fnID, fnOK := p.parseFnItem(isPub, fnStart)
		if !fnOK {
			p.resyncUntil(token.KwFn, token.KwPub, token.RBrace)
			continue
		}
		fns = append(fns, fnID)
	}
	closeTok := p.advance() // '}'

	impl := ast.ImplItem{
		Contract:   contract,
		Target:     target,
		TargetSpan: targetSpan,
		Fns:        fns,
		Span:       startSpan.Cover(closeTok.Span),
	}
	return p.arenas.Items.NewImpl(impl), true
}
