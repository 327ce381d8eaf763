package parser

import (
	"slices"

	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/lexer"
	"skarn/internal/source"
	"skarn/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer    // поток токенов (Peek/Next)
	arenas   *ast.Builder    // построитель аренных узлов
	file     ast.FileID      // текущий FileID (в AST)
	fs       *source.FileSet // нужен только для спанов/путей при надобности
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile — входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(lx.EmptySpan()),
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	p.parseItems()
	var bag *diag.Bag
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		File: p.file,
		Bag:  bag,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) at_or(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) parseItems() {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncTop()
		} else {
			p.arenas.PushItem(p.file, itemID)
		}
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lx.Peek().Span)
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
// Поддерживаем `fn`, `type`, `contract` и `impl`, каждый с опциональным `pub`.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	startSpan := p.lx.Peek().Span
	isPub := false
	if p.at(token.KwPub) {
		p.advance()
		isPub = true
	}
	switch p.lx.Peek().Kind {
	case token.KwFn:
		return p.parseFnItem(isPub, startSpan)
	case token.KwType:
		return p.parseTypeDeclItem(isPub, startSpan)
	case token.KwContract:
		return p.parseContractItem(isPub, startSpan)
	case token.KwImpl:
		if isPub {
			p.report(diag.SynUnexpectedItem, diag.SevError, startSpan, "'pub' is not allowed on impl blocks")
		}
		return p.parseImplItem()
	default:
		p.err(diag.SynUnexpectedItem, "unexpected top-level construct, got \""+p.lx.Peek().Text+"\"")
		return ast.NoItemID, false
	}
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' ИЛИ до стартового токена следующего item ИЛИ EOF.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) && !p.at(token.Semicolon) && !isItemStarter(p.lx.Peek().Kind) {
		tok := p.advance()
		if tok.Kind == token.LBrace {
			p.skipBalanced(token.LBrace, token.RBrace)
		}
	}

	// Если нашли semicolon, съедаем его
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// resyncUntil — крутим токены до любого из kinds или EOF.
// Вложенные блоки пропускаются целиком, чтобы не зацепиться за их содержимое.
func (p *Parser) resyncUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.at_or(kinds...) {
		tok := p.advance()
		if tok.Kind == token.LBrace {
			p.skipBalanced(token.LBrace, token.RBrace)
		}
	}
}

// isItemStarter — принадлежит ли токен стартерам item.
func isItemStarter(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwType, token.KwContract, token.KwImpl, token.KwPub:
		return true
	default:
		return false
	}
}

// parseIdent — утилита: ожидает Ident и интернирует его, возвращает source.StringID.
// На ошибке — репорт SynExpectIdentifier.
func (p *Parser) parseIdent() (source.StringID, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		id := p.arenas.StringsInterner.Intern(tok.Text)
		return id, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.lx.Peek().Text+"\"")
	return source.NoStringID, false
}
