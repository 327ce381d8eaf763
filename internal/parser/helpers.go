package parser

import (
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan — возвращает лучший span для диагностики
// Если текущий токен EOF или Invalid с нулевой длиной, используем позицию после lastSpan
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if (peek.Kind == token.EOF || peek.Kind == token.Invalid) && peek.Span.Start == peek.Span.End && peek.Span.Start == 0 {
		if p.lastSpan.End > 0 {
			return source.Span{
				File:  p.lastSpan.File,
				Start: p.lastSpan.End,
				End:   p.lastSpan.End,
			}
		}
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// err репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false // нет reporter - ничего не записали
	}
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// emitDiagnostic — как report, но с notes/fixes через ReportBuilder.
func (p *Parser) emitDiagnostic(code diag.Code, sev diag.Severity, sp source.Span, msg string, configure func(*diag.ReportBuilder)) bool {
	if p.opts.Reporter == nil || p.opts.Enough() {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	b := diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg)
	if configure != nil {
		configure(b)
	}
	b.Emit()
	return true
}

// skipBalanced — съедает токены до закрывающего парного разделителя.
// Открывающий уже съеден. Строки лексер отдаёт одним токеном, так что
// скобки внутри литералов сюда не попадают.
// Возвращает false, если до EOF закрывающий так и не встретился.
func (p *Parser) skipBalanced(open, close token.Kind) bool {
	depth := 1
	for depth > 0 {
		if p.at(token.EOF) {
			return false
		}
		tok := p.advance()
		switch tok.Kind {
		case open:
			depth++
		case close:
			depth--
		}
	}
	return true
}
