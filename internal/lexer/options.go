package lexer

import (
	"skarn/internal/diag"
	"skarn/internal/dialect"
	"skarn/internal/source"
)

// Options configures a Lexer instance.
type Options struct {
	// Reporter может быть nil — тогда ошибки игнорируем (но продолжаем лексить).
	Reporter diag.Reporter
	// DialectEvidence, when non-nil, passively collects foreign-syntax
	// signals from the token stream. Никогда не влияет на сами токены.
	DialectEvidence *dialect.Evidence
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
