package driver

import (
	"fmt"

	"skarn/internal/diag"
	"skarn/internal/dialect"
)

// Пороги подсказок о чужом синтаксисе: счёт языка должен дотянуть до
// своего порога и оторваться от второго места, иначе молчим.
const (
	alienRustThreshold       = 6
	alienGoThreshold         = 5
	alienTypeScriptThreshold = 5
	alienPythonThreshold     = 4
	alienDominanceMargin     = 2
)

// emitDialectHint adds one informational diagnostic when a file that
// already failed to check looks like it was written in another
// language. Files that check cleanly never get the hint, however much
// their identifiers resemble someone else's keywords.
func emitDialectHint(bag *diag.Bag, evidence *dialect.Evidence) {
	if bag == nil || evidence == nil || !bag.HasErrors() {
		return
	}
	c := (dialect.Classifier{}).Classify(evidence)
	if !dialectHintEligible(c) {
		return
	}
	hint, ok := evidence.Strongest(c.Kind)
	if !ok {
		return
	}
	code, advice := dialectAdvice(c.Kind)
	entry := diag.New(diag.SevInfo, code, hint.Span,
		fmt.Sprintf("this file looks like %s: %s", c.Kind, hint.Reason)).
		WithNote(hint.Span, advice)
	bag.Add(entry)
}

func dialectHintEligible(c dialect.Classification) bool {
	var threshold int
	switch c.Kind {
	case dialect.Rust:
		threshold = alienRustThreshold
	case dialect.Go:
		threshold = alienGoThreshold
	case dialect.TypeScript:
		threshold = alienTypeScriptThreshold
	case dialect.Python:
		threshold = alienPythonThreshold
	default:
		return false
	}
	if c.Score < threshold {
		return false
	}
	if c.RunnerUpScore > 0 && c.Score < c.RunnerUpScore+alienDominanceMargin {
		return false
	}
	return true
}

func dialectAdvice(kind dialect.Kind) (diag.Code, string) {
	switch kind {
	case dialect.Rust:
		return diag.AlnRustSyntax, "skarn declares interfaces with `contract`; macros and attributes do not exist"
	case dialect.Go:
		return diag.AlnGoSyntax, "skarn writes functions as `fn name(param: type) -> type`"
	case dialect.TypeScript:
		return diag.AlnTypeScriptSyntax, "skarn uses `contract` instead of interface/implements and `->` for return types"
	case dialect.Python:
		return diag.AlnPythonSyntax, "skarn is statically typed: every parameter and return needs a type annotation"
	}
	return diag.UnknownCode, ""
}
