package sema

import (
	"fmt"
	"strings"
	"testing"

	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/lexer"
	"skarn/internal/parser"
	"skarn/internal/source"
	"skarn/internal/symbols"
)

// checkSource runs the front half of the pipeline on one virtual file and
// returns the semantic result plus every collected diagnostic, parser ones
// included.
func checkSource(t *testing.T, input string) (Result, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sk", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	parsed := parser.ParseFile(fs, lx, builder, parser.Options{MaxErrors: 100, Reporter: reporter})

	res := Check(builder, parsed.File, Options{
		Reporter:   reporter,
		SourceFile: fileID,
	})
	return res, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasDiagnostic(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func countErrors(bag *diag.Bag) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}

func mustNoErrors(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if countErrors(bag) != 0 {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(bag))
	}
}

// fnByName returns the first checked signature with the given name.
func fnByName(t *testing.T, res Result, name string) FnSig {
	t.Helper()
	nameID := res.Symbols.Strings.Intern(name)
	for _, sig := range res.Fns {
		if sig.Name == nameID {
			return sig
		}
	}
	t.Fatalf("no checked signature named %q (have %d signatures)", name, len(res.Fns))
	return FnSig{}
}

// symbolByName scans the whole table for the newest symbol with the given
// name and kind.
func symbolByName(res Result, name string, kind symbols.SymbolKind) (symbols.Symbol, bool) {
	nameID := res.Symbols.Strings.Intern(name)
	data := res.Symbols.Symbols.Data()
	for i := len(data) - 1; i >= 0; i-- {
		if data[i].Name == nameID && data[i].Kind == kind {
			return data[i], true
		}
	}
	return symbols.Symbol{}, false
}

// functionScopes collects every signature scope in creation order.
func functionScopes(res Result) []symbols.Scope {
	var out []symbols.Scope
	for _, sc := range res.Symbols.Scopes.Data() {
		if sc.Kind == symbols.ScopeFunction {
			out = append(out, sc)
		}
	}
	return out
}
