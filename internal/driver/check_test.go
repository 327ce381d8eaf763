package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/testkit"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func bagSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	var lines []string
	for _, d := range bag.Items() {
		lines = append(lines, d.Code.ID()+" "+d.Message)
	}
	if len(lines) == 0 {
		return "<none>"
	}
	return strings.Join(lines, "; ")
}

func TestCheckFileClean(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.sk", "fn add(a: int, b: int) {}\n")

	res, err := CheckFile(path, Options{})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Path != path {
		t.Fatalf("Path = %q, want %q", res.Path, path)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", bagSummary(res.Bag))
	}
	if res.Builder == nil {
		t.Fatalf("expected AST builder on result")
	}
	if res.Sema == nil {
		t.Fatalf("full pipeline must produce a semantic result")
	}
	if res.Timing != nil {
		t.Fatalf("timings must stay off unless requested")
	}
}

func TestCheckFileMutableParamDiagnostic(t *testing.T) {
	path := writeSource(t, t.TempDir(), "push.sk", "fn push(mut item: int) {}\n")

	res, err := CheckFile(path, Options{})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}

	var found bool
	for _, d := range res.Bag.Items() {
		if d.Code != diag.SemaMutableParamNotAllowed {
			continue
		}
		found = true
		if d.Primary.File != res.FileID {
			t.Fatalf("diagnostic points at file %d, result is for %d", d.Primary.File, res.FileID)
		}
	}
	if !found {
		t.Fatalf("expected mutable-parameter error, got: %s", bagSummary(res.Bag))
	}
}

func TestCheckFileParseStageSkipsSema(t *testing.T) {
	// Параметр с mut дал бы семантическую ошибку, но стадия parse до неё
	// не доходит.
	path := writeSource(t, t.TempDir(), "push.sk", "fn push(mut item: int) {}\n")

	res, err := CheckFile(path, Options{Stage: StageParse})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Sema != nil {
		t.Fatalf("parse stage must not run semantic checks")
	}
	if res.Bag.HasErrors() {
		t.Fatalf("parse stage reported: %s", bagSummary(res.Bag))
	}
}

func TestCheckFileMissing(t *testing.T) {
	_, err := CheckFile(filepath.Join(t.TempDir(), "absent.sk"), Options{})
	if err == nil {
		t.Fatalf("expected load error for missing file")
	}
	if !strings.Contains(err.Error(), "absent.sk") {
		t.Fatalf("error does not name the file: %v", err)
	}
}

func TestFinishBagSeverityFilters(t *testing.T) {
	mk := func() *diag.Bag {
		bag := diag.NewBag(8)
		bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{Start: 5, End: 6}, "strange byte"))
		bag.Add(diag.New(diag.SevError, diag.SemaUnresolvedType, source.Span{Start: 1, End: 2}, "unknown type"))
		return bag
	}

	bag := mk()
	finishBag(bag, Options{IgnoreWarnings: true})
	if bag.Len() != 1 {
		t.Fatalf("after IgnoreWarnings len = %d, want 1", bag.Len())
	}
	if bag.Items()[0].Severity != diag.SevError {
		t.Fatalf("survivor severity = %v, want error", bag.Items()[0].Severity)
	}

	bag = mk()
	finishBag(bag, Options{WarningsAsErrors: true})
	if got := countErrors(bag); got != 2 {
		t.Fatalf("after WarningsAsErrors errors = %d, want 2", got)
	}
	// finishBag также сортирует: меньшее смещение первым.
	if bag.Items()[0].Primary.Start != 1 {
		t.Fatalf("bag not sorted by span, first start = %d", bag.Items()[0].Primary.Start)
	}
}

func TestCheckFileTimings(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.sk", "fn main() {}\n")

	res, err := CheckFile(path, Options{EnableTimings: true})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Timing == nil {
		t.Fatalf("expected timing report")
	}

	names := make(map[string]bool, len(res.Timing.Phases))
	for _, p := range res.Timing.Phases {
		names[p.Name] = true
	}
	for _, want := range []string{"load", "parse", "sema"} {
		if !names[want] {
			t.Fatalf("missing %q phase, got %v", want, res.Timing.Phases)
		}
	}

	var timing *diag.Diagnostic
	for i, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			timing = &res.Bag.Items()[i]
		}
	}
	if timing == nil {
		t.Fatalf("expected timings diagnostic, got: %s", bagSummary(res.Bag))
	}
	if timing.Severity != diag.SevInfo {
		t.Fatalf("timings severity = %v, want info", timing.Severity)
	}
	if len(timing.Notes) != 1 || !strings.Contains(timing.Notes[0].Msg, `"phases"`) {
		t.Fatalf("timings note is not machine readable: %+v", timing.Notes)
	}
}

func TestCheckFileAlienSyntaxHint(t *testing.T) {
	src := `trait Greeter {
    fn greet(&self) -> String;
}
`
	path := writeSource(t, t.TempDir(), "greeter.sk", src)

	res, err := CheckFile(path, Options{Stage: StageAll})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("rust-shaped file should fail to parse")
	}

	var hint *diag.Diagnostic
	for i, d := range res.Bag.Items() {
		if d.Code == diag.AlnRustSyntax {
			hint = &res.Bag.Items()[i]
		}
	}
	if hint == nil {
		t.Fatalf("expected a rust hint, got: %s", bagSummary(res.Bag))
	}
	if hint.Severity != diag.SevInfo {
		t.Fatalf("hint severity = %v, want info", hint.Severity)
	}
	if !strings.Contains(hint.Message, "rust") {
		t.Fatalf("hint message does not name the dialect: %q", hint.Message)
	}
	if len(hint.Notes) == 0 || !strings.Contains(hint.Notes[0].Msg, "contract") {
		t.Fatalf("hint should point at skarn's contract keyword: %+v", hint.Notes)
	}
}

func TestCheckFileNoHintWhenClean(t *testing.T) {
	// `trait` — законное имя параметра в skarn; на чистом файле
	// подсказка не появляется, какой бы счёт ни набрался.
	path := writeSource(t, t.TempDir(), "clean.sk", "fn describe(trait: int) {}\n")

	res, err := CheckFile(path, Options{Stage: StageAll})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("file should check clean: %s", bagSummary(res.Bag))
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.AlnRustSyntax {
			t.Fatalf("clean file received an alien-syntax hint")
		}
	}
}

func TestCheckFileSpanInvariants(t *testing.T) {
	src := `type Point { x: int, y: int }

contract Writer {
	fn write(self, data: string);
}

fn scale(p: Point, factor: int) -> Point {}
`
	path := writeSource(t, t.TempDir(), "spans.sk", src)

	res, err := CheckFile(path, Options{Stage: StageAll})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	file := res.FileSet.Get(res.FileID)
	if err := testkit.CheckSpanInvariants(res.Builder, res.ASTFile, file); err != nil {
		t.Fatalf("span invariants violated: %v", err)
	}
}
