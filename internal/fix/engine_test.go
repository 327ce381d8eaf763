package fix

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skarn/internal/diag"
	"skarn/internal/source"
)

// stageFile writes content into dir and loads it into the file set.
func stageFile(t *testing.T, fs *source.FileSet, dir, name, content string) (source.FileID, string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return id, path
}

func mutFix(file source.FileID, start, end uint32) diag.Diagnostic {
	return diag.NewError(diag.SemaMutableParamNotAllowed,
		source.Span{File: file, Start: start, End: end},
		"parameter cannot be declared `mut` by value").
		WithFix("take the parameter by mutable reference",
			diag.FixEdit{Span: source.Span{File: file, Start: start, End: end}, NewText: "ref mut"})
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back %s: %v", path, err)
	}
	return string(data)
}

func TestApplyReplacesMutParam(t *testing.T) {
	fs := source.NewFileSet()
	id, path := stageFile(t, fs, t.TempDir(), "push.sk", "fn push(mut item: int) {}\n")

	res, err := Apply(fs, []diag.Diagnostic{mutFix(id, 8, 11)}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 0 {
		t.Fatalf("expected 1 applied, 0 skipped, got %d/%d", len(res.Applied), len(res.Skipped))
	}
	if res.Applied[0].Title != "take the parameter by mutable reference" {
		t.Fatalf("unexpected title %q", res.Applied[0].Title)
	}
	if res.Applied[0].Path != path {
		t.Fatalf("applied path = %q, want %q", res.Applied[0].Path, path)
	}
	if got, want := readBack(t, path), "fn push(ref mut item: int) {}\n"; got != want {
		t.Fatalf("file after fix = %q, want %q", got, want)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 1 {
		t.Fatalf("unexpected file changes: %+v", res.FileChanges)
	}
}

func TestApplyAdjustsLaterOffsets(t *testing.T) {
	fs := source.NewFileSet()
	id, path := stageFile(t, fs, t.TempDir(), "two.sk", "fn f(mut a: int, mut b: int) {}\n")

	diags := []diag.Diagnostic{
		mutFix(id, 5, 8),
		mutFix(id, 17, 20),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("expected both fixes applied, got %d (skipped %d)", len(res.Applied), len(res.Skipped))
	}
	want := "fn f(ref mut a: int, ref mut b: int) {}\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("file after fixes = %q, want %q", got, want)
	}
}

func TestApplyOnceStopsAfterFirst(t *testing.T) {
	fs := source.NewFileSet()
	id, path := stageFile(t, fs, t.TempDir(), "two.sk", "fn f(mut a: int, mut b: int) {}\n")

	diags := []diag.Diagnostic{
		mutFix(id, 17, 20), // input order must not matter
		mutFix(id, 5, 8),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("expected exactly one applied fix, got %d", len(res.Applied))
	}
	// Candidates are walked top to bottom, so the earlier span wins.
	want := "fn f(ref mut a: int, mut b: int) {}\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("file after fix = %q, want %q", got, want)
	}
}

func TestApplySkipsConflictingFix(t *testing.T) {
	fs := source.NewFileSet()
	id, path := stageFile(t, fs, t.TempDir(), "clash.sk", "fn f(mut a: int) {}\n")

	first := mutFix(id, 5, 8)
	second := diag.NewError(diag.SemaMutableParamNotAllowed,
		source.Span{File: id, Start: 5, End: 10},
		"parameter cannot be declared `mut` by value").
		WithFix("rewrite the binding",
			diag.FixEdit{Span: source.Span{File: id, Start: 5, End: 10}, NewText: "ref mut a"})

	res, err := Apply(fs, []diag.Diagnostic{first, second}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("expected 1 applied + 1 skipped, got %d/%d", len(res.Applied), len(res.Skipped))
	}
	if !strings.Contains(res.Skipped[0].Reason, "conflicts") {
		t.Fatalf("unexpected skip reason %q", res.Skipped[0].Reason)
	}
	if got, want := readBack(t, path), "fn f(ref mut a: int) {}\n"; got != want {
		t.Fatalf("file after fix = %q, want %q", got, want)
	}
}

func TestApplyMultiEditFixIsAtomic(t *testing.T) {
	fs := source.NewFileSet()
	id, path := stageFile(t, fs, t.TempDir(), "atomic.sk", "fn f(mut a: int) {}\n")
	before := readBack(t, path)

	bad := diag.NewError(diag.SemaMutableParamNotAllowed,
		source.Span{File: id, Start: 5, End: 8}, "parameter cannot be declared `mut` by value").
		WithFix("broken fix",
			diag.FixEdit{Span: source.Span{File: id, Start: 5, End: 8}, NewText: "ref mut"},
			diag.FixEdit{Span: source.Span{File: id, Start: 400, End: 500}, NewText: "x"})

	res, err := Apply(fs, []diag.Diagnostic{bad}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 0 || len(res.Skipped) != 1 {
		t.Fatalf("expected the whole fix skipped, got %d applied", len(res.Applied))
	}
	if !strings.Contains(res.Skipped[0].Reason, "outside") {
		t.Fatalf("unexpected skip reason %q", res.Skipped[0].Reason)
	}
	if got := readBack(t, path); got != before {
		t.Fatalf("file changed despite skipped fix: %q", got)
	}
}

func TestApplyVirtualFileSkipped(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("snippet.sk", []byte("fn f(mut a: int) {}\n"))

	res, err := Apply(fs, []diag.Diagnostic{mutFix(id, 5, 8)}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 0 || len(res.Skipped) != 1 {
		t.Fatalf("expected only a skip, got %d applied", len(res.Applied))
	}
	if res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected skip reason %q", res.Skipped[0].Reason)
	}
}

func TestApplyDryRunKeepsDisk(t *testing.T) {
	fs := source.NewFileSet()
	id, path := stageFile(t, fs, t.TempDir(), "dry.sk", "fn push(mut item: int) {}\n")
	before := readBack(t, path)

	res, err := Apply(fs, []diag.Diagnostic{mutFix(id, 8, 11)}, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.FileChanges) != 1 {
		t.Fatalf("dry run should still report work: %+v", res)
	}
	if got := readBack(t, path); got != before {
		t.Fatalf("dry run modified the file: %q", got)
	}
}

func TestApplyNoFixes(t *testing.T) {
	fs := source.NewFileSet()
	id, _ := stageFile(t, fs, t.TempDir(), "plain.sk", "fn f(a: int) {}\n")

	plain := diag.NewError(diag.SemaUnresolvedType,
		source.Span{File: id, Start: 0, End: 2}, "unknown type `Foo`")
	_, err := Apply(fs, []diag.Diagnostic{plain}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestSpansConflict(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd uint32
		want                       bool
	}{
		{"disjoint", 0, 3, 5, 8, false},
		{"touching", 0, 3, 3, 6, false},
		{"overlap", 0, 5, 3, 8, true},
		{"contained", 0, 10, 2, 4, true},
		{"identical", 2, 6, 2, 6, true},
		{"insertion inside", 2, 6, 4, 4, true},
		{"insertion at edge", 2, 6, 6, 6, false},
	}
	for _, tc := range cases {
		if got := spansConflict(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: spansConflict = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCumulativeDelta(t *testing.T) {
	applied := []appliedEdit{
		{start: 0, end: 3, delta: 4},
		{start: 10, end: 12, delta: -1},
	}
	if got := cumulativeDelta(applied, 5); got != 4 {
		t.Fatalf("delta before second edit = %d, want 4", got)
	}
	if got := cumulativeDelta(applied, 20); got != 3 {
		t.Fatalf("delta after both edits = %d, want 3", got)
	}
	if got := cumulativeDelta(applied, 0); got != 0 {
		t.Fatalf("delta before everything = %d, want 0", got)
	}
}
