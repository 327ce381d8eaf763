package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"skarn/internal/diag"
	"skarn/internal/source"
)

func buildTestBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fixture.sk", []byte("fn push(mut item: int) {}\n"))

	d := diag.New(
		diag.SevError,
		diag.SemaMutableParamNotAllowed,
		source.Span{File: fileID, Start: 8, End: 11},
		"mutable parameter 'item' is not supported on free functions",
	)
	d.Notes = append(d.Notes, diag.Note{
		Span: source.Span{File: fileID, Start: 3, End: 7},
		Msg:  "declared here",
	})
	d.Fixes = append(d.Fixes, diag.Fix{
		Title: "take the parameter by mutable reference",
		Edits: []diag.FixEdit{{
			Span:    source.Span{File: fileID, Start: 8, End: 11},
			NewText: "ref mut",
		}},
	})

	bag := diag.NewBag(10)
	bag.Add(d)
	bag.Add(diag.New(
		diag.SevWarning,
		diag.LexUnknownChar,
		source.Span{File: fileID, Start: 0, End: 1},
		"stray character",
	))
	return bag, fs, fileID
}

func TestBuildDiagnosticsOutput(t *testing.T) {
	bag, fs, _ := buildTestBag(t)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})

	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count: want 2, got %d (%d entries)", out.Count, len(out.Diagnostics))
	}

	first := out.Diagnostics[0]
	if first.Severity != "ERROR" || first.Code != "SEM3010" {
		t.Fatalf("first diagnostic header: %s %s", first.Severity, first.Code)
	}
	if first.Location.File != "fixture.sk" {
		t.Fatalf("location file: %q", first.Location.File)
	}
	if first.Location.StartByte != 8 || first.Location.EndByte != 11 {
		t.Fatalf("location bytes: %d..%d", first.Location.StartByte, first.Location.EndByte)
	}
	if first.Location.StartLine != 1 || first.Location.StartCol != 9 {
		t.Fatalf("location position: %d:%d", first.Location.StartLine, first.Location.StartCol)
	}

	if len(first.Notes) != 1 || first.Notes[0].Message != "declared here" {
		t.Fatalf("notes: %+v", first.Notes)
	}
	if len(first.Fixes) != 1 {
		t.Fatalf("fixes: %+v", first.Fixes)
	}
	fix := first.Fixes[0]
	if fix.Title != "take the parameter by mutable reference" {
		t.Fatalf("fix title: %q", fix.Title)
	}
	if len(fix.Edits) != 1 || fix.Edits[0].NewText != "ref mut" {
		t.Fatalf("fix edits: %+v", fix.Edits)
	}
	if len(fix.Edits[0].BeforeLines) != 0 {
		t.Fatalf("preview lines without opt-in: %+v", fix.Edits[0])
	}
}

func TestBuildDiagnosticsOutputOmissions(t *testing.T) {
	bag, fs, _ := buildTestBag(t)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})

	first := out.Diagnostics[0]
	if first.Location.StartLine != 0 || first.Location.StartCol != 0 {
		t.Fatalf("positions included without opt-in: %+v", first.Location)
	}
	if len(first.Notes) != 0 || len(first.Fixes) != 0 {
		t.Fatalf("notes/fixes included without opt-in: %+v", first)
	}
}

func TestBuildDiagnosticsOutputMax(t *testing.T) {
	bag, fs, _ := buildTestBag(t)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("truncation to Max=1 failed: count=%d", out.Count)
	}
}

func TestJSONOutputRoundTrip(t *testing.T) {
	bag, fs, _ := buildTestBag(t)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Count != 2 {
		t.Fatalf("decoded count: %d", decoded.Count)
	}

	edit := decoded.Diagnostics[0].Fixes[0].Edits[0]
	if len(edit.BeforeLines) != 1 || edit.BeforeLines[0] != "fn push(mut item: int) {}" {
		t.Fatalf("before preview: %+v", edit.BeforeLines)
	}
	if len(edit.AfterLines) != 1 || edit.AfterLines[0] != "fn push(ref mut item: int) {}" {
		t.Fatalf("after preview: %+v", edit.AfterLines)
	}
}
