package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerAddMergesByName(t *testing.T) {
	tm := NewTimer()
	tm.Add("lex", 2*time.Millisecond)
	tm.Add("sema", 5*time.Millisecond)
	tm.Add("lex", 3*time.Millisecond)

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 merged phases, got %d", len(report.Phases))
	}
	lex := report.Phases[0]
	if lex.Name != "lex" || lex.Files != 2 {
		t.Fatalf("lex phase: name=%q files=%d", lex.Name, lex.Files)
	}
	if lex.DurationMS != 5.0 {
		t.Fatalf("lex duration: want 5.00 ms, got %.2f", lex.DurationMS)
	}
	if report.TotalMS != 10.0 {
		t.Fatalf("total: want 10.00 ms, got %.2f", report.TotalMS)
	}
}

func TestTimerSummaryShowsFileCounts(t *testing.T) {
	tm := NewTimer()
	tm.Add("parse", time.Millisecond)
	tm.Add("parse", time.Millisecond)
	tm.Add("parse", time.Millisecond)

	out := tm.Summary()
	if !strings.Contains(out, "parse") || !strings.Contains(out, "(3 files)") {
		t.Fatalf("summary missing merged parse line:\n%s", out)
	}
	if !strings.Contains(out, "total") {
		t.Fatalf("summary missing total line:\n%s", out)
	}
}

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("sema")
	tm.End(idx)

	report := tm.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("expected 1 phase, got %d", len(report.Phases))
	}
	if report.Phases[0].DurationMS < 0 {
		t.Fatalf("negative duration: %.2f", report.Phases[0].DurationMS)
	}

	// Индекс вне диапазона игнорируется, как и у других арен.
	tm.End(42)
	tm.End(-1)
}
