// Package fix applies the edits attached to diagnostics back to the
// source files they came from. The engine is deliberately dumb: it
// trusts the spans the checker produced and only refuses edits that
// overlap each other or fall outside the file.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"skarn/internal/diag"
	"skarn/internal/source"
)

// ErrNoFixes is returned when none of the diagnostics carry an edit.
var ErrNoFixes = errors.New("no applicable fixes")

// ApplyMode selects how many fixes a single run applies.
type ApplyMode uint8

const (
	// ApplyModeOnce applies only the first applicable fix. Useful when
	// later diagnostics may be stale after the first edit.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every fix that does not conflict with an
	// already applied one.
	ApplyModeAll
)

// ApplyOptions configures a fix run.
type ApplyOptions struct {
	Mode ApplyMode
	// DryRun stages everything in memory and reports what would change
	// without touching the disk.
	DryRun bool
}

// AppliedFix describes one fix that made it into a file.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	Path      string
	EditCount int
}

// SkippedFix describes a fix the engine refused, with the reason.
type SkippedFix struct {
	Title  string
	Reason string
}

// FileChange is the per-file summary of a run.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult is what a fix run did (or, under DryRun, would do).
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// candidate is one fix waiting its turn, paired with the diagnostic
// that proposed it and its position in the input for stable ordering.
type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// appliedEdit remembers an edit in original-file coordinates together
// with how much it grew or shrank the buffer.
type appliedEdit struct {
	start uint32
	end   uint32
	delta int
}

// fileState is the staged content of one file mid-run.
type fileState struct {
	file    *source.File
	buf     []byte
	applied []appliedEdit // sorted by start
	edits   int
}

// Apply collects the fixes attached to diagnostics, applies the
// selected ones to staged copies of their files and writes the copies
// back. Diagnostics without fixes are ignored; ErrNoFixes is returned
// when nothing at all was applicable.
func Apply(fileSet *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	if fileSet == nil {
		return nil, errors.New("fix: nil file set")
	}

	candidates := gatherCandidates(diagnostics)
	if len(candidates) == 0 {
		return nil, ErrNoFixes
	}
	sortCandidates(candidates)

	result := &ApplyResult{}
	states := make(map[source.FileID]*fileState)

	for _, cand := range candidates {
		if reason := stageCandidate(fileSet, states, cand); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{
				Title:  cand.fix.Title,
				Reason: reason,
			})
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.diag.Code,
			Message:   cand.diag.Message,
			Path:      pathForSpan(fileSet, cand.diag.Primary),
			EditCount: len(cand.fix.Edits),
		})
		if opts.Mode == ApplyModeOnce {
			break
		}
	}

	if len(result.Applied) == 0 {
		if len(result.Skipped) > 0 {
			return result, nil
		}
		return nil, ErrNoFixes
	}

	for _, state := range states {
		if state.edits == 0 {
			continue
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      state.file.Path,
			EditCount: state.edits,
		})
		if opts.DryRun {
			continue
		}
		if err := writeStaged(state); err != nil {
			return result, err
		}
	}
	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	return result, nil
}

// gatherCandidates flattens diagnostics into one candidate per fix,
// dropping fixes that carry no edits.
func gatherCandidates(diagnostics []diag.Diagnostic) []candidate {
	var out []candidate
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			out = append(out, candidate{diag: d, fix: f, order: len(out)})
		}
	}
	return out
}

// sortCandidates orders fixes by position so a run walks files top to
// bottom. Порядок детерминирован: при равных спанах решает порядок
// появления во входе.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.diag.Primary.File != b.diag.Primary.File {
			return a.diag.Primary.File < b.diag.Primary.File
		}
		if a.diag.Primary.Start != b.diag.Primary.Start {
			return a.diag.Primary.Start < b.diag.Primary.Start
		}
		if a.diag.Primary.End != b.diag.Primary.End {
			return a.diag.Primary.End < b.diag.Primary.End
		}
		return a.order < b.order
	})
}

// stageCandidate validates every edit of the candidate and, when all
// of them are admissible, splices them into the staged buffers. A
// candidate is atomic: one bad edit skips the whole fix. The returned
// string is the skip reason, empty on success.
func stageCandidate(fileSet *source.FileSet, states map[source.FileID]*fileState, cand candidate) string {
	edits := make([]diag.FixEdit, len(cand.fix.Edits))
	copy(edits, cand.fix.Edits)
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.File != edits[j].Span.File {
			return edits[i].Span.File < edits[j].Span.File
		}
		return edits[i].Span.Start < edits[j].Span.Start
	})

	// Validation pass: nothing is spliced until every edit checks out.
	var (
		prevFile   source.FileID
		prevMaxEnd uint32
		havePrev   bool
	)
	for _, edit := range edits {
		sp := edit.Span
		if sp.End < sp.Start {
			return fmt.Sprintf("edit span is inverted (%d..%d)", sp.Start, sp.End)
		}
		state, reason := ensureState(fileSet, states, sp.File)
		if reason != "" {
			return reason
		}
		if uint64(sp.End) > uint64(len(state.file.Content)) {
			return fmt.Sprintf("edit span %d..%d is outside %s", sp.Start, sp.End, state.file.Path)
		}
		for _, prev := range state.applied {
			if spansConflict(sp.Start, sp.End, prev.start, prev.end) {
				return "conflicts with an already applied fix"
			}
		}
		if havePrev && prevFile == sp.File && sp.Start < prevMaxEnd {
			return "fix edits overlap each other"
		}
		if !havePrev || prevFile != sp.File || sp.End > prevMaxEnd {
			prevMaxEnd = sp.End
		}
		prevFile = sp.File
		havePrev = true
	}

	// Splice back to front so earlier offsets in the same file stay
	// valid while we work.
	for i := len(edits) - 1; i >= 0; i-- {
		edit := edits[i]
		state := states[edit.Span.File]
		delta := cumulativeDelta(state.applied, edit.Span.Start)
		start := int(edit.Span.Start) + delta
		end := int(edit.Span.End) + delta

		buf := make([]byte, 0, len(state.buf)+len(edit.NewText)-(end-start))
		buf = append(buf, state.buf[:start]...)
		buf = append(buf, edit.NewText...)
		buf = append(buf, state.buf[end:]...)
		state.buf = buf

		state.applied = insertEditSorted(state.applied, appliedEdit{
			start: edit.Span.Start,
			end:   edit.Span.End,
			delta: len(edit.NewText) - int(edit.Span.End-edit.Span.Start),
		})
		state.edits++
	}
	return ""
}

// ensureState lazily stages the file an edit points at, refusing files
// the engine cannot write back.
func ensureState(fileSet *source.FileSet, states map[source.FileID]*fileState, id source.FileID) (*fileState, string) {
	if state, ok := states[id]; ok {
		return state, ""
	}
	if int(id) >= fileSet.Len() {
		return nil, fmt.Sprintf("edit points at unknown file %d", id)
	}
	file := fileSet.Get(id)
	if file.Flags&source.FileVirtual != 0 {
		return nil, "target file is virtual"
	}
	state := &fileState{
		file: file,
		buf:  append([]byte(nil), file.Content...),
	}
	states[id] = state
	return state, ""
}

// spansConflict reports whether two half-open byte ranges overlap.
// Touching ranges (end == start) do not conflict.
func spansConflict(aStart, aEnd, bStart, bEnd uint32) bool {
	return aStart < bEnd && bStart < aEnd
}

// cumulativeDelta sums the size changes of applied edits that end at
// or before offset, translating an original-file offset into the
// staged buffer.
func cumulativeDelta(applied []appliedEdit, offset uint32) int {
	delta := 0
	for _, e := range applied {
		if e.end <= offset {
			delta += e.delta
		}
	}
	return delta
}

// insertEditSorted keeps the applied list ordered by start offset.
func insertEditSorted(applied []appliedEdit, edit appliedEdit) []appliedEdit {
	pos := sort.Search(len(applied), func(i int) bool {
		return applied[i].start >= edit.start
	})
	applied = append(applied, appliedEdit{})
	copy(applied[pos+1:], applied[pos:])
	applied[pos] = edit
	return applied
}

// writeStaged flushes one staged buffer to disk, preserving the file's
// permission bits when it can read them.
func writeStaged(state *fileState) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(state.file.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(state.file.Path, state.buf, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", state.file.Path, err)
	}
	return nil
}

// pathForSpan resolves the file behind a span for reporting. Unknown
// files render as a placeholder instead of panicking.
func pathForSpan(fileSet *source.FileSet, sp source.Span) string {
	if int(sp.File) >= fileSet.Len() {
		return fmt.Sprintf("<file %d>", sp.File)
	}
	return fileSet.Get(sp.File).Path
}
