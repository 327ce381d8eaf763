// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: severity, a compact numeric Code with a
// stable string form, a human-oriented message, the primary source.Span, and
// optional notes and fix suggestions. Notes add new context ("declared
// here") rather than repeating the message; fixes are data-only text edits
// that the CLI may render but never applies on its own.
//
// Phases emit through a Reporter so that storage stays decoupled: the lexer,
// parser and semantic passes construct a ReportBuilder (ReportError /
// ReportWarning / ReportInfo), chain WithNote / WithFix, and call Emit.
// BagReporter aggregates into a Bag, which supports sorting, deduplication
// and merging; DedupReporter filters repeats before they reach storage.
//
// Resolution failures are accumulated, never fatal: a phase reports and
// continues with a recovery value. The Bag caps growth at its configured
// maximum so a degenerate input cannot flood memory.
//
// Rendering is out of scope here and lives in internal/diagfmt.
package diag
