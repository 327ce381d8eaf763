package diag

import (
	"skarn/internal/source"
)

// Note attaches secondary context to a diagnostic ("declared here", etc.).
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a concrete text replacement in source coordinates.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix describes one possible automated correction. Data-only: applying
// edits is up to the consumer.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
