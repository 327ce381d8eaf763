package diagfmt

import (
	"fmt"
	"io"

	"skarn/internal/diag"
	"skarn/internal/source"
)

// Short renders one line per diagnostic in a stable order. The format
// matches golden-test output, so CI logs diff cleanly between runs.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
